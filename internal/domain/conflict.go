package domain

// ConflictType classifies a detected disagreement between analysis stages.
type ConflictType string

// Conflict types raised by the detector.
const (
	ConflictClassification  ConflictType = "classification_conflict"
	ConflictMissingElements ConflictType = "missing_elements"
	ConflictQualityIssue    ConflictType = "quality_issue"
	ConflictInconsistency   ConflictType = "inconsistency"
)

// Severity grades how serious a conflict is.
type Severity string

// Conflict severities.
const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Stage names used in Conflict.AgentsInvolved.
const (
	StageEmotional = "emotional"
	StageTechnical = "technical"
	StageBreakdown = "breakdown"
)

// Conflict is a detected disagreement or quality issue between the outputs of
// different analysis stages. Each conflict is consumed exactly once by the
// supervisor within a pipeline run.
type Conflict struct {
	ConflictID     string         `json:"conflict_id"`
	Type           ConflictType   `json:"type"`
	Severity       Severity       `json:"severity"`
	Description    string         `json:"description"`
	AgentsInvolved []string       `json:"agents_involved"`
	Evidence       map[string]any `json:"evidence"`
}

// Resolution is the action a supervisor decision takes on a conflict.
type Resolution string

// Supervisor resolutions.
const (
	ResolutionPreferOriginal Resolution = "prefer_original_text"
	ResolutionMergeResults   Resolution = "merge_results"
	ResolutionHumanReview    Resolution = "request_human_review"
	ResolutionEscalate       Resolution = "escalate"
)

// SupervisorDecision resolves exactly one conflict. Decisions live in a
// per-run history keyed by conflict id, never in process-wide state.
type SupervisorDecision struct {
	ConflictID     string         `json:"conflict_id"`
	AgentsInvolved []string       `json:"agents_involved"`
	ConflictType   ConflictType   `json:"conflict_type"`
	Resolution     Resolution     `json:"resolution"`
	FinalDecision  map[string]any `json:"final_decision"`
	Confidence     float64        `json:"confidence"`
	Reasoning      []string       `json:"reasoning"`
}
