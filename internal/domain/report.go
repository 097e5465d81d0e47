package domain

import "time"

// FinalReport is the terminal artifact of one pipeline run. It is always
// produced for any input-data problem; only fatal configuration errors abort
// a run without a report.
type FinalReport struct {
	ScriptID             string               `json:"script_id"`
	Emotional            EmotionalAnalysis    `json:"emotional"`
	Technical            TechnicalAnalysis    `json:"technical"`
	Elements             []ProductionElement  `json:"elements"`
	BreakdownSheets      []BreakdownSheet     `json:"breakdown_sheets"`
	ConflictsDetected    []Conflict           `json:"conflicts_detected"`
	DecisionsMade        []SupervisorDecision `json:"decisions_made"`
	OverallConfidence    float64              `json:"overall_confidence"`
	ExtractionConfidence float64              `json:"extraction_confidence"`
	HumanReviewRequired  bool                 `json:"human_review_required"`
	CriticalIssues       []string             `json:"critical_issues"`
	ProcessingTimeMs     int64                `json:"processing_time_ms"`
	GeneratedAt          time.Time            `json:"generated_at"`
}
