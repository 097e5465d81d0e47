package report

import (
	"time"

	"github.com/jonesrussell/script-breakdown/internal/domain"
)

// Builder assembles final reports with a configurable review threshold.
type Builder struct {
	humanReviewThreshold float64
}

// NewBuilder creates a report builder. A non-positive threshold falls back to
// the default.
func NewBuilder(humanReviewThreshold float64) *Builder {
	if humanReviewThreshold <= 0 {
		humanReviewThreshold = DefaultHumanReviewThreshold
	}
	return &Builder{humanReviewThreshold: humanReviewThreshold}
}

// Inputs carries everything a finished pipeline run produced.
type Inputs struct {
	ScriptID  string
	Emotional *domain.EmotionalAnalysis
	Technical *domain.TechnicalAnalysis
	Elements  []domain.ProductionElement
	Sheets    []domain.BreakdownSheet
	Conflicts []domain.Conflict
	Decisions []domain.SupervisorDecision
	Started   time.Time
}

// Build derives the confidence scores and review flags and returns the
// final report. All slice fields are non-nil in the result so serialization
// always emits them.
func (b *Builder) Build(in Inputs) *domain.FinalReport {
	overall := OverallConfidence(in.Emotional, in.Technical, in.Elements, in.Decisions)
	issues := CriticalIssues(in.Decisions)

	report := &domain.FinalReport{
		ScriptID:             in.ScriptID,
		Elements:             in.Elements,
		BreakdownSheets:      in.Sheets,
		ConflictsDetected:    in.Conflicts,
		DecisionsMade:        in.Decisions,
		OverallConfidence:    overall,
		ExtractionConfidence: ExtractionConfidence(in.Elements),
		HumanReviewRequired:  HumanReviewRequired(overall, b.humanReviewThreshold, in.Decisions, issues),
		CriticalIssues:       issues,
		ProcessingTimeMs:     time.Since(in.Started).Milliseconds(),
		GeneratedAt:          time.Now().UTC(),
	}

	if in.Emotional != nil {
		report.Emotional = *in.Emotional
	}
	if in.Technical != nil {
		report.Technical = *in.Technical
	}
	if report.Elements == nil {
		report.Elements = []domain.ProductionElement{}
	}
	if report.BreakdownSheets == nil {
		report.BreakdownSheets = []domain.BreakdownSheet{}
	}
	if report.ConflictsDetected == nil {
		report.ConflictsDetected = []domain.Conflict{}
	}
	if report.DecisionsMade == nil {
		report.DecisionsMade = []domain.SupervisorDecision{}
	}

	return report
}
