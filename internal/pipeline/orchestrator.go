// Package pipeline orchestrates the breakdown state machine: emotional and
// technical readings, local classification, supervision, and the final
// report. Collaborator failures degrade to deterministic local fallbacks;
// only configuration errors abort a run.
package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jonesrussell/script-breakdown/internal/analysis"
	"github.com/jonesrussell/script-breakdown/internal/breakdown"
	"github.com/jonesrussell/script-breakdown/internal/classifier"
	"github.com/jonesrussell/script-breakdown/internal/conflict"
	"github.com/jonesrussell/script-breakdown/internal/domain"
	"github.com/jonesrussell/script-breakdown/internal/logging"
	"github.com/jonesrussell/script-breakdown/internal/report"
	"github.com/jonesrussell/script-breakdown/internal/supervisor"
	"github.com/jonesrussell/script-breakdown/internal/telemetry"
)

// Pipeline stage names, used in logs and metrics.
const (
	stageEmotional   = "emotional"
	stageTechnical   = "technical"
	stageBreakdown   = "breakdown"
	stageSupervision = "supervision"
)

// Collaborator is the narrative/technical analysis dependency. Satisfied by
// *analysis.Client; tests substitute stubs.
type Collaborator interface {
	Run(ctx context.Context, text, taskType string, taskContext map[string]any) (json.RawMessage, error)
}

// Orchestrator drives one script at a time through the pipeline. Instances
// are safe for concurrent use: all per-run state lives in local variables and
// the supervisor session.
type Orchestrator struct {
	engine       *classifier.Engine
	aggregator   *breakdown.Aggregator
	detector     *conflict.Detector
	supervisor   *supervisor.Supervisor
	builder      *report.Builder
	collaborator Collaborator
	logger       logging.Logger
	telemetry    *telemetry.Provider
}

// Deps collects the orchestrator's dependencies.
type Deps struct {
	Engine       *classifier.Engine
	Aggregator   *breakdown.Aggregator
	Detector     *conflict.Detector
	Supervisor   *supervisor.Supervisor
	Builder      *report.Builder
	Collaborator Collaborator
	Logger       logging.Logger
	Telemetry    *telemetry.Provider
}

// New creates a pipeline orchestrator.
func New(deps Deps) *Orchestrator {
	return &Orchestrator{
		engine:       deps.Engine,
		aggregator:   deps.Aggregator,
		detector:     deps.Detector,
		supervisor:   deps.Supervisor,
		builder:      deps.Builder,
		collaborator: deps.Collaborator,
		logger:       deps.Logger,
		telemetry:    deps.Telemetry,
	}
}

// Process runs the full pipeline for one script and always returns a final
// report for input-data problems; an error return means a fatal
// configuration problem and no report.
func (o *Orchestrator) Process(ctx context.Context, scriptID, text string) (*domain.FinalReport, error) {
	started := time.Now()
	logger := o.logger.With(logging.String("script_id", scriptID))

	if o.telemetry != nil {
		var span trace.Span
		ctx, span = o.telemetry.StartSpan(ctx, "pipeline.process",
			attribute.String("script_id", scriptID))
		defer span.End()
	}

	degenerate := strings.TrimSpace(text) == ""
	if degenerate {
		logger.Warn("degenerate input, producing empty report")
	}

	emotional := o.runEmotional(ctx, logger, text, degenerate)
	technical := o.runTechnical(ctx, logger, text, degenerate)
	elements, sheets := o.runBreakdown(ctx, logger, scriptID, text, degenerate)

	decisions, conflicts, err := o.runSupervision(logger, emotional, technical, elements)
	if err != nil {
		if o.telemetry != nil {
			o.telemetry.RecordScriptFailed(stageSupervision)
		}
		return nil, err
	}

	rep := o.builder.Build(report.Inputs{
		ScriptID:  scriptID,
		Emotional: emotional,
		Technical: technical,
		Elements:  elements,
		Sheets:    sheets,
		Conflicts: conflicts,
		Decisions: decisions,
		Started:   started,
	})
	if degenerate {
		rep.ExtractionConfidence = 0
	}

	if o.telemetry != nil {
		o.telemetry.RecordScriptProcessed(rep.HumanReviewRequired, time.Since(started))
		if rep.HumanReviewRequired {
			o.telemetry.RecordHumanReview()
		}
	}
	logger.Info("script processed",
		logging.Int("elements", len(rep.Elements)),
		logging.Int("conflicts", len(rep.ConflictsDetected)),
		logging.Float64("overall_confidence", rep.OverallConfidence),
		logging.Bool("human_review_required", rep.HumanReviewRequired),
		logging.Int64("duration_ms", time.Since(started).Milliseconds()),
	)
	return rep, nil
}

func (o *Orchestrator) runEmotional(ctx context.Context, logger logging.Logger, text string, degenerate bool) *domain.EmotionalAnalysis {
	start := time.Now()
	defer o.recordStage(stageEmotional, start)

	if !degenerate && o.collaborator != nil {
		raw, err := o.callCollaborator(ctx, stageEmotional, text, analysis.TaskEmotional)
		if err == nil {
			parsed, perr := analysis.ParseEmotional(raw)
			if perr == nil {
				return parsed
			}
			err = perr
		}
		logger.Warn("emotional stage falling back", logging.Error(err))
	}

	o.recordFallback(stageEmotional)
	return emotionalFallback(text)
}

func (o *Orchestrator) runTechnical(ctx context.Context, logger logging.Logger, text string, degenerate bool) *domain.TechnicalAnalysis {
	start := time.Now()
	defer o.recordStage(stageTechnical, start)

	if !degenerate && o.collaborator != nil {
		raw, err := o.callCollaborator(ctx, stageTechnical, text, analysis.TaskTechnical)
		if err == nil {
			parsed, perr := analysis.ParseTechnical(raw)
			if perr == nil {
				return parsed
			}
			err = perr
		}
		logger.Warn("technical stage falling back", logging.Error(err))
	}

	o.recordFallback(stageTechnical)
	return technicalFallback(text)
}

func (o *Orchestrator) runBreakdown(ctx context.Context, logger logging.Logger, scriptID, text string, degenerate bool) ([]domain.ProductionElement, []domain.BreakdownSheet) {
	start := time.Now()
	defer o.recordStage(stageBreakdown, start)

	hints := breakdownFallback()
	if !degenerate && o.collaborator != nil {
		raw, err := o.callCollaborator(ctx, stageBreakdown, text, analysis.TaskBreakdown)
		if err == nil {
			if parsed, perr := analysis.ParseBreakdown(raw); perr == nil {
				hints = parsed
			} else {
				logger.Warn("breakdown hints unavailable", logging.Error(perr))
				o.recordFallback(stageBreakdown)
			}
		} else {
			logger.Warn("breakdown hints unavailable", logging.Error(err))
			o.recordFallback(stageBreakdown)
		}
	} else {
		o.recordFallback(stageBreakdown)
	}

	elements := o.engine.ClassifyScript(ctx, text, scriptID, hints)
	sheets := o.aggregator.BuildSheets(elements)
	return elements, sheets
}

// runSupervision requires the outputs of all prior stages and cannot fall
// back: its failures are configuration errors and abort the run.
func (o *Orchestrator) runSupervision(logger logging.Logger, emotional *domain.EmotionalAnalysis, technical *domain.TechnicalAnalysis, elements []domain.ProductionElement) ([]domain.SupervisorDecision, []domain.Conflict, error) {
	start := time.Now()
	defer o.recordStage(stageSupervision, start)

	if o.supervisor == nil {
		return nil, nil, supervisor.ErrInvalidRules
	}

	conflicts := o.detector.Detect(emotional, technical, elements)
	session := o.supervisor.NewSession()
	decisions := session.ResolveAll(conflicts)

	logger.Debug("supervision complete",
		logging.Int("conflicts", len(conflicts)),
		logging.Int("decisions", len(decisions)),
	)
	return decisions, conflicts, nil
}

// callCollaborator runs one collaborator task and records the round trip.
func (o *Orchestrator) callCollaborator(ctx context.Context, stage, text, taskType string) (json.RawMessage, error) {
	start := time.Now()
	raw, err := o.collaborator.Run(ctx, text, taskType, nil)
	if o.telemetry != nil {
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		o.telemetry.RecordCollaboratorCall(stage, outcome, time.Since(start))
	}
	return raw, err
}

func (o *Orchestrator) recordStage(stage string, start time.Time) {
	if o.telemetry != nil {
		o.telemetry.RecordStage(stage, time.Since(start))
	}
}

func (o *Orchestrator) recordFallback(stage string) {
	if o.telemetry != nil {
		o.telemetry.RecordFallback(stage)
	}
}
