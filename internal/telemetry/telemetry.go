// Package telemetry provides OpenTelemetry instrumentation for the breakdown
// service. It exports Prometheus metrics and provides tracing capabilities.
package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "script-breakdown"

// Metrics holds all breakdown Prometheus metrics
type Metrics struct {
	// Pipeline metrics
	ScriptsProcessed  *prometheus.CounterVec
	ScriptsFailed     *prometheus.CounterVec
	StageDuration     *prometheus.HistogramVec
	StageFallbacks    *prometheus.CounterVec
	ProcessingSeconds prometheus.Histogram

	// Classification metrics
	RuleMatchDuration prometheus.Histogram
	RulesEvaluated    prometheus.Counter
	RulesMatched      prometheus.Counter
	ElementsExtracted prometheus.Counter

	// Arbitration metrics
	ConflictsDetected *prometheus.CounterVec
	DecisionsMade     *prometheus.CounterVec
	HumanReviewTotal  prometheus.Counter

	// Collaborator metrics
	CollaboratorRequests *prometheus.CounterVec
	CollaboratorLatency  *prometheus.HistogramVec
}

// Provider wraps telemetry providers
type Provider struct {
	Tracer   trace.Tracer
	Metrics  *Metrics
	registry *prometheus.Registry
}

// NewProvider initializes telemetry with Prometheus metrics. Each provider
// carries its own registry, so tests can construct providers freely.
func NewProvider() *Provider {
	registry := prometheus.NewRegistry()
	metrics := initMetrics(promauto.With(registry))
	tracer := otel.Tracer(serviceName)

	return &Provider{
		Tracer:   tracer,
		Metrics:  metrics,
		registry: registry,
	}
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

func initMetrics(factory promauto.Factory) *Metrics {
	m := &Metrics{}
	initPipelineMetrics(m, factory)
	initClassificationMetrics(m, factory)
	initArbitrationMetrics(m, factory)
	initCollaboratorMetrics(m, factory)
	return m
}

func initPipelineMetrics(m *Metrics, factory promauto.Factory) {
	m.ScriptsProcessed = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "breakdown_scripts_processed_total",
		Help: "Total scripts that reached a final report",
	}, []string{"human_review"})

	m.ScriptsFailed = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "breakdown_scripts_failed_total",
		Help: "Total scripts that failed terminally",
	}, []string{"stage"})

	m.StageDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "breakdown_stage_duration_seconds",
		Help:    "Time spent per pipeline stage",
		Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10, 20, 30},
	}, []string{"stage"})

	m.StageFallbacks = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "breakdown_stage_fallbacks_total",
		Help: "Times a stage fell back to its deterministic path",
	}, []string{"stage"})

	m.ProcessingSeconds = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "breakdown_processing_duration_seconds",
		Help:    "End-to-end time to process one script",
		Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 10, 30, 60, 120},
	})
}

func initClassificationMetrics(m *Metrics, factory promauto.Factory) {
	m.RuleMatchDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Name:    "breakdown_rule_match_duration_seconds",
		Help:    "Time spent in rule matching (Aho-Corasick)",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1},
	})

	m.RulesEvaluated = factory.NewCounter(prometheus.CounterOpts{
		Name: "breakdown_rules_evaluated_total",
		Help: "Total rule evaluations",
	})

	m.RulesMatched = factory.NewCounter(prometheus.CounterOpts{
		Name: "breakdown_rules_matched_total",
		Help: "Total rules that matched",
	})

	m.ElementsExtracted = factory.NewCounter(prometheus.CounterOpts{
		Name: "breakdown_elements_extracted_total",
		Help: "Total production elements extracted",
	})
}

func initArbitrationMetrics(m *Metrics, factory promauto.Factory) {
	m.ConflictsDetected = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "breakdown_conflicts_detected_total",
		Help: "Conflicts detected between pipeline stages, by type",
	}, []string{"type"})

	m.DecisionsMade = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "breakdown_decisions_made_total",
		Help: "Supervisor decisions, by resolution",
	}, []string{"resolution"})

	m.HumanReviewTotal = factory.NewCounter(prometheus.CounterOpts{
		Name: "breakdown_human_review_total",
		Help: "Reports flagged for human review",
	})
}

func initCollaboratorMetrics(m *Metrics, factory promauto.Factory) {
	m.CollaboratorRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "breakdown_collaborator_requests_total",
		Help: "Requests to the analysis collaborator, by stage and outcome",
	}, []string{"stage", "outcome"})

	m.CollaboratorLatency = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "breakdown_collaborator_latency_seconds",
		Help:    "Round-trip latency of collaborator calls",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20, 30},
	}, []string{"stage"})
}

// RecordScriptProcessed records a completed script run
func (p *Provider) RecordScriptProcessed(humanReview bool, duration time.Duration) {
	label := "false"
	if humanReview {
		label = "true"
	}
	p.Metrics.ScriptsProcessed.WithLabelValues(label).Inc()
	p.Metrics.ProcessingSeconds.Observe(duration.Seconds())
}

// RecordScriptFailed records a terminal pipeline failure
func (p *Provider) RecordScriptFailed(stage string) {
	p.Metrics.ScriptsFailed.WithLabelValues(stage).Inc()
}

// RecordStage records the duration of a pipeline stage
func (p *Provider) RecordStage(stage string, duration time.Duration) {
	p.Metrics.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordFallback records a stage falling back to its deterministic path
func (p *Provider) RecordFallback(stage string) {
	p.Metrics.StageFallbacks.WithLabelValues(stage).Inc()
}

// RecordRuleMatch records rule engine metrics
func (p *Provider) RecordRuleMatch(duration time.Duration, rulesEvaluated, rulesMatched int) {
	p.Metrics.RuleMatchDuration.Observe(duration.Seconds())
	p.Metrics.RulesEvaluated.Add(float64(rulesEvaluated))
	p.Metrics.RulesMatched.Add(float64(rulesMatched))
}

// RecordElementsExtracted records the number of elements produced for a script
func (p *Provider) RecordElementsExtracted(count int) {
	p.Metrics.ElementsExtracted.Add(float64(count))
}

// RecordConflict records a detected conflict
func (p *Provider) RecordConflict(conflictType string) {
	p.Metrics.ConflictsDetected.WithLabelValues(conflictType).Inc()
}

// RecordDecision records a supervisor decision
func (p *Provider) RecordDecision(resolution string) {
	p.Metrics.DecisionsMade.WithLabelValues(resolution).Inc()
}

// RecordHumanReview records a report flagged for human review
func (p *Provider) RecordHumanReview() {
	p.Metrics.HumanReviewTotal.Inc()
}

// RecordCollaboratorCall records one collaborator round trip
func (p *Provider) RecordCollaboratorCall(stage, outcome string, duration time.Duration) {
	p.Metrics.CollaboratorRequests.WithLabelValues(stage, outcome).Inc()
	p.Metrics.CollaboratorLatency.WithLabelValues(stage).Observe(duration.Seconds())
}

// StartSpan starts a new trace span.
// The caller is responsible for ending the span with span.End().
//
//nolint:spancheck // Caller is responsible for ending the span
func (p *Provider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := p.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, span
}
