package telemetry_test

import (
	"testing"
	"time"

	"github.com/jonesrussell/script-breakdown/internal/telemetry"
)

func TestNewProvider(t *testing.T) {
	provider := telemetry.NewProvider()
	if provider == nil {
		t.Fatal("expected non-nil provider")
	}
	if provider.Tracer == nil {
		t.Error("expected non-nil tracer")
	}
	if provider.Metrics == nil {
		t.Error("expected non-nil metrics")
	}
}

func TestProvidersUseIsolatedRegistries(t *testing.T) {
	// Two providers must not collide on metric registration.
	a := telemetry.NewProvider()
	b := telemetry.NewProvider()

	a.RecordElementsExtracted(3)
	b.RecordElementsExtracted(5)
}

func TestRecordRuleMatch(t *testing.T) {
	provider := telemetry.NewProvider()

	// Should not panic
	provider.RecordRuleMatch(5*time.Millisecond, 21, 3)
}

func TestRecordPipelineMetrics(t *testing.T) {
	provider := telemetry.NewProvider()

	provider.RecordStage("emotional", 120*time.Millisecond)
	provider.RecordFallback("technical")
	provider.RecordScriptProcessed(true, 2*time.Second)
	provider.RecordScriptFailed("supervision")
	provider.RecordConflict("quality_issue")
	provider.RecordDecision("merge_results")
	provider.RecordHumanReview()
	provider.RecordCollaboratorCall("emotional", "fallback", 50*time.Millisecond)
}

func TestMetricsHandler(t *testing.T) {
	provider := telemetry.NewProvider()
	if provider.Handler() == nil {
		t.Fatal("expected non-nil metrics handler")
	}
}
