package report_test

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/jonesrussell/script-breakdown/internal/domain"
	"github.com/jonesrussell/script-breakdown/internal/report"
)

func elementsWithConfidence(confidences ...float64) []domain.ProductionElement {
	out := make([]domain.ProductionElement, len(confidences))
	for i, c := range confidences {
		out[i] = domain.ProductionElement{ID: "e", Confidence: c}
	}
	return out
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestOverallConfidence(t *testing.T) {
	testCases := []struct {
		name      string
		emotional *domain.EmotionalAnalysis
		technical *domain.TechnicalAnalysis
		elements  []domain.ProductionElement
		decisions []domain.SupervisorDecision
		want      float64
	}{
		{
			name:      "all stages healthy",
			emotional: &domain.EmotionalAnalysis{AudienceEngagement: 0.8},
			technical: &domain.TechnicalAnalysis{IsValid: true},
			elements:  elementsWithConfidence(0.8),
			decisions: []domain.SupervisorDecision{{Confidence: 0.8}},
			// 0.2*0.8 + 0.3*1.0 + 0.3*0.8 + 0.2*0.8
			want: 0.86,
		},
		{
			name:      "invalid technical scores 0.3",
			emotional: &domain.EmotionalAnalysis{AudienceEngagement: 0.8},
			technical: &domain.TechnicalAnalysis{IsValid: false},
			elements:  elementsWithConfidence(0.8),
			decisions: []domain.SupervisorDecision{{Confidence: 0.8}},
			// 0.2*0.8 + 0.3*0.3 + 0.3*0.8 + 0.2*0.8
			want: 0.65,
		},
		{
			name:      "no elements zero the element term",
			emotional: &domain.EmotionalAnalysis{AudienceEngagement: 0.8},
			technical: &domain.TechnicalAnalysis{IsValid: true},
			decisions: []domain.SupervisorDecision{{Confidence: 0.8}},
			// 0.2*0.8 + 0.3*1.0 + 0.3*0 + 0.2*0.8
			want: 0.62,
		},
		{
			name:      "no decisions default to 0.8",
			emotional: &domain.EmotionalAnalysis{AudienceEngagement: 0.8},
			technical: &domain.TechnicalAnalysis{IsValid: true},
			elements:  elementsWithConfidence(0.6, 1.0),
			// 0.2*0.8 + 0.3*1.0 + 0.3*0.8 + 0.2*0.8
			want: 0.86,
		},
		{
			name: "everything absent",
			// 0.2*0 + 0.3*0.3 + 0.3*0 + 0.2*0.8
			want: 0.25,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := report.OverallConfidence(tc.emotional, tc.technical, tc.elements, tc.decisions)
			if !almostEqual(got, tc.want) {
				t.Errorf("overall = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestOverallConfidence_MonotonicInElementConfidence(t *testing.T) {
	emotional := &domain.EmotionalAnalysis{AudienceEngagement: 0.5}
	technical := &domain.TechnicalAnalysis{IsValid: true}

	prev := -1.0
	for _, c := range []float64{0.1, 0.3, 0.5, 0.7, 0.9} {
		got := report.OverallConfidence(emotional, technical, elementsWithConfidence(c), nil)
		if got <= prev {
			t.Fatalf("overall confidence not increasing at element confidence %v", c)
		}
		prev = got
	}
}

func TestExtractionConfidence(t *testing.T) {
	if got := report.ExtractionConfidence(nil); got != 0 {
		t.Errorf("empty set = %v, want 0", got)
	}
	if got := report.ExtractionConfidence(elementsWithConfidence(0.4, 0.8)); !almostEqual(got, 0.6) {
		t.Errorf("mean = %v, want 0.6", got)
	}
}

func TestCriticalIssues(t *testing.T) {
	decisions := []domain.SupervisorDecision{
		{ConflictID: "c1", Confidence: 0.9, ConflictType: domain.ConflictQualityIssue},
		{ConflictID: "c2", Confidence: 0.4, ConflictType: domain.ConflictQualityIssue},
		{ConflictID: "c3", Confidence: 0.9, ConflictType: domain.ConflictMissingElements},
	}

	issues := report.CriticalIssues(decisions)
	if len(issues) != 2 {
		t.Fatalf("got %d issues, want 2: %v", len(issues), issues)
	}
	if !strings.Contains(issues[0], "c2") {
		t.Errorf("first issue should flag the low confidence decision, got %q", issues[0])
	}
	if !strings.Contains(issues[1], "c3") {
		t.Errorf("second issue should flag the missing elements decision, got %q", issues[1])
	}

	if got := report.CriticalIssues(nil); got == nil || len(got) != 0 {
		t.Errorf("no decisions should yield an empty non-nil slice, got %v", got)
	}
}

func TestHumanReviewRequired(t *testing.T) {
	testCases := []struct {
		name      string
		overall   float64
		decisions []domain.SupervisorDecision
		issues    []string
		want      bool
	}{
		{name: "confident and clean", overall: 0.9, want: false},
		{name: "below threshold", overall: 0.6, want: true},
		{
			name:      "review decision forces it",
			overall:   0.9,
			decisions: []domain.SupervisorDecision{{Resolution: domain.ResolutionHumanReview}},
			want:      true,
		},
		{
			name:      "escalation forces it",
			overall:   0.9,
			decisions: []domain.SupervisorDecision{{Resolution: domain.ResolutionEscalate}},
			want:      true,
		},
		{
			name:      "merge decision alone does not",
			overall:   0.9,
			decisions: []domain.SupervisorDecision{{Resolution: domain.ResolutionMergeResults}},
			want:      false,
		},
		{name: "critical issues force it", overall: 0.9, issues: []string{"x"}, want: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := report.HumanReviewRequired(tc.overall, report.DefaultHumanReviewThreshold, tc.decisions, tc.issues)
			if got != tc.want {
				t.Errorf("human review = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBuilder_Build(t *testing.T) {
	b := report.NewBuilder(0)

	rep := b.Build(report.Inputs{
		ScriptID:  "script-1",
		Emotional: &domain.EmotionalAnalysis{Tone: "فرح", AudienceEngagement: 0.8},
		Technical: &domain.TechnicalAnalysis{IsValid: true},
		Elements:  elementsWithConfidence(0.8),
		Started:   time.Now().Add(-50 * time.Millisecond),
	})

	if rep.ScriptID != "script-1" {
		t.Errorf("script id = %q", rep.ScriptID)
	}
	if !almostEqual(rep.OverallConfidence, 0.86) {
		t.Errorf("overall = %v, want 0.86", rep.OverallConfidence)
	}
	if !almostEqual(rep.ExtractionConfidence, 0.8) {
		t.Errorf("extraction = %v, want 0.8", rep.ExtractionConfidence)
	}
	if rep.HumanReviewRequired {
		t.Error("clean report must not require review")
	}
	if rep.ProcessingTimeMs < 50 {
		t.Errorf("processing time = %dms, want at least 50", rep.ProcessingTimeMs)
	}
	if rep.GeneratedAt.IsZero() {
		t.Error("generated_at not set")
	}

	// Serialization must always emit the collection fields.
	if rep.BreakdownSheets == nil || rep.ConflictsDetected == nil || rep.DecisionsMade == nil || rep.CriticalIssues == nil {
		t.Error("collection fields must be non-nil")
	}
}

func TestBuilder_CustomThreshold(t *testing.T) {
	strict := report.NewBuilder(0.99)
	rep := strict.Build(report.Inputs{
		ScriptID:  "script-1",
		Emotional: &domain.EmotionalAnalysis{AudienceEngagement: 0.8},
		Technical: &domain.TechnicalAnalysis{IsValid: true},
		Elements:  elementsWithConfidence(0.8),
		Started:   time.Now(),
	})
	if !rep.HumanReviewRequired {
		t.Error("0.86 overall must trip a 0.99 threshold")
	}
}
