// Package conflict compares the outputs of the analysis stages and raises
// typed conflicts for the supervisor to arbitrate.
package conflict

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jonesrussell/script-breakdown/internal/domain"
	"github.com/jonesrussell/script-breakdown/internal/logging"
	"github.com/jonesrussell/script-breakdown/internal/telemetry"
)

// highEngagement marks the point where strong narrative engagement contradicts
// a failed technical validation.
const highEngagement = 0.7

// importanceMarkers flag expected-element labels whose absence is a high
// severity miss.
var importanceMarkers = []string{"رئيسي", "مهم", "أساسي", "main", "key"}

// IsLogicalFunc decides whether an element is plausible given the technical
// analysis of the script. Pluggable so productions can carry their own
// domain checks.
type IsLogicalFunc func(element domain.ProductionElement, technical *domain.TechnicalAnalysis) bool

// Detector runs four independent checks over the stage outputs. Each check is
// deterministic and side-effect-free; the detector never deduplicates or
// merges conflicts across checks.
type Detector struct {
	isLogical           IsLogicalFunc
	confidenceThreshold float64
	logger              logging.Logger
	telemetry           *telemetry.Provider
}

// Option configures a Detector.
type Option func(*Detector)

// WithIsLogical replaces the default plausibility predicate.
func WithIsLogical(fn IsLogicalFunc) Option {
	return func(d *Detector) { d.isLogical = fn }
}

// WithConfidenceThreshold sets the quality-issue cutoff.
func WithConfidenceThreshold(threshold float64) Option {
	return func(d *Detector) { d.confidenceThreshold = threshold }
}

// NewDetector creates a conflict detector. By default every element is
// considered logical and the quality threshold is 0.5.
func NewDetector(logger logging.Logger, tp *telemetry.Provider, opts ...Option) *Detector {
	d := &Detector{
		isLogical:           func(domain.ProductionElement, *domain.TechnicalAnalysis) bool { return true },
		confidenceThreshold: 0.5,
		logger:              logger,
		telemetry:           tp,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect runs all checks and returns the union of their conflicts.
func (d *Detector) Detect(emotional *domain.EmotionalAnalysis, technical *domain.TechnicalAnalysis, elements []domain.ProductionElement) []domain.Conflict {
	var conflicts []domain.Conflict
	conflicts = append(conflicts, d.checkClassification(technical, elements)...)
	conflicts = append(conflicts, d.checkMissingElements(technical, elements)...)
	conflicts = append(conflicts, d.checkQuality(elements)...)
	conflicts = append(conflicts, d.checkInconsistencies(emotional, technical)...)

	for _, c := range conflicts {
		if d.telemetry != nil {
			d.telemetry.RecordConflict(string(c.Type))
		}
	}
	if len(conflicts) > 0 {
		d.logger.Info("conflicts detected", logging.Int("count", len(conflicts)))
	}
	return conflicts
}

// checkClassification emits one medium conflict per element the plausibility
// predicate rejects.
func (d *Detector) checkClassification(technical *domain.TechnicalAnalysis, elements []domain.ProductionElement) []domain.Conflict {
	var conflicts []domain.Conflict
	for _, el := range elements {
		if d.isLogical(el, technical) {
			continue
		}
		conflicts = append(conflicts, domain.Conflict{
			ConflictID:     uuid.NewString(),
			Type:           domain.ConflictClassification,
			Severity:       domain.SeverityMedium,
			Description:    fmt.Sprintf("element %q (%s) is implausible given the technical analysis", el.Name, el.Category),
			AgentsInvolved: []string{domain.StageBreakdown, domain.StageTechnical},
			Evidence: map[string]any{
				"element_id": el.ID,
				"category":   string(el.Category),
			},
		})
	}
	return conflicts
}

// checkMissingElements emits one conflict per expected element whose label is
// not contained, case-insensitively, in any extracted element's name.
func (d *Detector) checkMissingElements(technical *domain.TechnicalAnalysis, elements []domain.ProductionElement) []domain.Conflict {
	if technical == nil {
		return nil
	}

	var conflicts []domain.Conflict
	for _, expected := range technical.ExpectedElements {
		lowered := strings.ToLower(expected)
		found := false
		for _, el := range elements {
			if strings.Contains(strings.ToLower(el.Name), lowered) {
				found = true
				break
			}
		}
		if found {
			continue
		}

		severity := domain.SeverityMedium
		if labelSignalsImportance(lowered) {
			severity = domain.SeverityHigh
		}
		conflicts = append(conflicts, domain.Conflict{
			ConflictID:     uuid.NewString(),
			Type:           domain.ConflictMissingElements,
			Severity:       severity,
			Description:    fmt.Sprintf("expected element %q was not extracted", expected),
			AgentsInvolved: []string{domain.StageTechnical, domain.StageBreakdown},
			Evidence: map[string]any{
				"expected": expected,
			},
		})
	}
	return conflicts
}

// checkQuality emits a single high severity conflict summarizing all elements
// below the confidence threshold.
func (d *Detector) checkQuality(elements []domain.ProductionElement) []domain.Conflict {
	var low []string
	for _, el := range elements {
		if el.Confidence < d.confidenceThreshold {
			low = append(low, el.ID)
		}
	}
	if len(low) == 0 {
		return nil
	}

	return []domain.Conflict{{
		ConflictID:     uuid.NewString(),
		Type:           domain.ConflictQualityIssue,
		Severity:       domain.SeverityHigh,
		Description:    fmt.Sprintf("%d element(s) below confidence threshold %.2f", len(low), d.confidenceThreshold),
		AgentsInvolved: []string{domain.StageBreakdown},
		Evidence: map[string]any{
			"low_confidence_count": len(low),
			"element_ids":          low,
		},
	}}
}

// checkInconsistencies emits one medium conflict per recorded character
// inconsistency, plus a cross-stage conflict when a failed technical
// validation coexists with strong narrative engagement.
func (d *Detector) checkInconsistencies(emotional *domain.EmotionalAnalysis, technical *domain.TechnicalAnalysis) []domain.Conflict {
	var conflicts []domain.Conflict

	if technical != nil {
		for _, inc := range technical.CharacterConsistency.Inconsistencies {
			conflicts = append(conflicts, domain.Conflict{
				ConflictID:     uuid.NewString(),
				Type:           domain.ConflictInconsistency,
				Severity:       domain.SeverityMedium,
				Description:    "character inconsistency: " + inc,
				AgentsInvolved: []string{domain.StageTechnical},
				Evidence: map[string]any{
					"inconsistency": inc,
				},
			})
		}
	}

	if technical != nil && emotional != nil &&
		!technical.IsValid && emotional.AudienceEngagement >= highEngagement {
		conflicts = append(conflicts, domain.Conflict{
			ConflictID:     uuid.NewString(),
			Type:           domain.ConflictInconsistency,
			Severity:       domain.SeverityHigh,
			Description:    "technical validation failed while narrative engagement is high",
			AgentsInvolved: []string{domain.StageTechnical, domain.StageEmotional},
			Evidence: map[string]any{
				"is_valid":            technical.IsValid,
				"audience_engagement": emotional.AudienceEngagement,
			},
		})
	}

	return conflicts
}

func labelSignalsImportance(label string) bool {
	for _, marker := range importanceMarkers {
		if strings.Contains(label, marker) {
			return true
		}
	}
	return false
}
