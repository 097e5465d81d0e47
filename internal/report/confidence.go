// Package report computes the overall confidence of a pipeline run and
// assembles the final report.
package report

import (
	"fmt"

	"github.com/jonesrussell/script-breakdown/internal/domain"
)

// Confidence formula weights. The four terms always sum to 1.
const (
	engagementWeight = 0.20
	validityWeight   = 0.30
	elementWeight    = 0.30
	decisionWeight   = 0.20

	invalidTechnicalScore = 0.3
	noDecisionsDefault    = 0.8

	lowDecisionConfidence = 0.6
)

// DefaultHumanReviewThreshold is the overall-confidence floor below which a
// report is flagged for human review.
const DefaultHumanReviewThreshold = 0.7

// OverallConfidence combines the stage outputs into a single score.
// Weighted: 20% narrative engagement, 30% technical validity, 30% mean
// element confidence (0 when no elements), 20% mean decision confidence
// (0.8 when no decisions were needed).
func OverallConfidence(emotional *domain.EmotionalAnalysis, technical *domain.TechnicalAnalysis,
	elements []domain.ProductionElement, decisions []domain.SupervisorDecision) float64 {

	engagement := 0.0
	if emotional != nil {
		engagement = emotional.AudienceEngagement
	}

	validity := invalidTechnicalScore
	if technical != nil && technical.IsValid {
		validity = 1.0
	}

	elementMean := 0.0
	if len(elements) > 0 {
		sum := 0.0
		for _, el := range elements {
			sum += el.Confidence
		}
		elementMean = sum / float64(len(elements))
	}

	decisionMean := noDecisionsDefault
	if len(decisions) > 0 {
		sum := 0.0
		for _, d := range decisions {
			sum += d.Confidence
		}
		decisionMean = sum / float64(len(decisions))
	}

	return engagementWeight*engagement +
		validityWeight*validity +
		elementWeight*elementMean +
		decisionWeight*decisionMean
}

// ExtractionConfidence is the mean element confidence, 0 for an empty set.
func ExtractionConfidence(elements []domain.ProductionElement) float64 {
	if len(elements) == 0 {
		return 0
	}
	sum := 0.0
	for _, el := range elements {
		sum += el.Confidence
	}
	return sum / float64(len(elements))
}

// CriticalIssues collects human-readable issue strings: low-confidence
// decisions and any missing-element decisions.
func CriticalIssues(decisions []domain.SupervisorDecision) []string {
	issues := []string{}
	for _, d := range decisions {
		if d.Confidence < lowDecisionConfidence {
			issues = append(issues, fmt.Sprintf(
				"decision for conflict %s has low confidence %.2f", d.ConflictID, d.Confidence))
		}
		if d.ConflictType == domain.ConflictMissingElements {
			issues = append(issues, fmt.Sprintf(
				"missing elements reported in conflict %s", d.ConflictID))
		}
	}
	return issues
}

// HumanReviewRequired decides whether a human must look at the report: low
// overall confidence, any review or escalation decision, or any critical
// issue.
func HumanReviewRequired(overall, threshold float64, decisions []domain.SupervisorDecision, criticalIssues []string) bool {
	if overall < threshold {
		return true
	}
	for _, d := range decisions {
		if d.Resolution == domain.ResolutionHumanReview || d.Resolution == domain.ResolutionEscalate {
			return true
		}
	}
	return len(criticalIssues) > 0
}
