package analysis

import (
	"encoding/json"
	"fmt"

	"github.com/jonesrussell/script-breakdown/internal/domain"
)

// defaultTone is used when the collaborator omits or garbles the tone field.
const defaultTone = "neutral"

// ParseEmotional validates a raw emotional result into its typed form.
// Missing or out-of-range fields get conservative defaults rather than
// failing the stage.
func ParseEmotional(raw json.RawMessage) (*domain.EmotionalAnalysis, error) {
	var out domain.EmotionalAnalysis
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("parse emotional result: %w", err)
	}

	if out.Tone == "" {
		out.Tone = defaultTone
	}
	out.AudienceEngagement = clamp01(out.AudienceEngagement)
	for k, v := range out.EmotionScores {
		out.EmotionScores[k] = clamp01(v)
	}
	return &out, nil
}

// ParseTechnical validates a raw technical result into its typed form.
func ParseTechnical(raw json.RawMessage) (*domain.TechnicalAnalysis, error) {
	var out domain.TechnicalAnalysis
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("parse technical result: %w", err)
	}

	if out.Scenes == nil {
		out.Scenes = []domain.SceneHeader{}
	}
	if out.ExpectedElements == nil {
		out.ExpectedElements = []string{}
	}
	if out.CharacterConsistency.Inconsistencies == nil {
		out.CharacterConsistency.Inconsistencies = []string{}
	}
	return &out, nil
}

// ParseBreakdown validates a raw breakdown-hints result into its typed form.
func ParseBreakdown(raw json.RawMessage) (*domain.BreakdownAnalysis, error) {
	var out domain.BreakdownAnalysis
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("parse breakdown result: %w", err)
	}
	return &out, nil
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
