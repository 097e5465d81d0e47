package supervisor

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jonesrussell/script-breakdown/internal/domain"
)

// ErrInvalidRules marks a supervisor rule set that references unknown
// condition or action types. This is a configuration error and is fatal to
// the run.
var ErrInvalidRules = errors.New("invalid supervisor rules")

// Condition selects the conflicts a rule applies to. AgentsInvolved must be a
// subset of the conflict's agents for the rule to match.
type Condition struct {
	Type           domain.ConflictType `json:"type" yaml:"type"`
	AgentsInvolved []string            `json:"agents_involved" yaml:"agents_involved"`
}

// Action is what a matching rule does to the conflict.
type Action struct {
	Type       domain.Resolution `json:"type" yaml:"type"`
	Parameters map[string]any    `json:"parameters" yaml:"parameters"`
}

// Rule is one entry in the supervisor's ordered rule list. Lower priority
// values are evaluated first.
type Rule struct {
	Priority            int       `json:"priority" yaml:"priority"`
	Condition           Condition `json:"condition" yaml:"condition"`
	Action              Action    `json:"action" yaml:"action"`
	ConfidenceThreshold float64   `json:"confidence_threshold" yaml:"confidence_threshold"`
}

var knownConflictTypes = map[domain.ConflictType]bool{
	domain.ConflictClassification:  true,
	domain.ConflictMissingElements: true,
	domain.ConflictQualityIssue:    true,
	domain.ConflictInconsistency:   true,
}

var knownResolutions = map[domain.Resolution]bool{
	domain.ResolutionPreferOriginal: true,
	domain.ResolutionMergeResults:   true,
	domain.ResolutionHumanReview:    true,
	domain.ResolutionEscalate:       true,
}

// validateRules rejects rule sets referencing unknown condition or action
// types before any conflict is resolved against them.
func validateRules(rules []Rule) error {
	for i, rule := range rules {
		if !knownConflictTypes[rule.Condition.Type] {
			return fmt.Errorf("%w: rule %d references unknown condition type %q",
				ErrInvalidRules, i, rule.Condition.Type)
		}
		if !knownResolutions[rule.Action.Type] {
			return fmt.Errorf("%w: rule %d references unknown action type %q",
				ErrInvalidRules, i, rule.Action.Type)
		}
		if rule.ConfidenceThreshold < 0 || rule.ConfidenceThreshold > 1 {
			return fmt.Errorf("%w: rule %d confidence threshold %.2f outside [0,1]",
				ErrInvalidRules, i, rule.ConfidenceThreshold)
		}
	}
	return nil
}

// LoadRules reads an operator-supplied rule table from a YAML file with a
// top-level "rules" list. New validates the loaded rules before use.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read supervisor rules %s: %w", path, err)
	}

	var doc struct {
		Rules []Rule `yaml:"rules"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse supervisor rules %s: %w", path, err)
	}
	if len(doc.Rules) == 0 {
		return nil, fmt.Errorf("%w: %s defines no rules", ErrInvalidRules, path)
	}
	return doc.Rules, nil
}

// DefaultRules is the built-in arbitration policy: keep the extracted text on
// classification disputes, merge when the technical stage reports gaps, and
// send low quality or inconsistent output to a human.
func DefaultRules() []Rule {
	return []Rule{
		{
			Priority: 10,
			Condition: Condition{
				Type:           domain.ConflictClassification,
				AgentsInvolved: []string{domain.StageBreakdown},
			},
			Action: Action{
				Type:       domain.ResolutionPreferOriginal,
				Parameters: map[string]any{"keep": "extracted_element"},
			},
			ConfidenceThreshold: 0.75,
		},
		{
			Priority: 20,
			Condition: Condition{
				Type:           domain.ConflictMissingElements,
				AgentsInvolved: []string{domain.StageTechnical},
			},
			Action: Action{
				Type:       domain.ResolutionMergeResults,
				Parameters: map[string]any{"source": "expected_elements"},
			},
			ConfidenceThreshold: 0.7,
		},
		{
			Priority: 30,
			Condition: Condition{
				Type:           domain.ConflictQualityIssue,
				AgentsInvolved: []string{domain.StageBreakdown},
			},
			Action: Action{
				Type: domain.ResolutionHumanReview,
			},
			ConfidenceThreshold: 0.6,
		},
		{
			Priority: 40,
			Condition: Condition{
				Type:           domain.ConflictInconsistency,
				AgentsInvolved: []string{domain.StageTechnical},
			},
			Action: Action{
				Type: domain.ResolutionHumanReview,
			},
			ConfidenceThreshold: 0.6,
		},
	}
}
