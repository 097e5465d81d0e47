// Package taxonomy holds the fixed 21-category breakdown taxonomy and its
// classification rules. The registry is a table, not branching code: adding a
// category is a data change. Loaded once at startup and read-only afterwards.
package taxonomy

import (
	"fmt"
	"regexp"

	"github.com/jonesrussell/script-breakdown/internal/domain"
)

// CompiledRule is a ClassificationRule with its patterns compiled.
type CompiledRule struct {
	domain.ClassificationRule
	ContextPatterns   []*regexp.Regexp
	ExclusionPatterns []*regexp.Regexp
}

// Registry is the immutable set of categories and their matching rules.
type Registry struct {
	categories []domain.Category
	index      map[domain.Category]int
	rules      map[domain.Category]*CompiledRule
}

// NewRegistry validates and compiles one rule per category. Validation
// failures are configuration errors and must abort startup: an unknown
// category, an out-of-range threshold, or a malformed pattern is never
// recoverable at runtime.
func NewRegistry(rules []domain.ClassificationRule) (*Registry, error) {
	r := &Registry{
		categories: make([]domain.Category, 0, len(rules)),
		index:      make(map[domain.Category]int, len(rules)),
		rules:      make(map[domain.Category]*CompiledRule, len(rules)),
	}

	for _, rule := range rules {
		if _, known := categoryFamilies[rule.Category]; !known {
			return nil, fmt.Errorf("%w: unknown category %q", ErrInvalidTaxonomy, rule.Category)
		}
		if _, dup := r.rules[rule.Category]; dup {
			return nil, fmt.Errorf("%w: duplicate rule for category %q", ErrInvalidTaxonomy, rule.Category)
		}
		if rule.ConfidenceThreshold < 0 || rule.ConfidenceThreshold > 1 {
			return nil, fmt.Errorf("%w: category %q threshold %.2f outside [0,1]",
				ErrInvalidTaxonomy, rule.Category, rule.ConfidenceThreshold)
		}

		compiled := &CompiledRule{ClassificationRule: rule}
		for _, p := range rule.ContextPatterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("%w: category %q context pattern %q: %v",
					ErrInvalidTaxonomy, rule.Category, p, err)
			}
			compiled.ContextPatterns = append(compiled.ContextPatterns, re)
		}
		for _, p := range rule.ExclusionPatterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("%w: category %q exclusion pattern %q: %v",
					ErrInvalidTaxonomy, rule.Category, p, err)
			}
			compiled.ExclusionPatterns = append(compiled.ExclusionPatterns, re)
		}

		r.index[rule.Category] = len(r.categories)
		r.categories = append(r.categories, rule.Category)
		r.rules[rule.Category] = compiled
	}

	return r, nil
}

// Default builds the registry from the built-in rule table. Panics only on a
// broken built-in table, which is a programmer error caught by tests.
func Default() *Registry {
	r, err := NewRegistry(defaultRules)
	if err != nil {
		panic(err)
	}
	return r
}

// Categories returns categories in declaration order.
func (r *Registry) Categories() []domain.Category {
	out := make([]domain.Category, len(r.categories))
	copy(out, r.categories)
	return out
}

// Rule returns the compiled rule for a category, if present.
func (r *Registry) Rule(cat domain.Category) (*CompiledRule, bool) {
	rule, ok := r.rules[cat]
	return rule, ok
}

// Rules returns the compiled rules in declaration order.
func (r *Registry) Rules() []*CompiledRule {
	out := make([]*CompiledRule, 0, len(r.categories))
	for _, cat := range r.categories {
		out = append(out, r.rules[cat])
	}
	return out
}

// DeclarationIndex returns the position of a category in the taxonomy table.
// Used as the stable tie-break when sorting sheets.
func (r *Registry) DeclarationIndex(cat domain.Category) int {
	if i, ok := r.index[cat]; ok {
		return i
	}
	return len(r.categories)
}

// RuleCount returns the number of registered rules.
func (r *Registry) RuleCount() int {
	return len(r.categories)
}
