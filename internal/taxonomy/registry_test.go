package taxonomy_test

import (
	"errors"
	"testing"

	"github.com/jonesrussell/script-breakdown/internal/domain"
	"github.com/jonesrussell/script-breakdown/internal/taxonomy"
)

func TestNewRegistry_DefaultRulesValidate(t *testing.T) {
	registry, err := taxonomy.NewRegistry(taxonomy.DefaultRules())
	if err != nil {
		t.Fatalf("default rules must validate: %v", err)
	}

	const wantCategories = 21
	if got := registry.RuleCount(); got != wantCategories {
		t.Errorf("expected %d rules, got %d", wantCategories, got)
	}

	// Declaration order is the tie-break for sheet sorting, so it must be
	// preserved exactly.
	for i, cat := range registry.Categories() {
		if registry.DeclarationIndex(cat) != i {
			t.Errorf("category %s: declaration index %d, want %d", cat, registry.DeclarationIndex(cat), i)
		}
	}
}

func TestNewRegistry_RejectsBadRules(t *testing.T) {
	testCases := []struct {
		name  string
		rules []domain.ClassificationRule
	}{
		{
			name: "unknown category",
			rules: []domain.ClassificationRule{
				{Category: "spaceships", Keywords: []string{"x"}, ConfidenceThreshold: 0.5},
			},
		},
		{
			name: "duplicate category",
			rules: []domain.ClassificationRule{
				{Category: domain.CategoryProps, Keywords: []string{"x"}, ConfidenceThreshold: 0.5},
				{Category: domain.CategoryProps, Keywords: []string{"y"}, ConfidenceThreshold: 0.5},
			},
		},
		{
			name: "threshold above one",
			rules: []domain.ClassificationRule{
				{Category: domain.CategoryProps, Keywords: []string{"x"}, ConfidenceThreshold: 1.5},
			},
		},
		{
			name: "malformed context pattern",
			rules: []domain.ClassificationRule{
				{
					Category:            domain.CategoryProps,
					Keywords:            []string{"x"},
					ContextPatterns:     []string{"("},
					ConfidenceThreshold: 0.5,
				},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := taxonomy.NewRegistry(tc.rules)
			if !errors.Is(err, taxonomy.ErrInvalidTaxonomy) {
				t.Fatalf("expected ErrInvalidTaxonomy, got %v", err)
			}
		})
	}
}

func TestTables_EveryCategoryCovered(t *testing.T) {
	registry := taxonomy.Default()

	for _, cat := range registry.Categories() {
		if taxonomy.DisplayName(cat) == "" {
			t.Errorf("category %s has no display name", cat)
		}
		if taxonomy.ColorCode(cat) == "" {
			t.Errorf("category %s has no color code", cat)
		}
		if taxonomy.Department(cat) == "" {
			t.Errorf("category %s has no department", cat)
		}
		switch taxonomy.Priority(cat) {
		case domain.PriorityHigh, domain.PriorityMedium, domain.PriorityLow:
		default:
			t.Errorf("category %s has invalid priority %q", cat, taxonomy.Priority(cat))
		}
	}
}

func TestPriorityTable(t *testing.T) {
	high := []domain.Category{
		domain.CategoryCast, domain.CategoryVehicles,
		domain.CategoryStunts, domain.CategorySpecialEffects,
	}
	for _, cat := range high {
		if taxonomy.Priority(cat) != domain.PriorityHigh {
			t.Errorf("category %s: want high priority, got %s", cat, taxonomy.Priority(cat))
		}
	}

	medium := []domain.Category{
		domain.CategoryProps, domain.CategoryWardrobe, domain.CategorySetDressing,
	}
	for _, cat := range medium {
		if taxonomy.Priority(cat) != domain.PriorityMedium {
			t.Errorf("category %s: want medium priority, got %s", cat, taxonomy.Priority(cat))
		}
	}

	if taxonomy.Priority(domain.CategoryGreenery) != domain.PriorityLow {
		t.Errorf("greenery should default to low priority")
	}
}

func TestColorPalette_MissingEntriesGetNeutral(t *testing.T) {
	if got := taxonomy.ColorCode(domain.CategoryAnimalHandler); got != "#CCCCCC" {
		t.Errorf("expected neutral default color, got %s", got)
	}
	if got := taxonomy.ColorCode(domain.CategoryCast); got == "#CCCCCC" {
		t.Errorf("cast should carry an explicit palette color")
	}
}
