// Package breakdown assembles classified production elements into per-category
// breakdown sheets, following the Movie Magic / Celtx sheet conventions.
package breakdown

import (
	"sort"

	"github.com/jonesrussell/script-breakdown/internal/domain"
	"github.com/jonesrussell/script-breakdown/internal/taxonomy"
)

// Aggregator groups elements into breakdown sheets. Sheets partition the
// input: every element lands on exactly one sheet, nothing is duplicated or
// dropped.
type Aggregator struct {
	registry *taxonomy.Registry
}

// NewAggregator creates a sheet aggregator over the given registry.
func NewAggregator(registry *taxonomy.Registry) *Aggregator {
	return &Aggregator{registry: registry}
}

// BuildSheets groups elements by category and decorates each sheet with its
// display name, family, color code, priority level, and department. Only categories
// with at least one element produce a sheet. Sheets are ordered by priority
// level descending, then by taxonomy declaration order. Element order within
// a sheet preserves input order.
func (a *Aggregator) BuildSheets(elements []domain.ProductionElement) []domain.BreakdownSheet {
	grouped := make(map[domain.Category][]domain.ProductionElement)
	var order []domain.Category
	for _, el := range elements {
		if _, ok := grouped[el.Category]; !ok {
			order = append(order, el.Category)
		}
		grouped[el.Category] = append(grouped[el.Category], el)
	}

	sheets := make([]domain.BreakdownSheet, 0, len(order))
	for _, category := range order {
		items := grouped[category]
		family, _ := taxonomy.FamilyOf(category)
		sheets = append(sheets, domain.BreakdownSheet{
			Category:      category,
			CategoryName:  taxonomy.DisplayName(category),
			Family:        family,
			ColorCode:     taxonomy.ColorCode(category),
			Items:         items,
			TotalCount:    len(items),
			PriorityLevel: taxonomy.Priority(category),
			Department:    taxonomy.Department(category),
		})
	}

	sort.SliceStable(sheets, func(i, j int) bool {
		pi, pj := priorityRank(sheets[i].PriorityLevel), priorityRank(sheets[j].PriorityLevel)
		if pi != pj {
			return pi > pj
		}
		return a.registry.DeclarationIndex(sheets[i].Category) < a.registry.DeclarationIndex(sheets[j].Category)
	})

	return sheets
}

func priorityRank(level domain.PriorityLevel) int {
	switch level {
	case domain.PriorityHigh:
		return 3
	case domain.PriorityMedium:
		return 2
	case domain.PriorityLow:
		return 1
	}
	return 0
}
