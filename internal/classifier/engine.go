package classifier

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jonesrussell/script-breakdown/internal/domain"
	"github.com/jonesrussell/script-breakdown/internal/logging"
	"github.com/jonesrussell/script-breakdown/internal/taxonomy"
	"github.com/jonesrussell/script-breakdown/internal/telemetry"
)

const defaultConcurrency = 4

// Config holds engine configuration.
type Config struct {
	Version     string
	Concurrency int
}

// Engine turns script text into categorized, evidence-backed production
// elements. Classification is deterministic: identical input against an
// unchanged registry yields identical elements.
type Engine struct {
	registry    *taxonomy.Registry
	matcher     *Matcher
	logger      logging.Logger
	telemetry   *telemetry.Provider
	version     string
	concurrency int
}

// NewEngine creates a classification engine over the given registry.
func NewEngine(registry *taxonomy.Registry, logger logging.Logger, tp *telemetry.Provider, cfg Config) *Engine {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	return &Engine{
		registry:    registry,
		matcher:     NewMatcher(registry),
		logger:      logger,
		telemetry:   tp,
		version:     cfg.Version,
		concurrency: concurrency,
	}
}

// Classify scores one text unit against every rule and returns the best
// candidate as a production element, or nil when nothing passes a threshold.
// Candidates are ordered by confidence descending; exact ties fall to the
// rule with the lower priority value.
func (e *Engine) Classify(text, context, sceneID string) *domain.ProductionElement {
	text = Normalize(text)

	start := time.Now()
	candidates := e.matcher.MatchAll(text, context)
	if e.telemetry != nil {
		e.telemetry.RecordRuleMatch(time.Since(start), e.registry.RuleCount(), len(candidates))
	}
	if len(candidates) == 0 {
		return nil
	}

	best := selectBest(candidates)
	element := e.buildElement(best, text, context, sceneID, 1, 0)
	return &element
}

// unitCandidate pairs a unit's winning match with its position, so results
// can be restored to source order after the parallel fan-out.
type unitCandidate struct {
	unitIndex int
	unit      Unit
	context   string
	match     *MatchResult
}

// ClassifyScript splits the script into sentence units, classifies each unit
// independently across a worker pool, restores source order, and deduplicates
// by (category, lowercased name) keeping the first occurrence. Evidence spans
// are byte offsets into the normalized script text.
func (e *Engine) ClassifyScript(ctx context.Context, text, sceneID string, hints *domain.BreakdownAnalysis) []domain.ProductionElement {
	text = Normalize(text)
	units := SplitSentences(text)
	if len(units) == 0 {
		return []domain.ProductionElement{}
	}

	candidates := e.classifyUnits(ctx, units, hints)

	// Restore source order: dedup is first-occurrence-wins, so ordering must
	// be settled before it runs.
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].unitIndex < candidates[j].unitIndex
	})

	seen := make(map[string]bool)
	ordinals := make(map[domain.Category]int)
	elements := make([]domain.ProductionElement, 0, len(candidates))

	for _, c := range candidates {
		name := strings.ToLower(strings.TrimSpace(c.match.Excerpt))
		key := string(c.match.Rule.Category) + "|" + name
		if seen[key] {
			continue
		}
		seen[key] = true

		ordinals[c.match.Rule.Category]++
		elements = append(elements, e.buildElement(
			c.match, c.unit.Text, c.context, sceneID,
			ordinals[c.match.Rule.Category], c.unit.Offset,
		))
	}

	if e.telemetry != nil {
		e.telemetry.RecordElementsExtracted(len(elements))
	}
	e.logger.Debug("script classified",
		logging.String("scene_id", sceneID),
		logging.Int("units", len(units)),
		logging.Int("elements", len(elements)),
	)

	return elements
}

// classifyUnits fans unit classification out over the worker pool and
// collects winning matches. Each unit's context is its neighboring units
// plus any collaborator scene context.
func (e *Engine) classifyUnits(ctx context.Context, units []Unit, hints *domain.BreakdownAnalysis) []unitCandidate {
	jobs := make(chan int, len(units))
	results := make(chan unitCandidate, len(units))

	sceneContext := ""
	if hints != nil {
		sceneContext = hints.SceneContext
	}

	var wg sync.WaitGroup
	workers := e.concurrency
	if workers > len(units) {
		workers = len(units)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}

				unitContext := neighborContext(units, i, sceneContext)
				matches := e.matcher.MatchAll(units[i].Text, unitContext)
				if len(matches) == 0 {
					continue
				}
				results <- unitCandidate{
					unitIndex: i,
					unit:      units[i],
					context:   unitContext,
					match:     selectBest(matches),
				}
			}
		}()
	}

	for i := range units {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	close(results)

	candidates := make([]unitCandidate, 0, len(units))
	for c := range results {
		candidates = append(candidates, c)
	}
	return candidates
}

// neighborContext builds the classification context for a unit from its
// neighboring sentences and the collaborator scene context.
func neighborContext(units []Unit, i int, sceneContext string) string {
	var parts []string
	if i > 0 {
		parts = append(parts, units[i-1].Text)
	}
	if i+1 < len(units) {
		parts = append(parts, units[i+1].Text)
	}
	if sceneContext != "" {
		parts = append(parts, sceneContext)
	}
	return strings.Join(parts, " ")
}

// selectBest applies the tie-break policy in one place: confidence
// descending, then rule priority ascending.
func selectBest(candidates []*MatchResult) *MatchResult {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Confidence != candidates[j].Confidence {
			return candidates[i].Confidence > candidates[j].Confidence
		}
		return candidates[i].Rule.Priority < candidates[j].Rule.Priority
	})
	return candidates[0]
}

// buildElement materializes a match into an immutable production element with
// its evidence record. offset shifts the evidence span from unit-relative to
// script-relative byte positions.
func (e *Engine) buildElement(m *MatchResult, text, context, sceneID string, ordinal, offset int) domain.ProductionElement {
	category := m.Rule.Category
	excerpt := strings.TrimSpace(m.Excerpt)

	evidence := domain.Evidence{
		SpanStart:   offset + m.SpanStart,
		SpanEnd:     offset + m.SpanEnd,
		TextExcerpt: m.Excerpt,
		Rationale: fmt.Sprintf("classified as %s because: %s and %d contextual pattern(s)",
			category, strings.Join(m.MatchedKeywords, ", "), m.PatternHits),
		Confidence: m.Confidence,
	}

	return domain.ProductionElement{
		ID:          fmt.Sprintf("%s-%s-%d", sceneID, category, ordinal),
		Category:    category,
		Name:        excerpt,
		Description: taxonomy.DisplayName(category) + ": " + excerpt,
		SceneID:     sceneID,
		Evidence:    evidence,
		Confidence:  evidence.Confidence,
		ExtractedBy: domain.Provenance{
			AgentType:    "classification_engine",
			AgentVersion: e.version,
			ModelUsed:    "rule_based",
			Timestamp:    time.Now().UTC(),
		},
		Context: domain.ElementContext{
			SceneContext: context,
		},
		Dependencies: []string{},
	}
}
