// Package classifier implements the deterministic rule-based classification
// engine: scoring text units against the taxonomy and producing
// evidence-backed production elements.
package classifier

import (
	"strings"
	"unicode/utf8"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/jonesrussell/script-breakdown/internal/taxonomy"
)

// Scoring weights. Additive per hit, clamped to [0,1] after summing.
const (
	keywordWeight   = 0.3
	patternWeight   = 0.2
	exclusionWeight = 0.4
)

// fallbackExcerptRunes is the excerpt length when neither a keyword nor a
// pattern hit lands inside the text itself.
const fallbackExcerptRunes = 20

// MatchResult is a candidate classification of one text unit against one rule.
type MatchResult struct {
	Rule            *taxonomy.CompiledRule
	Confidence      float64
	MatchedKeywords []string
	PatternHits     int
	Excerpt         string
	SpanStart       int
	SpanEnd         int
}

// Matcher evaluates taxonomy rules against text units. An Aho-Corasick
// automaton over all rule keywords prefilters keyword membership in a single
// pass; scoring itself stays exactly additive per rule.
type Matcher struct {
	registry *taxonomy.Registry
	trie     *ahocorasick.Matcher
	keywords []string
}

// NewMatcher builds the keyword automaton from the registry rules.
func NewMatcher(registry *taxonomy.Registry) *Matcher {
	var keywords []string
	for _, rule := range registry.Rules() {
		for _, kw := range rule.Keywords {
			normalized := strings.ToLower(strings.TrimSpace(kw))
			if normalized != "" {
				keywords = append(keywords, normalized)
			}
		}
	}

	m := &Matcher{registry: registry, keywords: keywords}
	if len(keywords) > 0 {
		m.trie = ahocorasick.NewStringMatcher(keywords)
	}
	return m
}

// MatchAll scores every rule in the registry against (text, context) and
// returns the candidates that pass their own thresholds, in registry order.
func (m *Matcher) MatchAll(text, context string) []*MatchResult {
	present := m.keywordsPresent(text, context)

	var results []*MatchResult
	for _, rule := range m.registry.Rules() {
		if r := m.matchRule(rule, text, context, present); r != nil {
			results = append(results, r)
		}
	}
	return results
}

// keywordsPresent runs the automaton over text and context separately and
// returns the set of keywords found in either. Separate passes keep a keyword
// from matching across the text/context boundary.
func (m *Matcher) keywordsPresent(text, context string) map[string]bool {
	if m.trie == nil {
		return nil
	}

	present := make(map[string]bool)
	for _, input := range []string{text, context} {
		if input == "" {
			continue
		}
		for _, hit := range m.trie.Match([]byte(strings.ToLower(input))) {
			if hit < len(m.keywords) {
				present[m.keywords[hit]] = true
			}
		}
	}
	return present
}

// matchRule applies the additive scoring contract. present may be nil, in
// which case keyword membership is checked by direct substring search.
func (m *Matcher) matchRule(rule *taxonomy.CompiledRule, text, context string, present map[string]bool) *MatchResult {
	if text == "" {
		return nil
	}

	lowerText := strings.ToLower(text)
	lowerContext := strings.ToLower(context)

	var matched []string
	for _, kw := range rule.Keywords {
		normalized := strings.ToLower(strings.TrimSpace(kw))
		if normalized == "" {
			continue
		}
		found := false
		if present != nil {
			found = present[normalized] &&
				(strings.Contains(lowerText, normalized) || strings.Contains(lowerContext, normalized))
		} else {
			found = strings.Contains(lowerText, normalized) || strings.Contains(lowerContext, normalized)
		}
		if found {
			matched = append(matched, normalized)
		}
	}

	patternHits := 0
	for _, re := range rule.ContextPatterns {
		if re.MatchString(text) || (context != "" && re.MatchString(context)) {
			patternHits++
		}
	}

	exclusionHits := 0
	for _, re := range rule.ExclusionPatterns {
		if re.MatchString(text) || (context != "" && re.MatchString(context)) {
			exclusionHits++
		}
	}

	score := keywordWeight*float64(len(matched)) +
		patternWeight*float64(patternHits) -
		exclusionWeight*float64(exclusionHits)
	if score <= 0 {
		return nil
	}
	if score > 1 {
		score = 1
	}
	if score < rule.ConfidenceThreshold {
		return nil
	}

	result := &MatchResult{
		Rule:            rule,
		Confidence:      score,
		MatchedKeywords: matched,
		PatternHits:     patternHits,
	}
	m.extractSpan(result, text, lowerText, context)
	return result
}

// extractSpan fills the evidence span: the excerpt is the first keyword hit
// inside the text, else the first context-pattern match inside the text, else
// the pattern match inside the context, else the leading runes of the text.
// Offsets are byte offsets of the excerpt in text; an excerpt that only
// occurs in the context widens the span to the whole unit.
func (m *Matcher) extractSpan(r *MatchResult, text, lowerText, context string) {
	for _, kw := range r.MatchedKeywords {
		if idx := strings.Index(lowerText, kw); idx >= 0 {
			r.SpanStart = idx
			r.SpanEnd = idx + len(kw)
			r.Excerpt = text[r.SpanStart:r.SpanEnd]
			return
		}
	}

	for _, re := range r.Rule.ContextPatterns {
		if loc := re.FindStringIndex(text); loc != nil && loc[1] > loc[0] {
			r.SpanStart = loc[0]
			r.SpanEnd = loc[1]
			r.Excerpt = text[loc[0]:loc[1]]
			return
		}
	}

	if r.PatternHits > 0 && context != "" {
		for _, re := range r.Rule.ContextPatterns {
			hit := re.FindString(context)
			if hit == "" {
				continue
			}
			r.Excerpt = hit
			if idx := strings.Index(text, hit); idx >= 0 {
				r.SpanStart = idx
				r.SpanEnd = idx + len(hit)
			} else {
				r.SpanStart = 0
				r.SpanEnd = len(text)
			}
			return
		}
	}

	// Keywords hit only in the context: excerpt the head of the text, which
	// is a substring of the text at offset zero.
	excerpt := text
	if utf8.RuneCountInString(text) > fallbackExcerptRunes {
		runes := []rune(text)
		excerpt = string(runes[:fallbackExcerptRunes])
	}
	r.SpanStart = 0
	r.SpanEnd = len(excerpt)
	r.Excerpt = excerpt
}
