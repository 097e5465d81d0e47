package pipeline

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jonesrussell/script-breakdown/internal/classifier"
	"github.com/jonesrussell/script-breakdown/internal/domain"
)

// Local heuristics used when the analysis collaborator is unavailable. Each
// fallback is deterministic: same text in, same analysis out.

// emotionKeywords maps an emotion label to its marker words. Order matters
// for the dominant-tone tie break.
var emotionOrder = []string{"فرح", "حزن", "غضب", "خوف"}

var emotionKeywords = map[string][]string{
	"فرح": {"يضحك", "سعيد"},
	"حزن": {"يبكي", "حزين"},
	"غضب": {"يصرخ", "غاضب"},
	"خوف": {"خائف", "قلق"},
}

const emotionHitWeight = 0.25

// sceneHeaderPattern recognizes Arabic and English scene headings:
// "مشهد 1 - داخلي ليل مقهى" or "SCENE 3: EXT DAY street".
var sceneHeaderPattern = regexp.MustCompile(
	`(?im)^\s*(?:مشهد|scene)\s*(\d+)\s*[-:]?\s*` +
		`(?:(INT|EXT|داخلي|خارجي)[./\s]*)?` +
		`(?:(نهار|ليل|يوم|DAY|NIGHT)[./\s]*)?` +
		`(.*)$`)

// expectedElementPattern lists the physical items whose mention implies a
// production element must be extracted.
var expectedElementPattern = regexp.MustCompile(
	`سكين|مسدس|هاتف|كأس|فنجان|كتاب|ورقة|مفتاح|سيارة|عربية|موتوسيكل|باص|دراجة`)

const (
	unknownLocation = "غير محدد"
	pageRunes       = 3000
	eighthsPerPage  = 8
)

// emotionalFallback scores emotion keywords and derives tone and engagement
// from the hit counts.
func emotionalFallback(text string) *domain.EmotionalAnalysis {
	lower := strings.ToLower(text)

	scores := make(map[string]float64, len(emotionOrder))
	total := 0.0
	for _, emotion := range emotionOrder {
		score := 0.0
		for _, kw := range emotionKeywords[emotion] {
			if strings.Contains(lower, kw) {
				score += emotionHitWeight
				total += emotionHitWeight
			}
		}
		if score > 1 {
			score = 1
		}
		scores[emotion] = score
	}
	if total > 1 {
		total = 1
	}

	tone := "neutral"
	best := 0.0
	for _, emotion := range emotionOrder {
		if scores[emotion] > best {
			best = scores[emotion]
			tone = emotion
		}
	}

	return &domain.EmotionalAnalysis{
		Tone:               tone,
		AudienceEngagement: total,
		EmotionScores:      scores,
		KeyMoments:         emotionalMoments(text),
	}
}

// emotionalMoments returns up to three sentences containing emotion keywords.
func emotionalMoments(text string) []string {
	moments := []string{}
	for _, unit := range classifier.SplitSentences(classifier.Normalize(text)) {
		lower := strings.ToLower(unit.Text)
		for _, emotion := range emotionOrder {
			hit := false
			for _, kw := range emotionKeywords[emotion] {
				if strings.Contains(lower, kw) {
					moments = append(moments, unit.Text)
					hit = true
					break
				}
			}
			if hit {
				break
			}
		}
		if len(moments) == 3 {
			break
		}
	}
	return moments
}

// technicalFallback extracts scene headers by regex and derives the expected
// element list from direct item mentions.
func technicalFallback(text string) *domain.TechnicalAnalysis {
	matches := sceneHeaderPattern.FindAllStringSubmatchIndex(text, -1)

	scenes := make([]domain.SceneHeader, 0, len(matches))
	for i, m := range matches {
		bodyEnd := len(text)
		if i+1 < len(matches) {
			bodyEnd = matches[i+1][0]
		}

		scenes = append(scenes, domain.SceneHeader{
			SceneNumber: group(text, m, 1),
			IntExt:      normalizeIntExt(group(text, m, 2)),
			DayNight:    normalizeDayNight(group(text, m, 3)),
			Location:    normalizeLocation(group(text, m, 4)),
			PageEighths: estimateEighths(text[m[0]:bodyEnd]),
		})
	}

	return &domain.TechnicalAnalysis{
		IsValid:          len(scenes) > 0,
		Scenes:           scenes,
		ExpectedElements: expectedElements(text),
		CharacterConsistency: domain.CharacterConsistency{
			Inconsistencies: []string{},
		},
	}
}

// breakdownFallback carries no collaborator hints; classification proceeds on
// local context alone.
func breakdownFallback() *domain.BreakdownAnalysis {
	return &domain.BreakdownAnalysis{}
}

func group(text string, m []int, n int) string {
	start, end := m[2*n], m[2*n+1]
	if start < 0 {
		return ""
	}
	return strings.TrimSpace(text[start:end])
}

func normalizeIntExt(v string) string {
	switch strings.ToLower(v) {
	case "ext", "خارجي":
		return "EXT"
	default:
		return "INT"
	}
}

func normalizeDayNight(v string) string {
	switch strings.ToLower(v) {
	case "ليل", "night":
		return "ليل"
	default:
		return "نهار"
	}
}

func normalizeLocation(v string) string {
	if v == "" {
		return unknownLocation
	}
	return v
}

// estimateEighths sizes a scene in script page eighths from its rune count,
// minimum one eighth.
func estimateEighths(sceneText string) float64 {
	runes := utf8.RuneCountInString(sceneText)
	eighths := float64(runes) * eighthsPerPage / pageRunes
	if eighths < 1 {
		return 1
	}
	return eighths
}

// expectedElements collects the distinct item mentions in declaration order
// of first appearance.
func expectedElements(text string) []string {
	locs := expectedElementPattern.FindAllStringIndex(text, -1)
	type hit struct {
		word string
		pos  int
	}
	seen := make(map[string]int)
	hits := []hit{}
	for _, loc := range locs {
		word := text[loc[0]:loc[1]]
		if _, ok := seen[word]; !ok {
			seen[word] = loc[0]
			hits = append(hits, hit{word: word, pos: loc[0]})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.word)
	}
	return out
}
