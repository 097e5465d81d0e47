package classifier_test

import (
	"context"
	"testing"

	"github.com/jonesrussell/script-breakdown/internal/classifier"
	"github.com/jonesrussell/script-breakdown/internal/domain"
	"github.com/jonesrussell/script-breakdown/internal/logging"
	"github.com/jonesrussell/script-breakdown/internal/taxonomy"
)

func newTestEngine(t *testing.T) *classifier.Engine {
	t.Helper()
	return classifier.NewEngine(taxonomy.Default(), logging.NewNop(), nil, classifier.Config{
		Version:     "test",
		Concurrency: 2,
	})
}

func TestEngine_Classify_BestCandidate(t *testing.T) {
	engine := newTestEngine(t)

	element := engine.Classify("يحمل أحمد فنجان قهوة", "", "scene-1")
	if element == nil {
		t.Fatal("expected an element")
	}
	if element.Category != domain.CategoryProps {
		t.Errorf("category = %s, want props", element.Category)
	}
	if element.Confidence != element.Evidence.Confidence {
		t.Errorf("element confidence %v != evidence confidence %v",
			element.Confidence, element.Evidence.Confidence)
	}
	if element.Name != "فنجان" {
		t.Errorf("name = %q, want first keyword hit", element.Name)
	}
	if element.SceneID != "scene-1" {
		t.Errorf("scene id = %q", element.SceneID)
	}
}

func TestEngine_Classify_NoMatchReturnsNil(t *testing.T) {
	engine := newTestEngine(t)

	if el := engine.Classify("يمشي في الشارع صامتا", "", "scene-1"); el != nil {
		t.Errorf("expected nil element, got %+v", el)
	}
	if el := engine.Classify("", "", "scene-1"); el != nil {
		t.Errorf("empty text must not classify, got %+v", el)
	}
}

func TestEngine_Classify_TieBreakByPriority(t *testing.T) {
	// Two categories share a keyword and threshold; the rule with the lower
	// priority value must win the tie.
	registry := mustRegistry(t, []domain.ClassificationRule{
		{
			Category:            domain.CategoryWardrobe,
			Keywords:            []string{"قبعة"},
			ConfidenceThreshold: 0.25,
			Priority:            90,
		},
		{
			Category:            domain.CategoryProps,
			Keywords:            []string{"قبعة"},
			ConfidenceThreshold: 0.25,
			Priority:            80,
		},
	})
	engine := classifier.NewEngine(registry, logging.NewNop(), nil, classifier.Config{Version: "test"})

	element := engine.Classify("يرتدي الرجل قبعة سوداء", "", "scene-1")
	if element == nil {
		t.Fatal("expected an element")
	}
	if element.Category != domain.CategoryProps {
		t.Errorf("tie broken to %s, want props (lower priority value)", element.Category)
	}
}

func TestEngine_ClassifyScript_SampleScene(t *testing.T) {
	engine := newTestEngine(t)

	text := "مشهد 1 - داخلي نهار مقهى\n" +
		"يجلس أحمد في المقهى ويحمل فنجان قهوة ساخن.\n" +
		"تتوقف سيارة حمراء أمام المقهى.\n"

	elements := engine.ClassifyScript(context.Background(), text, "scene-1", nil)
	if len(elements) == 0 {
		t.Fatal("expected elements")
	}

	normalized := classifier.Normalize(text)
	var sawProps, sawVehicle bool
	for _, el := range elements {
		ev := el.Evidence
		if ev.SpanStart < 0 || ev.SpanStart >= ev.SpanEnd || ev.SpanEnd > len(normalized) {
			t.Errorf("element %s: invalid span [%d,%d)", el.ID, ev.SpanStart, ev.SpanEnd)
		}
		if el.Confidence < 0 || el.Confidence > 1 {
			t.Errorf("element %s: confidence %v out of bounds", el.ID, el.Confidence)
		}
		if el.Category == domain.CategoryProps && el.Name == "فنجان" {
			sawProps = true
			if got := normalized[ev.SpanStart:ev.SpanEnd]; got != "فنجان" {
				t.Errorf("props span text = %q, want فنجان", got)
			}
		}
		if el.Category == domain.CategoryVehicles && el.Name == "سيارة" {
			sawVehicle = true
		}
	}
	if !sawProps {
		t.Error("expected a props element named فنجان")
	}
	if !sawVehicle {
		t.Error("expected a vehicles element named سيارة")
	}
}

func TestEngine_ClassifyScript_Deterministic(t *testing.T) {
	engine := newTestEngine(t)
	text := "يحمل أحمد فنجان قهوة. تتوقف سيارة حمراء أمام المقهى. يرتدي معطفا طويلا."

	first := engine.ClassifyScript(context.Background(), text, "scene-1", nil)
	second := engine.ClassifyScript(context.Background(), text, "scene-1", nil)

	if len(first) != len(second) {
		t.Fatalf("run lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		a, b := first[i], second[i]
		if a.ID != b.ID || a.Category != b.Category || a.Confidence != b.Confidence {
			t.Errorf("element %d differs: %+v vs %+v", i, a, b)
		}
		if a.Evidence.SpanStart != b.Evidence.SpanStart || a.Evidence.SpanEnd != b.Evidence.SpanEnd {
			t.Errorf("element %d spans differ", i)
		}
	}
}

func TestEngine_ClassifyScript_DedupFirstOccurrenceWins(t *testing.T) {
	engine := newTestEngine(t)

	// The same prop mentioned in two sentences must yield one element,
	// anchored at its first occurrence.
	text := "يحمل أحمد فنجان قهوة. يضع أحمد فنجان قهوة على الطاولة."
	elements := engine.ClassifyScript(context.Background(), text, "scene-1", nil)

	count := 0
	var span [2]int
	for _, el := range elements {
		if el.Category == domain.CategoryProps && el.Name == "فنجان" {
			count++
			span = [2]int{el.Evidence.SpanStart, el.Evidence.SpanEnd}
		}
	}
	if count != 1 {
		t.Fatalf("expected one deduplicated فنجان element, got %d", count)
	}
	if span[0] == 0 && span[1] == 0 {
		t.Error("dedup kept no span")
	}
	firstIdx := len("يحمل أحمد ")
	if span[0] != firstIdx {
		t.Errorf("kept span starts at %d, want first occurrence at %d", span[0], firstIdx)
	}
}

func TestEngine_ClassifyScript_EmptyInput(t *testing.T) {
	engine := newTestEngine(t)

	for _, text := range []string{"", "   ", "\n\n"} {
		elements := engine.ClassifyScript(context.Background(), text, "scene-1", nil)
		if len(elements) != 0 {
			t.Errorf("text %q: expected no elements, got %d", text, len(elements))
		}
	}
}
