package classifier_test

import (
	"testing"

	"github.com/jonesrussell/script-breakdown/internal/classifier"
)

func TestSplitSentences_OffsetsIndexIntoSource(t *testing.T) {
	text := classifier.Normalize("جملة أولى طويلة. ثم جملة ثانية هنا!\nوجملة ثالثة أخيرة")

	units := classifier.SplitSentences(text)
	if len(units) != 3 {
		t.Fatalf("expected 3 units, got %d: %+v", len(units), units)
	}

	for _, u := range units {
		end := u.Offset + len(u.Text)
		if u.Offset < 0 || end > len(text) {
			t.Fatalf("unit offset out of range: %+v", u)
		}
		if text[u.Offset:end] != u.Text {
			t.Errorf("offset %d does not index unit %q", u.Offset, u.Text)
		}
	}
}

func TestSplitSentences_Terminators(t *testing.T) {
	testCases := []struct {
		name string
		text string
		want int
	}{
		{name: "arabic question mark", text: "هل تسمعني الآن؟ نعم أسمعك جيدا", want: 2},
		{name: "arabic semicolon", text: "دخل المنزل مسرعا؛ كانت الأنوار مطفأة", want: 2},
		{name: "ellipsis", text: "انتظر قليلا… ثم تابع طريقه بهدوء", want: 2},
		{name: "newline", text: "سطر أول كامل\nسطر ثان كامل", want: 2},
		{name: "no terminator", text: "جملة واحدة بلا نهاية", want: 1},
		{name: "empty", text: "", want: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			units := classifier.SplitSentences(tc.text)
			if len(units) != tc.want {
				t.Errorf("got %d units, want %d: %+v", len(units), tc.want, units)
			}
		})
	}
}

func TestSplitSentences_DropsShortFragments(t *testing.T) {
	// "نعم" is under the minimum unit length and must be discarded.
	units := classifier.SplitSentences("نعم. هذه جملة كاملة تستحق البقاء.")
	if len(units) != 1 {
		t.Fatalf("expected 1 unit, got %d: %+v", len(units), units)
	}
	if units[0].Text != "هذه جملة كاملة تستحق البقاء" {
		t.Errorf("unexpected unit text %q", units[0].Text)
	}
}
