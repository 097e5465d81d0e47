package classifier

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// minUnitRunes is the minimum sentence-unit length; shorter fragments are
// punctuation noise and are discarded.
const minUnitRunes = 5

// Unit is one sentence-like fragment of the source text. Offset is the byte
// offset of the fragment within the NFC-normalized source.
type Unit struct {
	Text   string
	Offset int
}

// sentence terminators: Latin and Arabic punctuation plus hard line breaks.
func isTerminator(r rune) bool {
	switch r {
	case '.', '!', '?', '؟', '؛', '…', '\n':
		return true
	}
	return false
}

// Normalize brings the source text to NFC so that byte offsets are stable for
// mixed Arabic input regardless of how the caller composed it.
func Normalize(text string) string {
	return norm.NFC.String(text)
}

// SplitSentences splits normalized text into sentence units, preserving byte
// offsets into the normalized text. Fragments shorter than minUnitRunes are
// dropped.
func SplitSentences(text string) []Unit {
	var units []Unit

	start := 0
	for i := 0; i <= len(text); {
		var r rune
		var size int
		if i < len(text) {
			r, size = utf8.DecodeRuneInString(text[i:])
		}
		if i == len(text) || isTerminator(r) {
			if u, ok := trimUnit(text[start:i], start); ok {
				units = append(units, u)
			}
			i += size
			if i > len(text) {
				break
			}
			start = i
			if i == len(text) {
				break
			}
			continue
		}
		i += size
	}

	return units
}

// trimUnit strips surrounding whitespace, adjusting the offset, and reports
// whether the fragment is long enough to keep.
func trimUnit(fragment string, offset int) (Unit, bool) {
	trimmedLeft := strings.TrimLeftFunc(fragment, unicode.IsSpace)
	offset += len(fragment) - len(trimmedLeft)
	trimmed := strings.TrimRightFunc(trimmedLeft, unicode.IsSpace)

	if utf8.RuneCountInString(trimmed) < minUnitRunes {
		return Unit{}, false
	}
	return Unit{Text: trimmed, Offset: offset}, true
}
