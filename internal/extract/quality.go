package extract

import (
	"strings"
	"unicode/utf8"
)

// Quality thresholds for direct-extraction output. The escalation threshold
// and the hard floor are distinct on purpose: some text below the first
// still yields an OCR-augmented result, while essentially no text below the
// second forces the pure-OCR last resort.
const (
	escalationThreshold = 100
	hardTextFloor       = 50
)

// NeedsEscalation reports whether direct-extracted text is too sparse to
// trust, which usually means the document is scanned. Pure function over
// the stripped character count; deterministic, total, idempotent.
func NeedsEscalation(text string) bool {
	return strippedLength(text) < escalationThreshold
}

// BelowHardFloor reports whether the combined direct output is so close to
// empty that OCR must be attempted unconditionally as the last resort.
func BelowHardFloor(text string) bool {
	return strippedLength(text) < hardTextFloor
}

func strippedLength(text string) int {
	return utf8.RuneCountInString(strings.TrimSpace(text))
}
