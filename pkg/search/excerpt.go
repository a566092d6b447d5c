// Package search implements keyword search over stored conversations and
// the excerpt windows shown around each match.
package search

import (
	"strings"
	"unicode/utf8"
)

// Default excerpt window sizes, in bytes around the match.
const (
	DefaultContextBefore = 40
	DefaultContextAfter  = 80
)

// Excerpt returns a bounded context window around the first
// case-insensitive occurrence of query in text, with "..." markers on each
// side that was truncated. The window spans from before bytes ahead of the
// match to after bytes past its end. Only the first occurrence is
// reported. The second return value is false when text does not contain
// query.
func Excerpt(text, query string, before, after int) (string, bool) {
	if text == "" || query == "" {
		return "", false
	}
	idx := foldIndex(text, query)
	if idx < 0 {
		return "", false
	}

	start := idx - before
	if start < 0 {
		start = 0
	}
	end := idx + len(query) + after
	if end > len(text) {
		end = len(text)
	}
	start = snapToRuneStart(text, start)
	end = snapToRuneStart(text, end)

	var b strings.Builder
	if start > 0 {
		b.WriteString("...")
	}
	b.WriteString(text[start:end])
	if end < len(text) {
		b.WriteString("...")
	}
	return b.String(), true
}

// foldIndex locates the first case-insensitive occurrence of query in text
// and returns its byte offset in the original text. Lowercasing almost
// always preserves byte offsets; for the few runes where it does not
// (e.g. U+0130), the lowered offset is mapped back rune by rune.
func foldIndex(text, query string) int {
	lowerText := strings.ToLower(text)
	idx := strings.Index(lowerText, strings.ToLower(query))
	if idx < 0 {
		return -1
	}
	if len(lowerText) == len(text) {
		return idx
	}

	orig, lowered := 0, 0
	for lowered < idx && orig < len(text) {
		r, size := utf8.DecodeRuneInString(text[orig:])
		lowered += len(strings.ToLower(string(r)))
		orig += size
	}
	return orig
}

// snapToRuneStart moves i backwards to the nearest rune boundary so the
// window never slices a multi-byte character in half.
func snapToRuneStart(s string, i int) int {
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}
