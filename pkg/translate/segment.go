package translate

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxSegmentBytes is the per-request byte budget of the free
// MyMemory tier. Segments never exceed it when UTF-8 encoded.
const DefaultMaxSegmentBytes = 500

// SplitSegments splits text into non-empty segments of at most maxBytes
// UTF-8 bytes each, preferring sentence boundaries. Joining the segments
// with single spaces reproduces the input modulo whitespace normalization.
// Empty or whitespace-only input yields no segments.
func SplitSegments(text string, maxBytes int) []string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	var segments []string
	current := ""
	for _, part := range splitSentences(trimmed) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		candidate := part
		if current != "" {
			candidate = current + " " + part
		}
		if len(candidate) <= maxBytes {
			current = candidate
			continue
		}

		if current != "" {
			segments = append(segments, current)
			current = ""
		}
		if len(part) <= maxBytes {
			current = part
			continue
		}
		// A single sentence exceeds the budget on its own.
		segments = append(segments, splitOversized(part, maxBytes)...)
	}
	if current != "" {
		segments = append(segments, current)
	}
	return segments
}

// splitSentences cuts text after sentence-ending punctuation followed by
// whitespace, and on newlines. Separator whitespace is left attached and
// trimmed by the caller.
func splitSentences(text string) []string {
	var parts []string
	var b strings.Builder
	rs := []rune(text)
	for i, r := range rs {
		if r == '\n' {
			parts = append(parts, b.String())
			b.Reset()
			continue
		}
		b.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(rs) && unicode.IsSpace(rs[i+1]) {
			parts = append(parts, b.String())
			b.Reset()
		}
	}
	parts = append(parts, b.String())
	return parts
}

// splitOversized repeatedly cuts an over-budget sentence near the midpoint
// of the budget, preferring a comma or space boundary so words are not
// severed. Every emitted piece fits within maxBytes as long as the budget
// holds at least one rune.
func splitOversized(part string, maxBytes int) []string {
	var segments []string
	rest := part
	for rest != "" {
		if len(rest) <= maxBytes {
			segments = append(segments, rest)
			break
		}
		cut := boundaryCut(rest, maxBytes/2)
		if cut == 0 {
			// A sub-rune budget cannot be honored; take one rune so the
			// loop always advances.
			_, cut = utf8.DecodeRuneInString(rest)
		}
		if piece := strings.TrimSpace(rest[:cut]); piece != "" {
			segments = append(segments, piece)
		}
		rest = strings.TrimSpace(rest[cut:])
	}
	return segments
}

// boundaryCut picks a cut position at most half bytes into s: the last
// space if one sits reasonably late, otherwise the last comma, otherwise a
// hard cut at the (rune-aligned) midpoint.
func boundaryCut(s string, half int) int {
	end := half
	for end > 0 && !utf8.RuneStart(s[end]) {
		end--
	}
	if end == 0 {
		end = nextRuneBoundary(s, half)
	}

	chunk := s[:end]
	lastComma := strings.LastIndexByte(chunk, ',')
	lastSpace := strings.LastIndexByte(chunk, ' ')
	switch {
	case float64(lastSpace) > float64(lastComma)*0.5:
		return lastSpace + 1
	case lastComma > 0:
		return lastComma + 1
	default:
		return end
	}
}

func nextRuneBoundary(s string, i int) int {
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return i
}
