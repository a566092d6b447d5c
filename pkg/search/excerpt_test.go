package search

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExcerpt_WindowAroundMatch(t *testing.T) {
	got, ok := Excerpt("The patient has a fever and chills", "fever", 10, 20)
	if !ok {
		t.Fatal("expected a match")
	}
	if got != "...nt has a fever and chills" {
		t.Errorf("got %q", got)
	}
}

func TestExcerpt_FullTextWhenWindowCoversIt(t *testing.T) {
	got, ok := Excerpt("mild fever", "fever", 40, 80)
	if !ok {
		t.Fatal("expected a match")
	}
	if got != "mild fever" {
		t.Errorf("got %q, want text without ellipses", got)
	}
}

func TestExcerpt_EllipsisOnBothSides(t *testing.T) {
	text := strings.Repeat("x", 100) + "fever" + strings.Repeat("y", 100)
	got, ok := Excerpt(text, "fever", 10, 10)
	if !ok {
		t.Fatal("expected a match")
	}
	if !strings.HasPrefix(got, "...") || !strings.HasSuffix(got, "...") {
		t.Errorf("got %q, want ellipses on both sides", got)
	}
	if !strings.Contains(got, "fever") {
		t.Errorf("excerpt %q lost the match", got)
	}
}

func TestExcerpt_CaseInsensitive(t *testing.T) {
	got, ok := Excerpt("Patient reports a FEVER tonight", "fever", 40, 80)
	if !ok {
		t.Fatal("expected case-insensitive match")
	}
	if !strings.Contains(got, "FEVER") {
		t.Errorf("excerpt %q should keep original casing", got)
	}
}

func TestExcerpt_FirstOccurrenceOnly(t *testing.T) {
	got, ok := Excerpt("fever early, fever late", "fever", 0, 6)
	if !ok {
		t.Fatal("expected a match")
	}
	if got != "fever early..." {
		t.Errorf("got %q, want window around the first occurrence", got)
	}
}

func TestExcerpt_MetacharactersAreLiteral(t *testing.T) {
	if _, ok := Excerpt("axbyc and more", "a.b*c", 40, 80); ok {
		t.Error("pattern-like query must not match as a pattern")
	}
	got, ok := Excerpt("dosage a.b*c noted", "a.b*c", 40, 80)
	if !ok {
		t.Fatal("literal occurrence of the metacharacters should match")
	}
	if !strings.Contains(got, "a.b*c") {
		t.Errorf("got %q", got)
	}
}

func TestExcerpt_NoMatch(t *testing.T) {
	if got, ok := Excerpt("no symptoms today", "fever", 40, 80); ok {
		t.Errorf("unexpected match %q", got)
	}
}

func TestExcerpt_EmptyInputs(t *testing.T) {
	if _, ok := Excerpt("", "fever", 40, 80); ok {
		t.Error("empty text must not match")
	}
	if _, ok := Excerpt("fever", "", 40, 80); ok {
		t.Error("empty query must not match")
	}
}

func TestExcerpt_LengthChangingFoldKeepsOffsets(t *testing.T) {
	// Lowercasing U+0130 expands it from two bytes to three, so offsets
	// computed in the lowered string do not line up with the original.
	got, ok := Excerpt("İİİİ fever case", "fever", 0, 5)
	if !ok {
		t.Fatal("expected a match")
	}
	if got != "...fever case" {
		t.Errorf("got %q, want %q", got, "...fever case")
	}
}

func TestExcerpt_RespectsRuneBoundaries(t *testing.T) {
	text := strings.Repeat("é", 30) + "fiebre" + strings.Repeat("ü", 60)
	got, ok := Excerpt(text, "fiebre", 7, 7)
	if !ok {
		t.Fatal("expected a match")
	}
	if !utf8.ValidString(got) {
		t.Errorf("excerpt %q slices a multi-byte rune", got)
	}
}
