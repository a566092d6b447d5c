package translate

import (
	"context"
)

// Candidate is one hypothesis translation with a provider-supplied quality
// score. Quality is a relative ranking, not an absolute probability.
type Candidate struct {
	Text    string
	Quality float64
}

// Result is the normalized shape of a provider response: an optional
// primary translation plus a variable-length list of alternatives.
type Result struct {
	// Primary is the provider's main translation, or "" when the provider
	// returned only a warning/error placeholder.
	Primary string
	// Alternatives are additional scored hypotheses, in provider order.
	Alternatives []Candidate
}

// Provider defines the interface for machine translation backends.
// This abstraction allows us to switch between different MT engines
// (MyMemory, LibreTranslate) without changing the orchestrator.
type Provider interface {
	// Call translates one segment from sourceLocale to targetLocale.
	// Locales are provider-preferred variants (see LocaleMapper), not
	// necessarily bare ISO 639-1 codes.
	Call(ctx context.Context, segment, sourceLocale, targetLocale string) (*Result, error)

	// Name identifies the backend in logs, errors and metrics.
	Name() string
}

// DefaultLocaleTable maps supported 2-letter codes to the locale variants
// some engines prefer for better routing. Codes absent from the table pass
// through unchanged.
var DefaultLocaleTable = map[string]string{
	"zh": "zh-CN",
	// en, es, fr, de, ar, hi, pt, tl are fine as 2-letter codes.
}

// LocaleMapper converts internal language codes to provider-preferred
// locale variants. The table is injected so engines with different
// preferences (and tests) can substitute their own.
type LocaleMapper struct {
	table map[string]string
}

// NewLocaleMapper creates a mapper over the given table. A nil table means
// all codes pass through unchanged.
func NewLocaleMapper(table map[string]string) *LocaleMapper {
	return &LocaleMapper{table: table}
}

// ToLocale returns the provider-preferred locale for code, or code itself
// when no preference is configured.
func (m *LocaleMapper) ToLocale(code string) string {
	if m == nil || m.table == nil {
		return code
	}
	if locale, ok := m.table[code]; ok {
		return locale
	}
	return code
}
