package translate

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/norm"
)

// Translator orchestrates a full-message translation: it normalizes the
// input, splits it into provider-safe segments, resolves each segment
// against the provider and reassembles the result.
//
// Translate never fails: any error at any step degrades to an empty
// translated string so a translation failure cannot block message delivery.
type Translator struct {
	provider Provider
	locales  *LocaleMapper
	maxBytes int
	timeout  time.Duration
	logger   *logrus.Logger
}

// NewTranslator creates an orchestrator over the given provider. locales
// may be nil when the provider takes bare 2-letter codes.
func NewTranslator(provider Provider, locales *LocaleMapper, maxBytes int, timeout time.Duration, logger *logrus.Logger) *Translator {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxSegmentBytes
	}
	if timeout <= 0 {
		timeout = DefaultProviderTimeout
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Translator{
		provider: provider,
		locales:  locales,
		maxBytes: maxBytes,
		timeout:  timeout,
		logger:   logger,
	}
}

// Translate translates text from fromLang to toLang and returns the
// translated string, or "" when translation failed or produced a result
// identical to the input. A same-language pair is a no-op that returns the
// normalized input unchanged.
//
// Segments are resolved strictly sequentially: the provider is a shared,
// rate-limited resource and reassembly depends on segment order.
func (t *Translator) Translate(ctx context.Context, text, fromLang, toLang string) string {
	trimmed := normalizeInput(text)
	if trimmed == "" {
		return ""
	}
	if fromLang == toLang {
		return trimmed
	}

	segments := SplitSegments(trimmed, t.maxBytes)
	if len(segments) == 0 {
		return ""
	}

	startTime := time.Now()
	observeSegments(t.provider.Name(), len(segments))

	translated := make([]string, 0, len(segments))
	for _, segment := range segments {
		out, err := t.resolveSegment(ctx, segment, fromLang, toLang)
		if err != nil {
			t.logger.WithError(err).WithFields(logrus.Fields{
				"from_lang": fromLang,
				"to_lang":   toLang,
				"segments":  len(segments),
			}).Warn("Translation failed, degrading to empty result")
			recordTranslation(t.provider.Name(), statusFailed, time.Since(startTime))
			return ""
		}
		translated = append(translated, out)
	}

	result := strings.TrimSpace(strings.Join(translated, " "))
	if strings.EqualFold(result, trimmed) {
		// Either the provider echoed the input back or the text needed no
		// translation; both are suppressed rather than shown as a no-op.
		recordTranslation(t.provider.Name(), statusSuppressed, time.Since(startTime))
		return ""
	}

	recordTranslation(t.provider.Name(), statusTranslated, time.Since(startTime))
	return result
}

// resolveSegment queries the provider for one segment, merges the primary
// result and the alternatives into a single ranked candidate list and
// returns the text of the best non-identity candidate.
func (t *Translator) resolveSegment(ctx context.Context, segment, fromLang, toLang string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	callStart := time.Now()
	res, err := t.provider.Call(callCtx, segment, t.locales.ToLocale(fromLang), t.locales.ToLocale(toLang))
	recordProviderCall(t.provider.Name(), err == nil, time.Since(callStart))
	if err != nil {
		return "", err
	}

	candidates := make([]Candidate, 0, len(res.Alternatives)+1)
	for _, alt := range res.Alternatives {
		text := strings.TrimSpace(alt.Text)
		if text == "" || strings.EqualFold(text, segment) {
			continue
		}
		candidates = append(candidates, Candidate{Text: text, Quality: alt.Quality})
	}

	// A usable primary result outranks every alternative, but the
	// alternatives are kept as fallback.
	if primary := strings.TrimSpace(res.Primary); primary != "" && !strings.EqualFold(primary, segment) {
		best := 0.0
		for _, c := range candidates {
			if c.Quality > best {
				best = c.Quality
			}
		}
		candidates = append(candidates, Candidate{Text: primary, Quality: best + 1})
	}

	if len(candidates) == 0 {
		return "", &ProviderError{Provider: t.provider.Name(), Err: ErrNoTranslation}
	}

	// Stable: equal quality keeps first-seen order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Quality > candidates[j].Quality
	})
	return candidates[0].Text, nil
}

// normalizeInput trims the text, applies Unicode canonical composition and
// strips a single layer of enclosing straight quotes.
func normalizeInput(text string) string {
	s := strings.TrimSpace(text)
	s = norm.NFC.String(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(s, `"`), `"`))
	}
	return s
}
