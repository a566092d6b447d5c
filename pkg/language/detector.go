package language

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pemistahl/lingua-go"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/norm"
)

// minDetectableRunes is the shortest input worth running through the
// statistical model. Anything below this is unreliable noise.
const minDetectableRunes = 2

// DefaultCodeTable maps ISO 639-3 family codes reported by the
// identification model to the supported 2-letter codes. Macrolanguage
// variants (arb/ara, cmn/nan/zho) collapse onto one code.
var DefaultCodeTable = map[string]string{
	"eng": "en",
	"spa": "es",
	"fra": "fr",
	"deu": "de",
	"zho": "zh",
	"cmn": "zh",
	"nan": "zh",
	"arb": "ar",
	"ara": "ar",
	"hin": "hi",
	"por": "pt",
	"tgl": "tl",
}

// Detector identifies the language of free-form text using an n-gram
// statistical model restricted to the supported language set.
type Detector struct {
	model  lingua.LanguageDetector
	table  map[string]string
	logger *logrus.Logger
}

// NewDetector creates a detector backed by the given family-code table.
// A nil table uses DefaultCodeTable.
func NewDetector(table map[string]string, logger *logrus.Logger) *Detector {
	if table == nil {
		table = DefaultCodeTable
	}
	if logger == nil {
		logger = logrus.New()
	}

	candidates := []lingua.Language{
		lingua.English,
		lingua.Spanish,
		lingua.French,
		lingua.German,
		lingua.Chinese,
		lingua.Arabic,
		lingua.Hindi,
		lingua.Portuguese,
		lingua.Tagalog,
	}
	model := lingua.NewLanguageDetectorBuilder().
		FromLanguages(candidates...).
		Build()

	return &Detector{
		model:  model,
		table:  table,
		logger: logger,
	}
}

// Identify reports the detected supported code and whether the model
// produced a usable result. Inputs shorter than two runes are rejected
// outright.
func (d *Detector) Identify(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if utf8.RuneCountInString(trimmed) < minDetectableRunes {
		return "", false
	}

	normalized := stripMarks(trimmed)
	lang, ok := d.model.DetectLanguageOf(normalized)
	if !ok {
		d.logger.WithFields(logrus.Fields{
			"text_length": len(trimmed),
		}).Debug("Language identification was inconclusive")
		return "", false
	}

	family := strings.ToLower(lang.IsoCode639_3().String())
	code, ok := d.table[family]
	if !ok {
		d.logger.WithFields(logrus.Fields{
			"family_code": family,
		}).Debug("Detected family code has no supported mapping")
		return "", false
	}
	return code, true
}

// Detect returns the detected language code, falling back to DefaultCode
// when identification fails. It never returns an error.
func (d *Detector) Detect(text string) string {
	if code, ok := d.Identify(text); ok {
		return code
	}
	return DefaultCode
}

// stripMarks removes diacritical marks so accented text is not mistaken
// for a visually similar language.
func stripMarks(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
