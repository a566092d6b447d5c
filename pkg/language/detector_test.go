package language

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestDetect_SupportedLanguages(t *testing.T) {
	detector := NewDetector(nil, quietLogger())

	cases := []struct {
		text string
		want string
	}{
		{"The patient has a fever and chills since yesterday evening.", "en"},
		{"Me duele mucho la cabeza y tengo fiebre desde ayer por la noche.", "es"},
		{"Je ressens une douleur aiguë dans la poitrine depuis ce matin.", "fr"},
		{"Der Patient klagt seit gestern über starke Kopfschmerzen und Fieber.", "de"},
		{"我的头很疼，而且从昨天开始一直发烧。", "zh"},
	}
	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			if got := detector.Detect(tc.text); got != tc.want {
				t.Errorf("Detect(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}

func TestDetect_FallsBackToDefault(t *testing.T) {
	detector := NewDetector(nil, quietLogger())

	for _, text := range []string{"", " ", "x", "7"} {
		if got := detector.Detect(text); got != DefaultCode {
			t.Errorf("Detect(%q) = %q, want %q", text, got, DefaultCode)
		}
	}
}

func TestIdentify_RejectsTooShortInput(t *testing.T) {
	detector := NewDetector(nil, quietLogger())

	if _, ok := detector.Identify("a"); ok {
		t.Error("single rune should not be identifiable")
	}
	if _, ok := detector.Identify("   a   "); ok {
		t.Error("whitespace padding should not make input identifiable")
	}
}

func TestIdentify_MapsFamilyCodesThroughTable(t *testing.T) {
	// A table without a Spanish mapping makes Spanish unidentifiable even
	// when the model recognizes it.
	detector := NewDetector(map[string]string{"eng": "en"}, quietLogger())

	if code, ok := detector.Identify("Me duele mucho la cabeza y tengo fiebre desde ayer."); ok {
		t.Errorf("unmapped family should be rejected, got %q", code)
	}
}

func TestSanitize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"es", "es"},
		{"zh", "zh"},
		{"xx", "en"},
		{"", "en"},
		{Auto, "en"},
	}
	for _, tc := range cases {
		if got := Sanitize(tc.in); got != tc.want {
			t.Errorf("Sanitize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIsSupported(t *testing.T) {
	for _, code := range SupportedCodes {
		if !IsSupported(code) {
			t.Errorf("IsSupported(%q) = false", code)
		}
	}
	if IsSupported(Auto) {
		t.Error("the auto sentinel must not count as a supported language")
	}
}
