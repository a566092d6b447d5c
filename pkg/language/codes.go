// Package language implements language identification and per-message
// language resolution for doctor-patient conversations.
package language

// Auto is a request-only sentinel asking the server to detect the source
// language from the message content. It is resolved away before anything
// is persisted.
const Auto = "auto"

// DefaultCode is used whenever detection is unreliable or fails.
const DefaultCode = "en"

// SupportedCodes lists the 2-letter language codes the system accepts.
var SupportedCodes = []string{"en", "es", "fr", "de", "zh", "ar", "hi", "pt", "tl"}

var supported = func() map[string]bool {
	m := make(map[string]bool, len(SupportedCodes))
	for _, c := range SupportedCodes {
		m[c] = true
	}
	return m
}()

// IsSupported reports whether code is a member of the supported set.
// The Auto sentinel is not a real language and is not supported.
func IsSupported(code string) bool {
	return supported[code]
}

// Sanitize returns code unchanged when it is supported, DefaultCode
// otherwise. Every code written to storage passes through here.
func Sanitize(code string) string {
	if IsSupported(code) {
		return code
	}
	return DefaultCode
}
