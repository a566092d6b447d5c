package language

import "testing"

func TestResolve_RoleDefaults(t *testing.T) {
	policy := NewPolicy(NewDetector(nil, quietLogger()))
	settings := Settings{DoctorLanguage: "en", PatientLanguage: "es"}

	from, to := policy.Resolve("patient", "", "", settings, "hola")
	if from != "es" || to != "en" {
		t.Errorf("patient: got (%q, %q), want (es, en)", from, to)
	}

	from, to = policy.Resolve("doctor", "", "", settings, "hello")
	if from != "en" || to != "es" {
		t.Errorf("doctor: got (%q, %q), want (en, es)", from, to)
	}
}

func TestResolve_ExplicitOverridesWin(t *testing.T) {
	policy := NewPolicy(NewDetector(nil, quietLogger()))
	settings := Settings{DoctorLanguage: "en", PatientLanguage: "es"}

	from, to := policy.Resolve("patient", "fr", "de", settings, "bonjour")
	if from != "fr" || to != "de" {
		t.Errorf("got (%q, %q), want (fr, de)", from, to)
	}
}

func TestResolve_AutoDetectsFromContent(t *testing.T) {
	policy := NewPolicy(NewDetector(nil, quietLogger()))
	// Doctor configured as English, but the message is clearly Spanish.
	settings := Settings{DoctorLanguage: "en", PatientLanguage: "zh"}

	from, to := policy.Resolve("doctor", Auto, "", settings,
		"Me duele mucho la cabeza y tengo fiebre desde ayer por la noche.")
	if from != "es" {
		t.Errorf("from = %q, want es", from)
	}
	if to != "zh" {
		t.Errorf("to = %q, want zh", to)
	}
}

func TestResolve_AutoFallsBackToRoleDefault(t *testing.T) {
	policy := NewPolicy(NewDetector(nil, quietLogger()))
	settings := Settings{DoctorLanguage: "en", PatientLanguage: "es"}

	// Content too short to identify keeps the patient's configured language.
	from, to := policy.Resolve("patient", Auto, "", settings, "k")
	if from != "es" || to != "en" {
		t.Errorf("got (%q, %q), want (es, en)", from, to)
	}
}
