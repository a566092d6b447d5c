package language

// Settings carries a conversation's configured languages for the two roles.
type Settings struct {
	DoctorLanguage  string
	PatientLanguage string
}

// Policy computes the effective source and target language for a single
// message. Resolution happens once, at message-creation time; the resolved
// codes are persisted with the message because conversation settings may
// change afterwards.
type Policy struct {
	detector *Detector
}

// NewPolicy creates a resolution policy backed by the given detector.
func NewPolicy(detector *Detector) *Policy {
	return &Policy{detector: detector}
}

// Resolve maps a message's role and optional overrides onto an effective
// (from, to) language pair. An empty override means "use the conversation
// default"; the Auto sentinel asks for detection on the message content,
// falling back to the role default when detection is inconclusive.
func (p *Policy) Resolve(role, fromOverride, toOverride string, s Settings, content string) (string, string) {
	from := s.PatientLanguage
	to := s.DoctorLanguage
	if role == "doctor" {
		from, to = to, from
	}

	switch fromOverride {
	case "":
		// keep role default
	case Auto:
		if detected, ok := p.detector.Identify(content); ok {
			from = detected
		}
	default:
		from = fromOverride
	}

	if toOverride != "" {
		to = toOverride
	}
	return from, to
}
