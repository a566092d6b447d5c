package store

import "time"

// Message roles.
const (
	RoleDoctor  = "doctor"
	RolePatient = "patient"
)

// Message kinds.
const (
	KindText  = "text"
	KindAudio = "audio"
)

// ValidRole reports whether role is one of the two conversation roles.
func ValidRole(role string) bool {
	return role == RoleDoctor || role == RolePatient
}

// Message is one utterance in a conversation. TranslatedContent is either
// empty (translation failed or was suppressed as identical) or a non-empty
// string differing from Content. Audio messages carry an empty Content and
// a reference to the recorded clip.
type Message struct {
	ID                int64     `json:"id"`
	ConversationID    string    `json:"conversationId"`
	Role              string    `json:"role"`
	Content           string    `json:"content"`
	TranslatedContent string    `json:"translatedContent"`
	SourceLanguage    string    `json:"sourceLanguage"`
	TargetLanguage    string    `json:"targetLanguage"`
	Kind              string    `json:"type"`
	AudioURL          string    `json:"audioUrl,omitempty"`
	AudioDuration     float64   `json:"audioDuration,omitempty"`
	CreatedAt         time.Time `json:"timestamp"`
}

// Conversation is an append-only, chronologically ordered sequence of
// messages between a doctor and a patient, each speaking their configured
// language. UpdatedAt advances on every message append and on every name
// or summary change.
type Conversation struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	DoctorLanguage     string     `json:"doctorLanguage"`
	PatientLanguage    string     `json:"patientLanguage"`
	Summary            string     `json:"summary,omitempty"`
	SummaryGeneratedAt *time.Time `json:"summaryGeneratedAt,omitempty"`
	Messages           []*Message `json:"messages,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}
