// Package service composes the translation pipeline, language resolution,
// persistence, search and summarization into the operations the API layer
// exposes.
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/medbridge/medbridge/pkg/language"
	"github.com/medbridge/medbridge/pkg/search"
	"github.com/medbridge/medbridge/pkg/store"
	"github.com/medbridge/medbridge/pkg/summary"
	"github.com/medbridge/medbridge/pkg/translate"
)

// DefaultListLimit caps conversation listings.
const DefaultListLimit = 100

// Interpreter is the core service of the application: every message that
// enters a conversation flows through it for language resolution and
// translation before being stored.
type Interpreter struct {
	store      *store.Store
	translator *translate.Translator
	detector   *language.Detector
	policy     *language.Policy
	summarizer *summary.Summarizer
	engine     *search.Engine
	logger     *logrus.Logger
}

// New creates the interpreter service.
func New(st *store.Store, tr *translate.Translator, det *language.Detector, sum *summary.Summarizer, logger *logrus.Logger) *Interpreter {
	if logger == nil {
		logger = logrus.New()
	}
	return &Interpreter{
		store:      st,
		translator: tr,
		detector:   det,
		policy:     language.NewPolicy(det),
		summarizer: sum,
		engine:     search.NewEngine(search.DefaultContextBefore, search.DefaultContextAfter),
		logger:     logger,
	}
}

// CreateConversation starts a new conversation. Unsupported or empty
// language codes fall back to the defaults (doctor "en", patient "es").
func (it *Interpreter) CreateConversation(ctx context.Context, doctorLang, patientLang string) (*store.Conversation, error) {
	if doctorLang == "" {
		doctorLang = "en"
	}
	if patientLang == "" {
		patientLang = "es"
	}
	doctorLang = language.Sanitize(doctorLang)
	patientLang = language.Sanitize(patientLang)

	conv, err := it.store.CreateConversation(ctx, doctorLang, patientLang)
	if err != nil {
		return nil, err
	}
	it.logger.WithFields(logrus.Fields{
		"conversation_id":  conv.ID,
		"doctor_language":  doctorLang,
		"patient_language": patientLang,
	}).Info("Conversation created")
	return conv, nil
}

// Conversation returns one conversation with its messages.
func (it *Interpreter) Conversation(ctx context.Context, id string) (*store.Conversation, error) {
	return it.store.GetConversation(ctx, id)
}

// Conversations lists conversations by most recent activity.
func (it *Interpreter) Conversations(ctx context.Context) ([]*store.Conversation, error) {
	return it.store.ListConversations(ctx, DefaultListLimit)
}

// Rename sets a conversation's display name.
func (it *Interpreter) Rename(ctx context.Context, id, name string) error {
	return it.store.RenameConversation(ctx, id, name)
}

// AddTextMessage resolves the message's language pair, translates the
// content and appends the message. Translation failure never blocks the
// append: the message is stored with an empty translation instead. The
// resolved codes are persisted with the message because conversation
// settings may change later.
func (it *Interpreter) AddTextMessage(ctx context.Context, conversationID, role, content, fromOverride, toOverride string) (*store.Message, error) {
	if !store.ValidRole(role) {
		return nil, &ValidationError{Reason: fmt.Sprintf("invalid role %q", role)}
	}

	conv, err := it.store.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	fromLang, toLang := it.policy.Resolve(role, fromOverride, toOverride, language.Settings{
		DoctorLanguage:  conv.DoctorLanguage,
		PatientLanguage: conv.PatientLanguage,
	}, content)
	fromLang = language.Sanitize(fromLang)
	toLang = language.Sanitize(toLang)

	translated := it.translator.Translate(ctx, content, fromLang, toLang)

	// An aborted request must not store a partial message.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	msg, err := it.store.AppendMessage(ctx, &store.Message{
		ConversationID:    conversationID,
		Role:              role,
		Content:           content,
		TranslatedContent: translated,
		SourceLanguage:    fromLang,
		TargetLanguage:    toLang,
		Kind:              store.KindText,
	})
	if err != nil {
		return nil, err
	}

	it.logger.WithFields(logrus.Fields{
		"conversation_id": conversationID,
		"role":            role,
		"from_lang":       fromLang,
		"to_lang":         toLang,
		"translated":      translated != "",
	}).Info("Text message appended")
	return msg, nil
}

// AddAudioMessage appends an audio message. Audio carries no text, so no
// translation happens; the clip reference and duration are stored as-is.
func (it *Interpreter) AddAudioMessage(ctx context.Context, conversationID, role, audioURL string, duration float64) (*store.Message, error) {
	if !store.ValidRole(role) {
		return nil, &ValidationError{Reason: fmt.Sprintf("invalid role %q", role)}
	}
	if audioURL == "" {
		return nil, &ValidationError{Reason: "audio reference is required"}
	}

	msg, err := it.store.AppendMessage(ctx, &store.Message{
		ConversationID: conversationID,
		Role:           role,
		Kind:           store.KindAudio,
		AudioURL:       audioURL,
		AudioDuration:  duration,
	})
	if err != nil {
		return nil, err
	}

	it.logger.WithFields(logrus.Fields{
		"conversation_id": conversationID,
		"role":            role,
		"duration":        duration,
	}).Info("Audio message appended")
	return msg, nil
}

// Summarize generates a clinical summary and, when the conversation is
// still unnamed, a short title. Both calls run concurrently; neither
// touches translation state.
func (it *Interpreter) Summarize(ctx context.Context, conversationID string) (string, string, error) {
	conv, err := it.store.GetConversation(ctx, conversationID)
	if err != nil {
		return "", "", err
	}

	var (
		wg      sync.WaitGroup
		text    string
		sumErr  error
		newName string
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		text, sumErr = it.summarizer.GenerateSummary(ctx, conv.Messages)
	}()
	if conv.Name == "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			newName = it.summarizer.GenerateName(ctx, conv.Messages)
		}()
	}
	wg.Wait()

	if sumErr != nil {
		return "", "", sumErr
	}
	if err := it.store.SaveSummary(ctx, conversationID, text, newName); err != nil {
		return "", "", err
	}

	name := conv.Name
	if name == "" {
		name = newName
	}
	it.logger.WithFields(logrus.Fields{
		"conversation_id": conversationID,
		"named":           newName != "",
	}).Info("Summary generated")
	return text, name, nil
}

// Search finds conversations whose messages contain query as a literal
// substring and returns one excerpt per matching message, most recently
// updated conversation first.
func (it *Interpreter) Search(ctx context.Context, query string) ([]search.ConversationResult, error) {
	if query == "" {
		return []search.ConversationResult{}, nil
	}
	conversations, err := it.store.FindMatching(ctx, query, search.MaxConversationResults)
	if err != nil {
		return nil, err
	}
	return it.engine.Scan(conversations, query), nil
}

// DetectLanguage identifies the language of free text. It never fails; the
// default code comes back when detection is inconclusive.
func (it *Interpreter) DetectLanguage(text string) string {
	return it.detector.Detect(text)
}

// Translate translates ad-hoc text outside any conversation. The Auto
// sentinel resolves through detection; empty codes default to "en".
func (it *Interpreter) Translate(ctx context.Context, text, fromLang, toLang string) string {
	if fromLang == language.Auto {
		fromLang = it.detector.Detect(text)
	}
	if fromLang == "" {
		fromLang = language.DefaultCode
	}
	if toLang == "" {
		toLang = language.DefaultCode
	}
	return it.translator.Translate(ctx, text, fromLang, toLang)
}
