// Package summary generates clinical summaries and conversation names
// through an OpenAI-compatible chat-completion endpoint.
package summary

import (
	"context"
	"errors"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/medbridge/medbridge/pkg/store"
)

const (
	// DefaultBaseURL points at Groq's OpenAI-compatible API.
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	// DefaultModel is a fast, free-tier friendly model.
	DefaultModel = "llama-3.1-8b-instant"
	// DefaultTimeout bounds one completion request.
	DefaultTimeout = 30 * time.Second
)

const summarySystemPrompt = `You are a medical scribe. Given a doctor-patient conversation (which may be in progress or complete), produce a concise clinical summary. Highlight medically important points:
- Symptoms mentioned
- Diagnoses or impressions
- Medications prescribed or discussed
- Follow-up actions or recommendations
Also include chief complaint / reason for visit when evident. Use clear headings and bullet points. Be concise.`

const nameSystemPrompt = `You are a helpful assistant. Given a doctor-patient conversation, generate a short, descriptive name/title for this conversation (max 6 words). Focus on the main topic, symptom, or reason for the visit. Examples: "Headache and Dizziness Consultation", "Follow-up on Blood Pressure", "Chest Pain Evaluation". Return ONLY the title, no quotes, no explanation.`

// ErrNoAPIKey is returned when summary generation is requested without a
// configured API key. Name generation is optional and degrades silently.
var ErrNoAPIKey = errors.New("summary API key is not configured")

// Config holds the summarizer's endpoint settings.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Summarizer calls the language model. Failures never affect translation
// pipeline or conversation state; callers store results only on success.
type Summarizer struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	hasKey  bool
	logger  *logrus.Logger
}

// New creates a Summarizer. An empty API key produces a summarizer whose
// GenerateSummary fails with ErrNoAPIKey and whose GenerateName returns "".
func New(cfg Config, logger *logrus.Logger) *Summarizer {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = logrus.New()
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = cfg.BaseURL

	return &Summarizer{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   cfg.Model,
		timeout: cfg.Timeout,
		hasKey:  cfg.APIKey != "",
		logger:  logger,
	}
}

// GenerateSummary produces a clinical summary of the conversation so far.
func (s *Summarizer) GenerateSummary(ctx context.Context, messages []*store.Message) (string, error) {
	if !s.hasKey {
		return "", ErrNoAPIKey
	}
	transcript := buildTranscript(messages)
	if transcript == "" {
		return "No conversation content to summarize.", nil
	}

	out, err := s.complete(ctx, summarySystemPrompt, transcript, 800)
	if err != nil {
		s.logger.WithError(err).Error("Summary generation failed")
		return "Summary could not be generated. Please try again.", nil
	}
	if out == "" {
		return "Summary could not be generated.", nil
	}
	return out, nil
}

// GenerateName produces a short conversation title, or "" when naming is
// unavailable or fails. Naming is best-effort only.
func (s *Summarizer) GenerateName(ctx context.Context, messages []*store.Message) string {
	if !s.hasKey {
		return ""
	}
	transcript := buildTranscript(messages)
	if transcript == "" {
		return ""
	}

	out, err := s.complete(ctx, nameSystemPrompt, transcript, 30)
	if err != nil {
		s.logger.WithError(err).Warn("Name generation failed")
		return ""
	}
	return strings.Trim(out, `"'`)
}

func (s *Summarizer) complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     s.model,
		MaxTokens: maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// buildTranscript renders messages as "[role]: text" lines, preferring the
// original content and falling back to the translation or an audio marker.
func buildTranscript(messages []*store.Message) string {
	var b strings.Builder
	for _, m := range messages {
		text := m.Content
		if text == "" {
			text = m.TranslatedContent
		}
		if text == "" {
			text = "(audio)"
		}
		b.WriteString("[" + m.Role + "]: " + text + "\n")
	}
	return strings.TrimSpace(b.String())
}
