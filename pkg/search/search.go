package search

import (
	"time"

	"github.com/medbridge/medbridge/pkg/store"
)

// MaxConversationResults caps how many conversations one query returns.
const MaxConversationResults = 50

// MessageMatch is one matching message within a conversation. It is
// derived per query, never stored.
type MessageMatch struct {
	MessageIndex int       `json:"messageIndex"`
	Role         string    `json:"role"`
	Excerpt      string    `json:"excerpt"`
	Timestamp    time.Time `json:"timestamp"`
}

// ConversationResult groups the matches found inside one conversation.
type ConversationResult struct {
	ConversationID string         `json:"conversationId"`
	CreatedAt      time.Time      `json:"createdAt"`
	Matches        []MessageMatch `json:"matches"`
}

// Engine scans conversations for literal substring matches and produces
// one excerpt per matching message. The query is never interpreted as a
// pattern, so regex or wildcard metacharacters match only themselves.
type Engine struct {
	before int
	after  int
}

// NewEngine creates an engine with the given excerpt window. Non-positive
// values fall back to the defaults.
func NewEngine(before, after int) *Engine {
	if before <= 0 {
		before = DefaultContextBefore
	}
	if after <= 0 {
		after = DefaultContextAfter
	}
	return &Engine{before: before, after: after}
}

// Scan walks conversations in the given order (callers pass them most
// recently updated first) and collects excerpt matches over each message's
// original and translated text.
func (e *Engine) Scan(conversations []*store.Conversation, query string) []ConversationResult {
	results := make([]ConversationResult, 0, len(conversations))
	for _, conv := range conversations {
		if len(results) == MaxConversationResults {
			break
		}

		var matches []MessageMatch
		for i, msg := range conv.Messages {
			text := msg.Content + " " + msg.TranslatedContent
			excerpt, ok := Excerpt(text, query, e.before, e.after)
			if !ok {
				continue
			}
			matches = append(matches, MessageMatch{
				MessageIndex: i,
				Role:         msg.Role,
				Excerpt:      excerpt,
				Timestamp:    msg.CreatedAt,
			})
		}
		if len(matches) == 0 {
			continue
		}
		results = append(results, ConversationResult{
			ConversationID: conv.ID,
			CreatedAt:      conv.CreatedAt,
			Matches:        matches,
		})
	}
	return results
}
