package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CreateConversation creates a new conversation with the given role
// languages.
func (s *Store) CreateConversation(ctx context.Context, doctorLang, patientLang string) (*Conversation, error) {
	now := time.Now().UTC()
	conv := &Conversation{
		ID:              uuid.New().String(),
		DoctorLanguage:  doctorLang,
		PatientLanguage: patientLang,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO conversations (id, name, doctor_language, patient_language, created_at, updated_at)
		 VALUES (?, '', ?, ?, ?, ?)`,
		conv.ID, conv.DoctorLanguage, conv.PatientLanguage, conv.CreatedAt, conv.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	return conv, nil
}

// GetConversation retrieves a conversation with its messages in
// chronological order.
func (s *Store) GetConversation(ctx context.Context, id string) (*Conversation, error) {
	conv, err := s.scanConversation(s.conn.QueryRowContext(ctx,
		`SELECT id, name, doctor_language, patient_language, summary, summary_generated_at, created_at, updated_at
		 FROM conversations WHERE id = ?`, id))
	if err != nil {
		return nil, err
	}

	conv.Messages, err = s.messagesFor(ctx, id)
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// ListConversations retrieves conversations ordered by most recent
// activity, without their messages.
func (s *Store) ListConversations(ctx context.Context, limit int) ([]*Conversation, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, name, doctor_language, patient_language, summary, summary_generated_at, created_at, updated_at
		 FROM conversations ORDER BY updated_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var conversations []*Conversation
	for rows.Next() {
		conv, err := s.scanConversation(rows)
		if err != nil {
			return nil, err
		}
		conversations = append(conversations, conv)
	}
	return conversations, rows.Err()
}

// RenameConversation sets the conversation name and advances updated_at.
func (s *Store) RenameConversation(ctx context.Context, id, name string) error {
	res, err := s.conn.ExecContext(ctx,
		`UPDATE conversations SET name = ?, updated_at = ? WHERE id = ?`,
		name, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("rename conversation: %w", err)
	}
	return requireRow(res)
}

// SaveSummary stores the generated summary and its timestamp. The name is
// only written when the conversation does not have one yet.
func (s *Store) SaveSummary(ctx context.Context, id, summary, name string) error {
	now := time.Now().UTC()
	res, err := s.conn.ExecContext(ctx,
		`UPDATE conversations
		 SET summary = ?, summary_generated_at = ?,
		     name = CASE WHEN name = '' AND ? != '' THEN ? ELSE name END,
		     updated_at = ?
		 WHERE id = ?`,
		summary, now, name, name, now, id)
	if err != nil {
		return fmt.Errorf("save summary: %w", err)
	}
	return requireRow(res)
}

// AppendMessage appends a message to its conversation and advances the
// conversation's updated_at in the same transaction. The message's ID and
// CreatedAt are filled in on success.
func (s *Store) AppendMessage(ctx context.Context, msg *Message) (*Message, error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin append: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM conversations WHERE id = ?`, msg.ConversationID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check conversation: %w", err)
	}
	if exists == 0 {
		return nil, ErrNotFound
	}

	msg.CreatedAt = time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO messages (conversation_id, role, content, translated_content,
		                       content_fold, translated_content_fold,
		                       source_language, target_language, kind, audio_url, audio_duration, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		msg.ConversationID, msg.Role, msg.Content, msg.TranslatedContent,
		strings.ToLower(msg.Content), strings.ToLower(msg.TranslatedContent),
		msg.SourceLanguage, msg.TargetLanguage, msg.Kind, msg.AudioURL, msg.AudioDuration, msg.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	if msg.ID, err = res.LastInsertId(); err != nil {
		return nil, fmt.Errorf("message id: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE conversations SET updated_at = ? WHERE id = ?`,
		msg.CreatedAt, msg.ConversationID); err != nil {
		return nil, fmt.Errorf("touch conversation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit append: %w", err)
	}
	return msg, nil
}

// FindMatching returns conversations (with messages loaded) whose message
// text or translated text contains query as a literal, case-insensitive
// substring, most recently updated first. The LIKE prefilter runs over the
// Unicode-lowercased shadow columns so it folds accented letters the same
// way the excerpt engine does; exact match offsets are computed there.
func (s *Store) FindMatching(ctx context.Context, query string, limit int) ([]*Conversation, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	rows, err := s.conn.QueryContext(ctx,
		`SELECT DISTINCT c.id, c.name, c.doctor_language, c.patient_language,
		        c.summary, c.summary_generated_at, c.created_at, c.updated_at
		 FROM conversations c
		 JOIN messages m ON m.conversation_id = c.id
		 WHERE m.content_fold LIKE ? ESCAPE '\' OR m.translated_content_fold LIKE ? ESCAPE '\'
		 ORDER BY c.updated_at DESC
		 LIMIT ?`,
		pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("find conversations: %w", err)
	}
	defer rows.Close()

	var conversations []*Conversation
	for rows.Next() {
		conv, err := s.scanConversation(rows)
		if err != nil {
			return nil, err
		}
		conversations = append(conversations, conv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, conv := range conversations {
		if conv.Messages, err = s.messagesFor(ctx, conv.ID); err != nil {
			return nil, err
		}
	}
	return conversations, nil
}

func (s *Store) messagesFor(ctx context.Context, conversationID string) ([]*Message, error) {
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, conversation_id, role, content, translated_content,
		        source_language, target_language, kind, audio_url, audio_duration, created_at
		 FROM messages WHERE conversation_id = ? ORDER BY id`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	defer rows.Close()

	var messages []*Message
	for rows.Next() {
		var msg Message
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.Role, &msg.Content, &msg.TranslatedContent,
			&msg.SourceLanguage, &msg.TargetLanguage, &msg.Kind, &msg.AudioURL, &msg.AudioDuration, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, &msg)
	}
	return messages, rows.Err()
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanConversation(row rowScanner) (*Conversation, error) {
	var conv Conversation
	var generatedAt sql.NullTime
	err := row.Scan(&conv.ID, &conv.Name, &conv.DoctorLanguage, &conv.PatientLanguage,
		&conv.Summary, &generatedAt, &conv.CreatedAt, &conv.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan conversation: %w", err)
	}
	if generatedAt.Valid {
		t := generatedAt.Time
		conv.SummaryGeneratedAt = &t
	}
	return &conv, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
