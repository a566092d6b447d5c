package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndGetConversation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	conv, err := s.CreateConversation(ctx, "en", "es")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if conv.ID == "" {
		t.Fatal("conversation has no id")
	}

	got, err := s.GetConversation(ctx, conv.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.DoctorLanguage != "en" || got.PatientLanguage != "es" {
		t.Errorf("languages = (%q, %q), want (en, es)", got.DoctorLanguage, got.PatientLanguage)
	}
	if got.Name != "" {
		t.Errorf("new conversation name = %q, want empty", got.Name)
	}
	if len(got.Messages) != 0 {
		t.Errorf("new conversation has %d messages", len(got.Messages))
	}
	if got.SummaryGeneratedAt != nil {
		t.Error("new conversation should have no summary timestamp")
	}
}

func TestGetConversation_NotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.GetConversation(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestAppendMessage_OrderAndActivity(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	conv, err := s.CreateConversation(ctx, "en", "es")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	created := conv.UpdatedAt

	time.Sleep(10 * time.Millisecond)
	for _, content := range []string{"first", "second", "third"} {
		if _, err := s.AppendMessage(ctx, &Message{
			ConversationID: conv.ID,
			Role:           RolePatient,
			Content:        content,
			Kind:           KindText,
		}); err != nil {
			t.Fatalf("append %q: %v", content, err)
		}
	}

	got, err := s.GetConversation(ctx, conv.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Messages) != 3 {
		t.Fatalf("got %d messages, want 3", len(got.Messages))
	}
	for i, want := range []string{"first", "second", "third"} {
		if got.Messages[i].Content != want {
			t.Errorf("message[%d] = %q, want %q", i, got.Messages[i].Content, want)
		}
	}
	if !got.UpdatedAt.After(created) {
		t.Errorf("updated_at %v did not advance past %v", got.UpdatedAt, created)
	}
}

func TestAppendMessage_MissingConversation(t *testing.T) {
	s := openTestStore(t)
	_, err := s.AppendMessage(context.Background(), &Message{
		ConversationID: "missing",
		Role:           RolePatient,
		Content:        "hello",
		Kind:           KindText,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestListConversations_MostRecentFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, _ := s.CreateConversation(ctx, "en", "es")
	time.Sleep(10 * time.Millisecond)
	second, _ := s.CreateConversation(ctx, "en", "fr")

	// Touching the older conversation moves it back to the front.
	time.Sleep(10 * time.Millisecond)
	if _, err := s.AppendMessage(ctx, &Message{
		ConversationID: first.ID, Role: RoleDoctor, Content: "hello", Kind: KindText,
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	list, err := s.ListConversations(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d conversations, want 2", len(list))
	}
	if list[0].ID != first.ID || list[1].ID != second.ID {
		t.Errorf("order = [%s, %s], want [%s, %s]", list[0].ID, list[1].ID, first.ID, second.ID)
	}
}

func TestRenameConversation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	conv, _ := s.CreateConversation(ctx, "en", "es")
	if err := s.RenameConversation(ctx, conv.ID, "Follow-up visit"); err != nil {
		t.Fatalf("rename: %v", err)
	}

	got, _ := s.GetConversation(ctx, conv.ID)
	if got.Name != "Follow-up visit" {
		t.Errorf("name = %q", got.Name)
	}

	if err := s.RenameConversation(ctx, "missing", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestSaveSummary_NamesOnlyUnnamedConversations(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	conv, _ := s.CreateConversation(ctx, "en", "es")
	if err := s.SaveSummary(ctx, conv.ID, "Chief complaint: headache.", "Headache Consultation"); err != nil {
		t.Fatalf("save summary: %v", err)
	}

	got, _ := s.GetConversation(ctx, conv.ID)
	if got.Summary != "Chief complaint: headache." {
		t.Errorf("summary = %q", got.Summary)
	}
	if got.Name != "Headache Consultation" {
		t.Errorf("name = %q, want the generated one", got.Name)
	}
	if got.SummaryGeneratedAt == nil {
		t.Error("summary timestamp not set")
	}

	// A second summary never overwrites an existing name.
	if err := s.SaveSummary(ctx, conv.ID, "Updated summary.", "Different Name"); err != nil {
		t.Fatalf("save summary again: %v", err)
	}
	got, _ = s.GetConversation(ctx, conv.ID)
	if got.Name != "Headache Consultation" {
		t.Errorf("name changed to %q", got.Name)
	}
	if got.Summary != "Updated summary." {
		t.Errorf("summary = %q", got.Summary)
	}
}

func TestFindMatching_LiteralSubstring(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	conv, _ := s.CreateConversation(ctx, "en", "es")
	mustAppend := func(content, translated string) {
		t.Helper()
		if _, err := s.AppendMessage(ctx, &Message{
			ConversationID: conv.ID, Role: RolePatient,
			Content: content, TranslatedContent: translated, Kind: KindText,
		}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	mustAppend("I am 100% sure about the dosage", "")
	mustAppend("Tengo fiebre", "I have a fever")
	mustAppend("¿CÓMO ESTÁ USTED?", "HOW ARE YOU?")

	t.Run("matches original text", func(t *testing.T) {
		results, err := s.FindMatching(ctx, "dosage", 50)
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if len(results) != 1 {
			t.Fatalf("got %d conversations, want 1", len(results))
		}
		if len(results[0].Messages) != 3 {
			t.Errorf("messages not loaded: got %d", len(results[0].Messages))
		}
	})

	t.Run("matches translated text", func(t *testing.T) {
		results, err := s.FindMatching(ctx, "a fever", 50)
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if len(results) != 1 {
			t.Errorf("got %d conversations, want 1", len(results))
		}
	})

	t.Run("folds case beyond ASCII", func(t *testing.T) {
		// SQLite's own LIKE folds only ASCII letters; the shadow columns
		// must make accented text match case-insensitively too.
		results, err := s.FindMatching(ctx, "cómo está", 50)
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if len(results) != 1 {
			t.Errorf("accented query: got %d conversations, want 1", len(results))
		}

		results, err = s.FindMatching(ctx, "HOW ARE", 50)
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if len(results) != 1 {
			t.Errorf("uppercase query: got %d conversations, want 1", len(results))
		}
	})

	t.Run("wildcards are literal", func(t *testing.T) {
		results, err := s.FindMatching(ctx, "100%", 50)
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if len(results) != 1 {
			t.Errorf("literal %% query: got %d conversations, want 1", len(results))
		}

		// "100_" would match "100%" if the underscore were a wildcard.
		results, err = s.FindMatching(ctx, "100_", 50)
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if len(results) != 0 {
			t.Errorf("underscore query: got %d conversations, want 0", len(results))
		}
	})

	t.Run("no match", func(t *testing.T) {
		results, err := s.FindMatching(ctx, "antibiotics", 50)
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if len(results) != 0 {
			t.Errorf("got %d conversations, want 0", len(results))
		}
	})
}

func TestEscapeLike(t *testing.T) {
	cases := []struct{ in, want string }{
		{"plain", "plain"},
		{"100%", `100\%`},
		{"a_b", `a\_b`},
		{`back\slash`, `back\\slash`},
	}
	for _, tc := range cases {
		if got := escapeLike(tc.in); got != tc.want {
			t.Errorf("escapeLike(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
