package store

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestAppendTrimsGlobalCapacity(t *testing.T) {
	s := New(5, 50)
	for i := 0; i < 12; i++ {
		s.Append("u", fmt.Sprintf("msg-%d", i), 1, 0)
	}
	got := s.Recent(1, 100)
	if len(got) != 5 {
		t.Fatalf("expected 5 retained messages, got %d", len(got))
	}
	for i, m := range got {
		want := fmt.Sprintf("msg-%d", 7+i)
		if m.Text != want {
			t.Fatalf("position %d: got %q, want %q", i, m.Text, want)
		}
	}
}

func TestGlobalCapIsSharedAcrossChats(t *testing.T) {
	s := New(3, 50)
	s.Append("u", "quiet chat msg", 1, 0)
	for i := 0; i < 3; i++ {
		s.Append("u", fmt.Sprintf("busy-%d", i), 2, 0)
	}
	if got := s.Recent(1, 10); len(got) != 0 {
		t.Fatalf("busy chat should have evicted quiet chat history, got %d", len(got))
	}
}

func TestPerUserCapacity(t *testing.T) {
	s := New(1000, 4)
	for i := 0; i < 10; i++ {
		s.Append("alice", fmt.Sprintf("text-%d", i), 1, 42)
	}
	s.mu.RLock()
	p := s.profiles[42]
	s.mu.RUnlock()
	if len(p.Messages) != 4 {
		t.Fatalf("expected 4 profile messages, got %d", len(p.Messages))
	}
	if p.Messages[0] != "text-6" || p.Messages[3] != "text-9" {
		t.Fatalf("unexpected retained profile messages: %v", p.Messages)
	}
}

func TestAppendIgnoresEmptyText(t *testing.T) {
	s := New(10, 10)
	s.Append("u", "", 1, 7)
	if s.TotalMessages() != 0 {
		t.Fatalf("empty text should not be stored")
	}
	if got := s.UserContext(7, 1); got != "" {
		t.Fatalf("no profile expected, got %q", got)
	}
}

func TestRecentFiltersChatAndLimit(t *testing.T) {
	s := New(100, 50)
	s.Append("a", "one", 1, 0)
	s.Append("b", "other chat", 2, 0)
	s.Append("a", "two", 1, 0)
	s.Append("a", "three", 1, 0)

	got := s.Recent(1, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(got))
	}
	if got[0].Text != "two" || got[1].Text != "three" {
		t.Fatalf("unexpected order: %q, %q", got[0].Text, got[1].Text)
	}
	for _, m := range got {
		if m.ChatID != 1 {
			t.Fatalf("message from wrong chat leaked: %+v", m)
		}
	}
	if got := s.Recent(99, 5); len(got) != 0 {
		t.Fatalf("unknown chat should yield nothing, got %d", len(got))
	}
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	s := New(100, 50)
	s.Append("a", "say hello there", 1, 0)
	s.Append("a", "unrelated", 1, 0)
	s.Append("a", "HELLO again", 2, 0)

	got := s.Search("HELLO", 1, 5)
	if len(got) != 1 || got[0].Text != "say hello there" {
		t.Fatalf("unexpected search result: %+v", got)
	}
}

func TestMessagesLastDayWindow(t *testing.T) {
	s := New(100, 50)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return now })

	s.AppendMessage(Message{User: "a", Text: "old", ChatID: 1, Timestamp: now.Add(-25 * time.Hour)})
	s.AppendMessage(Message{User: "a", Text: "yesterday", ChatID: 1, Timestamp: now.Add(-23 * time.Hour)})
	s.AppendMessage(Message{User: "a", Text: "fresh", ChatID: 1, Timestamp: now.Add(-1 * time.Hour)})

	got := s.MessagesLastDay(1)
	if len(got) != 2 || got[0].Text != "yesterday" || got[1].Text != "fresh" {
		t.Fatalf("unexpected window result: %+v", got)
	}
}

func TestMessagesLastDayFallsBackToRecent(t *testing.T) {
	s := New(100, 50)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return now })

	s.AppendMessage(Message{User: "a", Text: "ancient", ChatID: 1, Timestamp: now.Add(-48 * time.Hour)})

	got := s.MessagesLastDay(1)
	if len(got) != 1 || got[0].Text != "ancient" {
		t.Fatalf("fallback to recent messages failed: %+v", got)
	}
	if got := s.MessagesLastDay(2); len(got) != 0 {
		t.Fatalf("empty chat must stay empty, got %+v", got)
	}
}

func TestKnownChatIDs(t *testing.T) {
	s := New(100, 50)
	s.Append("a", "x", 10, 0)
	s.Append("a", "y", 20, 0)
	s.Append("a", "z", 10, 0)

	ids := s.KnownChatIDs()
	if len(ids) != 2 {
		t.Fatalf("expected 2 chat ids, got %v", ids)
	}
	seen := map[int64]bool{}
	for _, id := range ids {
		seen[id] = true
	}
	if !seen[10] || !seen[20] {
		t.Fatalf("missing chat ids: %v", ids)
	}
}

func TestUserContextUnknownUser(t *testing.T) {
	s := New(100, 50)
	if got := s.UserContext(999, 1); got != "" {
		t.Fatalf("expected empty context, got %q", got)
	}
}

func TestUserContextIncludesFrequentTopic(t *testing.T) {
	s := New(100, 50)
	for i := 0; i < 6; i++ {
		s.Append("bob", "the project project project is late", 1, 5)
	}
	ctx := s.UserContext(5, 1)
	if !strings.Contains(ctx, "bob often talks about:") {
		t.Fatalf("topics clause missing: %q", ctx)
	}
	if !strings.Contains(ctx, "project") {
		t.Fatalf("expected topic 'project' in context: %q", ctx)
	}
	if !strings.Contains(ctx, "User bob has been discussing:") {
		t.Fatalf("excerpt header missing: %q", ctx)
	}
}

func TestUserContextTruncatesExcerpts(t *testing.T) {
	s := New(100, 50)
	long := strings.Repeat("a", 150)
	s.Append("bob", long, 1, 5)
	ctx := s.UserContext(5, 1)
	if strings.Contains(ctx, long) {
		t.Fatalf("excerpt was not truncated")
	}
	if !strings.Contains(ctx, strings.Repeat("a", 100)) {
		t.Fatalf("truncated excerpt missing: %q", ctx)
	}
}

func TestFrequentWordsOrdering(t *testing.T) {
	texts := []string{
		"zebra zebra zebra apple apple apple apple",
		"mango mango mango",
	}
	got := frequentWords(texts)
	if len(got) != 3 {
		t.Fatalf("expected 3 topics, got %v", got)
	}
	if got[0] != "apple" {
		t.Fatalf("most frequent word should lead: %v", got)
	}
	// zebra and mango tie on count; zebra was seen first.
	if got[1] != "zebra" || got[2] != "mango" {
		t.Fatalf("tie should keep first-encountered order: %v", got)
	}
}

func TestFrequentWordsCountsCharactersNotBytes(t *testing.T) {
	// "дом" is 3 characters (6 bytes) and must stay below the length
	// threshold; "проект" is 6 characters and qualifies.
	got := frequentWords([]string{"дом дом дом проект проект проект"})
	if len(got) != 1 || got[0] != "проект" {
		t.Fatalf("expected only the long Cyrillic word as topic, got %v", got)
	}
}
