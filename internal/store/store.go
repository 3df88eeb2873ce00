package store

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// Message is a single observed chat message. Values are immutable after
// insertion and only leave the store through bulk capacity eviction.
type Message struct {
	User      string
	Text      string
	ChatID    int64
	UserID    int64 // 0 when the platform did not supply one
	Timestamp time.Time
}

// UserProfile accumulates per-user history for personalized context.
type UserProfile struct {
	Name      string
	Messages  []string
	Interests map[string]struct{}
	Topics    []string
}

// Store holds the bounded in-memory conversation history. The global cap
// is shared across all chats: a high-volume chat can evict another chat's
// history entirely.
type Store struct {
	mu          sync.RWMutex
	messages    []Message
	profiles    map[int64]*UserProfile
	maxMessages int
	maxPerUser  int
	now         func() time.Time
}

func New(maxMessages, maxPerUser int) *Store {
	return &Store{
		profiles:    make(map[int64]*UserProfile),
		maxMessages: maxMessages,
		maxPerUser:  maxPerUser,
		now:         time.Now,
	}
}

// SetClock replaces the store's time source. Intended for tests.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Append stores a message stamped with the current time and updates the
// author's profile. Empty text is ignored.
func (s *Store) Append(user, text string, chatID, userID int64) {
	s.AppendMessage(Message{User: user, Text: text, ChatID: chatID, UserID: userID})
}

// AppendMessage stores a caller-built message. A zero Timestamp is
// defaulted to the store clock, so reconstructed messages always carry one.
func (s *Store) AppendMessage(m Message) {
	if m.Text == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.Timestamp.IsZero() {
		m.Timestamp = s.now()
	}
	s.messages = append(s.messages, m)
	if len(s.messages) > s.maxMessages {
		kept := make([]Message, s.maxMessages)
		copy(kept, s.messages[len(s.messages)-s.maxMessages:])
		s.messages = kept
	}

	if m.UserID != 0 {
		s.updateProfile(m.UserID, m.User, m.Text)
	}
}

func (s *Store) updateProfile(userID int64, name, text string) {
	p, ok := s.profiles[userID]
	if !ok {
		p = &UserProfile{Name: name, Interests: make(map[string]struct{})}
		s.profiles[userID] = p
	}
	p.Messages = append(p.Messages, text)
	if len(p.Messages) > s.maxPerUser {
		p.Messages = p.Messages[len(p.Messages)-s.maxPerUser:]
	}
}

// Recent returns the newest limit messages for a chat in arrival order.
func (s *Store) Recent(chatID int64, limit int) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return tail(s.chatMessages(chatID), limit)
}

// Search returns the newest limit messages in a chat whose text contains
// query, case-insensitively. Matches come back in arrival order.
func (s *Store) Search(query string, chatID int64, limit int) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q := strings.ToLower(query)
	var matches []Message
	for _, m := range s.messages {
		if m.ChatID == chatID && strings.Contains(strings.ToLower(m.Text), q) {
			matches = append(matches, m)
		}
	}
	return tail(matches, limit)
}

// MessagesLastDay returns every message for a chat from the trailing 24
// hours. When none qualify but the chat has stored messages at all, the
// newest 50 are returned regardless of age, so a summary is still possible
// for slow chats.
func (s *Store) MessagesLastDay(chatID int64) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.chatMessages(chatID)
	if len(all) == 0 {
		return nil
	}
	cutoff := s.now().Add(-24 * time.Hour)
	var fresh []Message
	for _, m := range all {
		if !m.Timestamp.Before(cutoff) {
			fresh = append(fresh, m)
		}
	}
	if len(fresh) > 0 {
		return fresh
	}
	return tail(all, 50)
}

// KnownChatIDs returns the distinct chat identifiers currently stored.
func (s *Store) KnownChatIDs() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[int64]struct{})
	var ids []int64
	for _, m := range s.messages {
		if _, ok := seen[m.ChatID]; !ok {
			seen[m.ChatID] = struct{}{}
			ids = append(ids, m.ChatID)
		}
	}
	return ids
}

// TotalMessages reports the global stored message count.
func (s *Store) TotalMessages() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

const (
	contextExcerpts   = 5
	contextExcerptLen = 100
	topicSourceWindow = 20
	topicMinLen       = 5
	topicMinCount     = 3
	topicLimit        = 3
)

// UserContext builds a short free-text synopsis of a user: their most
// recent excerpts in the chat plus the words they keep coming back to.
// Returns "" when the user is unknown or nothing survives the thresholds.
func (s *Store) UserContext(userID, chatID int64) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return ""
	}

	var parts []string

	var userMsgs []Message
	for _, m := range s.messages {
		if m.UserID == userID && m.ChatID == chatID {
			userMsgs = append(userMsgs, m)
		}
	}
	if recent := tail(userMsgs, contextExcerpts); len(recent) > 0 {
		parts = append(parts, fmt.Sprintf("User %s has been discussing:", p.Name))
		for _, m := range recent {
			parts = append(parts, "- "+truncate(m.Text, contextExcerptLen))
		}
	}

	if len(p.Messages) > 5 {
		if topics := frequentWords(tailStrings(p.Messages, topicSourceWindow)); len(topics) > 0 {
			parts = append(parts, fmt.Sprintf("\n%s often talks about: %s", p.Name, strings.Join(topics, ", ")))
		}
	}

	return strings.Join(parts, "\n")
}

// frequentWords tallies words of length >= topicMinLen across the given
// texts and returns up to topicLimit of them, most frequent first. Only
// words seen at least topicMinCount times qualify; ties keep the order the
// word was first encountered in.
func frequentWords(texts []string) []string {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	idx := 0
	for _, t := range texts {
		for _, w := range strings.Fields(strings.ToLower(t)) {
			if utf8.RuneCountInString(w) < topicMinLen {
				continue
			}
			if _, ok := counts[w]; !ok {
				firstSeen[w] = idx
				idx++
			}
			counts[w]++
		}
	}

	var words []string
	for w, c := range counts {
		if c >= topicMinCount {
			words = append(words, w)
		}
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return firstSeen[words[i]] < firstSeen[words[j]]
	})
	if len(words) > topicLimit {
		words = words[:topicLimit]
	}
	return words
}

// chatMessages must be called with the lock held.
func (s *Store) chatMessages(chatID int64) []Message {
	var out []Message
	for _, m := range s.messages {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out
}

func tail(ms []Message, limit int) []Message {
	if limit <= 0 || len(ms) == 0 {
		return nil
	}
	if len(ms) > limit {
		ms = ms[len(ms)-limit:]
	}
	out := make([]Message, len(ms))
	copy(out, ms)
	return out
}

func tailStrings(ss []string, limit int) []string {
	if len(ss) > limit {
		return ss[len(ss)-limit:]
	}
	return ss
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
