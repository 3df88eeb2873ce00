// Package summary turns a chat's trailing day of messages into a narrative
// recap, on demand and on the daily schedule.
package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"chatmate/internal/language"
	"chatmate/internal/llm"
	"chatmate/internal/store"
)

// ErrNoMessages signals an empty chat: nothing to summarize, not a failure.
var ErrNoMessages = errors.New("no messages to summarize")

const summarySystemPrompt = "You are summarizing a Telegram group chat conversation from the last 24 hours. " +
	"Create a concise, engaging summary that highlights: " +
	"- Who said what (key participants and their main points) " +
	"- Main topics discussed " +
	"- Important events or decisions " +
	"- General vibe/atmosphere of the conversation " +
	"Keep it casual and readable, like a friend summarizing what happened in the group."

const summaryMaxTokens = 500

// detector is the slice of the language adapter the generator needs.
type detector interface {
	Detect(text string) string
}

type Generator struct {
	store *store.Store
	llm   llm.Client
	lang  detector
	now   func() time.Time
	log   zerolog.Logger
}

func New(st *store.Store, client llm.Client, lang detector, log zerolog.Logger) *Generator {
	return &Generator{store: st, llm: client, lang: lang, now: time.Now, log: log}
}

// SetClock replaces the generator's time source. Intended for tests.
func (g *Generator) SetClock(now func() time.Time) { g.now = now }

// Summarize produces the interactive summary envelope for a chat.
func (g *Generator) Summarize(ctx context.Context, chatID int64) (string, error) {
	body, timeRange, count, err := g.generate(ctx, chatID)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("📅 Summary (%s - %d messages):\n\n%s", timeRange, count, body), nil
}

// RunDaily summarizes every known chat and hands each envelope to send.
// One chat's failure is logged and skipped; the loop always finishes.
func (g *Generator) RunDaily(ctx context.Context, send func(chatID int64, text string) error) {
	chatIDs := g.store.KnownChatIDs()
	g.log.Info().Int("chats", len(chatIDs)).Msg("running daily summary job")

	for _, chatID := range chatIDs {
		body, timeRange, count, err := g.generate(ctx, chatID)
		if errors.Is(err, ErrNoMessages) {
			g.log.Info().Int64("chat_id", chatID).Msg("no messages, skipping summary")
			continue
		}
		if err != nil {
			g.log.Error().Err(err).Int64("chat_id", chatID).Msg("daily summary failed")
			continue
		}
		text := fmt.Sprintf("📅 Daily Summary (%s - %d messages):\n\n%s", timeRange, count, body)
		if err := send(chatID, text); err != nil {
			g.log.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send daily summary")
		}
	}
}

func (g *Generator) generate(ctx context.Context, chatID int64) (body, timeRange string, count int, err error) {
	messages := g.store.MessagesLastDay(chatID)
	if len(messages) == 0 {
		return "", "", 0, ErrNoMessages
	}

	transcript := g.buildTranscript(messages)
	timeRange = g.timeRangeLabel(messages)

	// Detect language from the tail of the conversation so the summary
	// matches what the chat actually speaks.
	var recentTexts []string
	start := len(messages) - 5
	if start < 0 {
		start = 0
	}
	for _, m := range messages[start:] {
		recentTexts = append(recentTexts, m.Text)
	}
	code := g.lang.Detect(strings.Join(recentTexts, " "))
	name := language.Name(code)

	system := fmt.Sprintf(
		"%s\n\nCRITICAL: The conversation is in %s (%s). You MUST respond in %s (%s). Match the language of the conversation exactly.",
		summarySystemPrompt, name, code, name, code)
	user := fmt.Sprintf(
		"Here's the conversation from the %s:\n\n%s\n\nCreate a summary of what happened, who said what, and what the main topics were.",
		timeRange, transcript)

	resp, err := g.llm.Generate(ctx, system, user, summaryMaxTokens)
	if err != nil {
		return "", "", 0, fmt.Errorf("summary generation failed: %w", err)
	}
	return resp.Content, timeRange, len(messages), nil
}

func (g *Generator) buildTranscript(messages []store.Message) string {
	now := g.now()
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		suffix := ""
		hoursAgo := int(now.Sub(m.Timestamp).Hours())
		switch {
		case hoursAgo < 1:
			suffix = " (just now)"
		case hoursAgo < 24:
			suffix = fmt.Sprintf(" (%dh ago)", hoursAgo)
		}
		lines = append(lines, fmt.Sprintf("%s: %s%s", m.User, m.Text, suffix))
	}
	return strings.Join(lines, "\n")
}

func (g *Generator) timeRangeLabel(messages []store.Message) string {
	now := g.now()
	for _, m := range messages {
		if now.Sub(m.Timestamp) < 24*time.Hour {
			return "last 24 hours"
		}
	}
	return "recent messages"
}
