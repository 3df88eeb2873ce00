package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"chatmate/internal/language"
	"chatmate/internal/prompt"
	"chatmate/internal/summary"
)

const (
	replyMaxTokens = 150
	askMaxTokens   = 400

	searchCommandLimit = 5
	searchExcerptRunes = 120
)

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.reply(msg, startMessage)
	case "help":
		b.reply(msg, helpMessage)
	case "ask":
		b.handleAsk(ctx, msg)
	case "search":
		b.handleSearch(msg)
	case "summary", "daily":
		b.handleSummary(ctx, msg)
	}
}

func (b *Bot) handleAsk(ctx context.Context, msg *tgbotapi.Message) {
	question := strings.TrimSpace(msg.CommandArguments())
	if question == "" {
		b.reply(msg, askUsage)
		return
	}
	resp, err := b.llm.Generate(ctx, askSystemPrompt, question, askMaxTokens)
	if err != nil {
		b.log.Error().Err(err).Msg("ask generation failed")
		b.reply(msg, fallbackReply(err))
		return
	}
	b.reply(msg, resp.Content)
}

func (b *Bot) handleSearch(msg *tgbotapi.Message) {
	query := strings.TrimSpace(msg.CommandArguments())
	if query == "" {
		b.reply(msg, searchUsage)
		return
	}
	matches := b.store.Search(query, msg.Chat.ID, searchCommandLimit)
	if len(matches) == 0 {
		b.reply(msg, searchNoResults)
		return
	}
	lines := []string{searchResultsHeader}
	for _, m := range matches {
		lines = append(lines, fmt.Sprintf("- %s: %s", m.User, truncateRunes(m.Text, searchExcerptRunes)))
	}
	b.reply(msg, strings.Join(lines, "\n"))
}

func (b *Bot) handleSummary(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	b.log.Info().Int64("chat_id", chatID).Msg("summary requested")

	text, err := b.summary.Summarize(ctx, chatID)
	if errors.Is(err, summary.ErrNoMessages) {
		b.reply(msg, b.noMessagesText(chatID))
		return
	}
	if err != nil {
		b.log.Error().Err(err).Int64("chat_id", chatID).Msg("summary generation failed")
		b.reply(msg, fallbackReply(err))
		return
	}
	b.reply(msg, text)
}

// noMessagesText explains an empty summary, distinguishing a bot that has
// seen nothing at all from one that just hasn't seen this chat.
func (b *Bot) noMessagesText(chatID int64) string {
	total := b.store.TotalMessages()
	if total == 0 {
		return "No messages found yet. The bot needs to receive messages first!\n\n" +
			"💡 Tip: Send some messages in this chat, and I'll store them. " +
			"Then use /summary to get a summary.\n\n" +
			"Note: Messages are stored in memory, so if the bot restarts, " +
			"previous messages won't be available."
	}
	return fmt.Sprintf(
		"No messages found in this chat yet.\n\n"+
			"The bot has %d messages stored from other chats, "+
			"but none from this chat (%d).\n\n"+
			"Send some messages here and I'll start tracking them! 💬",
		total, chatID)
}

// handleMessage runs the engagement pipeline for free-form text:
// store → detect language → engagement gate → analyze + search →
// prompt assembly → generation → reply (+ optional sticker).
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	user := "Unknown"
	var userID int64
	if msg.From != nil {
		if msg.From.FirstName != "" {
			user = msg.From.FirstName
		}
		userID = msg.From.ID
	}
	chatID := msg.Chat.ID

	code := b.lang.Detect(text)
	langName := language.Name(code)
	b.log.Debug().Str("language", code).Int64("chat_id", chatID).Msg("message observed")

	b.store.Append(user, text, chatID, userID)

	recent := b.store.Recent(chatID, b.contextWindow)
	historyLines := make([]string, 0, len(recent))
	for _, m := range recent {
		historyLines = append(historyLines, fmt.Sprintf("%s: %s", m.User, m.Text))
	}
	history := strings.Join(historyLines, "\n")

	wasMentioned := b.isMentioned(msg)
	if !b.engage.ShouldReply(ctx, text, history, wasMentioned) {
		return
	}

	analysis := b.analyzer.Analyze(ctx, text, history)
	results := b.searcher.MaybeSearch(ctx, text, history)

	tone := analysis.Tone
	if tone == "" {
		tone = "casual"
	}
	system := prompt.System(prompt.SystemOptions{
		Tone:         tone,
		LanguageName: langName,
		LanguageCode: code,
		WasMentioned: wasMentioned,
		Analysis:     analysis,
	})
	userPrompt := prompt.User(prompt.UserOptions{
		History:       history,
		UserName:      user,
		Text:          text,
		UserContext:   b.store.UserContext(userID, chatID),
		SearchResults: results,
	})

	resp, err := b.llm.Generate(ctx, system, userPrompt, replyMaxTokens)
	reply := resp.Content
	if err != nil {
		b.log.Error().Err(err).Int64("chat_id", chatID).Msg("reply generation failed")
		reply = fallbackReply(err)
	}
	b.reply(msg, reply)

	if err == nil && b.stickersEnabled && b.rand() < b.stickerChance {
		b.sendContextualSticker(msg)
	}
}

// isMentioned reports whether the inbound message addresses the bot, via a
// structured entity or a plain @username occurrence in the text.
func (b *Bot) isMentioned(msg *tgbotapi.Message) bool {
	for _, e := range msg.Entities {
		switch e.Type {
		case "mention":
			if b.botUsername == "" {
				continue
			}
			mention := strings.ToLower(entityText(msg.Text, e.Offset, e.Length))
			if strings.Contains(mention, "@"+b.botUsername) {
				return true
			}
		case "text_mention":
			if e.User != nil && e.User.ID == b.botID {
				return true
			}
		}
	}
	return b.botUsername != "" &&
		strings.Contains(strings.ToLower(msg.Text), "@"+b.botUsername)
}

// entityText extracts an entity's span. Telegram offsets count UTF-16 code
// units, not bytes or runes.
func entityText(text string, offset, length int) string {
	units := utf16.Encode([]rune(text))
	if offset < 0 || length < 0 || offset+length > len(units) {
		return ""
	}
	return string(utf16.Decode(units[offset : offset+length]))
}

func (b *Bot) sendContextualSticker(msg *tgbotapi.Message) {
	set, err := b.stickers.GetStickerSet(tgbotapi.GetStickerSetConfig{Name: b.stickerSet})
	if err != nil {
		b.log.Warn().Err(err).Str("set", b.stickerSet).Msg("could not fetch sticker set")
		return
	}
	if len(set.Stickers) == 0 {
		b.log.Warn().Str("set", b.stickerSet).Msg("sticker set is empty")
		return
	}
	idx := int(b.rand() * float64(len(set.Stickers)))
	if idx >= len(set.Stickers) {
		idx = len(set.Stickers) - 1
	}
	sticker := tgbotapi.NewSticker(msg.Chat.ID, tgbotapi.FileID(set.Stickers[idx].FileID))
	sticker.ReplyToMessageID = msg.MessageID
	if _, err := b.s.Send(sticker); err != nil {
		b.log.Warn().Err(err).Msg("failed to send sticker")
	}
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
