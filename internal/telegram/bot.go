package telegram

import (
	"context"
	"errors"
	"math/rand"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"chatmate/internal/analyze"
	"chatmate/internal/engage"
	"chatmate/internal/llm"
	"chatmate/internal/store"
	"chatmate/internal/summary"
	"chatmate/internal/websearch"
)

// detector is the slice of the language adapter the bot needs.
type detector interface {
	Detect(text string) string
}

// Options wires the bot's collaborators and tunables.
type Options struct {
	Token string

	Store    *store.Store
	LLM      llm.Client
	Lang     detector
	Engage   *engage.Decider
	Analyzer *analyze.Analyzer
	Searcher *websearch.Searcher
	Summary  *summary.Generator

	ContextWindow   int
	StickersEnabled bool
	StickerChance   float64
	StickerSetName  string

	// Rand may be nil; tests inject a deterministic source.
	Rand func() float64
	Log  zerolog.Logger
}

type Bot struct {
	api      *tgbotapi.BotAPI
	s        sender
	stickers stickerFetcher

	store    *store.Store
	llm      llm.Client
	lang     detector
	engage   *engage.Decider
	analyzer *analyze.Analyzer
	searcher *websearch.Searcher
	summary  *summary.Generator

	botID       int64
	botUsername string // lowercase, without the @

	contextWindow   int
	stickersEnabled bool
	stickerChance   float64
	stickerSet      string

	rand func() float64
	log  zerolog.Logger
}

func New(opts Options) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(opts.Token)
	if err != nil {
		return nil, err
	}
	randFn := opts.Rand
	if randFn == nil {
		randFn = rand.Float64
	}
	s := botAPISender{api: api}
	return &Bot{
		api:             api,
		s:               s,
		stickers:        s,
		store:           opts.Store,
		llm:             opts.LLM,
		lang:            opts.Lang,
		engage:          opts.Engage,
		analyzer:        opts.Analyzer,
		searcher:        opts.Searcher,
		summary:         opts.Summary,
		botID:           api.Self.ID,
		botUsername:     strings.ToLower(api.Self.UserName),
		contextWindow:   opts.ContextWindow,
		stickersEnabled: opts.StickersEnabled,
		stickerChance:   opts.StickerChance,
		stickerSet:      opts.StickerSetName,
		rand:            randFn,
		log:             opts.Log,
	}, nil
}

// Start runs the long-polling update loop. Each update is handled on its
// own goroutine; the store is the only shared state and guards itself.
func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	b.log.Info().Str("username", b.botUsername).Msg("bot started")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			go b.handleUpdate(ctx, update.Message)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}
	if msg.Text == "" {
		return
	}
	b.handleMessage(ctx, msg)
}

// SendMessage sends plain text to a chat. Used by the daily summary job.
func (b *Bot) SendMessage(chatID int64, text string) error {
	_, err := b.s.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (b *Bot) reply(msg *tgbotapi.Message, text string) {
	out := tgbotapi.NewMessage(msg.Chat.ID, text)
	out.ReplyToMessageID = msg.MessageID
	if _, err := b.s.Send(out); err != nil {
		b.log.Error().Err(err).Int64("chat_id", msg.Chat.ID).Msg("failed to send reply")
	}
}

// fallbackReply maps a generation failure to one of the two canned strings
// the user is allowed to see.
func fallbackReply(err error) string {
	if errors.Is(err, llm.ErrRateLimited) {
		return rateLimitMessage
	}
	return aiErrorMessage
}

