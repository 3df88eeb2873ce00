package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"chatmate/internal/analyze"
	"chatmate/internal/config"
	"chatmate/internal/engage"
	"chatmate/internal/language"
	"chatmate/internal/llm"
	"chatmate/internal/scheduler"
	"chatmate/internal/store"
	"chatmate/internal/summary"
	"chatmate/internal/telegram"
	"chatmate/internal/websearch"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	if err := godotenv.Load(".env"); err != nil {
		log.Debug().Err(err).Msg(".env file not found")
	}

	cfg := config.New()
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		log = log.Level(level)
	}

	factory := &llm.Factory{
		OpenAIAPIKey:     cfg.OpenAIAPIKey,
		OpenAIBaseURL:    cfg.OpenAIBaseURL,
		Temperature:      cfg.Temperature,
		YandexOAuthToken: cfg.YandexOAuthToken,
		YandexFolderID:   cfg.YandexFolderID,
	}
	llmClient, err := factory.CreateClient(cfg.LLMProvider, cfg.OpenAIModel)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create llm client")
	}

	conversations := store.New(cfg.MaxRecentMessages, cfg.MaxUserMessages)
	detector := language.New()
	summaries := summary.New(conversations, llmClient, detector, log)

	bot, err := telegram.New(telegram.Options{
		Token:           cfg.TelegramBotToken,
		Store:           conversations,
		LLM:             llmClient,
		Lang:            detector,
		Engage:          engage.New(llmClient, nil, log),
		Analyzer:        analyze.New(llmClient, log),
		Searcher:        websearch.New(llmClient, cfg.EnableWebSearch, cfg.MaxSearchResults, log),
		Summary:         summaries,
		ContextWindow:   cfg.ContextWindowSize,
		StickersEnabled: cfg.EnableStickers,
		StickerChance:   cfg.StickerChance,
		StickerSetName:  cfg.StickerSetName,
		Log:             log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create bot")
	}

	sched := scheduler.New(log)
	sched.SetJob(func(ctx context.Context) {
		summaries.RunDaily(ctx, bot.SendMessage)
	})
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}
	defer sched.Stop()

	bot.Start(context.Background())
}
