package config

import (
	"log"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN,required"`

	// LLM settings
	LLMProvider      string  `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey     string  `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string  `env:"OPENAI_BASE_URL"`
	OpenAIModel      string  `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	YandexOAuthToken string  `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string  `env:"YANDEX_FOLDER_ID"`
	Temperature      float32 `env:"AI_TEMPERATURE" envDefault:"0.7"`

	// Conversation store
	MaxRecentMessages int `env:"MAX_RECENT_MESSAGES" envDefault:"300"`
	MaxUserMessages   int `env:"MAX_USER_MESSAGES" envDefault:"50"`
	ContextWindowSize int `env:"CONTEXT_WINDOW_SIZE" envDefault:"15"`

	// Web search
	EnableWebSearch  bool `env:"ENABLE_WEB_SEARCH" envDefault:"true"`
	MaxSearchResults int  `env:"MAX_SEARCH_RESULTS" envDefault:"5"`

	// Stickers
	EnableStickers bool    `env:"ENABLE_STICKERS" envDefault:"true"`
	StickerChance  float64 `env:"STICKER_CHANCE" envDefault:"0.15"`
	StickerSetName string  `env:"STICKER_SET_NAME" envDefault:"SHREK.PACK"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
