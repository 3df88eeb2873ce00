package llm

import (
	"fmt"
	"strings"
)

const (
	ProviderOpenAI = "openai"
	ProviderYandex = "yandex"
)

// Factory creates LLM clients with consistent logic.
type Factory struct {
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	Temperature      float32
	YandexOAuthToken string
	YandexFolderID   string
}

func (f *Factory) CreateClient(provider, model string) (Client, error) {
	switch strings.ToLower(provider) {
	case ProviderOpenAI:
		if f.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for the openai provider")
		}
		return NewOpenAI(f.OpenAIAPIKey, f.OpenAIBaseURL, model, f.Temperature), nil
	case ProviderYandex:
		if f.YandexOAuthToken == "" || f.YandexFolderID == "" {
			return nil, fmt.Errorf("YANDEX_OAUTH_TOKEN and YANDEX_FOLDER_ID are required for the yandex provider")
		}
		return NewYandex(f.YandexOAuthToken, f.YandexFolderID)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", provider)
	}
}
