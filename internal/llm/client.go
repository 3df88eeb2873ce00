package llm

import (
	"context"
	"errors"
)

// ErrRateLimited marks provider quota/rate-limit exhaustion. Callers map it
// to a canned apology instead of retrying.
var ErrRateLimited = errors.New("llm provider rate limited")

type Response struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Client is a single-turn text generator: one system instruction, one user
// instruction, a response length cap. Sampling temperature is provider
// configuration, not a per-call knob.
type Client interface {
	Generate(ctx context.Context, system, user string, maxTokens int) (Response, error)
}
