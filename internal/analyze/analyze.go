// Package analyze classifies the current message into a small tone/intent
// descriptor used by the prompt assembler.
package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"chatmate/internal/llm"
)

const analyzerSystemPrompt = "You are a conversation analyzer. Respond with valid JSON only."

type Analysis struct {
	IsSocial      bool   `json:"is_social"`
	IsQuestion    bool   `json:"is_question"`
	NeedsResponse bool   `json:"needs_response"`
	Tone          string `json:"tone"`
}

type Analyzer struct {
	llm llm.Client
	log zerolog.Logger
}

func New(client llm.Client, log zerolog.Logger) *Analyzer {
	return &Analyzer{llm: client, log: log}
}

// Analyze asks the classifier for a one-line JSON judgment. Any provider or
// parse failure degrades to a deterministic rule; errors never escape.
func (a *Analyzer) Analyze(ctx context.Context, text, history string) Analysis {
	resp, err := a.llm.Generate(ctx, analyzerSystemPrompt, buildAnalysisPrompt(text, history), 100)
	if err != nil {
		a.log.Warn().Err(err).Msg("conversation analysis failed, using fallback")
		return fallback(text)
	}

	raw := stripCodeFence(strings.TrimSpace(resp.Content))
	if strings.HasPrefix(raw, "{") {
		var out Analysis
		if err := json.Unmarshal([]byte(raw), &out); err == nil {
			return out
		}
		a.log.Warn().Str("response", raw).Msg("unparseable analysis response")
	}
	return fallback(text)
}

func fallback(text string) Analysis {
	q := strings.Contains(text, "?")
	return Analysis{IsQuestion: q, NeedsResponse: q, Tone: "casual"}
}

// stripCodeFence unwraps ```...``` and ```json...``` blocks some models
// insist on producing.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	parts := strings.Split(s, "```")
	if len(parts) < 2 {
		return s
	}
	inner := parts[1]
	inner = strings.TrimPrefix(inner, "json")
	return strings.TrimSpace(inner)
}

func buildAnalysisPrompt(text, history string) string {
	return fmt.Sprintf(
		"Analyze this Telegram group chat message and context:\n\n"+
			"Recent conversation:\n%s\n\n"+
			"Current message: %s\n\n"+
			"Analyze and respond in this exact JSON format:\n"+
			`{"is_social": true/false, "is_question": true/false, "needs_response": true/false, "tone": "casual/formal/excited/etc"}`,
		history, text)
}
