// Package engage holds the gate that decides whether the bot speaks at all.
package engage

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/rs/zerolog"

	"chatmate/internal/llm"
)

const decisionSystemPrompt = "You are a conversational AI assistant. Decide if joining this conversation would be natural and valuable. Respond with only YES or NO."

// Engagement probabilities. The override models the bot changing its mind
// even when the classifier says no, so conversations keep a natural jitter.
const (
	freshConversationChance = 0.30
	overrideChance          = 0.15
	fallbackChance          = 0.25
)

type Decider struct {
	llm  llm.Client
	rand func() float64
	log  zerolog.Logger
}

// New builds a Decider. randFn may be nil, in which case the global source
// is used; tests inject their own to force deterministic branches.
func New(client llm.Client, randFn func() float64, log zerolog.Logger) *Decider {
	if randFn == nil {
		randFn = rand.Float64
	}
	return &Decider{llm: client, rand: randFn, log: log}
}

// ShouldReply decides whether the bot should answer the latest message.
// A direct mention is terminal; everything else is a mix of probabilistic
// baselines and an external classification with a randomized override.
func (d *Decider) ShouldReply(ctx context.Context, text, history string, wasMentioned bool) bool {
	if wasMentioned {
		return true
	}

	if strings.TrimSpace(history) == "" {
		return d.rand() < freshConversationChance
	}

	resp, err := d.llm.Generate(ctx, decisionSystemPrompt, buildDecisionPrompt(text, history), 10)
	if err != nil {
		d.log.Warn().Err(err).Msg("engagement classifier failed, using fallback")
		return strings.Contains(text, "?") || d.rand() < fallbackChance
	}

	verdict := strings.ToUpper(strings.TrimSpace(resp.Content))
	if strings.HasPrefix(verdict, "YES") {
		return true
	}
	if d.rand() < overrideChance {
		d.log.Info().Msg("overriding classifier verdict to keep conversation flowing")
		return true
	}
	return false
}

func buildDecisionPrompt(text, history string) string {
	return fmt.Sprintf(
		"You are analyzing a Telegram group chat to decide if an AI bot should naturally join the conversation.\n\n"+
			"Recent conversation:\n%s\n\n"+
			"Latest message: %s\n\n"+
			"Should the bot respond naturally? Consider:\n"+
			"- Can the bot add value or continue the conversation naturally?\n"+
			"- Is there an opportunity to be helpful, supportive, or engaging?\n"+
			"- Would a response feel natural in this context?\n"+
			"- Is the conversation ongoing and could use support?\n"+
			"- Even if not a direct question, can the bot contribute meaningfully?\n"+
			"- The bot should be conversational and supportive, not just answer questions.\n\n"+
			"Be more lenient - if the conversation could benefit from engagement, say YES.\n"+
			"Respond with ONLY 'YES' or 'NO' - nothing else.",
		history, text)
}
