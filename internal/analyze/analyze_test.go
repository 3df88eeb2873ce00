package analyze

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"chatmate/internal/llm"
)

type fakeLLM struct {
	resp llm.Response
	err  error
}

func (f fakeLLM) Generate(ctx context.Context, system, user string, maxTokens int) (llm.Response, error) {
	return f.resp, f.err
}

func TestAnalyzePlainJSON(t *testing.T) {
	a := New(fakeLLM{resp: llm.Response{Content: `{"is_social": true, "is_question": false, "needs_response": true, "tone": "excited"}`}}, zerolog.Nop())
	got := a.Analyze(context.Background(), "party tonight!", "")
	if !got.IsSocial || got.IsQuestion || !got.NeedsResponse || got.Tone != "excited" {
		t.Fatalf("unexpected analysis: %+v", got)
	}
}

func TestAnalyzeFencedJSON(t *testing.T) {
	fenced := "```json\n{\"is_social\": false, \"is_question\": true, \"needs_response\": true, \"tone\": \"formal\"}\n```"
	a := New(fakeLLM{resp: llm.Response{Content: fenced}}, zerolog.Nop())
	got := a.Analyze(context.Background(), "when is the meeting?", "")
	if !got.IsQuestion || got.Tone != "formal" {
		t.Fatalf("fenced JSON not parsed: %+v", got)
	}
}

func TestAnalyzeGarbageFallsBack(t *testing.T) {
	a := New(fakeLLM{resp: llm.Response{Content: "I think it's a casual chat"}}, zerolog.Nop())
	got := a.Analyze(context.Background(), "where is everyone?", "")
	want := Analysis{IsQuestion: true, NeedsResponse: true, Tone: "casual"}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestAnalyzeProviderErrorFallsBack(t *testing.T) {
	a := New(fakeLLM{err: errors.New("down")}, zerolog.Nop())
	got := a.Analyze(context.Background(), "no questions here", "")
	want := Analysis{Tone: "casual"}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}
