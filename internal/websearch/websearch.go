// Package websearch decides when external search would help a reply and
// fetches results from the DuckDuckGo instant-answer API.
package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"chatmate/internal/llm"
)

const searchQuerySystemPrompt = "You are a search query generator. Respond with a search query or 'NO'."

const defaultBaseURL = "https://api.duckduckgo.com"

// maxQueryLen rejects classifier output that is clearly prose, not a query.
const maxQueryLen = 100

type Result struct {
	Title   string
	Snippet string
	URL     string
}

type Searcher struct {
	llm        llm.Client
	httpc      *http.Client
	baseURL    string
	enabled    bool
	maxResults int
	log        zerolog.Logger
}

func New(client llm.Client, enabled bool, maxResults int, log zerolog.Logger) *Searcher {
	return &Searcher{
		llm:        client,
		httpc:      &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		enabled:    enabled,
		maxResults: maxResults,
		log:        log,
	}
}

// SetBaseURL points the searcher at another endpoint. Intended for tests.
func (s *Searcher) SetBaseURL(u string) { s.baseURL = u }

// MaybeSearch derives a query from the conversation and runs it. Returns
// nil when search is disabled, not warranted, or failing; callers never see
// an error.
func (s *Searcher) MaybeSearch(ctx context.Context, text, history string) []Result {
	query := s.Query(ctx, text, history)
	if query == "" {
		return nil
	}
	s.log.Info().Str("query", query).Msg("searching the web")
	return s.Search(ctx, query)
}

// Query asks the classifier whether search would help. "" means no.
func (s *Searcher) Query(ctx context.Context, text, history string) string {
	if !s.enabled {
		return ""
	}
	resp, err := s.llm.Generate(ctx, searchQuerySystemPrompt, buildSearchPrompt(text, history), 20)
	if err != nil {
		s.log.Warn().Err(err).Msg("search trigger classification failed")
		return ""
	}
	raw := strings.TrimSpace(resp.Content)
	if utf8.RuneCountInString(raw) < 3 || strings.EqualFold(raw, "NO") {
		return ""
	}
	query, _, _ := strings.Cut(raw, "\n")
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) > maxQueryLen {
		return ""
	}
	return query
}

// Search runs a DuckDuckGo instant-answer query. Failures yield an empty
// result set, never an error.
func (s *Searcher) Search(ctx context.Context, query string) []Result {
	if query == "" {
		return nil
	}
	results, err := s.search(ctx, query)
	if err != nil {
		s.log.Warn().Err(err).Str("query", query).Msg("web search failed")
		return nil
	}
	return results
}

type ddgTopic struct {
	Text     string     `json:"Text"`
	FirstURL string     `json:"FirstURL"`
	Topics   []ddgTopic `json:"Topics"`
}

func (s *Searcher) search(ctx context.Context, query string) ([]Result, error) {
	apiURL := fmt.Sprintf("%s/?q=%s&format=json&no_html=1&skip_disambig=1",
		s.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := s.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body struct {
		AbstractText  string     `json:"AbstractText"`
		AbstractURL   string     `json:"AbstractURL"`
		Heading       string     `json:"Heading"`
		RelatedTopics []ddgTopic `json:"RelatedTopics"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to parse results: %w", err)
	}

	var results []Result
	if body.AbstractText != "" {
		results = append(results, Result{
			Title:   body.Heading,
			Snippet: body.AbstractText,
			URL:     body.AbstractURL,
		})
	}

	var appendTopic func(topic ddgTopic)
	appendTopic = func(topic ddgTopic) {
		if len(results) >= s.maxResults {
			return
		}
		if topic.Text != "" {
			title, snippet := splitTopicText(topic.Text)
			results = append(results, Result{Title: title, Snippet: snippet, URL: topic.FirstURL})
		}
		for _, child := range topic.Topics {
			appendTopic(child)
		}
	}
	for _, topic := range body.RelatedTopics {
		appendTopic(topic)
	}

	if len(results) > s.maxResults {
		results = results[:s.maxResults]
	}
	return results, nil
}

func splitTopicText(text string) (title, snippet string) {
	parts := strings.SplitN(text, " - ", 2)
	if len(parts) == 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(text), ""
}

func buildSearchPrompt(text, history string) string {
	return fmt.Sprintf(
		"Analyze this Telegram group chat conversation to determine if web search would be helpful.\n\n"+
			"Recent conversation:\n%s\n\n"+
			"Latest message: %s\n\n"+
			"Should the bot search the internet for information? Consider:\n"+
			"- Is someone asking about current information, prices, locations, or facts?\n"+
			"- Would real-time data or recent information be helpful?\n"+
			"- Are they discussing topics that could benefit from web search (rentals, products, services, etc.)?\n"+
			"- Would search results help provide better suggestions or solutions?\n\n"+
			"If search would be helpful, respond with a search query (2-5 words).\n"+
			"If not needed, respond with ONLY 'NO'.\n"+
			"Example: 'house rental prices' or 'best restaurants near me' or 'NO'",
		history, text)
}
