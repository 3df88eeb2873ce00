package prompt

import (
	"strings"
	"testing"

	"chatmate/internal/analyze"
	"chatmate/internal/websearch"
)

func TestSystemLanguageLock(t *testing.T) {
	got := System(SystemOptions{Tone: "casual", LanguageName: "Russian", LanguageCode: "ru"})
	if !strings.Contains(got, "You MUST respond in Russian (ru)") {
		t.Fatalf("language lock missing: %q", got)
	}
	if !strings.Contains(got, "Conversation tone: casual") {
		t.Fatalf("tone clause missing")
	}
}

func TestSystemMentionFraming(t *testing.T) {
	mentioned := System(SystemOptions{WasMentioned: true, LanguageName: "English", LanguageCode: "en"})
	if !strings.Contains(mentioned, "directly mentioned/tagged") {
		t.Fatalf("direct-address framing missing")
	}
	ambient := System(SystemOptions{WasMentioned: false, LanguageName: "English", LanguageCode: "en"})
	if !strings.Contains(ambient, "joining the conversation naturally") {
		t.Fatalf("ambient-join framing missing")
	}
}

func TestSystemConversationTypeClauses(t *testing.T) {
	got := System(SystemOptions{
		LanguageName: "English", LanguageCode: "en",
		Analysis: analyze.Analysis{IsSocial: true, IsQuestion: true},
	})
	if !strings.Contains(got, "social activities") {
		t.Fatalf("social clause missing")
	}
	if !strings.Contains(got, "This is a question") {
		t.Fatalf("question clause missing")
	}
	got = System(SystemOptions{LanguageName: "English", LanguageCode: "en"})
	if !strings.Contains(got, "This isn't a direct question") {
		t.Fatalf("non-question clause missing")
	}
}

func TestUserBasicBlocks(t *testing.T) {
	got := User(UserOptions{History: "a: hi\nb: yo", UserName: "carol", Text: "what now?"})
	if !strings.Contains(got, "Recent chat history:\na: hi\nb: yo") {
		t.Fatalf("history block missing: %q", got)
	}
	if !strings.Contains(got, "Last message from carol:\nwhat now?") {
		t.Fatalf("last-message block missing")
	}
	if strings.Contains(got, "Context about") {
		t.Fatalf("context block should be absent without user context")
	}
	if !strings.Contains(got, "Be a natural part of the group chat") {
		t.Fatalf("closing instructions missing")
	}
}

func TestUserContextBlock(t *testing.T) {
	got := User(UserOptions{UserName: "carol", UserContext: "carol often talks about: hiking"})
	if !strings.Contains(got, "Context about carol:\ncarol often talks about: hiking") {
		t.Fatalf("context block missing: %q", got)
	}
}

func TestUserSearchBlockTruncatesAndCaps(t *testing.T) {
	long := strings.Repeat("s", 200)
	results := []websearch.Result{
		{Title: "One", Snippet: long, URL: "https://a"},
		{Title: "Two", Snippet: "short", URL: "https://b"},
		{Title: "Three", Snippet: "x", URL: "https://c"},
		{Title: "Four", Snippet: "never shown", URL: "https://d"},
	}
	got := User(UserOptions{UserName: "u", Text: "What's the weather like for a hike tomorrow?", SearchResults: results})

	if !strings.Contains(got, "I found some relevant information from the web") {
		t.Fatalf("search block header missing")
	}
	if strings.Contains(got, "Four") {
		t.Fatalf("more than 3 results included")
	}
	if !strings.Contains(got, strings.Repeat("s", 150)+"...") {
		t.Fatalf("snippet not truncated to 150 chars with ellipsis")
	}
	if strings.Contains(got, strings.Repeat("s", 151)) {
		t.Fatalf("snippet exceeds 150 chars")
	}
	if !strings.Contains(got, "Reference the search results naturally") {
		t.Fatalf("usage directive missing")
	}
}

func TestUserEmptySearchOmitsBlock(t *testing.T) {
	got := User(UserOptions{UserName: "u", Text: "hi"})
	if strings.Contains(got, "information from the web") {
		t.Fatalf("search block should be absent")
	}
}
