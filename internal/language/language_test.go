package language

import "testing"

func TestDetectShortInputUsesDefault(t *testing.T) {
	// Nil detector: short input must not reach the model at all.
	d := &Detector{}
	if got := d.Detect(""); got != DefaultCode {
		t.Fatalf("empty text: got %q, want %q", got, DefaultCode)
	}
	if got := d.Detect("hi"); got != DefaultCode {
		t.Fatalf("2-char text: got %q, want %q", got, DefaultCode)
	}
	if got := d.Detect("  a  "); got != DefaultCode {
		t.Fatalf("whitespace-padded short text: got %q, want %q", got, DefaultCode)
	}
	// 2 characters but 4 bytes: still too short to classify.
	if got := d.Detect("да"); got != DefaultCode {
		t.Fatalf("2-char non-ASCII text: got %q, want %q", got, DefaultCode)
	}
}

func TestDetectEnglishSentence(t *testing.T) {
	if testing.Short() {
		t.Skip("lingua model load is slow")
	}
	d := New()
	if got := d.Detect("The quick brown fox jumps over the lazy dog"); got != "en" {
		t.Fatalf("got %q, want en", got)
	}
}

func TestName(t *testing.T) {
	if got := Name("en"); got != "English" {
		t.Fatalf("got %q", got)
	}
	if got := Name("ru"); got != "Russian" {
		t.Fatalf("got %q", got)
	}
	if got := Name("xx"); got != "xx" {
		t.Fatalf("unknown code should pass through, got %q", got)
	}
}
