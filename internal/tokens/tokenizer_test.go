package tokens

import (
	"testing"

	"moodiary/internal/chat"
)

func TestCountTextEmpty(t *testing.T) {
	c := NewCounter("cl100k_base")
	if got := c.CountText(""); got != 0 {
		t.Fatalf("empty text = %d tokens", got)
	}
}

func TestCountIncludesMessageOverhead(t *testing.T) {
	c := NewCounter("cl100k_base")
	msgs := []chat.Message{chat.User("hello there")}
	if got := c.Count(msgs); got < 4 {
		t.Fatalf("count=%d, want >= per-message overhead", got)
	}
}

func TestHeuristicFallback(t *testing.T) {
	c := NewCounter("no-such-encoding")
	if c.IsPrecise() {
		t.Fatal("expected heuristic fallback")
	}
	if got := c.CountText("four char groups here"); got < 1 {
		t.Fatalf("count=%d", got)
	}
	// Hangul should weigh heavier than the same number of ASCII runes.
	ascii := c.CountText("aaaa")
	hangul := c.CountText("감정일기")
	if hangul <= ascii {
		t.Fatalf("hangul=%d ascii=%d", hangul, ascii)
	}
}

func TestForModelSelectsEncoding(t *testing.T) {
	cases := map[string]string{
		"gpt-4o":        "o200k_base",
		"o3-mini":       "o200k_base",
		"gpt-3.5-turbo": "cl100k_base",
		"":              "cl100k_base",
	}
	for model, want := range cases {
		if got := modelToEncoding(model); got != want {
			t.Fatalf("modelToEncoding(%q)=%q, want %q", model, got, want)
		}
	}
}
