// Package tokens counts tokens for budget accounting when the provider does
// not report usage itself.
package tokens

import (
	"strings"
	"sync"

	"moodiary/internal/chat"

	tiktoken "github.com/pkoukk/tiktoken-go"
)

// Counter 精确 token 计数器，tiktoken 不可用时回退到启发式
// Counter provides precise token counting with tiktoken and a heuristic
// fallback for offline environments without the BPE cache.
type Counter struct {
	encoder  *tiktoken.Tiktoken
	encoding string
	fallback bool
	mu       sync.RWMutex
}

var (
	defaultCounter     *Counter
	defaultCounterOnce sync.Once
)

// Default returns the shared counter instance.
func Default() *Counter {
	defaultCounterOnce.Do(func() {
		defaultCounter = NewCounter("cl100k_base")
	})
	return defaultCounter
}

// NewCounter creates a counter for the given encoding, falling back to the
// heuristic when tiktoken initialization fails.
func NewCounter(encoding string) *Counter {
	c := &Counter{encoding: encoding}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		c.fallback = true
		return c
	}
	c.encoder = enc
	return c
}

// ForModel picks an encoding from the model name.
func ForModel(model string) *Counter {
	return NewCounter(modelToEncoding(model))
}

// Count returns the total token count for a message list, including the
// ~4-token per-message overhead of the OpenAI chat format.
func (c *Counter) Count(messages []chat.Message) int {
	total := 0
	for _, m := range messages {
		total += 4
		total += c.CountText(m.Role)
		total += c.CountText(m.Content)
	}
	return total
}

// CountText counts tokens for a single string.
func (c *Counter) CountText(text string) int {
	if text == "" {
		return 0
	}
	if c.fallback {
		return heuristicTokenCount(text)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.encoder.Encode(text, nil, nil))
}

// IsPrecise reports whether tiktoken counting is in use.
func (c *Counter) IsPrecise() bool {
	return !c.fallback
}

// heuristicTokenCount 启发式估算：CJK 约 1.5 token/字，ASCII 约 4 字符/token
// heuristicTokenCount estimates tokens: CJK ~1.5 tokens per rune, ASCII ~4
// chars per token.
func heuristicTokenCount(text string) int {
	cjk, ascii := 0, 0
	for _, r := range text {
		if isCJK(r) {
			cjk++
		} else {
			ascii++
		}
	}
	estimate := int(float64(cjk)*1.5 + float64(ascii)*0.25)
	if estimate < 1 {
		estimate = 1
	}
	return estimate
}

func isCJK(r rune) bool {
	return (r >= 0x4E00 && r <= 0x9FFF) || // CJK Unified
		(r >= 0x3400 && r <= 0x4DBF) || // CJK Extension A
		(r >= 0x3000 && r <= 0x303F) || // CJK Symbols
		(r >= 0xFF00 && r <= 0xFFEF) || // Fullwidth Forms
		(r >= 0xAC00 && r <= 0xD7AF) // Korean Hangul
}

func modelToEncoding(model string) string {
	m := strings.ToLower(strings.TrimSpace(model))
	switch {
	case m == "":
		return "cl100k_base"
	case strings.HasPrefix(m, "o1"), strings.HasPrefix(m, "o3"),
		strings.HasPrefix(m, "gpt-4o"), strings.HasPrefix(m, "chatgpt-4o"):
		return "o200k_base"
	default:
		return "cl100k_base"
	}
}
