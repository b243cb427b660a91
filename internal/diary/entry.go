package diary

import (
	"time"

	"moodiary/internal/chat"
)

// Caps enforced at entry creation and keyword curation.
const (
	MaxGeneratedKeywords = 5
	MaxCuratedKeywords   = 2
	MaxActionItems       = 3
	ContextWindowSize    = 5
)

// Entry 一条已提交的日记记录，提交后不可变
// Entry is one committed journal record. It is never mutated after commit;
// removal goes through the trash, not direct deletion.
type Entry struct {
	ID          string         `json:"id"`
	Date        time.Time      `json:"date"`
	Mood        Mood           `json:"mood,omitempty"`
	Emotion     Emotion        `json:"emotion,omitempty"`
	Text        string         `json:"text,omitempty"`
	Messages    []chat.Message `json:"messages,omitempty"`
	Summary     string         `json:"summary,omitempty"`
	Keywords    []string       `json:"keywords,omitempty"`
	ActionItems []string       `json:"action_items,omitempty"`
}

// Label returns the human label of the entry: the rich emotion when present,
// the mood scale otherwise.
func (e Entry) Label() string {
	if e.Emotion != "" {
		return string(e.Emotion)
	}
	return string(e.Mood)
}

// Glyph returns the calendar glyph of the entry.
func (e Entry) Glyph() string {
	if e.Emotion != "" {
		return e.Emotion.Glyph()
	}
	if e.Mood != "" {
		return e.Mood.Glyph()
	}
	return PlaceholderGlyph
}

// Preview returns the one-line list text: the summary when the entry went
// through summarization, the raw text otherwise.
func (e Entry) Preview() string {
	if e.Summary != "" {
		return e.Summary
	}
	return e.Text
}

// Deleted wraps a trashed entry with its deletion timestamp.
type Deleted struct {
	Entry     Entry     `json:"entry"`
	DeletedAt time.Time `json:"deleted_at"`
}

// ContextEntry 供后续会话复用的一条摘要上下文
// ContextEntry is the slice of a committed entry fed back into later prompts.
type ContextEntry struct {
	Date        time.Time `json:"date"`
	Mood        Mood      `json:"mood"`
	Summary     string    `json:"summary"`
	ActionItems []string  `json:"action_items"`
}

// ContextWindow holds the most recent committed-entry summaries, oldest
// evicted first once the window exceeds ContextWindowSize.
type ContextWindow struct {
	entries []ContextEntry
}

// Push appends a context entry, evicting the oldest beyond the window size.
func (w *ContextWindow) Push(e ContextEntry) {
	w.entries = append(w.entries, e)
	if len(w.entries) > ContextWindowSize {
		w.entries = w.entries[len(w.entries)-ContextWindowSize:]
	}
}

// Entries returns the window oldest-first.
func (w *ContextWindow) Entries() []ContextEntry {
	out := make([]ContextEntry, len(w.entries))
	copy(out, w.entries)
	return out
}

// Recent returns up to n of the newest entries, oldest-first.
func (w *ContextWindow) Recent(n int) []ContextEntry {
	if n <= 0 || len(w.entries) == 0 {
		return nil
	}
	start := len(w.entries) - n
	if start < 0 {
		start = 0
	}
	out := make([]ContextEntry, len(w.entries)-start)
	copy(out, w.entries[start:])
	return out
}

// Len returns the number of entries currently in the window.
func (w *ContextWindow) Len() int {
	return len(w.entries)
}
