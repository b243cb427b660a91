// Package parse extracts structured fields from the model's free-text
// summarization reply. The upstream text is inherently unstructured, so
// robustness comes from fixed fallback values, never from rejecting input.
package parse

import (
	"strings"

	"moodiary/internal/diary"
)

// KeywordMarker prefixes every keyword tag.
const KeywordMarker = "#"

// Fixed fallbacks used when a section is missing or unparseable.
const (
	DefaultSummary    = "You shared today's feelings."
	DefaultKeyword    = KeywordMarker + "feelings"
	DefaultActionItem = "Be kind to yourself today."
)

// Labels recognized at the start of a line, matched case-insensitively.
const (
	summaryLabel = "summary"
	keywordLabel = "keywords"
	actionLabel  = "action items"
)

// Result is the structured form of a summarization reply.
type Result struct {
	Summary     string
	Keywords    []string
	ActionItems []string
}

// ParseSummary scans the model text line by line. Each recognized label
// applies to the remainder of its line (summary, keywords) or to the bullet
// lines that follow it (action items) until the next label or end of text.
// Missing sections degrade to the fixed defaults; this never fails.
func ParseSummary(text string) Result {
	var r Result
	inActions := false

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if rest, ok := stripLabel(line, summaryLabel); ok {
			r.Summary = rest
			inActions = false
			continue
		}
		if rest, ok := stripLabel(line, keywordLabel); ok {
			r.Keywords = splitKeywords(rest)
			inActions = false
			continue
		}
		if _, ok := stripLabel(line, actionLabel); ok {
			inActions = true
			continue
		}

		if inActions && len(r.ActionItems) < diary.MaxActionItems {
			if item, ok := stripBullet(line); ok {
				r.ActionItems = append(r.ActionItems, item)
			}
		}
	}

	if strings.TrimSpace(r.Summary) == "" {
		r.Summary = DefaultSummary
	}
	if len(r.Keywords) == 0 {
		r.Keywords = []string{DefaultKeyword}
	}
	if len(r.ActionItems) == 0 {
		r.ActionItems = []string{DefaultActionItem}
	}
	return r
}

// EnsureMarker prefixes a keyword with the marker character if missing.
func EnsureMarker(keyword string) string {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return keyword
	}
	if strings.HasPrefix(keyword, KeywordMarker) {
		return keyword
	}
	return KeywordMarker + keyword
}

func stripLabel(line, label string) (string, bool) {
	if len(line) < len(label) || !strings.EqualFold(line[:len(label)], label) {
		return "", false
	}
	rest := line[len(label):]
	rest = strings.TrimLeft(rest, " \t")
	rest = strings.TrimPrefix(rest, ":")
	return strings.TrimSpace(rest), true
}

func splitKeywords(rest string) []string {
	var out []string
	for _, tok := range strings.Split(rest, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		out = append(out, tok)
		if len(out) >= diary.MaxGeneratedKeywords {
			break
		}
	}
	return out
}

func stripBullet(line string) (string, bool) {
	for _, marker := range []string{"-", "•", "*"} {
		if strings.HasPrefix(line, marker) {
			return strings.TrimSpace(strings.TrimPrefix(line, marker)), true
		}
	}
	return "", false
}
