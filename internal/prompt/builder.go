// Package prompt assembles the instruction text sent to the model. Builders
// are deterministic given their inputs and hold no state.
package prompt

import (
	"fmt"
	"strings"

	"moodiary/internal/diary"
)

// ContextEntriesInPrompt caps how many recent session summaries are appended
// to the system prompt.
const ContextEntriesInPrompt = 2

const empathySystemPrompt = `You read the user's emotional diary and respond with warm, realistic comfort that fits the emotional context.

- Do not judge the user's emotion; accept it as it is.
- Mirror the tone of the stated mood "%s" in your wording.
- Never encourage self-harm, violence, or anything illegal.
- If the user shows signs of serious distress, gently recommend professional help.
- When the user describes a conflict, stay warmly on the user's side.
- Keep responses sincere, respectful, and short: one or two sentences.`

const summaryRequestPrompt = `Read the diary entries below and produce exactly this format:

Summary: a one or two sentence synopsis of the user's day and feelings
Keywords: exactly 5 emotion keywords, comma separated, each starting with #
Action items:
- 2 or 3 short, gentle suggestions, one per bullet line

Do not add any other sections.`

// BuildSystemPrompt returns the empathy system prompt for a mood, with up to
// ContextEntriesInPrompt recent session summaries appended so the model can
// keep continuity and avoid repeating suggestions.
func BuildSystemPrompt(mood string, recent []diary.ContextEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, empathySystemPrompt, mood)

	if len(recent) > ContextEntriesInPrompt {
		recent = recent[len(recent)-ContextEntriesInPrompt:]
	}
	if len(recent) > 0 {
		b.WriteString("\n\nPrevious conversations, oldest first. Avoid repeating these suggestions:")
		for _, c := range recent {
			fmt.Fprintf(&b, "\n- %s (%s): %s", c.Date.Format("2006-01-02"), c.Mood, c.Summary)
			if len(c.ActionItems) > 0 {
				fmt.Fprintf(&b, " [suggested: %s]", strings.Join(c.ActionItems, "; "))
			}
		}
	}
	return b.String()
}

// BuildUserTurn formats one diary message as the user turn sent to the model.
func BuildUserTurn(label, text string) string {
	return fmt.Sprintf("Today's mood: %s\n\nDiary entry:\n%s", label, strings.TrimSpace(text))
}

// BuildSummaryRequest returns the system prompt and user payload for the
// one-shot summarization call made when a chat session ends.
func BuildSummaryRequest(userTexts []string) (system, user string) {
	return summaryRequestPrompt, strings.Join(userTexts, "\n\n")
}
