package i18n

// EnMessages English message catalog
var EnMessages = map[string]string{
	// Lock screen
	"lock.title":  "Mood Diary",
	"lock.prompt": "Enter password",
	"lock.wrong":  "Wrong password, try again",

	// Mood selection
	"mood.title":   "How are you feeling today?",
	"mood.good":    "Good",
	"mood.neutral": "So-so",
	"mood.bad":     "Bad",

	// Emotions (single shot)
	"emotion.joy":           "Joy",
	"emotion.sadness":       "Sadness",
	"emotion.anger":         "Anger",
	"emotion.anxiety":       "Anxiety",
	"emotion.calm":          "Calm",
	"emotion.exhaustion":    "Exhaustion",
	"emotion.loneliness":    "Loneliness",
	"emotion.embarrassment": "Embarrassment",
	"emotion.unspecified":   "Unspecified",

	// Chat view
	"chat.title":       "Today's diary",
	"chat.placeholder": "Write about your day... (Enter to send)",
	"chat.waiting":     "Listening...",
	"chat.end_hint":    "ctrl+d finish entry",
	"chat.empty":       "Write something before sending",
	"chat.budget":      "Today's token budget is used up.",

	// Summary view
	"summary.title":     "Entry summary",
	"summary.keywords":  "Keywords",
	"summary.actions":   "Things to try",
	"summary.pick_hint": "Pick up to %d keywords (space to toggle)",
	"summary.save":      "Save entry",
	"summary.discard":   "Discard entry",
	"summary.back":      "Back to writing",
	"summary.saved":     "Entry saved",
	"summary.discarded": "Entry moved to trash",

	// Diary list
	"list.title": "Past entries",
	"list.empty": "No entries yet. Write your first one!",

	// Calendar
	"calendar.title":     "Mood calendar",
	"calendar.no_record": "no record",
	"calendar.stats":     "This month",

	// Trash
	"trash.title":    "Trash",
	"trash.empty":    "Trash is empty",
	"trash.restore":  "Restore",
	"trash.delete":   "Delete forever",
	"trash.restored": "Entry restored",
	"trash.note":     "Entries here are removed after %d days",

	// Status / errors
	"status.thinking": "Thinking...",
	"status.ready":    "Ready",
	"error.provider":  "Provider error: %s",
	"error.config":    "Config error: %s",

	// Keybindings
	"keys.quit":   "ctrl+c quit",
	"keys.tab":    "tab switch view",
	"keys.select": "enter select",
	"keys.back":   "esc back",
}
