// Package safety screens user text for high-risk content before it reaches
// the model. Keyword containment only: false negatives are accepted, a match
// routes the user to the crisis message instead of a model call.
package safety

import "strings"

// riskTerms is the fixed high-risk keyword list. Matching is case-insensitive
// substring containment.
var riskTerms = []string{
	"suicide",
	"suicidal",
	"kill myself",
	"end my life",
	"end it all",
	"self-harm",
	"self harm",
	"hurt myself",
	"cut myself",
	"cutting myself",
	"want to die",
	"wanna die",
	"better off dead",
	"no reason to live",
	"overdose",
	"kill him",
	"kill her",
	"kill them",
	"assault",
	"weapon",
}

// IsHarmful reports whether text contains any filtered keyword. Pure and
// total; empty text is never harmful.
func IsHarmful(text string) bool {
	lowered := strings.ToLower(text)
	for _, term := range riskTerms {
		if strings.Contains(lowered, term) {
			return true
		}
	}
	return false
}
