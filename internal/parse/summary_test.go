package parse

import (
	"reflect"
	"testing"
)

func TestParseSummaryWellFormed(t *testing.T) {
	text := `Summary: You had a stressful day at work but handled it well.
Keywords: #stress, #work, #relief, #pride, #fatigue
Action items:
- Take a short walk after dinner
- Write down one thing that went well
- Go to bed before midnight`

	r := ParseSummary(text)
	if r.Summary != "You had a stressful day at work but handled it well." {
		t.Fatalf("summary=%q", r.Summary)
	}
	wantKw := []string{"#stress", "#work", "#relief", "#pride", "#fatigue"}
	if !reflect.DeepEqual(r.Keywords, wantKw) {
		t.Fatalf("keywords=%v", r.Keywords)
	}
	wantAI := []string{
		"Take a short walk after dinner",
		"Write down one thing that went well",
		"Go to bed before midnight",
	}
	if !reflect.DeepEqual(r.ActionItems, wantAI) {
		t.Fatalf("action items=%v", r.ActionItems)
	}
}

func TestParseSummaryCaps(t *testing.T) {
	text := `Keywords: #a, #b, #c, #d, #e, #f, #g
Action items:
- one
- two
- three
- four`
	r := ParseSummary(text)
	if len(r.Keywords) != 5 {
		t.Fatalf("keywords=%v", r.Keywords)
	}
	if len(r.ActionItems) != 3 {
		t.Fatalf("action items=%v", r.ActionItems)
	}
}

func TestParseSummaryMissingSectionsFallBack(t *testing.T) {
	r := ParseSummary("the model rambled and followed no format at all")
	if r.Summary != DefaultSummary {
		t.Fatalf("summary=%q", r.Summary)
	}
	if len(r.Keywords) != 1 || r.Keywords[0] != DefaultKeyword {
		t.Fatalf("keywords=%v", r.Keywords)
	}
	if len(r.ActionItems) != 1 || r.ActionItems[0] != DefaultActionItem {
		t.Fatalf("action items=%v", r.ActionItems)
	}
}

func TestParseSummaryLabelOrderIsFree(t *testing.T) {
	text := `Action items:
- breathe
Summary: a quiet day
Keywords: #quiet`
	r := ParseSummary(text)
	if r.Summary != "a quiet day" {
		t.Fatalf("summary=%q", r.Summary)
	}
	if len(r.ActionItems) != 1 || r.ActionItems[0] != "breathe" {
		t.Fatalf("action items=%v", r.ActionItems)
	}
}

func TestParseSummaryLabelClosesActionMode(t *testing.T) {
	text := `Action items:
- real item
Keywords: #k
- not an action item`
	r := ParseSummary(text)
	if len(r.ActionItems) != 1 {
		t.Fatalf("action items=%v", r.ActionItems)
	}
}

func TestParseSummaryCaseAndBulletVariants(t *testing.T) {
	text := `SUMMARY: shouted labels still count
KEYWORDS: #loud
ACTION ITEMS:
• unicode bullet
* star bullet`
	r := ParseSummary(text)
	if r.Summary != "shouted labels still count" {
		t.Fatalf("summary=%q", r.Summary)
	}
	if len(r.ActionItems) != 2 {
		t.Fatalf("action items=%v", r.ActionItems)
	}
}

func TestEnsureMarker(t *testing.T) {
	cases := map[string]string{
		"calm":    "#calm",
		"#calm":   "#calm",
		"  calm ": "#calm",
		"":        "",
	}
	for in, want := range cases {
		if got := EnsureMarker(in); got != want {
			t.Fatalf("EnsureMarker(%q)=%q, want %q", in, got, want)
		}
	}
}
