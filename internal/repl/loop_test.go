package repl

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"moodiary/internal/diary"
	"moodiary/internal/provider"
	"moodiary/internal/session"

	"github.com/rs/zerolog"
)

type scriptProvider struct {
	reply string
	calls int
}

func (p *scriptProvider) Chat(ctx context.Context, req provider.ChatRequest, cb *provider.StreamCallbacks) (provider.ChatResponse, error) {
	p.calls++
	return provider.ChatResponse{Content: p.reply, FinishReason: "stop"}, nil
}

func (p *scriptProvider) Name() string            { return "script" }
func (p *scriptProvider) CurrentModel() string    { return "script-model" }
func (p *scriptProvider) SetModel(m string) error { return nil }

func runScript(t *testing.T, prov *scriptProvider, password, input string) (*session.Session, string) {
	t.Helper()
	sess := session.New(prov, diary.NewStore(), session.Config{}, zerolog.Nop())
	var out bytes.Buffer
	in := NewBasicLineReader(strings.NewReader(input), &out)
	loop := NewLoop(sess, in, &out, password, 30)
	if err := loop.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return sess, out.String()
}

func TestLoop_PasswordGate(t *testing.T) {
	prov := &scriptProvider{reply: "I hear you."}
	_, out := runScript(t, prov, "2752", "1111\n2752\nq\n")
	if !strings.Contains(out, "Wrong password") {
		t.Fatalf("wrong attempt should be rejected: %q", out)
	}
	if !strings.Contains(out, "How are you feeling today?") {
		t.Fatalf("correct password should reach the menu: %q", out)
	}
}

func TestLoop_SingleShotRecord(t *testing.T) {
	prov := &scriptProvider{reply: "That sounds rough."}
	// Emotion 2 is sadness in display order.
	sess, out := runScript(t, prov, "", "2\nlong tiring day\nq\n")
	if prov.calls != 1 {
		t.Fatalf("expected one model call, got %d", prov.calls)
	}
	if !strings.Contains(out, "That sounds rough.") {
		t.Fatalf("reply missing from output: %q", out)
	}
	if sess.Store().Len() != 1 {
		t.Fatalf("expected one committed entry, got %d", sess.Store().Len())
	}
	e := sess.Store().Entries()[0]
	if e.Emotion != diary.EmotionSadness {
		t.Fatalf("Emotion=%v, want sadness", e.Emotion)
	}
	if e.Text != "long tiring day" {
		t.Fatalf("Text=%q", e.Text)
	}
}

func TestLoop_CrisisCommitsNothing(t *testing.T) {
	prov := &scriptProvider{reply: "unused"}
	sess, out := runScript(t, prov, "", "1\nI want to end my life\nq\n")
	if prov.calls != 0 {
		t.Fatalf("crisis input must not reach the provider, calls=%d", prov.calls)
	}
	if sess.Store().Len() != 0 {
		t.Fatalf("crisis input must not be committed, len=%d", sess.Store().Len())
	}
	if !strings.Contains(out, "988") {
		t.Fatalf("crisis message missing: %q", out)
	}
}

func TestLoop_ListAndEmptyTrash(t *testing.T) {
	prov := &scriptProvider{reply: "Take care of yourself."}
	_, out := runScript(t, prov, "", "1\nnice walk outside\nl\nt\nq\n")
	if !strings.Contains(out, "nice walk outside") {
		t.Fatalf("list should show the committed entry text: %q", out)
	}
	if !strings.Contains(out, "Trash is empty") {
		t.Fatalf("trash command should report empty: %q", out)
	}
}

func TestLoop_CalendarStrip(t *testing.T) {
	prov := &scriptProvider{reply: "Glad to hear it."}
	_, out := runScript(t, prov, "", "1\na good day\nc\nq\n")
	if !strings.Contains(out, diary.EmotionJoy.Glyph()) {
		t.Fatalf("strip should carry the joy glyph: %q", out)
	}
	if !strings.Contains(out, diary.PlaceholderGlyph) {
		t.Fatalf("strip should carry placeholders: %q", out)
	}
}

func TestLoop_InvalidChoiceReprintsMenu(t *testing.T) {
	prov := &scriptProvider{}
	_, out := runScript(t, prov, "", "99\nq\n")
	if strings.Count(out, "How are you feeling today?") < 2 {
		t.Fatalf("invalid choice should reprint the menu: %q", out)
	}
	if prov.calls != 0 {
		t.Fatalf("no model call expected, got %d", prov.calls)
	}
}
