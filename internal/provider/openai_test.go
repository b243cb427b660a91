package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"moodiary/internal/chat"
)

func TestConvertMessages(t *testing.T) {
	messages := []chat.Message{
		{Role: "system", Content: "You are warm and supportive"},
		{Role: "user", Content: "today was hard"},
		{Role: "assistant", Content: "that sounds heavy"},
	}
	converted := convertMessages(messages)
	if len(converted) != 3 {
		t.Fatalf("convertMessages len=%d, want 3", len(converted))
	}
	if converted[0].Role != "system" || converted[0].Content != "You are warm and supportive" {
		t.Fatalf("msg[0] unexpected: %+v", converted[0])
	}
	if converted[2].Role != "assistant" {
		t.Fatalf("msg[2] unexpected: %+v", converted[2])
	}
}

func sseServer(t *testing.T, lines []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		for _, line := range lines {
			fmt.Fprintf(w, "data: %s\n\n", line)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
}

func TestChatStreamCompat(t *testing.T) {
	srv := sseServer(t, []string{
		`{"choices":[{"delta":{"role":"assistant","content":"I under"}}]}`,
		`{"choices":[{"delta":{"content":"stand."},"finish_reason":null}]}`,
		`{"choices":[{"delta":{},"finish_reason":"stop"}],"usage":{"prompt_tokens":40,"completion_tokens":8,"total_tokens":48}}`,
	})
	defer srv.Close()

	p := NewOpenAIProvider(OpenAIConfig{BaseURL: srv.URL, APIKey: "test", Model: "gpt-3.5-turbo"})

	var chunks []string
	var reported Usage
	resp, err := p.Chat(context.Background(), ChatRequest{
		Messages: []chat.Message{chat.User("today was hard")},
	}, &StreamCallbacks{
		OnTextChunk: func(chunk string) { chunks = append(chunks, chunk) },
		OnUsage:     func(u Usage) { reported = u },
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.Content != "I understand." {
		t.Fatalf("content=%q", resp.Content)
	}
	if resp.FinishReason != "stop" {
		t.Fatalf("finish=%q", resp.FinishReason)
	}
	if resp.Usage.TotalTokens != 48 || reported.TotalTokens != 48 {
		t.Fatalf("usage=%+v reported=%+v", resp.Usage, reported)
	}
	if len(chunks) != 2 {
		t.Fatalf("chunks=%v", chunks)
	}
}

func TestChatHTTPErrorIsSoftFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewOpenAIProvider(OpenAIConfig{BaseURL: srv.URL, APIKey: "test", Model: "gpt-3.5-turbo"})
	_, err := p.Chat(context.Background(), ChatRequest{
		Messages: []chat.Message{chat.User("hello")},
	}, nil)
	if err == nil {
		t.Fatal("expected error from failing server")
	}
}

func TestSetModel(t *testing.T) {
	p := NewOpenAIProvider(OpenAIConfig{Model: "gpt-3.5-turbo"})
	if err := p.SetModel(" "); err == nil {
		t.Fatal("empty model should be rejected")
	}
	if err := p.SetModel("gpt-4o-mini"); err != nil {
		t.Fatal(err)
	}
	if p.CurrentModel() != "gpt-4o-mini" {
		t.Fatalf("model=%q", p.CurrentModel())
	}
}
