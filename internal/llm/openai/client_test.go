package openai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"poultryqa/internal/config"
	"poultryqa/internal/llm"
)

func TestChat_ServerReturnsChoice(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hello","tool_calls":[]}}]}`))
	})
	srv := httptest.NewServer(h)
	defer srv.Close()

	c := config.OpenAIConfig{APIKey: "test", BaseURL: srv.URL, Model: "m"}
	cli := New(c, srv.Client())
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	msg, err := cli.Chat(ctx, []llm.Message{{Role: "user", Content: "hi"}}, nil, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Content != "hello" {
		t.Fatalf("expected hello, got %q", msg.Content)
	}
}

func TestChat_SkipsToolCallWithEmptyArguments(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"","tool_calls":[
			{"id":"call_1","type":"function","function":{"name":"lookup","arguments":""}},
			{"id":"call_2","type":"function","function":{"name":"lookup","arguments":"{\"line\":\"ross_308\"}"}}
		]}}]}`))
	})
	srv := httptest.NewServer(h)
	defer srv.Close()

	cli := New(config.OpenAIConfig{APIKey: "test", BaseURL: srv.URL, Model: "m"}, srv.Client())
	msg, err := cli.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}}, nil, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(msg.ToolCalls) != 1 || msg.ToolCalls[0].ID != "call_2" {
		t.Fatalf("expected only call_2 to survive, got %+v", msg.ToolCalls)
	}
}

func TestChatStream_DeliversDeltasAndToolCall(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher, _ := w.(http.Flusher)
		chunks := []string{
			`{"choices":[{"delta":{"content":"Ross "},"finish_reason":null}]}`,
			`{"choices":[{"delta":{"content":"308"},"finish_reason":null}]}`,
			`{"choices":[{"delta":{"tool_calls":[{"index":0,"id":"call_1","function":{"name":"lookup","arguments":"{\"line\":\"ross_308\"}"}}]},"finish_reason":null}]}`,
			`{"choices":[{"delta":{},"finish_reason":"stop"}]}`,
		}
		for _, c := range chunks {
			_, _ = w.Write([]byte("data: " + c + "\n\n"))
			if flusher != nil {
				flusher.Flush()
			}
		}
		_, _ = w.Write([]byte("data: [DONE]\n\n"))
	})
	srv := httptest.NewServer(h)
	defer srv.Close()

	cli := New(config.OpenAIConfig{APIKey: "test", BaseURL: srv.URL, Model: "m"}, srv.Client())
	handler := &testStreamHandler{}
	err := cli.ChatStream(context.Background(), []llm.Message{{Role: "user", Content: "hi"}}, nil, "", handler)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(handler.deltas, "") != "Ross 308" {
		t.Fatalf("unexpected deltas: %+v", handler.deltas)
	}
	if len(handler.toolCalls) != 1 || handler.toolCalls[0].Name != "lookup" {
		t.Fatalf("expected one lookup tool call, got %+v", handler.toolCalls)
	}
}

type testStreamHandler struct {
	deltas    []string
	toolCalls []llm.ToolCall
}

func (h *testStreamHandler) OnDelta(content string) {
	h.deltas = append(h.deltas, content)
}

func (h *testStreamHandler) OnToolCall(tc llm.ToolCall) {
	h.toolCalls = append(h.toolCalls, tc)
}

func (h *testStreamHandler) OnImage(llm.GeneratedImage) {}

func (h *testStreamHandler) OnThoughtSummary(string) {}

func TestFirstNonEmpty(t *testing.T) {
	if firstNonEmpty("", "a", "b") != "a" {
		t.Fatalf("unexpected firstNonEmpty")
	}
}

func TestIsEmptyArgs(t *testing.T) {
	cases := map[string]bool{
		"":         true,
		"null":     true,
		"{}":       true,
		"[]":       true,
		`{"a":1}`:  false,
		`"hello"`:  false,
		`"   "`:    true,
		"not json": false,
	}
	for raw, want := range cases {
		if got := isEmptyArgs(raw); got != want {
			t.Errorf("isEmptyArgs(%q) = %v, want %v", raw, got, want)
		}
	}
}
