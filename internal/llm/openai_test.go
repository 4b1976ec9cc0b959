package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := openai.DefaultConfig("test-key")
	config.BaseURL = server.URL + "/v1"

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		model:  "gpt-4o-mini",
	}
}

func chatCompletion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	}
}

func TestOpenAIProvider_FreeText(t *testing.T) {
	var got openai.ChatCompletionRequest
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion("Overfitting means...", "stop"))
	})

	resp, err := p.Generate(context.Background(), Request{
		System:   "You are an AI tutor.",
		Messages: []Message{{Role: RoleUser, Content: "What is overfitting?"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text() != "Overfitting means..." {
		t.Fatalf("text = %q", resp.Text())
	}
	if resp.Usage.InputTokens != 40 || resp.Usage.OutputTokens != 25 {
		t.Fatalf("usage = %+v", resp.Usage)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != openai.ChatMessageRoleSystem {
		t.Fatalf("messages = %+v", got.Messages)
	}
	if got.ResponseFormat != nil {
		t.Fatal("free text should not request a response format")
	}
}

func TestOpenAIProvider_Structured(t *testing.T) {
	var got openai.ChatCompletionRequest
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"name":"Ada","age":36}`, "stop"))
	})

	resp, err := p.Generate(context.Background(), Request{
		Messages: []Message{{Role: RoleUser, Content: "learner"}},
		Schema:   testSchema(),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"name":"Ada","age":36}` {
		t.Fatalf("content = %s", resp.Content)
	}
	if got.ResponseFormat == nil || got.ResponseFormat.JSONSchema.Name != "test-learner" {
		t.Fatalf("response format = %+v", got.ResponseFormat)
	}
}

func TestOpenAIProvider_TruncatedStructured(t *testing.T) {
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(`{"name":"A`, "length"))
	})

	_, err := p.Generate(context.Background(), Request{Schema: testSchema()})
	var maxTok *ErrMaxTokensExceeded
	if !errors.As(err, &maxTok) {
		t.Fatalf("expected ErrMaxTokensExceeded, got %T (%v)", err, err)
	}
}

func TestOpenAIProvider_Errors(t *testing.T) {
	tests := []struct {
		status int
		check  func(error) bool
	}{
		{http.StatusTooManyRequests, func(err error) bool { var e *ErrRateLimit; return errors.As(err, &e) }},
		{http.StatusInternalServerError, func(err error) bool { var e *ErrProviderUnavailable; return errors.As(err, &e) }},
	}

	for _, tt := range tests {
		p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(tt.status)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"type": "error", "message": "nope"},
			})
		})
		_, err := p.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "x"}}})
		if err == nil || !tt.check(err) {
			t.Errorf("status %d: unexpected error %T (%v)", tt.status, err, err)
		}
	}
}

func TestOpenAIProvider_RequiresKey(t *testing.T) {
	if _, err := NewOpenAIProvider(OpenAIConfig{Model: "gpt-4o"}); err == nil {
		t.Fatal("expected error without API key")
	}
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-4o", BaseURL: openRouterBaseURL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ModelID() != "gpt-4o" {
		t.Fatalf("ModelID = %q", p.ModelID())
	}
}
