package llm

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestMockProvider_FIFO(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10}},
		TextResponse("second"),
	)

	resp, err := mock.Generate(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"a":1}` || resp.Usage.InputTokens != 10 {
		t.Fatalf("first response = %s %+v", resp.Content, resp.Usage)
	}

	resp, err = mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "hi"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text() != "second" {
		t.Fatalf("Text() = %q, want second", resp.Text())
	}
	if mock.LastCall().Messages[0].Content != "hi" {
		t.Fatal("expected last call to be recorded")
	}

	_, err = mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable from empty queue, got %v", err)
	}
	if mock.CallCount() != 3 {
		t.Fatalf("CallCount = %d, want 3", mock.CallCount())
	}
}

func TestMockProvider_ValidatesSchema(t *testing.T) {
	mock := NewMockProvider(JSONResponse(map[string]any{"name": 3}))
	_, err := mock.Generate(context.Background(), Request{Schema: testSchema()})

	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestResponseText(t *testing.T) {
	tests := []struct {
		content string
		want    string
	}{
		{`"plain words"`, "plain words"},
		{`{"k":"v"}`, `{"k":"v"}`},
		{``, ``},
	}
	for _, tt := range tests {
		r := &Response{Content: json.RawMessage(tt.content)}
		if got := r.Text(); got != tt.want {
			t.Errorf("Text(%s) = %q, want %q", tt.content, got, tt.want)
		}
	}

	var nilResp *Response
	if nilResp.Text() != "" {
		t.Error("nil response should have empty text")
	}
}

func TestFinish(t *testing.T) {
	content, err := finish(Request{}, "  Neural networks are...\n")
	if err != nil {
		t.Fatalf("free text: %v", err)
	}
	if string(content) != `"Neural networks are..."` {
		t.Errorf("free text content = %s", content)
	}

	fenced := "```json\n{\"name\":\"Ada\",\"age\":36}\n```"
	content, err = finish(Request{Schema: testSchema()}, fenced)
	if err != nil {
		t.Fatalf("fenced JSON: %v", err)
	}
	if string(content) != `{"name":"Ada","age":36}` {
		t.Errorf("fenced content = %s", content)
	}

	if _, err := finish(Request{Schema: testSchema()}, "not json"); err == nil {
		t.Error("expected error for non-JSON structured output")
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := map[string]string{
		"[1,2]":             "[1,2]",
		"```\n[1,2]\n```":   "[1,2]",
		"```json\n[1]\n```": "[1]",
		"  {}  ":            "{}",
	}
	for in, want := range tests {
		if got := stripCodeFence(in); got != want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPurposeContext(t *testing.T) {
	if got := PurposeFrom(context.Background()); got != "unknown" {
		t.Errorf("default purpose = %q", got)
	}
	ctx := WithPurpose(context.Background(), PurposeExplain)
	if got := PurposeFrom(ctx); got != PurposeExplain {
		t.Errorf("purpose = %q, want %q", got, PurposeExplain)
	}
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("gemini-2.5-flash")
	if c == nil {
		t.Fatal("expected pricing for gemini-2.5-flash")
	}
	if got := c.Cost(1_000_000, 1_000_000); math.Abs(got-2.8) > 1e-9 {
		t.Errorf("cost = %v, want 2.8", got)
	}
	if LookupCost("nonexistent") != nil {
		t.Error("expected nil for unknown model")
	}
}
