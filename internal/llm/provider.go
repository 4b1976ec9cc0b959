// Package llm talks to hosted language models. Callers build a Request,
// optionally with a JSON Schema for structured output, and get back either
// validated JSON or free text.
package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Provider is the core abstraction for LLM interaction.
type Provider interface {
	// Generate sends a prompt to the LLM. With req.Schema set, the response
	// Content is JSON validated against that schema; without it, Content is
	// the model's text encoded as a JSON string.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// System sets the model's role, e.g. "You are an AI tutor".
	System string

	// Messages is the conversation history, oldest first. Tutor chat sends
	// the running transcript; one-shot generation sends one user message.
	Messages []Message

	// Schema is the JSON Schema the response must conform to. Nil means
	// free text.
	Schema *Schema

	// MaxTokens caps the response length.
	MaxTokens int

	// Temperature controls randomness, 0.0 - 1.0. Zero leaves the
	// provider default.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name identifies this schema, kebab-case, e.g. "quiz-questions".
	// Compiled schemas are cached by name.
	Name string

	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the LLM's output.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string // "end", "max_tokens" or "error"
}

// Text returns the response as plain text. Free-text responses are decoded
// from their JSON string form; structured ones are returned verbatim.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(r.Content, &s); err == nil {
		return s
	}
	return string(r.Content)
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// textContent wraps free text as a JSON string.
func textContent(s string) json.RawMessage {
	b, _ := json.Marshal(strings.TrimSpace(s))
	return b
}

// finish turns the provider's raw output into Response content, validating
// it when a schema was requested.
func finish(req Request, raw string) (json.RawMessage, error) {
	if req.Schema == nil {
		return textContent(raw), nil
	}
	content := json.RawMessage(stripCodeFence(raw))
	if err := validateResponse(req.Schema, content); err != nil {
		return nil, err
	}
	return content, nil
}

// stripCodeFence removes a surrounding ```json fence, which some models add
// even in JSON mode.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
