package llm

import (
	"testing"

	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := map[string]string{
		"gemini-flash":        "gemini-2.5-flash",
		"gemini-pro":          "gemini-2.5-pro",
		"gemini-1.5-flash-8b": "gemini-1.5-flash-8b",
	}
	for in, want := range tests {
		if got := resolveModel(in, geminiModels); got != want {
			t.Errorf("resolveModel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"question":       map[string]any{"type": "string"},
				"options":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "minItems": 4, "maxItems": 4},
				"correct_answer": map[string]any{"type": "string", "enum": []string{"A", "B", "C", "D"}},
			},
			"required": []any{"question", "options", "correct_answer"},
		},
	}

	s := buildGeminiSchema(def)

	if s.Type != genai.TypeArray {
		t.Fatalf("type = %s, want ARRAY", s.Type)
	}
	item := s.Items
	if item == nil || item.Type != genai.TypeObject {
		t.Fatalf("items = %+v", item)
	}
	if len(item.Properties) != 3 || len(item.Required) != 3 {
		t.Fatalf("properties/required = %d/%d", len(item.Properties), len(item.Required))
	}
	opts := item.Properties["options"]
	if opts.Items.Type != genai.TypeString || opts.MinItems == nil || *opts.MinItems != 4 {
		t.Fatalf("options = %+v", opts)
	}
	if got := item.Properties["correct_answer"].Enum; len(got) != 4 {
		t.Fatalf("enum = %v", got)
	}
}

func TestBuildGeminiContentsRoles(t *testing.T) {
	contents := buildGeminiContents([]Message{
		{Role: RoleUser, Content: "hi"},
		{Role: RoleAssistant, Content: "hello"},
	})
	if contents[0].Role != string(genai.RoleUser) || contents[1].Role != string(genai.RoleModel) {
		t.Fatalf("roles = %q, %q", contents[0].Role, contents[1].Role)
	}
}
