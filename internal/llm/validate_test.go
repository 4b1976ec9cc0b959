package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func testSchema() *Schema {
	return &Schema{
		Name:        "test-learner",
		Description: "A learner record",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name":  map[string]any{"type": "string"},
				"age":   map[string]any{"type": "integer", "minimum": 0},
				"level": map[string]any{"type": "string", "enum": []string{"beginner", "advanced"}},
			},
			"required": []string{"name", "age"},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"name":"Ada","age":36,"level":"advanced"}`, false},
		{"optional omitted", `{"name":"Lin","age":20}`, false},
		{"missing required", `{"name":"Sam"}`, true},
		{"wrong type", `{"name":"Sam","age":"ten"}`, true},
		{"bad enum", `{"name":"Sam","age":1,"level":"expert"}`, true},
		{"negative", `{"name":"Sam","age":-1}`, true},
		{"not json", `Sure! Here is the JSON`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(testSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var inv *ErrInvalidResponse
				if !errors.As(err, &inv) {
					t.Fatalf("expected ErrInvalidResponse, got %T", err)
				}
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`anything`)); err != nil {
		t.Fatalf("nil schema should accept anything, got %v", err)
	}
}

func TestCompileSchemaCached(t *testing.T) {
	s := testSchema()
	a, err := compileSchema(s)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	b, err := compileSchema(s)
	if err != nil {
		t.Fatalf("compile again: %v", err)
	}
	if a != b {
		t.Error("expected the cached compiled schema to be reused")
	}
}
