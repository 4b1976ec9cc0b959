package tutor

import "github.com/abhisek/studymate/internal/llm"

// QuizSchema is the structured output requested for quiz generation.
var QuizSchema = &llm.Schema{
	Name:        "quiz-questions",
	Description: "A set of multiple-choice quiz questions about one topic",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The question text",
						},
						"options": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"minItems":    4,
							"maxItems":    4,
							"description": "Exactly 4 answer options, in A-D order, without letter prefixes",
						},
						"correct_answer": map[string]any{
							"type":        "string",
							"description": "Letter of the correct option: A, B, C or D",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "Why the correct answer is right",
						},
					},
					"required":             []any{"question", "options", "correct_answer", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
