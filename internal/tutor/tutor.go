// Package tutor produces the AI-generated material served by the backend:
// free-form answers, topic explanations and quiz questions.
package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/studymate/internal/llm"
)

// Config holds tutor generation settings.
type Config struct {
	MaxTokens     int
	QuizMaxTokens int
	Temperature   float64
	// MaxQuestions caps a single quiz generation request.
	MaxQuestions int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:     2048,
		QuizMaxTokens: 4096,
		Temperature:   0.7,
		MaxQuestions:  10,
	}
}

// ErrEmptyResponse is returned when the model answers with nothing usable.
var ErrEmptyResponse = errors.New("tutor: empty response from model")

// Question is a generated multiple-choice question.
type Question struct {
	Question      string
	Options       []string
	CorrectOption int
	Explanation   string
}

// Service wraps an LLM provider with the tutor's prompts.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates a tutor service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// Answer responds to a learner's free-form question. subject is optional.
func (s *Service) Answer(ctx context.Context, prompt string, subject *Subject) (string, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeQuery)
	return s.text(ctx, buildQueryMessage(prompt, subject))
}

// Explain writes an overview of a topic.
func (s *Service) Explain(ctx context.Context, subject Subject) (string, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeExplain)
	return s.text(ctx, buildExplainMessage(subject))
}

func (s *Service) text(ctx context.Context, msg string) (string, error) {
	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      tutorSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: msg}},
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("LLM generation failed: %w", err)
	}
	out := strings.TrimSpace(resp.Text())
	if out == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}

type quizOutput struct {
	Questions []questionOutput `json:"questions"`
}

type questionOutput struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// GenerateQuiz asks for n questions about subject. Incomplete items are
// dropped, so fewer than n may come back; none at all is an error.
func (s *Service) GenerateQuiz(ctx context.Context, subject Subject, n int) ([]Question, error) {
	if n <= 0 {
		n = 5
	}
	if s.cfg.MaxQuestions > 0 && n > s.cfg.MaxQuestions {
		n = s.cfg.MaxQuestions
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeGenerateQuiz)

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      quizSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildQuizMessage(subject, n)}},
		Schema:      QuizSchema,
		MaxTokens:   s.cfg.QuizMaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw quizOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	var out []Question
	for _, q := range raw.Questions {
		if len(out) == n {
			break
		}
		if !complete(q) {
			continue
		}
		out = append(out, Question{
			Question:      strings.TrimSpace(q.Question),
			Options:       q.Options,
			CorrectOption: LetterIndex(q.CorrectAnswer, len(q.Options)),
			Explanation:   strings.TrimSpace(q.Explanation),
		})
	}
	if len(out) == 0 {
		return nil, ErrEmptyResponse
	}
	return out, nil
}

func complete(q questionOutput) bool {
	if strings.TrimSpace(q.Question) == "" || strings.TrimSpace(q.CorrectAnswer) == "" {
		return false
	}
	if len(q.Options) < 2 {
		return false
	}
	for _, o := range q.Options {
		if strings.TrimSpace(o) == "" {
			return false
		}
	}
	return true
}

// LetterIndex converts an answer letter ("A", "b", "C)") to a 0-based
// option index. Anything outside the option range maps to 0.
func LetterIndex(letter string, options int) int {
	letter = strings.TrimSpace(letter)
	if letter == "" {
		return 0
	}
	c := letter[0]
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	i := int(c) - 'A'
	if i < 0 || i >= options {
		return 0
	}
	return i
}
