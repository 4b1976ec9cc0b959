package api

import (
	"context"
	"fmt"
	"strings"
)

// DefaultQuizSize is the number of questions requested when the caller
// does not say.
const DefaultQuizSize = 5

// Query asks the AI tutor a free-form question, optionally in the context
// of a topic.
func (c *Client) Query(ctx context.Context, prompt string, topicID *int) (*TutorResponse, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, &Error{Kind: KindPrecondition, Detail: "Please enter a question"}
	}
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	var out TutorResponse
	if err := c.post(ctx, "/gemini/query", TutorQuery{Prompt: prompt, TopicID: topicID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateQuiz asks the backend to create and store new questions for a
// topic. n <= 0 uses DefaultQuizSize.
func (c *Client) GenerateQuiz(ctx context.Context, topicID, n int) ([]Quiz, error) {
	if n <= 0 {
		n = DefaultQuizSize
	}
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	var out []Quiz
	if err := c.post(ctx, "/gemini/generate-quiz", QuizRequest{TopicID: topicID, NumQuestions: n}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ExplainTopic generates an explanation, which the backend also stores as
// topic content.
func (c *Client) ExplainTopic(ctx context.Context, topicID int) (*TutorResponse, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	var out TutorResponse
	if err := c.post(ctx, fmt.Sprintf("/gemini/explain-topic/%d", topicID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
