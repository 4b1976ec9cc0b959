package api

import (
	"context"
	"fmt"
)

// GetQuizQuestions returns the questions for a topic without answers.
func (c *Client) GetQuizQuestions(ctx context.Context, topicID int) ([]QuizQuestion, error) {
	var out []QuizQuestion
	if err := c.get(ctx, fmt.Sprintf("/quiz/%d", topicID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SubmitQuiz grades an attempt and records it against the current user.
func (c *Client) SubmitQuiz(ctx context.Context, topicID int, subs []Submission) (*UserScore, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	var out UserScore
	body := SubmissionList{TopicID: topicID, Submissions: subs}
	if err := c.post(ctx, "/quiz/submit", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUserProgress returns every attempt by the current user.
func (c *Client) GetUserProgress(ctx context.Context) ([]UserScore, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	var out []UserScore
	if err := c.get(ctx, "/quiz/progress/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetUserScores returns the current user's attempts for one topic.
func (c *Client) GetUserScores(ctx context.Context, topicID int) ([]UserScore, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	var out []UserScore
	if err := c.get(ctx, fmt.Sprintf("/quiz/scores/%d", topicID), &out); err != nil {
		return nil, err
	}
	return out, nil
}
