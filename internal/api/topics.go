package api

import (
	"context"
	"fmt"
)

// ListTopics returns every topic.
func (c *Client) ListTopics(ctx context.Context) ([]Topic, error) {
	var out []Topic
	if err := c.get(ctx, "/topics/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTopic returns one topic. Unknown IDs yield KindNotFound.
func (c *Client) GetTopic(ctx context.Context, id int) (*Topic, error) {
	var t Topic
	if err := c.get(ctx, fmt.Sprintf("/topics/%d", id), &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTopic adds a topic.
func (c *Client) CreateTopic(ctx context.Context, t NewTopic) (*Topic, error) {
	var out Topic
	if err := c.post(ctx, "/topics/", t, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTopicContent returns the stored explanations for a topic, oldest first.
func (c *Client) GetTopicContent(ctx context.Context, topicID int) ([]Content, error) {
	var out []Content
	if err := c.get(ctx, fmt.Sprintf("/topics/%d/content", topicID), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateContent stores an explanation for a topic.
func (c *Client) CreateContent(ctx context.Context, topicID int, text string) (*Content, error) {
	body := struct {
		SummaryText string `json:"summary_text"`
	}{text}

	var out Content
	if err := c.post(ctx, fmt.Sprintf("/topics/%d/content", topicID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
