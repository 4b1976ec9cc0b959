package server

import (
	"context"
	"fmt"

	"github.com/abhisek/studymate/internal/store"
)

// SampleTopics are created on first start.
var SampleTopics = []store.Topic{
	{Title: "Machine Learning Fundamentals", Description: "Introduction to machine learning concepts, types of learning, and basic algorithms"},
	{Title: "Neural Networks", Description: "Understanding artificial neural networks, perceptrons, and deep learning basics"},
	{Title: "Decision Trees", Description: "Tree-based learning algorithms for classification and regression"},
	{Title: "Supervised Learning", Description: "Learning with labeled data, classification and regression techniques"},
	{Title: "Unsupervised Learning", Description: "Learning from unlabeled data, clustering and dimensionality reduction"},
	{Title: "Natural Language Processing", Description: "Processing and understanding human language with AI"},
	{Title: "Computer Vision", Description: "Teaching computers to interpret and understand visual information"},
	{Title: "Reinforcement Learning", Description: "Learning through interaction with environment and rewards"},
}

// Seed inserts SampleTopics when the topic table is empty. It returns the
// number of topics created.
func Seed(ctx context.Context, topics store.TopicRepo) (int, error) {
	n, err := topics.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count topics: %w", err)
	}
	if n > 0 {
		return 0, nil
	}
	for _, t := range SampleTopics {
		if err := topics.Create(ctx, &t); err != nil {
			return 0, fmt.Errorf("seed %q: %w", t.Title, err)
		}
	}
	return len(SampleTopics), nil
}
