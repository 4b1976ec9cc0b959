package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type scoreRepo struct {
	db *sql.DB
}

func (r *scoreRepo) Create(ctx context.Context, s *UserScore) error {
	if s.Timestamp.IsZero() {
		s.Timestamp = time.Now().UTC()
	}
	res, err := execute(ctx, r.db, builder().Insert(UserScoresTable.Name).
		Columns("user_id", "topic_id", "score", "total_questions", "timestamp").
		Values(s.UserID, s.TopicID, s.Score, s.TotalQuestions, s.Timestamp))
	if err != nil {
		return fmt.Errorf("insert score: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("score id: %w", err)
	}
	s.ID = int(id)
	return nil
}

func (r *scoreRepo) ListByUser(ctx context.Context, userID int) ([]UserScore, error) {
	return r.list(ctx, entsql.EQ("user_id", userID))
}

func (r *scoreRepo) ListByUserTopic(ctx context.Context, userID, topicID int) ([]UserScore, error) {
	return r.list(ctx, entsql.And(entsql.EQ("user_id", userID), entsql.EQ("topic_id", topicID)))
}

// list returns matching scores in insertion order, which is the order the
// backend has always reported them in.
func (r *scoreRepo) list(ctx context.Context, p *entsql.Predicate) ([]UserScore, error) {
	rows, err := query(ctx, r.db, builder().
		Select("id", "user_id", "topic_id", "score", "total_questions", "timestamp").
		From(entsql.Table(UserScoresTable.Name)).
		Where(p).
		OrderBy(entsql.Asc("id")))
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()

	var out []UserScore
	for rows.Next() {
		var s UserScore
		if err := rows.Scan(&s.ID, &s.UserID, &s.TopicID, &s.Score, &s.TotalQuestions, &s.Timestamp); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
