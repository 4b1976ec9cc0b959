package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

type quizRepo struct {
	db *sql.DB
}

func (r *quizRepo) CreateMany(ctx context.Context, qs []Quiz) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for i := range qs {
		q := &qs[i]
		if q.CreatedAt.IsZero() {
			q.CreatedAt = now
		}
		opts, err := json.Marshal(q.Options)
		if err != nil {
			return fmt.Errorf("marshal options: %w", err)
		}
		stmt, args := builder().Insert(QuizzesTable.Name).
			Columns("topic_id", "question", "options", "correct_option", "created_at").
			Values(q.TopicID, q.Question, string(opts), q.CorrectOption, q.CreatedAt).
			Query()
		res, err := tx.ExecContext(ctx, stmt, args...)
		if err != nil {
			return fmt.Errorf("insert quiz: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("quiz id: %w", err)
		}
		q.ID = int(id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *quizRepo) ListByTopic(ctx context.Context, topicID int) ([]Quiz, error) {
	rows, err := query(ctx, r.db, builder().
		Select("id", "topic_id", "question", "options", "correct_option", "created_at").
		From(entsql.Table(QuizzesTable.Name)).
		Where(entsql.EQ("topic_id", topicID)).
		OrderBy(entsql.Asc("id")))
	if err != nil {
		return nil, fmt.Errorf("query quizzes: %w", err)
	}
	defer rows.Close()

	var out []Quiz
	for rows.Next() {
		var (
			q    Quiz
			opts []byte
		)
		if err := rows.Scan(&q.ID, &q.TopicID, &q.Question, &opts, &q.CorrectOption, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		if err := json.Unmarshal(opts, &q.Options); err != nil {
			return nil, fmt.Errorf("quiz %d options: %w", q.ID, err)
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (r *quizRepo) AnswerKey(ctx context.Context, ids []int) (map[int]int, error) {
	key := make(map[int]int, len(ids))
	if len(ids) == 0 {
		return key, nil
	}

	rows, err := query(ctx, r.db, builder().Select("id", "correct_option").
		From(entsql.Table(QuizzesTable.Name)).
		Where(entsql.InInts("id", ids...)))
	if err != nil {
		return nil, fmt.Errorf("query answer key: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, correct int
		if err := rows.Scan(&id, &correct); err != nil {
			return nil, fmt.Errorf("scan answer key: %w", err)
		}
		key[id] = correct
	}
	return key, rows.Err()
}
