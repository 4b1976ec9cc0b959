package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var topicColumns = []string{"id", "title", "description", "created_at"}

type topicRepo struct {
	db *sql.DB
}

func (r *topicRepo) Create(ctx context.Context, t *Topic) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	res, err := execute(ctx, r.db, builder().Insert(TopicsTable.Name).
		Columns("title", "description", "created_at").
		Values(t.Title, t.Description, t.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert topic: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("topic id: %w", err)
	}
	t.ID = int(id)
	return nil
}

func (r *topicRepo) Get(ctx context.Context, id int) (*Topic, error) {
	stmt, args := builder().Select(topicColumns...).
		From(entsql.Table(TopicsTable.Name)).
		Where(entsql.EQ("id", id)).
		Query()

	var t Topic
	err := r.db.QueryRowContext(ctx, stmt, args...).Scan(&t.ID, &t.Title, &t.Description, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query topic: %w", err)
	}
	return &t, nil
}

func (r *topicRepo) List(ctx context.Context) ([]Topic, error) {
	rows, err := query(ctx, r.db, builder().Select(topicColumns...).
		From(entsql.Table(TopicsTable.Name)).
		OrderBy(entsql.Asc("id")))
	if err != nil {
		return nil, fmt.Errorf("query topics: %w", err)
	}
	defer rows.Close()

	var out []Topic
	for rows.Next() {
		var t Topic
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *topicRepo) Count(ctx context.Context) (int, error) {
	stmt, args := builder().Select(entsql.Count("*")).From(entsql.Table(TopicsTable.Name)).Query()
	var n int
	if err := r.db.QueryRowContext(ctx, stmt, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count topics: %w", err)
	}
	return n, nil
}

func (r *topicRepo) AddContent(ctx context.Context, c *Content) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	res, err := execute(ctx, r.db, builder().Insert(ContentsTable.Name).
		Columns("topic_id", "summary_text", "created_at").
		Values(c.TopicID, c.SummaryText, c.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert content: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("content id: %w", err)
	}
	c.ID = int(id)
	return nil
}

func (r *topicRepo) ListContent(ctx context.Context, topicID int) ([]Content, error) {
	rows, err := query(ctx, r.db, builder().Select("id", "topic_id", "summary_text", "created_at").
		From(entsql.Table(ContentsTable.Name)).
		Where(entsql.EQ("topic_id", topicID)).
		OrderBy(entsql.Asc("id")))
	if err != nil {
		return nil, fmt.Errorf("query content: %w", err)
	}
	defer rows.Close()

	var out []Content
	for rows.Next() {
		var c Content
		if err := rows.Scan(&c.ID, &c.TopicID, &c.SummaryText, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
