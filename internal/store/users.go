package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var userColumns = []string{"id", "name", "email", "hashed_password", "created_at"}

type userRepo struct {
	db *sql.DB
}

func (r *userRepo) Create(ctx context.Context, u *User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	res, err := execute(ctx, r.db, builder().Insert(UsersTable.Name).
		Columns("name", "email", "hashed_password", "created_at").
		Values(u.Name, u.Email, u.PasswordHash, u.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("user id: %w", err)
	}
	u.ID = int(id)
	return nil
}

func (r *userRepo) Get(ctx context.Context, id int) (*User, error) {
	return r.one(ctx, entsql.EQ("id", id))
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.one(ctx, entsql.EQ("email", email))
}

func (r *userRepo) one(ctx context.Context, p *entsql.Predicate) (*User, error) {
	sel := builder().Select(userColumns...).From(entsql.Table(UsersTable.Name)).Where(p).Limit(1)
	stmt, args := sel.Query()

	var u User
	err := r.db.QueryRowContext(ctx, stmt, args...).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}
