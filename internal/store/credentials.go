package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

const credentialRow = 1

type credentialRepo struct {
	db *sql.DB
}

func (r *credentialRepo) Save(ctx context.Context, c Credential) error {
	if c.SavedAt.IsZero() {
		c.SavedAt = time.Now().UTC()
	}
	if c.TokenType == "" {
		c.TokenType = "bearer"
	}
	_, err := execute(ctx, r.db, builder().Insert(CredentialsTable.Name).
		Columns("id", "access_token", "token_type", "email", "saved_at").
		Values(credentialRow, c.AccessToken, c.TokenType, c.Email, c.SavedAt).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWithNewValues(),
		))
	if err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

func (r *credentialRepo) Load(ctx context.Context) (*Credential, error) {
	stmt, args := builder().Select("access_token", "token_type", "email", "saved_at").
		From(entsql.Table(CredentialsTable.Name)).
		Where(entsql.EQ("id", credentialRow)).
		Query()

	var c Credential
	err := r.db.QueryRowContext(ctx, stmt, args...).Scan(&c.AccessToken, &c.TokenType, &c.Email, &c.SavedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load credential: %w", err)
	}
	return &c, nil
}

func (r *credentialRepo) Clear(ctx context.Context) error {
	_, err := execute(ctx, r.db, builder().Delete(CredentialsTable.Name).Where(entsql.EQ("id", credentialRow)))
	if err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}
