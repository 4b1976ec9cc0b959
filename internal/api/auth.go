package api

import (
	"context"
	"strings"
)

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, creds Credentials) (*Token, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	var tok Token
	if err := c.post(ctx, "/auth/login", creds, &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, r Registration) (*User, error) {
	r.Email = strings.TrimSpace(r.Email)
	var u User
	if err := c.post(ctx, "/auth/register", r, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Me returns the user the current token belongs to.
func (c *Client) Me(ctx context.Context) (*User, error) {
	if err := c.requireToken(); err != nil {
		return nil, err
	}
	var u User
	if err := c.get(ctx, "/auth/me", &u); err != nil {
		return nil, err
	}
	return &u, nil
}
