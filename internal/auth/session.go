// Package auth holds the learner's login state. A single Session is
// created at startup and shared by the API client (as its token source)
// and every screen that needs to know who is signed in.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/abhisek/studymate/internal/api"
	"github.com/abhisek/studymate/internal/logger"
	"github.com/abhisek/studymate/internal/store"
)

var (
	// ErrNotAuthenticated is returned by operations that need a token when
	// none is held.
	ErrNotAuthenticated = errors.New("auth: not logged in")
	// ErrMissingCredentials is returned when email or password is blank.
	ErrMissingCredentials = errors.New("auth: email and password are required")
)

// Authenticator is the slice of the backend the session needs.
// *api.Client satisfies it.
type Authenticator interface {
	Login(ctx context.Context, creds api.Credentials) (*api.Token, error)
	Register(ctx context.Context, r api.Registration) (*api.User, error)
	Me(ctx context.Context) (*api.User, error)
}

// TokenStore persists the token across runs. store.CredentialRepo
// satisfies it.
type TokenStore interface {
	Save(ctx context.Context, c store.Credential) error
	Load(ctx context.Context) (*store.Credential, error)
	Clear(ctx context.Context) error
}

// Session is the authenticated-or-not state of the client.
type Session struct {
	mu    sync.RWMutex
	token string
	email string
	user  *api.User

	authn  Authenticator
	tokens TokenStore
	log    *logger.Logger
}

// NewSession creates a logged-out session. authn may be set later with
// Bind, since the API client usually needs the session as its token source.
func NewSession(tokens TokenStore, log *logger.Logger) *Session {
	if tokens == nil {
		tokens = NewMemoryTokenStore()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Session{tokens: tokens, log: log.With("component", "auth")}
}

// Bind attaches the backend the session authenticates against.
func (s *Session) Bind(authn Authenticator) {
	s.mu.Lock()
	s.authn = authn
	s.mu.Unlock()
}

// Token returns the current access token or "".
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// IsAuthenticated reports whether a token is held. The token is not
// validated locally.
func (s *Session) IsAuthenticated() bool {
	return s.Token() != ""
}

// Email returns the address used for the last successful login.
func (s *Session) Email() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.email
}

// User returns the cached user, or nil before CurrentUser succeeds.
func (s *Session) User() *api.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Restore loads a previously saved token. It is not an error for none to
// exist.
func (s *Session) Restore(ctx context.Context) error {
	c, err := s.tokens.Load(ctx)
	if err != nil {
		return fmt.Errorf("load saved token: %w", err)
	}
	if c == nil || c.AccessToken == "" {
		return nil
	}

	s.mu.Lock()
	s.token = c.AccessToken
	s.email = c.Email
	s.user = nil
	s.mu.Unlock()

	s.log.Debug("restored session", "email", c.Email)
	return nil
}

// Login exchanges credentials for a token and persists it.
func (s *Session) Login(ctx context.Context, creds api.Credentials) error {
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		return ErrMissingCredentials
	}
	authn, err := s.authenticator()
	if err != nil {
		return err
	}

	tok, err := authn.Login(ctx, creds)
	if err != nil {
		s.log.Info("login failed", "email", creds.Email, "error", err)
		return err
	}

	tokenType := tok.TokenType
	if tokenType == "" {
		tokenType = "bearer"
	}
	if err := s.tokens.Save(ctx, store.Credential{
		AccessToken: tok.AccessToken,
		TokenType:   tokenType,
		Email:       creds.Email,
	}); err != nil {
		return fmt.Errorf("save token: %w", err)
	}

	s.mu.Lock()
	s.token = tok.AccessToken
	s.email = creds.Email
	s.user = nil
	s.mu.Unlock()

	s.log.Info("logged in", "email", creds.Email)
	return nil
}

// Register creates an account. The caller logs in separately.
func (s *Session) Register(ctx context.Context, r api.Registration) (*api.User, error) {
	r.Email = strings.TrimSpace(r.Email)
	r.Name = strings.TrimSpace(r.Name)
	if r.Email == "" || r.Password == "" {
		return nil, ErrMissingCredentials
	}
	authn, err := s.authenticator()
	if err != nil {
		return nil, err
	}
	return authn.Register(ctx, r)
}

// Logout forgets the token locally and in the store.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.email = ""
	s.user = nil
	s.mu.Unlock()

	if err := s.tokens.Clear(ctx); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	s.log.Info("logged out")
	return nil
}

// CurrentUser fetches the signed-in user and caches it on the session. A
// 401 from the backend means the token is stale: the session is logged out
// and ErrNotAuthenticated is returned wrapping the API error.
func (s *Session) CurrentUser(ctx context.Context) (*api.User, error) {
	if !s.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	if u := s.User(); u != nil {
		return u, nil
	}
	authn, err := s.authenticator()
	if err != nil {
		return nil, err
	}

	u, err := authn.Me(ctx)
	if err != nil {
		if api.IsKind(err, api.KindUnauthorized) {
			if lerr := s.Logout(ctx); lerr != nil {
				s.log.Warn("logout after 401 failed", "error", lerr)
			}
			return nil, fmt.Errorf("%w: %w", ErrNotAuthenticated, err)
		}
		return nil, err
	}

	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
	return u, nil
}

func (s *Session) authenticator() (Authenticator, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.authn == nil {
		return nil, errors.New("auth: session has no backend bound")
	}
	return s.authn, nil
}
