package server

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/abhisek/studymate/internal/api"
	"github.com/abhisek/studymate/internal/store"
)

const minPasswordLen = 6

func toAPIUser(u *store.User) api.User {
	return api.User{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: apiTime(u.CreatedAt)}
}

func (s *Server) register(c *gin.Context) {
	var in api.Registration
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)

	switch {
	case in.Name == "":
		fail(c, http.StatusUnprocessableEntity, "Name is required")
		return
	case !validEmail(in.Email):
		fail(c, http.StatusUnprocessableEntity, "A valid email is required")
		return
	case len(in.Password) < minPasswordLen:
		fail(c, http.StatusUnprocessableEntity, "Password must be at least 6 characters")
		return
	}

	ctx := c.Request.Context()
	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		fail(c, http.StatusConflict, "Email already registered")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		s.internal(c, "lookup user", err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		s.internal(c, "hash password", err)
		return
	}

	u := &store.User{Name: in.Name, Email: in.Email, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, u); err != nil {
		s.internal(c, "create user", err)
		return
	}
	s.log.Info("user registered", "user_id", u.ID)
	c.JSON(http.StatusOK, toAPIUser(u))
}

func (s *Server) login(c *gin.Context) {
	var in api.Credentials
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))

	u, err := s.users.GetByEmail(c.Request.Context(), email)
	if errors.Is(err, store.ErrNotFound) {
		fail(c, http.StatusUnauthorized, "Incorrect email or password")
		return
	}
	if err != nil {
		s.internal(c, "lookup user", err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		fail(c, http.StatusUnauthorized, "Incorrect email or password")
		return
	}

	tok, err := s.tokens.Issue(u.ID)
	if err != nil {
		s.internal(c, "issue token", err)
		return
	}
	c.JSON(http.StatusOK, api.Token{AccessToken: tok, TokenType: "bearer"})
}

func (s *Server) me(c *gin.Context) {
	u, err := s.users.Get(c.Request.Context(), userID(c))
	if errors.Is(err, store.ErrNotFound) {
		fail(c, http.StatusUnauthorized, "Could not validate credentials")
		return
	}
	if err != nil {
		s.internal(c, "load user", err)
		return
	}
	c.JSON(http.StatusOK, toAPIUser(u))
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
