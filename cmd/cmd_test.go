package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studymate/internal/api"
	"github.com/abhisek/studymate/internal/server"
	"github.com/abhisek/studymate/internal/store"
)

type backend struct {
	url   string
	store *store.Store
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open(fmt.Sprintf("file:cmd_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	_, err = server.Seed(context.Background(), st.TopicRepo())
	require.NoError(t, err)
	issuer, err := server.NewTokenIssuer("test-secret", time.Hour)
	require.NoError(t, err)
	srv, err := server.New(server.Options{Store: st, Tokens: issuer})
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	c, err := api.New(ts.URL)
	require.NoError(t, err)
	_, err = c.Register(context.Background(), api.Registration{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)
	return &backend{url: ts.URL, store: st}
}

// run executes the root command against b with a private config, state
// and client database.
func run(t *testing.T, b *backend, dir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader(""))
	full := append([]string{"--api", b.url, "--db", filepath.Join(dir, "client.db")}, args...)
	rootCmd.SetArgs(full)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestLoginWhoamiLogout(t *testing.T) {
	b := newBackend(t)
	dir := t.TempDir()

	out, err := run(t, b, dir, "login", "--email", "ada@example.com", "--password", "secret1")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as ada@example.com")

	out, err = run(t, b, dir, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Name:    Ada")
	assert.Contains(t, out, "Email:   ada@example.com")

	out, err = run(t, b, dir, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")

	_, err = run(t, b, dir, "whoami")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestLoginWrongPassword(t *testing.T) {
	b := newBackend(t)
	_, err := run(t, b, t.TempDir(), "login", "--email", "ada@example.com", "--password", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login:")
}

func TestLoginPromptsForMissingFields(t *testing.T) {
	b := newBackend(t)
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetIn(strings.NewReader("ada@example.com\nsecret1\n"))
	rootCmd.SetArgs([]string{"--api", b.url, "--db", filepath.Join(dir, "client.db"),
		"login", "--email", "", "--password", ""})
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	assert.Contains(t, out.String(), "Email: ")
	assert.Contains(t, out.String(), "Password: ")
	assert.Contains(t, out.String(), "Logged in as ada@example.com")
}

func TestTopicsListsSeededTopics(t *testing.T) {
	b := newBackend(t)
	out, err := run(t, b, t.TempDir(), "topics")
	require.NoError(t, err)
	assert.Contains(t, out, "Neural Networks")
	assert.Contains(t, out, "Reinforcement Learning")
}

func TestProgressSummary(t *testing.T) {
	b := newBackend(t)
	dir := t.TempDir()
	_, err := run(t, b, dir, "login", "--email", "ada@example.com", "--password", "secret1")
	require.NoError(t, err)

	out, err := run(t, b, dir, "progress")
	require.NoError(t, err)
	assert.Contains(t, out, "No quiz attempts yet")

	ctx := context.Background()
	u, err := b.store.UserRepo().GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	now := time.Now()
	for _, s := range []store.UserScore{
		{UserID: u.ID, TopicID: 2, Score: 2, TotalQuestions: 5, Timestamp: now.Add(-time.Hour)},
		{UserID: u.ID, TopicID: 2, Score: 5, TotalQuestions: 5, Timestamp: now},
		{UserID: u.ID, TopicID: 1, Score: 3, TotalQuestions: 5, Timestamp: now},
	} {
		require.NoError(t, b.store.ScoreRepo().Create(ctx, &s))
	}

	out, err = run(t, b, dir, "progress", "--history")
	require.NoError(t, err)
	assert.Contains(t, out, "Topics attempted: 2")
	assert.Contains(t, out, "Average score:    80%")
	assert.Contains(t, out, "Mastered:         1")
	assert.Contains(t, out, "All quiz attempts")
	assert.Contains(t, out, "40%")
}

func TestProgressRequiresLogin(t *testing.T) {
	b := newBackend(t)
	_, err := run(t, b, t.TempDir(), "progress", "--history=false")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestTruncateCountsRunes(t *testing.T) {
	assert.Equal(t, "héll", truncate("héllo", 4))
	assert.Equal(t, "abc", truncate("abc", 10))
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$0.0012", formatCost(0.00123))
	assert.Equal(t, "$1.50", formatCost(1.5))
}
