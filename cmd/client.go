package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/studymate/internal/api"
	"github.com/abhisek/studymate/internal/auth"
	"github.com/abhisek/studymate/internal/logger"
	"github.com/abhisek/studymate/internal/store"
)

// clientEnv is everything a client-side command needs: the local database
// holding the saved login, the session gate and the typed API client.
type clientEnv struct {
	store   *store.Store
	session *auth.Session
	api     *api.Client
	log     *logger.Logger
}

// openClient wires the client stack. With ephemeral set the login is kept
// in memory and the local database is not opened.
func openClient(cmd *cobra.Command, ephemeral bool) (*clientEnv, error) {
	logPath, err := resolveLogPath()
	if err != nil {
		return nil, fmt.Errorf("resolve log path: %w", err)
	}
	log, err := logger.New(logger.Options{
		Mode:  cfg.Client.LogMode,
		Path:  logPath,
		Debug: cfg.Client.Debug,
	})
	if err != nil {
		return nil, err
	}

	env := &clientEnv{log: log}

	var tokens auth.TokenStore
	if ephemeral {
		tokens = auth.NewMemoryTokenStore()
	} else {
		dbPath, err := resolveDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
		env.store, err = store.Open(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		tokens = env.store.CredentialRepo()
	}

	env.session = auth.NewSession(tokens, log.With("component", "auth"))
	env.api, err = api.New(cfg.API.BaseURL,
		api.WithTimeout(cfg.APITimeout()),
		api.WithTokenSource(env.session),
		api.WithLogger(log.With("component", "api")),
		api.WithUserAgent("studymate/"+version),
	)
	if err != nil {
		env.Close()
		return nil, err
	}
	env.session.Bind(env.api)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := env.session.Restore(ctx); err != nil {
		log.Warn("restore saved login", "error", err)
	}
	return env, nil
}

// requireLogin fails with a hint when no saved login exists.
func (e *clientEnv) requireLogin() error {
	if !e.session.IsAuthenticated() {
		return errors.New("not logged in (run `studymate login`)")
	}
	return nil
}

func (e *clientEnv) Close() {
	if e.store != nil {
		_ = e.store.Close()
	}
	e.log.Sync()
}

// resolveLogPath keeps client logs out of the terminal the TUI draws on:
// the configured file, else $XDG_STATE_HOME/studymate/studymate.log.
func resolveLogPath() (string, error) {
	if p := cfg.Client.LogFile; p != "" {
		return p, store.EnsureDir(p)
	}
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".local", "state")
	}
	p := filepath.Join(dir, "studymate", "studymate.log")
	return p, store.EnsureDir(p)
}
