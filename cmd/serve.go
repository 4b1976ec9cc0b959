package cmd

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/studymate/internal/llm"
	"github.com/abhisek/studymate/internal/logger"
	"github.com/abhisek/studymate/internal/server"
	"github.com/abhisek/studymate/internal/store"
	"github.com/abhisek/studymate/internal/tutor"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the learning backend",
	Long: "Serve the JSON API the client talks to: accounts, topics, quizzes and, " +
		"when an LLM provider is configured, AI explanations and quiz generation.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if v, _ := cmd.Flags().GetString("addr"); v != "" {
			cfg.Server.Addr = v
		}
		if v, _ := cmd.Flags().GetString("server-db"); v != "" {
			cfg.Server.DBPath = v
		}
		if noSeed, _ := cmd.Flags().GetBool("no-seed"); noSeed {
			cfg.Server.Seed = false
		}

		log, err := logger.New(logger.Options{Mode: cfg.Server.LogMode, Debug: cfg.Client.Debug})
		if err != nil {
			return err
		}
		defer log.Sync()

		dbPath, err := resolveServerDBPath()
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer st.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if cfg.Server.Seed {
			n, err := server.Seed(ctx, st.TopicRepo())
			if err != nil {
				return fmt.Errorf("seed topics: %w", err)
			}
			if n > 0 {
				log.Info("seeded sample topics", "count", n)
			}
		}

		secret := cfg.Server.JWTSecret
		if secret == "" {
			secret = rand.Text()
			log.Warn("no jwt secret configured; tokens will not survive a restart")
		}
		tokens, err := server.NewTokenIssuer(secret, cfg.TokenTTL())
		if err != nil {
			return err
		}

		tut, err := newTutor(ctx, st, log)
		if err != nil {
			return err
		}

		srv, err := server.New(server.Options{
			Store:       st,
			Tokens:      tokens,
			Tutor:       tut,
			CORSOrigins: cfg.Server.CORSOrigins,
			Log:         log,
		})
		if err != nil {
			return err
		}
		log.Info("starting backend", "db", dbPath, "ai", tut != nil)
		return srv.Run(ctx, cfg.Server.Addr)
	},
}

// newTutor returns nil when no provider is configured; the AI routes then
// answer 503 while the rest of the API keeps working.
func newTutor(ctx context.Context, st *store.Store, log *logger.Logger) (*tutor.Service, error) {
	llmCfg, ok := cfg.LLMConfig()
	if !ok {
		log.Warn("no llm provider configured; ai features disabled")
		return nil, nil
	}
	provider, err := llm.NewProvider(ctx, llmCfg, st.EventRepo(), log.With("component", "llm"))
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}
	return tutor.NewService(provider, tutor.DefaultConfig()), nil
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default :8000)")
	serveCmd.Flags().String("server-db", "", "Path to the backend SQLite database")
	serveCmd.Flags().Bool("no-seed", false, "Do not create the sample topics")
}
