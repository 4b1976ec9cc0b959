package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/studymate/internal/config"
	"github.com/abhisek/studymate/internal/store"
)

// cfg is loaded once per invocation by the root PersistentPreRunE.
var cfg = config.Default()

var rootCmd = &cobra.Command{
	Use:   "studymate",
	Short: "AI learning companion for the terminal",
	Long: "StudyMate helps you learn AI and machine learning topics from the terminal: " +
		"read explanations, take quizzes, track your scores and ask an AI tutor.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/studymate/config.yaml)")
	pf.String("api", "", "Backend base URL (overrides STUDYMATE_API_URL)")
	pf.String("db", "", "Path to the local SQLite database (overrides STUDYMATE_DB)")
	pf.Bool("debug", false, "Enable debug logging")

	rootCmd.Flags().Bool("no-intro", false, "Skip the welcome animation")
	rootCmd.Flags().Bool("ephemeral", false, "Keep the login in memory instead of the local database")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig applies, in increasing precedence: defaults, the YAML file,
// .env, STUDYMATE_* variables and finally command-line flags.
func loadConfig(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	path, _ := cmd.Flags().GetString("config")
	required := path != ""
	if path == "" {
		path = config.DefaultPath()
	}
	c, err := config.Load(path, required)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if v, _ := cmd.Flags().GetString("api"); v != "" {
		c.API.BaseURL = v
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		c.Client.DBPath = v
	}
	if cmd.Flags().Changed("debug") {
		c.Client.Debug, _ = cmd.Flags().GetBool("debug")
	}
	cfg = c
	return nil
}

// resolveDBPath returns the client database path: --db, then the config
// file or STUDYMATE_DB, then the default XDG path.
func resolveDBPath() (string, error) {
	if p := cfg.Client.DBPath; p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// resolveServerDBPath returns the backend database path.
func resolveServerDBPath() (string, error) {
	if p := cfg.Server.DBPath; p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DataPath("server.db")
}
