package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/studymate/internal/app"
)

// runApp launches the full-screen TUI.
func runApp(cmd *cobra.Command) error {
	ephemeral, _ := cmd.Flags().GetBool("ephemeral")
	noIntro, _ := cmd.Flags().GetBool("no-intro")

	env, err := openClient(cmd, ephemeral)
	if err != nil {
		return err
	}
	defer env.Close()

	env.log.Info("starting tui", "api", env.api.BaseURL(), "signed_in", env.session.IsAuthenticated())
	return app.Run(app.Options{
		Backend:   env.api,
		Session:   env.session,
		Log:       env.log,
		SkipIntro: noIntro,
	})
}
