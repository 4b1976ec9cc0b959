package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/studymate/internal/api"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("studymate", version)

		check, _ := cmd.Flags().GetBool("check")
		if !check {
			return nil
		}
		client, err := api.New(cfg.API.BaseURL, api.WithTimeout(cfg.APITimeout()))
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.APITimeout())
		defer cancel()

		info, err := client.CheckCompatible(ctx)
		if info != nil {
			fmt.Printf("backend %s at %s\n", info.Version, client.BaseURL())
		}
		if err != nil {
			return fmt.Errorf("backend check: %w", err)
		}
		fmt.Println("backend is compatible")
		return nil
	},
}

func init() {
	versionCmd.Flags().Bool("check", false, "Also query the backend and check its API version")
}
