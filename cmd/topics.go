package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abhisek/studymate/internal/api"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List the available learning topics",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openClient(cmd, false)
		if err != nil {
			return err
		}
		defer env.Close()

		topics, err := env.api.ListTopics(cmd.Context())
		if err != nil {
			return fmt.Errorf("list topics: %s", api.Message(err, "Failed to fetch topics"))
		}
		out := cmd.OutOrStdout()
		if len(topics) == 0 {
			fmt.Fprintln(out, "No topics available yet.")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTitle\tDescription")
		for _, t := range topics {
			fmt.Fprintf(w, "%d\t%s\t%s\n", t.ID, t.Title, truncate(oneLine(t.Description), 60))
		}
		return w.Flush()
	},
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
