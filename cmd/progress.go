package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/studymate/internal/api"
	"github.com/abhisek/studymate/internal/progress"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show quiz scores per topic",
	RunE: func(cmd *cobra.Command, args []string) error {
		history, _ := cmd.Flags().GetBool("history")

		env, err := openClient(cmd, false)
		if err != nil {
			return err
		}
		defer env.Close()
		if err := env.requireLogin(); err != nil {
			return err
		}

		var (
			attempts []api.UserScore
			topics   []api.Topic
		)
		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(func() (err error) {
			attempts, err = env.api.GetUserProgress(ctx)
			return err
		})
		g.Go(func() (err error) {
			topics, err = env.api.ListTopics(ctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return fmt.Errorf("progress: %s", api.Message(err, "Failed to fetch progress data"))
		}

		out := cmd.OutOrStdout()
		if len(attempts) == 0 {
			fmt.Fprintln(out, "No quiz attempts yet. Run `studymate` and take a quiz to get started.")
			return nil
		}

		names := progress.NewNameIndex(topics)
		latest := progress.LatestPerTopic(attempts)
		s := progress.SummaryStats(latest)

		fmt.Fprintf(out, "Topics attempted: %d\n", s.TopicsAttempted)
		fmt.Fprintf(out, "Average score:    %d%%\n", s.AverageScore)
		fmt.Fprintf(out, "Mastered:         %d\n", s.Mastered)
		if s.Invalid > 0 {
			fmt.Fprintf(out, "Skipped:          %d attempt(s) with no questions\n", s.Invalid)
		}
		fmt.Fprintln(out)

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "Topic\tScore\tPercent\tLevel\tLast attempted")
		for _, a := range latest {
			pct, level := "-", "-"
			if p, err := progress.Percentage(a.Score, a.TotalQuestions); err == nil {
				pct = fmt.Sprintf("%d%%", p)
				level = progress.Classify(p).Label()
			}
			fmt.Fprintf(w, "%s\t%d/%d\t%s\t%s\t%s\n",
				names.Name(a.TopicID), a.Score, a.TotalQuestions, pct, level,
				a.Timestamp.Local().Format("Jan 2, 2006 15:04"))
		}
		if err := w.Flush(); err != nil {
			return err
		}

		if history {
			return printHistory(out, names, attempts)
		}
		return nil
	},
}

func printHistory(out io.Writer, names progress.NameIndex, attempts []api.UserScore) error {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "All quiz attempts")
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Topic\tScore\tPercent\tDate")
	for _, a := range progress.History(attempts) {
		pct := "-"
		if p, err := progress.Percentage(a.Score, a.TotalQuestions); err == nil {
			pct = fmt.Sprintf("%d%%", p)
		}
		fmt.Fprintf(w, "%s\t%d/%d\t%s\t%s\n",
			names.Name(a.TopicID), a.Score, a.TotalQuestions, pct,
			a.Timestamp.Local().Format("Jan 2, 2006 15:04"))
	}
	return w.Flush()
}

func init() {
	progressCmd.Flags().Bool("history", false, "Also list every attempt, newest first")
}
