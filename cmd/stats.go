package cmd

import (
	"github.com/spf13/cobra"

	"github.com/prosodia/prosody-coach/feedback"
	"github.com/prosodia/prosody-coach/session"
)

var statsDays int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show progress across all stored sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := session.NewRunner(cfg)
		if err != nil {
			return err
		}
		defer runner.Close()

		st, err := runner.Store().Stats(statsDays)
		if err != nil {
			return err
		}
		best, worst, ok, err := runner.Store().BestWorst()
		if err != nil {
			return err
		}
		feedback.RenderStats(cmd.OutOrStdout(), st, statsDays, best, worst, ok)
		return nil
	},
}

func init() {
	statsCmd.Flags().IntVarP(&statsDays, "days", "d", 30, "trend window in days")
	rootCmd.AddCommand(statsCmd)
}
