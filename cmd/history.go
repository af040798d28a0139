package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prosodia/prosody-coach/feedback"
	"github.com/prosodia/prosody-coach/session"
)

var (
	historyLimit int
	historyMode  string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent analysis sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyMode != "" && historyMode != "analyze" && historyMode != "practice" {
			return fmt.Errorf("unknown mode %q: use analyze or practice", historyMode)
		}
		runner, err := session.NewRunner(cfg)
		if err != nil {
			return err
		}
		defer runner.Close()

		sessions, err := runner.Store().History(historyLimit, historyMode)
		if err != nil {
			return err
		}
		feedback.RenderHistory(cmd.OutOrStdout(), sessions)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of sessions to show")
	historyCmd.Flags().StringVarP(&historyMode, "mode", "m", "", "filter by mode (analyze or practice)")
	rootCmd.AddCommand(historyCmd)
}
