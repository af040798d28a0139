// Package cmd defines the prosody CLI.
package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/prosodia/prosody-coach/config"
)

var (
	cfgFile string
	verbose bool
	cfg     *config.Root
)

var rootCmd = &cobra.Command{
	Use:   "prosody",
	Short: "Analyze and improve your English prosody",
	Long: `Prosody Coach - improve your English speaking patterns.

Analyzes 5 key components: pitch, volume, tempo, rhythm, and pauses.
Designed for Spanish speakers learning English.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.LoadFrom(cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded

		if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
			log.SetLevel(level)
		}
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: prosody.yaml in cwd or ~/.config/prosody-coach/)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
