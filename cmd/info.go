package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Explain the prosody components that get analyzed",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out)
		color.New(color.FgBlue, color.Bold).Fprintln(out, "The 5 Components of Prosody")
		fmt.Fprintln(out)

		section(out, "1. Pitch (Intonation)",
			"The highness or lowness of your voice. English uses wide pitch\nvariation to convey meaning and emotion.",
			"Target: 100-150 Hz variation range")
		section(out, "2. Volume (Stress)",
			"Loudness variation between stressed and unstressed syllables.\nEnglish emphasizes important words by making them louder.",
			"Target: 6-10 dB contrast between stressed/unstressed")
		section(out, "3. Tempo (Speed)",
			"Speaking rate and its variation. Good speakers vary speed for emphasis.",
			"Target: 130-160 WPM")
		section(out, "4. Rhythm (Timing Pattern)",
			"The timing between syllables. Spanish is syllable-timed (equal length),\nEnglish is stress-timed (stressed syllables longer).",
			"Target: PVI of 55-65 (higher = more English-like)")
		section(out, "5. Pauses (Strategic Silence)",
			"Deliberate breaks in speech for emphasis and breathing.",
			"Target: 3-5 pauses per 30 seconds, 0.5-1.5s each")
	},
}

func section(out io.Writer, title, body, target string) {
	color.New(color.FgCyan, color.Bold).Fprintln(out, title)
	for _, line := range strings.Split(body, "\n") {
		fmt.Fprintf(out, "   %s\n", line)
	}
	color.New(color.Faint).Fprintf(out, "   %s\n\n", target)
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
