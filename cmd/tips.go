package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var tipsCmd = &cobra.Command{
	Use:   "tips",
	Short: "Tips for improving prosody as a Spanish speaker",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out)
		color.New(color.FgGreen, color.Bold).Fprintln(out, "Tips for Spanish Speakers")
		fmt.Fprintln(out)
		color.New(color.FgYellow, color.Bold).Fprintln(out, "Common Patterns to Avoid:")
		fmt.Fprintln(out)

		pattern(out, "1. Monotone Speech",
			"Spanish speakers often use flatter pitch in English.",
			"Exaggerate pitch changes at first. Go higher on stressed words,\nlower at sentence ends.")
		pattern(out, "2. Equal Syllable Length",
			"Spanish gives equal time to each syllable. English doesn't.",
			"Stretch stressed syllables, rush through unstressed ones.\n\"COMfortable\" not \"com-for-ta-ble\"")
		pattern(out, "3. Missing Reductions",
			"Unstressed vowels in English become \"schwa\" (uh).",
			"\"to\" -> \"tuh\", \"for\" -> \"fer\", \"can\" -> \"cun\"")
		pattern(out, "4. No Strategic Pauses",
			"Spanish speakers often speak in continuous streams.",
			"Pause before important information to create anticipation.")
		pattern(out, "5. Harsh Intonation",
			"Falling pitch throughout can sound angry in English.",
			"Rise slightly on positive statements, only fall on negatives.")

		color.New(color.FgYellow, color.Bold).Fprintln(out, "Practice Sentences:")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Try these with exaggerated prosody:")
		fmt.Fprintln(out)
		practiceLine(out, "I THINK we should WAIT until TOMORROW.",
			"Stress caps, reduce others, pause after \"think\"")
		practiceLine(out, "That's INteresting! Tell me MORE about it.",
			"Rise on \"interesting\", fall on \"more\"")
		practiceLine(out, "I NEver said she STOLE my MOney.",
			"Each word can be stressed for different meanings")
	},
}

func pattern(out io.Writer, title, problem, fix string) {
	color.New(color.Bold).Fprintln(out, title)
	fmt.Fprintf(out, "   %s\n", problem)
	color.New(color.FgGreen).Fprint(out, "   Fix: ")
	lines := strings.Split(fix, "\n")
	fmt.Fprintln(out, lines[0])
	for _, line := range lines[1:] {
		fmt.Fprintf(out, "   %s\n", line)
	}
	fmt.Fprintln(out)
}

func practiceLine(out io.Writer, sentence, note string) {
	fmt.Fprintf(out, "  %q\n", sentence)
	color.New(color.Faint).Fprintf(out, "  (%s)\n\n", note)
}

func init() {
	rootCmd.AddCommand(tipsCmd)
}
