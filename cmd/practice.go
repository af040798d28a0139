package cmd

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/prosodia/prosody-coach/feedback"
	"github.com/prosodia/prosody-coach/prompts"
	"github.com/prosodia/prosody-coach/session"
	"github.com/prosodia/prosody-coach/storage"
)

var (
	practiceID       string
	practiceText     string
	practiceList     bool
	practicePlayback bool
	practiceSave     bool
	practiceNoStore  bool
)

var practiceCmd = &cobra.Command{
	Use:   "practice [category]",
	Short: "Practice reading specific texts with AI feedback",
	Long: `Shows you a text to read aloud, then analyzes your prosody AND
compares your pronunciation against the expected text.

Examples:
  prosody practice                    # Random prompt
  prosody practice professional       # Random from category
  prosody practice --id pro_1         # Specific prompt
  prosody practice --text "Hello"     # Custom text
  prosody practice --list             # Show all prompts`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPractice,
}

func init() {
	practiceCmd.Flags().StringVarP(&practiceID, "id", "i", "", "specific prompt ID to practice")
	practiceCmd.Flags().StringVarP(&practiceText, "text", "t", "", "custom text to practice reading")
	practiceCmd.Flags().BoolVarP(&practiceList, "list", "l", false, "list all available practice prompts")
	practiceCmd.Flags().BoolVarP(&practicePlayback, "playback", "p", false, "play back your recording after analysis")
	practiceCmd.Flags().BoolVarP(&practiceSave, "save", "s", false, "save the recording for later reference")
	practiceCmd.Flags().BoolVar(&practiceNoStore, "no-store", false, "do not add this session to history")
	rootCmd.AddCommand(practiceCmd)
}

func runPractice(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if practiceList {
		feedback.RenderPromptList(out)
		return nil
	}

	var p prompts.Prompt
	switch {
	case practiceText != "":
		p = prompts.Custom(practiceText)
	case practiceID != "":
		var ok bool
		if p, ok = prompts.ByID(practiceID); !ok {
			return fmt.Errorf("prompt %q not found: use --list to see available prompts", practiceID)
		}
	case len(args) == 1:
		if len(prompts.ByCategory(args[0])) == 0 {
			return fmt.Errorf("category %q not found: options are %s", args[0], strings.Join(prompts.Categories(), ", "))
		}
		p = prompts.Random(args[0])
	default:
		p = prompts.Random("")
	}

	runner, err := session.NewRunner(cfg)
	if err != nil {
		return err
	}
	defer runner.Close()

	feedback.RenderPromptCard(out, p)
	w, err := recordInteractive(out, runner)
	if err != nil {
		return err
	}
	if w.Duration() < cfg.Audio.MinDurationSeconds {
		return fmt.Errorf("recording too short (%.1fs): please read the full text", w.Duration())
	}

	var recID string
	if practiceSave {
		id, path, err := runner.SaveRecording(w)
		if err != nil {
			return err
		}
		recID = id
		dimf(out, "Saved to: %s\n", path)
	}

	dimf(out, "Analyzing prosody...\n")
	res, err := runner.Analyze(w)
	if err != nil {
		return err
	}
	feedback.RenderAnalysis(out, res)

	dimf(out, "Getting AI feedback on your reading...\n")
	coachRes := tryCoach(cmd.Context(), out, w, res, p.Text)

	if !practiceNoStore {
		meta := storage.Meta{Mode: "practice", PromptID: p.ID, RecordingID: recID}
		fillCoachMeta(&meta, coachRes)
		if _, err := runner.Persist(res, meta); err != nil {
			log.WithError(err).Warn("could not store session")
		}
	}

	if practicePlayback {
		playback(out, w)
	}
	return nil
}
