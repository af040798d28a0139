package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/prosodia/prosody-coach/audio"
	"github.com/prosodia/prosody-coach/clients"
	"github.com/prosodia/prosody-coach/feedback"
	"github.com/prosodia/prosody-coach/prosody"
	"github.com/prosodia/prosody-coach/session"
	"github.com/prosodia/prosody-coach/storage"
)

var (
	analyzeFile     string
	analyzeSave     bool
	analyzeQuick    bool
	analyzeCoach    bool
	analyzePlayback bool
	analyzeReport   string
	analyzeNoStore  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Record and analyze your speech prosody",
	Long: `Records from your microphone (press Enter to stop), then analyzes
the 5 components of prosody: pitch, volume, tempo, rhythm, and pauses.

Use --coach to enable AI-powered transcription, grammar correction,
and personalized coaching tips.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "", "analyze an existing audio file instead of recording")
	analyzeCmd.Flags().BoolVarP(&analyzeSave, "save", "s", false, "save the recording for later reference")
	analyzeCmd.Flags().BoolVarP(&analyzeQuick, "quick", "q", false, "show a quick summary instead of the detailed table")
	analyzeCmd.Flags().BoolVarP(&analyzeCoach, "coach", "c", false, "enable AI coaching (transcription, grammar, tips) via Gemini")
	analyzeCmd.Flags().BoolVarP(&analyzePlayback, "playback", "p", false, "play back your recording after analysis")
	analyzeCmd.Flags().StringVar(&analyzeReport, "report", "", "write the result to a .json or .yaml report file")
	analyzeCmd.Flags().BoolVar(&analyzeNoStore, "no-store", false, "do not add this session to history")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	runner, err := session.NewRunner(cfg)
	if err != nil {
		return err
	}
	defer runner.Close()

	out := cmd.OutOrStdout()
	var w prosody.Waveform
	if analyzeFile != "" {
		color.New(color.FgBlue, color.Bold).Fprint(out, "Loading: ")
		fmt.Fprintln(out, analyzeFile)
		if w, err = runner.LoadFile(analyzeFile); err != nil {
			return err
		}
		dimf(out, "Duration: %.1f seconds\n", w.Duration())
	} else {
		if w, err = recordInteractive(out, runner); err != nil {
			return err
		}
	}

	if w.Duration() < cfg.Audio.MinDurationSeconds {
		return fmt.Errorf("recording too short (%.1fs): please speak for at least 2 seconds", w.Duration())
	}

	var recID string
	if analyzeSave && analyzeFile == "" {
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

	if analyzeQuick {
		feedback.RenderQuick(out, res)
	} else {
		feedback.RenderAnalysis(out, res)
	}

	var coachRes *clients.CoachResult
	if analyzeCoach {
		dimf(out, "Getting AI coaching feedback...\n")
		coachRes = tryCoach(cmd.Context(), out, w, res, "")
	}

	if analyzeReport != "" {
		if err := feedback.WriteReport(analyzeReport, res); err != nil {
			return err
		}
		dimf(out, "Report written to %s\n", analyzeReport)
	}

	if !analyzeNoStore {
		meta := storage.Meta{Mode: "analyze", RecordingID: recID}
		fillCoachMeta(&meta, coachRes)
		if _, err := runner.Persist(res, meta); err != nil {
			log.WithError(err).Warn("could not store session")
		}
	}

	if analyzePlayback {
		playback(out, w)
	}
	return nil
}

func recordInteractive(out io.Writer, runner *session.Runner) (prosody.Waveform, error) {
	fmt.Fprintln(out)
	color.New(color.FgBlue, color.Bold).Fprintln(out, "Press Enter to stop recording")
	dimf(out, "Recording... ")

	w, err := runner.Record()
	if err != nil {
		return prosody.Waveform{}, err
	}
	color.New(color.FgGreen).Fprint(out, "Done!")
	fmt.Fprintf(out, " (%.1f seconds)\n\n", w.Duration())
	return w, nil
}

// tryCoach runs the AI review and renders it. Coaching failures are reported
// and swallowed; the analysis result stands on its own.
func tryCoach(ctx context.Context, out io.Writer, w prosody.Waveform, res *prosody.Result, expected string) *clients.CoachResult {
	coach, err := clients.NewCoach(cfg.Coach)
	if err != nil {
		color.New(color.FgYellow).Fprintf(out, "AI coaching unavailable: %v\n", err)
		return nil
	}
	var cr *clients.CoachResult
	if expected == "" {
		cr, err = coach.Review(ctx, w, res)
	} else {
		cr, err = coach.ReviewPractice(ctx, w, res, expected)
	}
	if err != nil {
		color.New(color.FgYellow).Fprintf(out, "AI coaching unavailable: %v\n", err)
		return nil
	}
	feedback.RenderCoaching(out, cr)
	return cr
}

func fillCoachMeta(meta *storage.Meta, cr *clients.CoachResult) {
	if cr == nil {
		return
	}
	meta.Transcript = cr.Transcript
	meta.AISummary = cr.Overall
	meta.AITips = cr.CoachingTips
}

func playback(out io.Writer, w prosody.Waveform) {
	dimf(out, "Playing back your recording...\n")
	if err := audio.Play(w); err != nil {
		color.New(color.FgYellow).Fprintf(out, "Playback failed: %v\n", err)
		return
	}
	color.New(color.FgGreen).Fprintln(out, "Playback complete.")
}

func dimf(out io.Writer, format string, args ...interface{}) {
	color.New(color.Faint).Fprintf(out, format, args...)
}
