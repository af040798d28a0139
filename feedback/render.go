// Package feedback renders analysis results for the terminal and exports
// machine-readable reports.
package feedback

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/prosodia/prosody-coach/clients"
	"github.com/prosodia/prosody-coach/prompts"
	"github.com/prosodia/prosody-coach/prosody"
	"github.com/prosodia/prosody-coach/storage"
)

const barWidth = 10

var (
	header  = color.New(color.FgBlue, color.Bold)
	accent  = color.New(color.FgCyan, color.Bold)
	bold    = color.New(color.Bold)
	dim     = color.New(color.Faint)
	good    = color.New(color.FgGreen)
	warn    = color.New(color.FgYellow)
	bad     = color.New(color.FgRed)
	goodHdr = color.New(color.FgGreen, color.Bold)
	warnHdr = color.New(color.FgYellow, color.Bold)
)

func scoreBar(score int) string {
	if score < 0 {
		score = 0
	}
	if score > barWidth {
		score = barWidth
	}
	return strings.Repeat("█", score) + strings.Repeat("░", barWidth-score)
}

func scoreColor(score int) *color.Color {
	switch {
	case score >= 8:
		return good
	case score >= 5:
		return warn
	default:
		return bad
	}
}

func componentName(c prosody.Component) string {
	s := string(c)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func detailLine(cs prosody.ComponentScore) string {
	switch d := cs.Detail.(type) {
	case prosody.PitchDetail:
		return fmt.Sprintf("Range: %.0f-%.0f Hz, variation: %.0f Hz", d.MinHz, d.MaxHz, d.RangeHz)
	case prosody.VolumeDetail:
		return fmt.Sprintf("Dynamic range: %.1f dB, stress contrast: %.1f dB", d.DynamicRangeDB, d.ContrastDB)
	case prosody.TempoDetail:
		return fmt.Sprintf("Speed: %.0f WPM, active speech: %.1fs", d.WPM, d.ActiveSec)
	case prosody.RhythmDetail:
		kind := "Stress-timed"
		if d.SyllableTimed {
			kind = "Syllable-timed"
		}
		return fmt.Sprintf("PVI: %.0f, type: %s", d.NPVI, kind)
	case prosody.PauseDetail:
		return fmt.Sprintf("Count: %d, avg duration: %.1fs", d.Count, d.AvgSec)
	}
	return ""
}

var topTips = map[prosody.Component]string{
	prosody.ComponentPitch:  "Try raising pitch on emphasized words and letting it fall naturally at sentence ends.",
	prosody.ComponentVolume: "Speak louder on key words (nouns, verbs, adjectives) and softer on function words.",
	prosody.ComponentTempo:  "Slow down before important points, speed up on less critical information.",
	prosody.ComponentRhythm: "Reduce unstressed syllables: 'comfortable' -> 'COMF-ter-ble', not 'com-for-ta-ble'.",
	prosody.ComponentPauses: "Add a brief pause before delivering key information to create anticipation.",
}

// RenderAnalysis writes the full component table, overall score, and the top
// tip for the weakest measured component.
func RenderAnalysis(w io.Writer, res *prosody.Result) {
	fmt.Fprintln(w)
	header.Fprint(w, "PROSODY ANALYSIS")
	fmt.Fprintf(w, "  Duration: %.1f seconds\n\n", res.Duration)

	for _, cs := range res.Components {
		name := componentName(cs.Component)
		if !cs.Measured {
			bold.Fprintf(w, "%-8s", name)
			dim.Fprintf(w, " not measured: %s\n\n", cs.Reason)
			continue
		}
		bold.Fprintf(w, "%-8s", name)
		fmt.Fprintf(w, " %s  ", scoreBar(cs.Score))
		scoreColor(cs.Score).Fprintf(w, "%d/10", cs.Score)
		fmt.Fprintf(w, "  %s\n", cs.Label)
		if d := detailLine(cs); d != "" {
			dim.Fprintf(w, "         %s\n", d)
		}
		fmt.Fprintf(w, "         %s\n\n", cs.Feedback)
	}

	bold.Fprint(w, "Overall: ")
	scoreColor(int(res.Overall)).Fprintf(w, "%.1f/10\n", res.Overall)

	if c, ok := weakest(res); ok {
		fmt.Fprintln(w)
		warnHdr.Fprint(w, "Top Tip: ")
		bold.Fprintf(w, "focus on %s. ", c)
		fmt.Fprintf(w, "%s\n", topTips[c])
	}
	fmt.Fprintln(w)
}

// weakest returns the lowest-scoring measured component, first in report
// order on ties.
func weakest(res *prosody.Result) (prosody.Component, bool) {
	var (
		found bool
		low   prosody.Component
		min   int
	)
	for _, cs := range res.Components {
		if !cs.Measured {
			continue
		}
		if !found || cs.Score < min {
			found, low, min = true, cs.Component, cs.Score
		}
	}
	return low, found
}

// RenderQuick writes the one-line summary.
func RenderQuick(w io.Writer, res *prosody.Result) {
	fmt.Fprintln(w)
	bold.Fprint(w, "Overall: ")
	scoreColor(int(res.Overall)).Fprintf(w, "%.1f/10\n", res.Overall)

	parts := make([]string, 0, len(res.Components))
	for _, cs := range res.Components {
		if cs.Measured {
			parts = append(parts, fmt.Sprintf("%s: %d/10", componentName(cs.Component), cs.Score))
		} else {
			parts = append(parts, fmt.Sprintf("%s: --", componentName(cs.Component)))
		}
	}
	fmt.Fprintln(w, strings.Join(parts, " | "))
	fmt.Fprintln(w)
}

// RenderCoaching writes the AI coach's transcript, corrections, and tips.
func RenderCoaching(w io.Writer, cr *clients.CoachResult) {
	if cr.Transcript != "" {
		fmt.Fprintln(w)
		accent.Fprintln(w, "TRANSCRIPT")
		fmt.Fprintf(w, "  %s\n", cr.Transcript)
	}

	fmt.Fprintln(w)
	if len(cr.GrammarIssues) > 0 {
		accent.Fprintln(w, "GRAMMAR ISSUES")
		for _, issue := range cr.GrammarIssues {
			bad.Fprint(w, "  ✗ ")
			fmt.Fprintf(w, "%q\n", issue.Original)
			good.Fprint(w, "  ✓ ")
			fmt.Fprintf(w, "%q\n", issue.Corrected)
			if issue.Explanation != "" {
				dim.Fprintf(w, "    %s\n", issue.Explanation)
			}
		}
	} else {
		good.Fprintln(w, "No grammar issues detected.")
	}

	if cr.SuggestedRevision != "" {
		fmt.Fprintln(w)
		goodHdr.Fprintln(w, "SUGGESTED REVISION")
		fmt.Fprintf(w, "  %s\n", cr.SuggestedRevision)
	}

	if len(cr.CoachingTips) > 0 {
		fmt.Fprintln(w)
		warnHdr.Fprintln(w, "COACHING TIPS")
		for i, tip := range cr.CoachingTips {
			warn.Fprintf(w, "  %d.", i+1)
			fmt.Fprintf(w, " %s\n", tip)
		}
	}

	if cr.Overall != "" {
		fmt.Fprintln(w)
		accent.Fprintln(w, "SUMMARY")
		fmt.Fprintf(w, "  %s\n", cr.Overall)
	}
	fmt.Fprintln(w)
}

// RenderPromptCard shows the text the user should read aloud.
func RenderPromptCard(w io.Writer, p prompts.Prompt) {
	fmt.Fprintln(w)
	goodHdr.Fprintln(w, "READ THIS TEXT")
	fmt.Fprintln(w)
	bold.Fprintf(w, "  %s\n", p.Text)
	fmt.Fprintln(w)
	if p.Tip != "" {
		warn.Fprint(w, "Tip: ")
		fmt.Fprintln(w, p.Tip)
	}
	if p.Focus != "" {
		dim.Fprintf(w, "Focus: %s\n", p.Focus)
	}
}

// RenderPromptList shows the whole prompt bank grouped by category.
func RenderPromptList(w io.Writer) {
	fmt.Fprintln(w)
	header.Fprintln(w, "Available practice prompts")
	fmt.Fprintln(w)
	for _, cat := range prompts.Categories() {
		accent.Fprintln(w, strings.ToUpper(cat))
		for _, p := range prompts.ByCategory(cat) {
			text := p.Text
			if len(text) > 60 {
				text = text[:60] + "..."
			}
			dim.Fprintf(w, "  %s: ", p.ID)
			fmt.Fprintln(w, text)
		}
		fmt.Fprintln(w)
	}
}

// RenderHistory writes the recent-session table.
func RenderHistory(w io.Writer, sessions []storage.Session) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No sessions recorded yet. Run 'prosody analyze' to start.")
		return
	}
	fmt.Fprintln(w)
	header.Fprintln(w, "SESSION HISTORY")
	fmt.Fprintln(w)
	bold.Fprintf(w, "%-5s %-17s %-9s %7s  %2s %2s %2s %2s %2s  %s\n",
		"ID", "DATE", "MODE", "DUR", "P", "V", "T", "R", "Pa", "OVERALL")
	for _, s := range sessions {
		fmt.Fprintf(w, "%-5d %-17s %-9s %6.1fs  %2d %2d %2d %2d %2d  ",
			s.ID,
			s.CreatedAt.Local().Format("2006-01-02 15:04"),
			s.Mode,
			s.Duration,
			s.Pitch, s.Volume, s.Tempo, s.Rhythm, s.Pause)
		scoreColor(int(s.Overall)).Fprintf(w, "%7.1f", s.Overall)
		if s.PromptID != "" {
			dim.Fprintf(w, "  [%s]", s.PromptID)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
}

// RenderStats writes the aggregate progress view.
func RenderStats(w io.Writer, st storage.Stats, days int, best, worst storage.ComponentAvg, haveBW bool) {
	fmt.Fprintln(w)
	header.Fprintln(w, "PROGRESS")
	fmt.Fprintln(w)
	if st.TotalSessions == 0 {
		fmt.Fprintln(w, "No sessions recorded yet. Run 'prosody analyze' to start.")
		return
	}

	fmt.Fprintf(w, "Sessions: %d    Practice time: %.1f min\n", st.TotalSessions, st.TotalPracticeMinutes)
	if st.RecentTrend != nil {
		trend := *st.RecentTrend
		fmt.Fprintf(w, "Trend (last %d days vs earlier): ", days)
		switch {
		case trend > 0:
			good.Fprintf(w, "+%.2f\n", trend)
		case trend < 0:
			bad.Fprintf(w, "%.2f\n", trend)
		default:
			dim.Fprintln(w, "no change")
		}
	}

	if st.Averages != nil {
		avg := *st.Averages
		fmt.Fprintln(w)
		bold.Fprintln(w, "Average scores")
		rows := []struct {
			name string
			val  float64
		}{
			{"Pitch", avg.Pitch},
			{"Volume", avg.Volume},
			{"Tempo", avg.Tempo},
			{"Rhythm", avg.Rhythm},
			{"Pauses", avg.Pause},
			{"Overall", avg.Overall},
		}
		for _, r := range rows {
			fmt.Fprintf(w, "  %-8s %s  ", r.name, scoreBar(int(r.val)))
			scoreColor(int(r.val)).Fprintf(w, "%.1f\n", r.val)
		}
	}

	if haveBW {
		fmt.Fprintln(w)
		fmt.Fprint(w, "Strongest: ")
		good.Fprintf(w, "%s (%.1f)", best.Component, best.Avg)
		fmt.Fprint(w, "    Weakest: ")
		bad.Fprintf(w, "%s (%.1f)\n", worst.Component, worst.Avg)
	}
	fmt.Fprintln(w)
}
