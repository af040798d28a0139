package feedback

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/prosodia/prosody-coach/clients"
	"github.com/prosodia/prosody-coach/prompts"
	"github.com/prosodia/prosody-coach/prosody"
	"github.com/prosodia/prosody-coach/storage"
)

func plainColors(t *testing.T) {
	t.Helper()
	old := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = old })
}

func renderTestResult() *prosody.Result {
	return &prosody.Result{
		Duration: 45.2,
		Components: []prosody.ComponentScore{
			{Component: prosody.ComponentPitch, Measured: true, Value: 281, Score: 10, Label: "excellent", Feedback: "Excellent pitch variation: 281 Hz.",
				Detail: prosody.PitchDetail{MinHz: 81, MaxHz: 362, MeanHz: 180, StdHz: 60, RangeHz: 281}},
			{Component: prosody.ComponentVolume, Measured: true, Value: 11.9, Score: 10, Label: "excellent", Feedback: "Excellent volume dynamics: 11.9 dB.",
				Detail: prosody.VolumeDetail{MeanDB: 65, DynamicRangeDB: 18.2, ContrastDB: 11.9}},
			{Component: prosody.ComponentTempo, Measured: true, Value: 116, Score: 9, Label: "excellent", Feedback: "Good pace: 116 WPM.",
				Detail: prosody.TempoDetail{SyllablesPerSec: 2.7, WPM: 116, ActiveSec: 38.1}},
			{Component: prosody.ComponentRhythm, Measured: true, Value: 48, Score: 5, Label: "fair", Feedback: "Spanish rhythm pattern detected (PVI: 48). Practice stress-timing: lengthen stressed syllables.",
				Detail: prosody.RhythmDetail{NPVI: 48, SyllableTimed: true}},
			{Component: prosody.ComponentPauses, Measured: true, Value: 14.6, Score: 10, Label: "excellent", Feedback: "Excellent pause usage: 22 pauses, avg 0.8s.",
				Detail: prosody.PauseDetail{Count: 22, TotalSec: 17.6, AvgSec: 0.8, Ratio: 0.39, RatePer30: 14.6}},
		},
		Overall: 8.8,
	}
}

func TestScoreBar(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{10, "██████████"},
		{7, "███████░░░"},
		{1, "█░░░░░░░░░"},
		{0, "░░░░░░░░░░"},
		{13, "██████████"},
		{-2, "░░░░░░░░░░"},
	}
	for _, c := range cases {
		if got := scoreBar(c.score); got != c.want {
			t.Errorf("scoreBar(%d) = %q, want %q", c.score, got, c.want)
		}
	}
}

func TestRenderAnalysis(t *testing.T) {
	plainColors(t)
	var buf bytes.Buffer
	RenderAnalysis(&buf, renderTestResult())
	out := buf.String()

	for _, want := range []string{
		"PROSODY ANALYSIS",
		"Duration: 45.2 seconds",
		"Pitch",
		"10/10",
		"Range: 81-362 Hz, variation: 281 Hz",
		"Speed: 116 WPM, active speech: 38.1s",
		"PVI: 48, type: Syllable-timed",
		"Count: 22, avg duration: 0.8s",
		"Excellent pause usage: 22 pauses, avg 0.8s.",
		"Overall: 8.8/10",
		"focus on rhythm",
		"COMF-ter-ble",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestRenderAnalysisUnmeasured(t *testing.T) {
	plainColors(t)
	res := renderTestResult()
	res.Components[0] = prosody.ComponentScore{
		Component: prosody.ComponentPitch,
		Reason:    "only 3 voiced frames",
	}

	var buf bytes.Buffer
	RenderAnalysis(&buf, res)
	out := buf.String()

	if !strings.Contains(out, "Pitch    not measured: only 3 voiced frames") {
		t.Errorf("unmeasured pitch not rendered with its reason:\n%s", out)
	}
	// Rhythm (5) is still the weakest measured component.
	if !strings.Contains(out, "focus on rhythm") {
		t.Errorf("top tip should target rhythm:\n%s", out)
	}
}

func TestRenderAnalysisNoTopTipWhenNothingMeasured(t *testing.T) {
	plainColors(t)
	res := &prosody.Result{Duration: 3.0}
	for _, c := range prosody.Components() {
		res.Components = append(res.Components, prosody.ComponentScore{Component: c, Reason: "no speech detected"})
	}

	var buf bytes.Buffer
	RenderAnalysis(&buf, res)
	if strings.Contains(buf.String(), "Top Tip") {
		t.Error("top tip rendered with zero measured components")
	}
}

func TestRenderQuick(t *testing.T) {
	plainColors(t)
	res := renderTestResult()
	res.Components[3] = prosody.ComponentScore{Component: prosody.ComponentRhythm, Reason: "not enough syllables for rhythm analysis"}

	var buf bytes.Buffer
	RenderQuick(&buf, res)
	out := buf.String()

	if !strings.Contains(out, "Overall: 8.8/10") {
		t.Errorf("quick output missing overall:\n%s", out)
	}
	if !strings.Contains(out, "Pitch: 10/10 | Volume: 10/10 | Tempo: 9/10 | Rhythm: -- | Pauses: 10/10") {
		t.Errorf("quick output missing component line:\n%s", out)
	}
}

func TestRenderCoaching(t *testing.T) {
	plainColors(t)
	cr := &clients.CoachResult{
		Transcript: "I want to improve my speaking.",
		GrammarIssues: []clients.GrammarIssue{
			{Original: "I want improve", Corrected: "I want to improve", Explanation: "missing to"},
		},
		SuggestedRevision: "I want to improve my public speaking.",
		CoachingTips:      []string{"Lengthen stressed syllables.", "Pause before key points."},
		Overall:           "Strong pace; rhythm is the thing to work on.",
	}

	var buf bytes.Buffer
	RenderCoaching(&buf, cr)
	out := buf.String()

	for _, want := range []string{
		"TRANSCRIPT",
		"I want to improve my speaking.",
		`✗ "I want improve"`,
		`✓ "I want to improve"`,
		"missing to",
		"SUGGESTED REVISION",
		"1. Lengthen stressed syllables.",
		"2. Pause before key points.",
		"SUMMARY",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("coaching output missing %q\n%s", want, out)
		}
	}
}

func TestRenderCoachingNoIssues(t *testing.T) {
	plainColors(t)
	var buf bytes.Buffer
	RenderCoaching(&buf, &clients.CoachResult{Transcript: "All good."})
	if !strings.Contains(buf.String(), "No grammar issues detected.") {
		t.Errorf("clean transcript should report no issues:\n%s", buf.String())
	}
}

func TestRenderPromptCard(t *testing.T) {
	plainColors(t)
	p, ok := prompts.ByID("stress_1")
	if !ok {
		t.Fatal("stress_1 missing from catalog")
	}

	var buf bytes.Buffer
	RenderPromptCard(&buf, p)
	out := buf.String()

	if !strings.Contains(out, "READ THIS TEXT") || !strings.Contains(out, p.Text) {
		t.Errorf("prompt card missing text:\n%s", out)
	}
	if !strings.Contains(out, "Tip: "+p.Tip) || !strings.Contains(out, "Focus: "+p.Focus) {
		t.Errorf("prompt card missing tip/focus:\n%s", out)
	}
}

func TestRenderPromptList(t *testing.T) {
	plainColors(t)
	var buf bytes.Buffer
	RenderPromptList(&buf)
	out := buf.String()

	for _, want := range []string{"STRESS", "INTONATION", "PROFESSIONAL", "RHYTHM", "PASSAGES", "stress_1: ", "..."} {
		if !strings.Contains(out, want) {
			t.Errorf("prompt list missing %q", want)
		}
	}
}

func TestRenderHistory(t *testing.T) {
	plainColors(t)

	var empty bytes.Buffer
	RenderHistory(&empty, nil)
	if !strings.Contains(empty.String(), "No sessions recorded yet") {
		t.Errorf("empty history message missing:\n%s", empty.String())
	}

	sessions := []storage.Session{
		{ID: 12, CreatedAt: time.Date(2026, 8, 23, 13, 0, 0, 0, time.UTC), Mode: "practice", Duration: 45.2,
			Pitch: 10, Volume: 10, Tempo: 9, Rhythm: 5, Pause: 10, Overall: 8.8, PromptID: "pro_1"},
		{ID: 11, CreatedAt: time.Date(2026, 8, 22, 9, 30, 0, 0, time.UTC), Mode: "analyze", Duration: 12.0,
			Pitch: 7, Volume: 6, Tempo: 8, Rhythm: 4, Pause: 6, Overall: 6.2},
	}
	var buf bytes.Buffer
	RenderHistory(&buf, sessions)
	out := buf.String()

	for _, want := range []string{"SESSION HISTORY", "12", "practice", "8.8", "[pro_1]", "analyze", "6.2"} {
		if !strings.Contains(out, want) {
			t.Errorf("history output missing %q\n%s", want, out)
		}
	}
}

func TestRenderStats(t *testing.T) {
	plainColors(t)

	var empty bytes.Buffer
	RenderStats(&empty, storage.Stats{}, 30, storage.ComponentAvg{}, storage.ComponentAvg{}, false)
	if !strings.Contains(empty.String(), "No sessions recorded yet") {
		t.Errorf("empty stats message missing:\n%s", empty.String())
	}

	trend := 2.0
	st := storage.Stats{
		TotalSessions:        4,
		TotalPracticeMinutes: 6.0,
		Averages:             &storage.Averages{Pitch: 8, Volume: 6, Tempo: 7, Rhythm: 5, Pause: 9, Overall: 7.5},
		RecentTrend:          &trend,
	}
	best := storage.ComponentAvg{Component: prosody.ComponentPauses, Avg: 9}
	worst := storage.ComponentAvg{Component: prosody.ComponentRhythm, Avg: 5}

	var buf bytes.Buffer
	RenderStats(&buf, st, 30, best, worst, true)
	out := buf.String()

	for _, want := range []string{
		"Sessions: 4",
		"Practice time: 6.0 min",
		"Trend (last 30 days vs earlier): +2.00",
		"Average scores",
		"Overall  ███████░░░  7.5",
		"Strongest: pauses (9.0)",
		"Weakest: rhythm (5.0)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output missing %q\n%s", want, out)
		}
	}
}
