package clients

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prosodia/prosody-coach/config"
	"github.com/prosodia/prosody-coach/prosody"
)

func coachTestResult() *prosody.Result {
	return &prosody.Result{
		Duration: 45.2,
		Components: []prosody.ComponentScore{
			{Component: prosody.ComponentPitch, Measured: true, Value: 281, Score: 10, Label: "excellent", Feedback: "Excellent pitch variation: 281 Hz."},
			{Component: prosody.ComponentVolume, Measured: true, Value: 11.9, Score: 10, Label: "excellent", Feedback: "Excellent volume dynamics: 11.9 dB."},
			{Component: prosody.ComponentTempo, Measured: true, Value: 116, Score: 9, Label: "excellent", Feedback: "Good pace: 116 WPM.",
				Detail: prosody.TempoDetail{SyllablesPerSec: 2.7, WPM: 116, ActiveSec: 38}},
			{Component: prosody.ComponentRhythm, Measured: true, Value: 48, Score: 5, Label: "fair", Feedback: "Spanish rhythm pattern detected (PVI: 48). Practice stress-timing: lengthen stressed syllables.",
				Detail: prosody.RhythmDetail{NPVI: 48}},
			{Component: prosody.ComponentPauses, Measured: true, Value: 14.6, Score: 10, Label: "excellent", Feedback: "Excellent pause usage: 22 pauses, avg 0.8s.",
				Detail: prosody.PauseDetail{Count: 22, AvgSec: 0.8}},
		},
		Overall: 8.8,
	}
}

func coachTestWave() prosody.Waveform {
	samples := make([]float64, 1600)
	for i := range samples {
		samples[i] = 0.3 * math.Sin(2*math.Pi*220*float64(i)/16000)
	}
	return prosody.Waveform{Samples: samples, SampleRate: 16000}
}

func TestParseCoachResponse(t *testing.T) {
	reply := strings.Join([]string{
		"TRANSCRIPT:",
		"I goed to the store yesterday.",
		"",
		"GRAMMAR_ISSUES:",
		`"I goed" -> "I went" | irregular past tense`,
		`"the store" -> "the shop"`,
		"[placeholder instructions should be skipped]",
		"",
		"SUGGESTED_REVISION:",
		"I went to the store yesterday.",
		"",
		"COACHING_TIPS:",
		"1. Practice irregular verbs daily.",
		"- Slow down before key points.",
		"• Stress content words.",
		"[these brackets are template noise]",
		"* Keep your pitch moving.",
		"2) Use falling intonation at sentence ends.",
		"3. This sixth tip should be dropped.",
		"",
		"OVERALL:",
		"Clear delivery overall; irregular verbs are the main thing to drill.",
	}, "\n")

	got := parseCoachResponse(reply)

	if got.Transcript != "I goed to the store yesterday." {
		t.Errorf("Transcript = %q", got.Transcript)
	}
	if len(got.GrammarIssues) != 2 {
		t.Fatalf("GrammarIssues = %d, want 2", len(got.GrammarIssues))
	}
	first := got.GrammarIssues[0]
	if first.Original != "I goed" || first.Corrected != "I went" || first.Explanation != "irregular past tense" {
		t.Errorf("first issue = %+v", first)
	}
	second := got.GrammarIssues[1]
	if second.Original != "the store" || second.Corrected != "the shop" || second.Explanation != "" {
		t.Errorf("second issue = %+v", second)
	}
	if got.SuggestedRevision != "I went to the store yesterday." {
		t.Errorf("SuggestedRevision = %q", got.SuggestedRevision)
	}
	wantTips := []string{
		"Practice irregular verbs daily.",
		"Slow down before key points.",
		"Stress content words.",
		"Keep your pitch moving.",
		"Use falling intonation at sentence ends.",
	}
	if len(got.CoachingTips) != len(wantTips) {
		t.Fatalf("CoachingTips = %d, want %d: %q", len(got.CoachingTips), len(wantTips), got.CoachingTips)
	}
	for i, want := range wantTips {
		if got.CoachingTips[i] != want {
			t.Errorf("tip %d = %q, want %q", i, got.CoachingTips[i], want)
		}
	}
	if !strings.Contains(got.Overall, "irregular verbs") {
		t.Errorf("Overall = %q", got.Overall)
	}
}

func TestParseCoachResponseInlineHeaderContent(t *testing.T) {
	got := parseCoachResponse("TRANSCRIPT: Hello there.\nOVERALL: Fine.")
	if got.Transcript != "Hello there." {
		t.Errorf("Transcript = %q", got.Transcript)
	}
	if got.Overall != "Fine." {
		t.Errorf("Overall = %q", got.Overall)
	}
}

func TestParseCoachResponseNoIssues(t *testing.T) {
	for _, none := range []string{"None", "none", "NONE"} {
		got := parseCoachResponse("GRAMMAR_ISSUES:\n" + none + "\n")
		if got.GrammarIssues != nil {
			t.Errorf("GRAMMAR_ISSUES %q parsed to %+v, want nil", none, got.GrammarIssues)
		}
	}
}

func TestParseCoachResponseUnstructured(t *testing.T) {
	got := parseCoachResponse("The model ignored the format and wrote prose instead.")
	if got.Transcript != "" || got.SuggestedRevision != "" || got.Overall != "" {
		t.Errorf("unstructured reply should parse to empty fields: %+v", got)
	}
	if len(got.GrammarIssues) != 0 || len(got.CoachingTips) != 0 {
		t.Errorf("unstructured reply produced issues/tips: %+v", got)
	}
}

func TestCoachingPrompts(t *testing.T) {
	res := coachTestResult()

	free := coachingPrompt(res)
	for _, want := range []string{
		"TASK: Analyze this audio recording",
		"- Pitch: 10/10 - Excellent pitch variation: 281 Hz.",
		"- Tempo: 9/10 - Speed: 116 WPM. Good pace: 116 WPM.",
		"- Rhythm: 5/10 - PVI: 48. Spanish rhythm pattern",
		"TRANSCRIPT:",
		"OVERALL:",
	} {
		if !strings.Contains(free, want) {
			t.Errorf("coaching prompt missing %q", want)
		}
	}

	practice := practicePrompt(res, "The quick brown fox jumps over the lazy dog.")
	for _, want := range []string{
		"EXPECTED TEXT (what they should have read):",
		`"The quick brown fox jumps over the lazy dog."`,
		"Word stress patterns in the text they read",
	} {
		if !strings.Contains(practice, want) {
			t.Errorf("practice prompt missing %q", want)
		}
	}
}

func TestCoachPromptUnmeasuredComponent(t *testing.T) {
	res := coachTestResult()
	res.Components[3] = prosody.ComponentScore{
		Component: prosody.ComponentRhythm,
		Reason:    "not enough syllables for rhythm analysis",
	}
	prompt := coachingPrompt(res)
	if !strings.Contains(prompt, "- Rhythm: 0/10 - PVI: 0. not measured: not enough syllables for rhythm analysis") {
		t.Errorf("prompt does not carry the unmeasured reason:\n%s", prompt)
	}
}

func TestCoachReview(t *testing.T) {
	reply := "TRANSCRIPT:\nI want to improve my speaking.\n\n" +
		"GRAMMAR_ISSUES:\n\"I want improve\" -> \"I want to improve\" | missing to\n\n" +
		"SUGGESTED_REVISION:\nI want to improve my public speaking.\n\n" +
		"COACHING_TIPS:\n1. Lengthen stressed syllables.\n2. Pause before key points.\n\n" +
		"OVERALL:\nStrong pace; rhythm is the thing to work on."

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if want := "/v1beta/models/gemini-2.0-flash:generateContent"; r.URL.Path != want {
			t.Errorf("path = %s, want %s", r.URL.Path, want)
		}
		if got := r.Header.Get("x-goog-api-key"); got != "test-key" {
			t.Errorf("api key header = %q", got)
		}

		var req genRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Contents) != 1 || len(req.Contents[0].Parts) != 2 {
			t.Errorf("request shape: %+v", req.Contents)
		} else {
			inline := req.Contents[0].Parts[0].InlineData
			if inline == nil || inline.MIMEType != "audio/wav" {
				t.Errorf("first part is not inline WAV: %+v", inline)
			} else if raw, err := base64.StdEncoding.DecodeString(inline.Data); err != nil {
				t.Errorf("inline data is not base64: %v", err)
			} else if len(raw) < 44 || string(raw[:4]) != "RIFF" {
				t.Error("inline data is not a WAV container")
			}
			if text := req.Contents[0].Parts[1].Text; !strings.Contains(text, "PROSODY ANALYSIS RESULTS") {
				t.Errorf("prompt part = %q", text)
			}
		}
		if req.GenerationConfig.Temperature != 0.3 || req.GenerationConfig.MaxOutputTokens != 2048 {
			t.Errorf("generation config = %+v", req.GenerationConfig)
		}

		encoded, _ := json.Marshal(reply)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"candidates":[{"content":{"parts":[{"text":%s}]}}]}`, encoded)
	}))
	defer srv.Close()

	coach, err := NewCoach(config.Coach{
		APIKey:         "test-key",
		Model:          "gemini-2.0-flash",
		BaseURL:        srv.URL,
		Temperature:    0.3,
		MaxTokens:      2048,
		TimeoutSeconds: 5,
	})
	if err != nil {
		t.Fatalf("NewCoach: %v", err)
	}

	got, err := coach.Review(context.Background(), coachTestWave(), coachTestResult())
	if err != nil {
		t.Fatalf("Review: %v", err)
	}
	if got.Transcript != "I want to improve my speaking." {
		t.Errorf("Transcript = %q", got.Transcript)
	}
	if len(got.GrammarIssues) != 1 || got.GrammarIssues[0].Corrected != "I want to improve" {
		t.Errorf("GrammarIssues = %+v", got.GrammarIssues)
	}
	if len(got.CoachingTips) != 2 {
		t.Errorf("CoachingTips = %q", got.CoachingTips)
	}
	if !strings.Contains(got.Overall, "rhythm") {
		t.Errorf("Overall = %q", got.Overall)
	}
}

func TestCoachErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "API key not valid", http.StatusBadRequest)
	}))
	defer srv.Close()

	coach, err := NewCoach(config.Coach{APIKey: "bad", Model: "gemini-2.0-flash", BaseURL: srv.URL, TimeoutSeconds: 5})
	if err != nil {
		t.Fatalf("NewCoach: %v", err)
	}
	_, err = coach.Review(context.Background(), coachTestWave(), coachTestResult())
	if err == nil {
		t.Fatal("Review succeeded against a 400 response")
	}
	if !strings.Contains(err.Error(), "400") || !strings.Contains(err.Error(), "API key not valid") {
		t.Errorf("error = %v, want status and body", err)
	}
}

func TestNewCoachRequiresKey(t *testing.T) {
	if _, err := NewCoach(config.Coach{Model: "gemini-2.0-flash"}); err == nil {
		t.Fatal("NewCoach accepted an empty API key")
	}
}
