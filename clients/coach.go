// Package clients talks to the external services the coach depends on.
package clients

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/prosodia/prosody-coach/audio"
	"github.com/prosodia/prosody-coach/config"
	"github.com/prosodia/prosody-coach/prosody"
)

// GrammarIssue is one correction the coach suggests.
type GrammarIssue struct {
	Original    string
	Corrected   string
	Explanation string
}

// CoachResult is the structured coaching feedback for one recording.
type CoachResult struct {
	Transcript        string
	GrammarIssues     []GrammarIssue
	SuggestedRevision string
	CoachingTips      []string
	Overall           string
}

// Coach sends recordings to the Gemini generateContent endpoint for
// transcription and language feedback.
type Coach struct {
	http *http.Client
	cfg  config.Coach
}

func NewCoach(cfg config.Coach) (*Coach, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("GEMINI_API_KEY not set: export it or set coach.api_key in the config file")
	}
	if cfg.TimeoutSeconds <= 0 {
		cfg.TimeoutSeconds = 60
	}
	return &Coach{http: &http.Client{Timeout: cfg.Timeout()}, cfg: cfg}, nil
}

// Review sends free speech for coaching against the measured prosody.
func (c *Coach) Review(ctx context.Context, w prosody.Waveform, res *prosody.Result) (*CoachResult, error) {
	return c.generate(ctx, w, coachingPrompt(res))
}

// ReviewPractice sends a practice reading to be compared against the text the
// speaker was asked to read.
func (c *Coach) ReviewPractice(ctx context.Context, w prosody.Waveform, res *prosody.Result, expected string) (*CoachResult, error) {
	return c.generate(ctx, w, practicePrompt(res, expected))
}

type genPart struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}
type inlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}
type genContent struct {
	Role  string    `json:"role"`
	Parts []genPart `json:"parts"`
}
type genConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}
type genRequest struct {
	Contents         []genContent `json:"contents"`
	GenerationConfig genConfig    `json:"generationConfig"`
}
type genResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (c *Coach) generate(ctx context.Context, w prosody.Waveform, prompt string) (*CoachResult, error) {
	b64, err := wavBase64(w)
	if err != nil {
		return nil, fmt.Errorf("encode audio: %w", err)
	}

	payload, err := json.Marshal(genRequest{
		Contents: []genContent{{
			Role: "user",
			Parts: []genPart{
				{InlineData: &inlineData{MIMEType: "audio/wav", Data: b64}},
				{Text: prompt},
			},
		}},
		GenerationConfig: genConfig{
			Temperature:     c.cfg.Temperature,
			MaxOutputTokens: c.cfg.MaxTokens,
		},
	})
	if err != nil {
		return nil, err
	}

	url := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/v1beta/models/" + c.cfg.Model + ":generateContent"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("coach %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var out genResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("coach decode: %w", err)
	}
	text := responseText(out)
	if text == "" {
		return nil, errors.New("coach: empty response")
	}
	result := parseCoachResponse(text)
	return &result, nil
}

func responseText(resp genResponse) string {
	var b strings.Builder
	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}

// wavBase64 round-trips the waveform through a temp WAV file so the model
// receives a well-formed container, not raw samples.
func wavBase64(w prosody.Waveform) (string, error) {
	f, err := os.CreateTemp("", "prosody-coach-*.wav")
	if err != nil {
		return "", err
	}
	path := f.Name()
	f.Close()
	defer os.Remove(path)

	if err := audio.SaveWAV(path, w); err != nil {
		return "", err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

func coachingPrompt(res *prosody.Result) string {
	return fmt.Sprintf(`You are an English speech coach helping a Spanish speaker improve their English communication.

TASK: Analyze this audio recording and provide detailed feedback.

PROSODY ANALYSIS RESULTS (already measured):
%s

Please provide your response in this EXACT format:

TRANSCRIPT:
[Write the exact transcription of what was said]

GRAMMAR_ISSUES:
[List each grammar issue on a new line in this format: "original text" -> "corrected text" | explanation]
[If no issues, write: None]

SUGGESTED_REVISION:
[Write a polished version of what was said, fixing grammar and making it more natural]

COACHING_TIPS:
[List 3-5 specific, actionable tips based on the prosody scores and the content. Focus on:]
[1. The lowest prosody score area]
[2. Any grammar patterns common for Spanish speakers]
[3. Word choice or phrasing improvements]
[4. Specific moments in the recording that could be improved]

OVERALL:
[One paragraph summary of strengths and the #1 thing to focus on improving]
`, prosodyBlock(res))
}

func practicePrompt(res *prosody.Result, expected string) string {
	return fmt.Sprintf(`You are an English speech coach helping a Spanish speaker improve their English communication.

TASK: The user was asked to read the following text aloud. Analyze their reading.

EXPECTED TEXT (what they should have read):
"%s"

PROSODY ANALYSIS RESULTS (already measured):
%s

Please provide your response in this EXACT format:

TRANSCRIPT:
[Write the exact transcription of what the user actually said]

GRAMMAR_ISSUES:
[Compare the transcript to the expected text. List any differences:]
[- Words that were skipped or added]
[- Words that were mispronounced (write: "said X" -> "should be Y" | explanation)]
[- If they read it perfectly, write: None]

SUGGESTED_REVISION:
[If they made mistakes, show the correct text with pronunciation tips]
[If they read it correctly, write: "Excellent! You read the text correctly."]

COACHING_TIPS:
[List 3-5 specific tips based on:]
[1. Pronunciation errors (specific sounds or words that need work)]
[2. The lowest prosody score - how to improve it for THIS specific text]
[3. Word stress patterns in the text they read]
[4. Intonation patterns appropriate for this text]
[5. Where to place pauses in this text]

OVERALL:
[Evaluate their reading: Did they read the correct text? How was their pronunciation? What's the #1 thing to practice?]
`, expected, prosodyBlock(res))
}

func prosodyBlock(res *prosody.Result) string {
	pitch := res.Component(prosody.ComponentPitch)
	volume := res.Component(prosody.ComponentVolume)
	tempo := res.Component(prosody.ComponentTempo)
	rhythm := res.Component(prosody.ComponentRhythm)
	pauses := res.Component(prosody.ComponentPauses)

	var wpm, pvi float64
	if d, ok := tempo.Detail.(prosody.TempoDetail); ok {
		wpm = d.WPM
	}
	if d, ok := rhythm.Detail.(prosody.RhythmDetail); ok {
		pvi = d.NPVI
	}

	return fmt.Sprintf(`- Pitch: %d/10 - %s
- Volume: %d/10 - %s
- Tempo: %d/10 - Speed: %.0f WPM. %s
- Rhythm: %d/10 - PVI: %.0f. %s
- Pauses: %d/10 - %s`,
		pitch.Score, feedbackLine(pitch),
		volume.Score, feedbackLine(volume),
		tempo.Score, wpm, feedbackLine(tempo),
		rhythm.Score, pvi, feedbackLine(rhythm),
		pauses.Score, feedbackLine(pauses))
}

func feedbackLine(cs prosody.ComponentScore) string {
	if cs.Feedback != "" {
		return cs.Feedback
	}
	if cs.Reason != "" {
		return "not measured: " + cs.Reason
	}
	return ""
}

const maxCoachingTips = 5

var coachSections = []string{
	"TRANSCRIPT:",
	"GRAMMAR_ISSUES:",
	"SUGGESTED_REVISION:",
	"COACHING_TIPS:",
	"OVERALL:",
}

// parseCoachResponse splits the model's sectioned reply. Missing or malformed
// sections come back empty rather than failing the whole review.
func parseCoachResponse(text string) CoachResult {
	sections := make(map[string]*strings.Builder, len(coachSections))
	for _, key := range coachSections {
		sections[key] = &strings.Builder{}
	}

	var current string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		stripped := strings.TrimSpace(line)
		header := false
		for _, key := range coachSections {
			if strings.HasPrefix(stripped, key) {
				current = key
				if rest := strings.TrimSpace(stripped[len(key):]); rest != "" {
					sections[key].WriteString(rest)
					sections[key].WriteString("\n")
				}
				header = true
				break
			}
		}
		if !header && current != "" {
			sections[current].WriteString(line)
			sections[current].WriteString("\n")
		}
	}

	return CoachResult{
		Transcript:        strings.TrimSpace(sections["TRANSCRIPT:"].String()),
		GrammarIssues:     parseGrammarIssues(sections["GRAMMAR_ISSUES:"].String()),
		SuggestedRevision: strings.TrimSpace(sections["SUGGESTED_REVISION:"].String()),
		CoachingTips:      parseCoachingTips(sections["COACHING_TIPS:"].String()),
		Overall:           strings.TrimSpace(sections["OVERALL:"].String()),
	}
}

func parseGrammarIssues(text string) []GrammarIssue {
	text = strings.TrimSpace(text)
	if text == "" || strings.EqualFold(text, "none") {
		return nil
	}
	var issues []GrammarIssue
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "[") {
			continue
		}
		parts := strings.Split(line, "->")
		if len(parts) < 2 {
			continue
		}
		rest := parts[1]
		corrected, explanation := rest, ""
		if i := strings.Index(rest, "|"); i >= 0 {
			corrected, explanation = rest[:i], rest[i+1:]
		}
		issues = append(issues, GrammarIssue{
			Original:    strings.Trim(strings.TrimSpace(parts[0]), `"`),
			Corrected:   strings.Trim(strings.TrimSpace(corrected), `"`),
			Explanation: strings.TrimSpace(explanation),
		})
	}
	return issues
}

func parseCoachingTips(text string) []string {
	var tips []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "[") {
			continue
		}
		if line = stripBullet(line); line != "" {
			tips = append(tips, line)
		}
		if len(tips) == maxCoachingTips {
			break
		}
	}
	return tips
}

func stripBullet(line string) string {
	if len(line) >= 2 && line[0] >= '0' && line[0] <= '9' && (line[1] == '.' || line[1] == ')') {
		return strings.TrimSpace(line[2:])
	}
	switch r, size := utf8.DecodeRuneInString(line); r {
	case '-', '•', '*':
		return strings.TrimSpace(line[size:])
	}
	return line
}
