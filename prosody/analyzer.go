// Package prosody measures five components of speech prosody from a mono
// waveform: pitch variation, volume dynamics, speaking tempo, syllable
// rhythm, and pause usage. Each component gets a 1-10 score and feedback;
// components the audio cannot support are reported unmeasured with a reason
// instead of a fabricated score.
package prosody

import (
	"errors"
	"strings"
)

// Analyzer runs the analysis pipeline. It holds only configuration and is
// safe for concurrent use.
type Analyzer struct {
	cfg Config
}

// New returns an Analyzer with the given configuration.
func New(cfg Config) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Analyze runs the default pipeline over the waveform.
func Analyze(w Waveform) (*Result, error) {
	return New(DefaultConfig()).Analyze(w)
}

// Analyze validates the waveform, extracts the pitch and intensity contours,
// segments syllables and pauses, and measures and scores the five components
// in their fixed order. Deterministic: the same waveform and config always
// produce the same result.
func (a *Analyzer) Analyze(w Waveform) (*Result, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	intensity := extractIntensity(w, &a.cfg)
	pitch, pitchErr := extractPitch(w, &a.cfg)
	if pitchErr != nil && !errors.Is(pitchErr, ErrInsufficientSignal) {
		return nil, pitchErr
	}
	seg := segmentSpeech(intensity, &a.cfg)

	f := &features{
		duration:  w.Duration(),
		pitch:     pitch,
		pitchErr:  pitchErr,
		intensity: intensity,
		seg:       seg,
	}

	res := &Result{
		Duration:   f.duration,
		Components: make([]ComponentScore, 0, 5),
	}
	for _, m := range metricsInOrder() {
		cs, err := a.runMetric(m, f)
		if err != nil {
			return nil, err
		}
		res.Components = append(res.Components, cs)
	}
	res.Overall = overallScore(res.Components)
	return res, nil
}

func (a *Analyzer) runMetric(m metric, f *features) (ComponentScore, error) {
	meas, err := m.measure(f, &a.cfg)
	if err != nil {
		if !errors.Is(err, ErrInsufficientSignal) {
			return ComponentScore{}, err
		}
		return ComponentScore{Component: m.component(), Reason: reasonOf(err)}, nil
	}
	score := scoreValue(m.component(), meas, &a.cfg)
	return ComponentScore{
		Component: m.component(),
		Measured:  true,
		Value:     meas.value,
		Score:     score,
		Label:     labelFor(score),
		Feedback:  meas.feedback,
		Detail:    meas.detail,
	}, nil
}

func reasonOf(err error) string {
	return strings.TrimPrefix(err.Error(), ErrInsufficientSignal.Error()+": ")
}
