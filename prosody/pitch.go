package prosody

import (
	"fmt"
	"math"

	"github.com/mjibson/go-dsp/window"
)

// voicelessRMS is the frame energy floor under which no pitch search runs.
const voicelessRMS = 1e-4

// octaveCost biases the lag search toward higher-frequency candidates so a
// strong subharmonic does not pull the track down an octave.
const octaveCost = 0.02

// extractPitch tracks the fundamental frequency frame by frame with a
// Hann-windowed, FFT-accelerated autocorrelation. A frame is voiced when its
// best local autocorrelation peak inside [floor, ceiling] clears the voicing
// threshold; F0 is the sample rate over that lag. Reports
// ErrInsufficientSignal when fewer than MinVoicedFrames frames end up voiced.
func extractPitch(w Waveform, cfg *Config) (PitchContour, error) {
	step, win, frames := framing(len(w.Samples), w.SampleRate, cfg)
	contour := PitchContour{Step: float64(step) / float64(w.SampleRate)}
	if frames == 0 {
		return contour, fmt.Errorf("%w: audio shorter than the analysis window", ErrInsufficientSignal)
	}

	minLag := int(float64(w.SampleRate) / cfg.PitchCeilingHz)
	if minLag < 2 {
		minLag = 2
	}
	maxLag := int(float64(w.SampleRate) / cfg.PitchFloorHz)
	if maxLag > win-2 {
		maxLag = win - 2
	}
	if maxLag <= minLag {
		return contour, fmt.Errorf("%w: sample rate %d cannot resolve %.0f-%.0f Hz",
			ErrInsufficientSignal, w.SampleRate, cfg.PitchFloorHz, cfg.PitchCeilingHz)
	}

	hann := window.Hann(win)
	// The tapered window damps the correlation at long lags; dividing by the
	// window's own autocorrelation undoes that bias.
	winCorr := autocorrelate(hann, maxLag+1)

	frame := make([]float64, win)
	voiced := 0
	for i := 0; i < frames; i++ {
		start := i * step
		pt := PitchPoint{Time: float64(start) / float64(w.SampleRate)}

		copy(frame, w.Samples[start:start+win])
		removeDC(frame)
		if frameRMS(frame) < voicelessRMS {
			contour.Points = append(contour.Points, pt)
			continue
		}
		for j := range frame {
			frame[j] *= hann[j]
		}

		ac := autocorrelate(frame, maxLag+1)
		if ac == nil {
			contour.Points = append(contour.Points, pt)
			continue
		}
		lag, strength := bestLag(ac, winCorr, minLag, maxLag)
		if lag > 0 && strength >= cfg.VoicingThreshold {
			pt.F0 = float64(w.SampleRate) / float64(lag)
			pt.Voiced = true
			voiced++
		}
		contour.Points = append(contour.Points, pt)
	}

	if voiced < cfg.MinVoicedFrames {
		return contour, fmt.Errorf("%w: only %d voiced frames", ErrInsufficientSignal, voiced)
	}
	return contour, nil
}

// bestLag picks the strongest local maximum of the unbiased autocorrelation
// in [minLag, maxLag]. Requiring a local maximum keeps out-of-range
// fundamentals from leaking in through their slowly decaying correlation.
func bestLag(ac, winCorr []float64, minLag, maxLag int) (int, float64) {
	best := math.Inf(-1)
	lag, strength := 0, 0.0
	for l := minLag; l <= maxLag && l+1 < len(ac); l++ {
		if ac[l] < ac[l-1] || ac[l] < ac[l+1] {
			continue
		}
		u := unbias(ac, winCorr, l)
		score := u - octaveCost*math.Log2(float64(l)/float64(minLag))
		if score > best {
			best = score
			lag = l
			strength = u
		}
	}
	return lag, strength
}

func unbias(ac, winCorr []float64, l int) float64 {
	if l >= len(winCorr) || winCorr[l] < 1e-3 {
		return ac[l]
	}
	u := ac[l] / winCorr[l]
	if u > 1 {
		u = 1
	}
	return u
}
