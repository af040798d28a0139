package prosody

import "math"

// Intensity is expressed in dB against the standard auditory reference, so a
// full-scale signal sits near 94 dB and conversational speech in the 40-80 dB
// band the thresholds are calibrated for.
const (
	dbReference = 2e-5
	rmsFloor    = 1e-10
)

// extractIntensity computes the framewise RMS loudness contour, aligned with
// the pitch contour frame-for-frame. Silent frames map to a finite floor.
func extractIntensity(w Waveform, cfg *Config) IntensityContour {
	step, win, frames := framing(len(w.Samples), w.SampleRate, cfg)
	contour := IntensityContour{Step: float64(step) / float64(w.SampleRate)}
	if frames == 0 {
		return contour
	}

	contour.Points = make([]IntensityPoint, 0, frames)
	for i := 0; i < frames; i++ {
		start := i * step
		rms := frameRMS(w.Samples[start : start+win])
		if rms < rmsFloor {
			rms = rmsFloor
		}
		contour.Points = append(contour.Points, IntensityPoint{
			Time: float64(start) / float64(w.SampleRate),
			DB:   20 * math.Log10(rms/dbReference),
		})
	}
	return contour
}
