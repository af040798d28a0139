package prosody

import (
	"fmt"
	"math"
)

// minActiveSpeech is the least active speaking time a tempo estimate needs.
const minActiveSpeech = 0.2 // sec

// features is everything the metric calculators read: the two contours, the
// segmentation, and the waveform duration. Computed once per analysis.
type features struct {
	duration  float64
	pitch     PitchContour
	pitchErr  error
	intensity IntensityContour
	seg       Segmentation
}

// measurement is a successful metric outcome before scoring.
type measurement struct {
	value    float64
	feedback string
	detail   Detail
}

// metric measures one prosodic component. Implementations return a wrapped
// ErrInsufficientSignal when the audio does not support the measurement; the
// other components are unaffected.
type metric interface {
	component() Component
	measure(f *features, cfg *Config) (measurement, error)
}

func metricsInOrder() []metric {
	return []metric{pitchMetric{}, volumeMetric{}, tempoMetric{}, rhythmMetric{}, pauseMetric{}}
}

func insufficient(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInsufficientSignal}, args...)...)
}

type pitchMetric struct{}

func (pitchMetric) component() Component { return ComponentPitch }

func (pitchMetric) measure(f *features, cfg *Config) (measurement, error) {
	if f.pitchErr != nil {
		return measurement{}, f.pitchErr
	}
	voiced := f.pitch.VoicedValues()
	if len(voiced) < cfg.MinVoicedFrames {
		return measurement{}, insufficient("only %d voiced frames", len(voiced))
	}
	lo, hi := minMax(voiced)
	rng := hi - lo
	d := PitchDetail{MinHz: lo, MaxHz: hi, MeanHz: mean(voiced), StdHz: stddev(voiced), RangeHz: rng}
	var fb string
	switch {
	case rng < cfg.PitchGoodRange/2:
		fb = fmt.Sprintf("Very monotone. Range: %.0f Hz. Aim for 100+ Hz variation.", rng)
	case rng < cfg.PitchGoodRange:
		fb = fmt.Sprintf("Limited variation. Range: %.0f Hz. Native speakers use 100-150 Hz.", rng)
	case rng < cfg.PitchExcellentRange:
		fb = fmt.Sprintf("Good range: %.0f Hz. Push for more variation on key words.", rng)
	default:
		fb = fmt.Sprintf("Excellent pitch variation: %.0f Hz.", rng)
	}
	return measurement{value: rng, feedback: fb, detail: d}, nil
}

type volumeMetric struct{}

func (volumeMetric) component() Component { return ComponentVolume }

func (volumeMetric) measure(f *features, cfg *Config) (measurement, error) {
	if len(f.seg.Syllables) == 0 {
		return measurement{}, insufficient("no speech detected")
	}
	peaks := syllablePeaks(f.intensity, f.seg.Syllables)
	contrast := percentile(peaks, cfg.StressedPercentile) - percentile(peaks, cfg.UnstressedPercentile)

	var speech []float64
	for _, p := range f.intensity.Points {
		if p.DB > cfg.SpeechFloorDB {
			speech = append(speech, p.DB)
		}
	}
	d := VolumeDetail{ContrastDB: contrast}
	if len(speech) > 0 {
		d.MeanDB = mean(speech)
		d.DynamicRangeDB = percentile(speech, 95) - percentile(speech, 5)
	}
	var fb string
	switch {
	case contrast < cfg.VolumeGoodContrast/2:
		fb = fmt.Sprintf("Very flat volume. Stress contrast: %.1f dB. Aim for 6+ dB.", contrast)
	case contrast < cfg.VolumeGoodContrast:
		fb = fmt.Sprintf("Low stress contrast: %.1f dB. Emphasize key words more.", contrast)
	case contrast < cfg.VolumeExcellentContrast:
		fb = fmt.Sprintf("Good volume variation: %.1f dB. Keep emphasizing key points.", contrast)
	default:
		fb = fmt.Sprintf("Excellent volume dynamics: %.1f dB.", contrast)
	}
	return measurement{value: contrast, feedback: fb, detail: d}, nil
}

// syllablePeaks is the loudest frame inside each syllable interval.
func syllablePeaks(c IntensityContour, syllables []Interval) []float64 {
	peaks := make([]float64, 0, len(syllables))
	i := 0
	for _, iv := range syllables {
		for i < len(c.Points) && c.Points[i].Time < iv.Start {
			i++
		}
		peak := math.Inf(-1)
		j := i
		for j < len(c.Points) && c.Points[j].Time < iv.End {
			if c.Points[j].DB > peak {
				peak = c.Points[j].DB
			}
			j++
		}
		if !math.IsInf(peak, -1) {
			peaks = append(peaks, peak)
		}
		i = j
	}
	return peaks
}

type tempoMetric struct{}

func (tempoMetric) component() Component { return ComponentTempo }

func (tempoMetric) measure(f *features, cfg *Config) (measurement, error) {
	count := len(f.seg.Syllables)
	if count == 0 {
		return measurement{}, insufficient("no speech detected")
	}
	var pauseTotal float64
	for _, p := range f.seg.Pauses {
		pauseTotal += p.Dur()
	}
	// Rate over active speaking time, so long pauses do not read as slow speech.
	active := f.duration - pauseTotal
	if active < minActiveSpeech {
		return measurement{}, insufficient("active speech too short for tempo analysis")
	}
	sps := float64(count) / active
	wpm := sps * 60 / cfg.SyllablesPerWord
	d := TempoDetail{SyllablesPerSec: sps, WPM: wpm, ActiveSec: active}
	var fb string
	switch {
	case wpm < cfg.MinWPM:
		fb = fmt.Sprintf("Too slow: %.0f WPM. Target: 130-160 WPM.", wpm)
	case wpm > cfg.MaxWPM:
		fb = fmt.Sprintf("Too fast: %.0f WPM. Slow down for clarity.", wpm)
	default:
		fb = fmt.Sprintf("Good pace: %.0f WPM.", wpm)
	}
	return measurement{value: wpm, feedback: fb, detail: d}, nil
}

type rhythmMetric struct{}

func (rhythmMetric) component() Component { return ComponentRhythm }

func (rhythmMetric) measure(f *features, cfg *Config) (measurement, error) {
	if len(f.seg.Syllables) < 2 {
		return measurement{}, insufficient("not enough syllables for rhythm analysis")
	}
	var durations []float64
	for _, iv := range f.seg.Syllables {
		if d := iv.Dur(); d >= cfg.MinSyllableDuration && d <= cfg.MaxSyllableDuration {
			durations = append(durations, d)
		}
	}
	if len(durations) < 2 {
		return measurement{}, insufficient("syllable durations out of measurable range")
	}
	v := npvi(durations)
	d := RhythmDetail{NPVI: v, SyllableTimed: v < cfg.RhythmBandLow}
	var fb string
	switch {
	case v < cfg.RhythmSpanishTypic:
		fb = fmt.Sprintf("Very syllable-timed (PVI: %.0f). Compress unstressed syllables more.", v)
	case v < cfg.RhythmBandLow:
		fb = fmt.Sprintf("Spanish rhythm pattern (PVI: %.0f). Target: %.0f-%.0f. Reduce unstressed syllables.", v, cfg.RhythmBandLow, cfg.RhythmBandHigh)
	case v <= cfg.RhythmBandHigh:
		fb = fmt.Sprintf("Native-like rhythm (PVI: %.0f). Excellent stress-timing.", v)
	default:
		fb = fmt.Sprintf("Overly stress-timed (PVI: %.0f). Aim back toward %.0f-%.0f.", v, cfg.RhythmBandLow, cfg.RhythmBandHigh)
	}
	return measurement{value: v, feedback: fb, detail: d}, nil
}

// npvi is the normalized Pairwise Variability Index: the mean over adjacent
// duration pairs of |d1-d2| / ((d1+d2)/2), scaled by 100. Equal durations
// give 0; perfectly alternating 50/150 ms gives 100.
func npvi(durations []float64) float64 {
	if len(durations) < 2 {
		return 0
	}
	var sum float64
	for i := 0; i < len(durations)-1; i++ {
		a, b := durations[i], durations[i+1]
		if m := (a + b) / 2; m > 0 {
			sum += math.Abs(a-b) / m
		}
	}
	return 100 * sum / float64(len(durations)-1)
}

type pauseMetric struct{}

func (pauseMetric) component() Component { return ComponentPauses }

func (pauseMetric) measure(f *features, cfg *Config) (measurement, error) {
	if len(f.intensity.Points) == 0 {
		return measurement{}, insufficient("audio shorter than the analysis window")
	}
	count := len(f.seg.Pauses)
	var total float64
	for _, p := range f.seg.Pauses {
		total += p.Dur()
	}
	avg := 0.0
	if count > 0 {
		avg = total / float64(count)
	}
	rate := float64(count) / f.duration * 30
	d := PauseDetail{Count: count, TotalSec: total, AvgSec: avg, Ratio: total / f.duration, RatePer30: rate}
	var fb string
	switch {
	case count == 0:
		fb = "No pauses detected. Add strategic pauses before key points."
	case count < 3:
		fb = fmt.Sprintf("%d pause(s) detected. Add more pauses for emphasis and breathing.", count)
	case avg > cfg.MaxPauseDuration:
		fb = fmt.Sprintf("Pauses too long (avg: %.1fs). Keep pauses 0.5-1.5s.", avg)
	case rate >= cfg.ExcellentPauseRate:
		fb = fmt.Sprintf("Excellent pause usage: %d pauses, avg %.1fs.", count, avg)
	default:
		fb = fmt.Sprintf("Good pause pattern: %d pauses. Consider adding more before important points.", count)
	}
	return measurement{value: rate, feedback: fb, detail: d}, nil
}
