package prosody

import "math"

// overlongPausePenalty is taken off the pause score when the average pause
// exceeds MaxPauseDuration.
const overlongPausePenalty = 2

// band is one graduated segment of a scoring scale: the score at from plus
// slope points per raw unit above it, truncated toward zero.
type band struct {
	from  float64
	base  int
	slope float64
}

// scale maps a raw value onto bands (ordered by descending from) and clamps
// the result. Keeping the bands as data avoids per-component threshold code.
type scale struct {
	bands    []band
	min, max int
}

func (s scale) score(v float64) int {
	for _, b := range s.bands {
		if v >= b.from {
			return clamp(b.base+int(b.slope*(v-b.from)), s.min, s.max)
		}
	}
	return s.min
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// scoreValue maps one measured component onto its 1-10 score.
func scoreValue(comp Component, m measurement, cfg *Config) int {
	switch comp {
	case ComponentPitch:
		return pitchScale(cfg).score(m.value)
	case ComponentVolume:
		return volumeScale(cfg).score(m.value)
	case ComponentTempo:
		return scoreTempo(m.value, cfg)
	case ComponentRhythm:
		return scoreRhythm(m.value, cfg)
	case ComponentPauses:
		s := pauseScale(cfg).score(m.value)
		if d, ok := m.detail.(PauseDetail); ok && d.Count > 0 && d.AvgSec > cfg.MaxPauseDuration {
			s -= overlongPausePenalty
			if s < 1 {
				s = 1
			}
		}
		return s
	}
	return 0
}

func pitchScale(cfg *Config) scale {
	good, exc := cfg.PitchGoodRange, cfg.PitchExcellentRange
	return scale{min: 1, max: 10, bands: []band{
		{exc, 10, 0},
		{good, 7, 3 / (exc - good)},
		{good / 2, 4, 3 / (good - good/2)},
		{0, 0, 4 / (good / 2)},
	}}
}

func volumeScale(cfg *Config) scale {
	good, exc := cfg.VolumeGoodContrast, cfg.VolumeExcellentContrast
	return scale{min: 1, max: 10, bands: []band{
		{exc, 10, 0},
		{good, 7, 3 / (exc - good)},
		{good / 2, 4, 3 / (good - good/2)},
		{0, 0, 4 / (good / 2)},
	}}
}

func pauseScale(cfg *Config) scale {
	good, exc := cfg.GoodPauseRate, cfg.ExcellentPauseRate
	return scale{min: 1, max: 10, bands: []band{
		{exc, 10, 0},
		{good, 7, 3 / (exc - good)},
		{1, 3, 4 / (good - 1)},
		{0, 0, 3},
	}}
}

// Inside the acceptable range the score eases from 10 at the ideal rate down
// to 7. Outside, it continues from 8 at either bound with the same slope on
// both sides, so nothing jumps at the band edges.
func scoreTempo(wpm float64, cfg *Config) int {
	if wpm >= cfg.MinWPM && wpm <= cfg.MaxWPM {
		in := scale{min: 7, max: 10, bands: []band{{0, 10, -1.0 / 20}}}
		return in.score(math.Abs(wpm - cfg.IdealWPM))
	}
	dist := cfg.MinWPM - wpm
	if wpm > cfg.MaxWPM {
		dist = wpm - cfg.MaxWPM
	}
	out := scale{min: 2, max: 10, bands: []band{{0, 8, -1.0 / 15}}}
	return out.score(dist)
}

// Two-sided band: nPVI values equidistant from either edge score the same.
func scoreRhythm(npvi float64, cfg *Config) int {
	var dist float64
	switch {
	case npvi < cfg.RhythmBandLow:
		dist = cfg.RhythmBandLow - npvi
	case npvi > cfg.RhythmBandHigh:
		dist = npvi - cfg.RhythmBandHigh
	}
	s := scale{min: 1, max: 10, bands: []band{{0, 10, -cfg.RhythmSlope}}}
	return s.score(dist)
}

// Labels are shared across components.
var labels = []struct {
	min   int
	label string
}{
	{9, "excellent"},
	{7, "good"},
	{5, "fair"},
	{3, "needs work"},
	{0, "poor"},
}

func labelFor(score int) string {
	for _, l := range labels {
		if score >= l.min {
			return l.label
		}
	}
	return labels[len(labels)-1].label
}

// overallScore is the mean of the measured components, one decimal.
func overallScore(components []ComponentScore) float64 {
	var sum float64
	var n int
	for _, c := range components {
		if c.Measured {
			sum += float64(c.Score)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return math.Round(sum/float64(n)*10) / 10
}
