package prosody

import (
	"math"
	"sort"
)

const (
	// smoothRadius is the moving-average half-width applied before peak picking.
	smoothRadius = 1
	// prominenceWindowSec bounds the saddle search around a candidate nucleus.
	prominenceWindowSec = 0.5
)

// segmentSpeech derives syllable and pause intervals from the intensity
// contour. Pure function of its inputs: the same contour always yields the
// same segmentation.
func segmentSpeech(c IntensityContour, cfg *Config) Segmentation {
	n := len(c.Points)
	if n == 0 {
		return Segmentation{}
	}
	db := make([]float64, n)
	for i, p := range c.Points {
		db[i] = p.DB
	}
	smoothed := movingAverage(db, smoothRadius)

	// The absolute floor keeps an all-silent contour silent; the percentile
	// of a constant contour is the constant itself.
	silence := percentile(db, cfg.SilencePercentile)
	if silence < cfg.SilenceFloorDB {
		silence = cfg.SilenceFloorDB
	}

	nuclei := findNuclei(smoothed, c.Step, cfg)
	return Segmentation{
		Syllables: syllableIntervals(smoothed, nuclei, silence, c),
		Pauses:    pauseIntervals(db, silence, c, cfg),
	}
}

// findNuclei picks syllable nuclei: strict local maxima above the height
// threshold with enough topographic prominence, debounced so no two survive
// within MinSyllableGap. Candidates are accepted tallest first, which is how
// a distance-constrained peak picker resolves conflicts.
func findNuclei(x []float64, stepSec float64, cfg *Config) []int {
	n := len(x)
	if n < 3 {
		return nil
	}
	height := percentile(x, cfg.NucleusPercentile)
	minProm := cfg.ProminenceFactor * stddev(x)
	promWin := int(math.Round(prominenceWindowSec / stepSec))
	if promWin < 1 {
		promWin = 1
	}

	var cands []int
	for i := 1; i < n-1; i++ {
		if x[i] < height || x[i] <= x[i-1] || x[i] < x[i+1] {
			continue
		}
		if prominence(x, i, promWin) < minProm {
			continue
		}
		cands = append(cands, i)
	}

	minGap := int(math.Round(cfg.MinSyllableGap / stepSec))
	if minGap < 1 {
		minGap = 1
	}
	sort.SliceStable(cands, func(a, b int) bool { return x[cands[a]] > x[cands[b]] })
	var accepted []int
	for _, p := range cands {
		ok := true
		for _, q := range accepted {
			d := p - q
			if d < 0 {
				d = -d
			}
			if d < minGap {
				ok = false
				break
			}
		}
		if ok {
			accepted = append(accepted, p)
		}
	}
	sort.Ints(accepted)
	return accepted
}

// prominence is the height of x[peak] above the higher of the two saddles
// separating it from taller ground, searched within a bounded neighborhood.
func prominence(x []float64, peak, win int) float64 {
	v := x[peak]
	lo := peak - win
	if lo < 0 {
		lo = 0
	}
	hi := peak + win
	if hi > len(x)-1 {
		hi = len(x) - 1
	}
	left := v
	for j := peak - 1; j >= lo; j-- {
		if x[j] > v {
			break
		}
		if x[j] < left {
			left = x[j]
		}
	}
	right := v
	for j := peak + 1; j <= hi; j++ {
		if x[j] > v {
			break
		}
		if x[j] < right {
			right = x[j]
		}
	}
	saddle := left
	if right > saddle {
		saddle = right
	}
	return v - saddle
}

// syllableIntervals expands each nucleus into the span where the smoothed
// contour stays above the silence threshold, never crossing the midpoint
// toward a neighboring nucleus. Intervals come out ascending and disjoint.
func syllableIntervals(x []float64, nuclei []int, silence float64, c IntensityContour) []Interval {
	out := make([]Interval, 0, len(nuclei))
	for k, p := range nuclei {
		lo := 0
		if k > 0 {
			lo = (nuclei[k-1]+p)/2 + 1
		}
		hi := len(x) - 1
		if k < len(nuclei)-1 {
			hi = (p + nuclei[k+1]) / 2
		}
		s, e := p, p
		for s > lo && x[s-1] >= silence {
			s--
		}
		for e < hi && x[e+1] >= silence {
			e++
		}
		out = append(out, Interval{
			Start: c.Points[s].Time,
			End:   c.Points[e].Time + c.Step,
		})
	}
	return out
}

// pauseIntervals finds the maximal sub-threshold runs lasting at least
// MinPauseDuration, leading and trailing silence included.
func pauseIntervals(db []float64, silence float64, c IntensityContour, cfg *Config) []Interval {
	var out []Interval
	runStart := -1
	for i, v := range db {
		if v < silence {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		if runStart >= 0 {
			iv := Interval{Start: c.Points[runStart].Time, End: c.Points[i].Time}
			if iv.Dur() >= cfg.MinPauseDuration {
				out = append(out, iv)
			}
			runStart = -1
		}
	}
	if runStart >= 0 {
		iv := Interval{Start: c.Points[runStart].Time, End: c.Points[len(db)-1].Time + c.Step}
		if iv.Dur() >= cfg.MinPauseDuration {
			out = append(out, iv)
		}
	}
	return out
}
