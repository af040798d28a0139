package prosody

import (
	"math"
	"sort"

	"github.com/mjibson/go-dsp/dsputils"
	"github.com/mjibson/go-dsp/fft"
)

// autocorrelate returns the autocorrelation of frame for lags [0, maxLag],
// normalized so lag 0 equals 1. Zero padding to twice the frame length keeps
// the correlation linear rather than circular. Returns nil for a frame with
// no energy.
func autocorrelate(frame []float64, maxLag int) []float64 {
	n := len(frame)
	if n == 0 || maxLag < 0 {
		return nil
	}
	padded := make([]float64, int(dsputils.NextPowerOf2(uint(2*n))))
	copy(padded, frame)

	spec := fft.FFTReal(padded)
	for i, c := range spec {
		spec[i] = complex(real(c)*real(c)+imag(c)*imag(c), 0)
	}
	corr := fft.IFFT(spec)

	r0 := real(corr[0])
	if r0 <= 0 {
		return nil
	}
	if maxLag > n-1 {
		maxLag = n - 1
	}
	out := make([]float64, maxLag+1)
	for lag := 0; lag <= maxLag; lag++ {
		out[lag] = real(corr[lag]) / r0
	}
	return out
}

// percentile computes the p-th percentile (0-100) with linear interpolation
// between closest ranks.
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// movingAverage smooths x with a centered window of the given radius.
func movingAverage(x []float64, radius int) []float64 {
	if radius <= 0 || len(x) == 0 {
		return append([]float64(nil), x...)
	}
	out := make([]float64, len(x))
	for i := range x {
		lo := i - radius
		if lo < 0 {
			lo = 0
		}
		hi := i + radius
		if hi > len(x)-1 {
			hi = len(x) - 1
		}
		var sum float64
		for j := lo; j <= hi; j++ {
			sum += x[j]
		}
		out[i] = sum / float64(hi-lo+1)
	}
	return out
}

// framing converts the configured step and window to sample counts for the
// given rate and reports how many full windows fit in n samples.
func framing(n, rate int, cfg *Config) (step, win, frames int) {
	step = int(math.Round(cfg.FrameStep * float64(rate)))
	if step < 1 {
		step = 1
	}
	win = int(math.Round(cfg.FrameWindow * float64(rate)))
	if win < 2 {
		win = 2
	}
	if n >= win {
		frames = (n-win)/step + 1
	}
	return step, win, frames
}

func removeDC(frame []float64) {
	m := mean(frame)
	for i := range frame {
		frame[i] -= m
	}
}

func frameRMS(frame []float64) float64 {
	if len(frame) == 0 {
		return 0
	}
	var sum float64
	for _, v := range frame {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(frame)))
}

func mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v
	}
	return sum / float64(len(x))
}

func stddev(x []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	m := mean(x)
	var sum float64
	for _, v := range x {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(x)))
}

func minMax(x []float64) (lo, hi float64) {
	lo, hi = x[0], x[0]
	for _, v := range x[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
