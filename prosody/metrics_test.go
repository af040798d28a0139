package prosody

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func contourAt(step float64, db ...float64) IntensityContour {
	pts := make([]IntensityPoint, len(db))
	for i, v := range db {
		pts[i] = IntensityPoint{Time: float64(i) * step, DB: v}
	}
	return IntensityContour{Points: pts, Step: step}
}

func pitchAt(step float64, f0s ...float64) PitchContour {
	pts := make([]PitchPoint, len(f0s))
	for i, v := range f0s {
		pts[i] = PitchPoint{Time: float64(i) * step, F0: v, Voiced: v > 0}
	}
	return PitchContour{Points: pts, Step: step}
}

func TestNPVI(t *testing.T) {
	cases := []struct {
		name      string
		durations []float64
		want      float64
	}{
		{"equal", []float64{0.2, 0.2, 0.2}, 0},
		{"alternating", []float64{0.05, 0.15, 0.05, 0.15}, 100},
		{"single", []float64{0.3}, 0},
		{"empty", nil, 0},
	}
	for _, c := range cases {
		if got := npvi(c.durations); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("%s: got %v, want %v", c.name, got, c.want)
		}
	}
}

func TestPitchMetric(t *testing.T) {
	cfg := DefaultConfig()
	f := &features{pitch: pitchAt(0.01, 100, 150, 0, 200, 120, 0, 180)}

	m, err := pitchMetric{}.measure(f, &cfg)
	if err != nil {
		t.Fatalf("measure: %v", err)
	}
	if m.value != 100 {
		t.Errorf("range: got %v, want 100", m.value)
	}
	d, ok := m.detail.(PitchDetail)
	if !ok {
		t.Fatalf("detail type %T", m.detail)
	}
	if d.MinHz != 100 || d.MaxHz != 200 || d.MeanHz != 150 {
		t.Errorf("detail: %+v", d)
	}
	if math.Abs(d.StdHz-math.Sqrt(1360)) > 1e-9 {
		t.Errorf("std: got %v", d.StdHz)
	}
	if !strings.Contains(m.feedback, "Limited variation") {
		t.Errorf("feedback: %q", m.feedback)
	}
}

func TestPitchMetricTooFewVoicedFrames(t *testing.T) {
	cfg := DefaultConfig()
	f := &features{pitch: pitchAt(0.01, 150, 150, 0, 150, 150)}

	_, err := pitchMetric{}.measure(f, &cfg)
	if !errors.Is(err, ErrInsufficientSignal) {
		t.Fatalf("got %v, want ErrInsufficientSignal", err)
	}
}

func TestPitchMetricPropagatesExtractionError(t *testing.T) {
	cfg := DefaultConfig()
	f := &features{pitchErr: insufficient("no voiced frames detected")}

	_, err := pitchMetric{}.measure(f, &cfg)
	if !errors.Is(err, ErrInsufficientSignal) {
		t.Fatalf("got %v, want ErrInsufficientSignal", err)
	}
}

func TestVolumeMetric(t *testing.T) {
	cfg := DefaultConfig()
	f := &features{
		intensity: contourAt(0.01, 60, 62, 64, 70, 72),
		seg: Segmentation{Syllables: []Interval{
			{Start: 0, End: 0.01}, {Start: 0.01, End: 0.02}, {Start: 0.02, End: 0.03},
			{Start: 0.03, End: 0.04}, {Start: 0.04, End: 0.05},
		}},
	}

	m, err := volumeMetric{}.measure(f, &cfg)
	if err != nil {
		t.Fatalf("measure: %v", err)
	}
	// P90 of {60,62,64,70,72} is 71.2, P10 is 60.8.
	if math.Abs(m.value-10.4) > 1e-9 {
		t.Errorf("contrast: got %v, want 10.4", m.value)
	}
	d := m.detail.(VolumeDetail)
	if math.Abs(d.MeanDB-65.6) > 1e-9 {
		t.Errorf("mean: got %v, want 65.6", d.MeanDB)
	}
	if math.Abs(d.DynamicRangeDB-11.2) > 1e-9 {
		t.Errorf("dynamic range: got %v, want 11.2", d.DynamicRangeDB)
	}
	if !strings.Contains(m.feedback, "Excellent volume dynamics") {
		t.Errorf("feedback: %q", m.feedback)
	}
}

func TestVolumeMetricNoSpeech(t *testing.T) {
	cfg := DefaultConfig()
	f := &features{intensity: contourAt(0.01, 20, 20, 20)}

	_, err := volumeMetric{}.measure(f, &cfg)
	if !errors.Is(err, ErrInsufficientSignal) {
		t.Fatalf("got %v, want ErrInsufficientSignal", err)
	}
}

func TestSyllablePeaks(t *testing.T) {
	c := contourAt(0.01, 50, 80, 60, 90)
	syl := []Interval{
		{Start: 0, End: 0.02},
		{Start: 0.02, End: 0.04},
		{Start: 1.0, End: 1.1},
	}
	peaks := syllablePeaks(c, syl)
	if len(peaks) != 2 || peaks[0] != 80 || peaks[1] != 90 {
		t.Errorf("got %v, want [80 90]", peaks)
	}
}

func TestTempoMetric(t *testing.T) {
	cfg := DefaultConfig()
	syl := make([]Interval, 20)
	for i := range syl {
		start := 1.0 + float64(i)*0.2
		syl[i] = Interval{Start: start, End: start + 0.1}
	}
	f := &features{
		duration: 10,
		seg: Segmentation{
			Syllables: syl,
			Pauses:    []Interval{{Start: 0, End: 1}, {Start: 5, End: 6}},
		},
	}

	m, err := tempoMetric{}.measure(f, &cfg)
	if err != nil {
		t.Fatalf("measure: %v", err)
	}
	// 20 syllables over 8 s of active speech: 2.5 syl/s, 107 WPM.
	if math.Abs(m.value-2.5*60/1.4) > 1e-9 {
		t.Errorf("wpm: got %v", m.value)
	}
	d := m.detail.(TempoDetail)
	if d.ActiveSec != 8 || math.Abs(d.SyllablesPerSec-2.5) > 1e-9 {
		t.Errorf("detail: %+v", d)
	}
	if !strings.Contains(m.feedback, "Good pace") {
		t.Errorf("feedback: %q", m.feedback)
	}
}

func TestTempoMetricActiveTimeTooShort(t *testing.T) {
	cfg := DefaultConfig()
	f := &features{
		duration: 1,
		seg: Segmentation{
			Syllables: []Interval{{Start: 0.9, End: 0.95}},
			Pauses:    []Interval{{Start: 0, End: 0.9}},
		},
	}

	_, err := tempoMetric{}.measure(f, &cfg)
	if !errors.Is(err, ErrInsufficientSignal) {
		t.Fatalf("got %v, want ErrInsufficientSignal", err)
	}
}

func TestRhythmMetricFiltersOutliers(t *testing.T) {
	cfg := DefaultConfig()
	f := &features{
		duration: 3,
		seg: Segmentation{Syllables: []Interval{
			{Start: 0, End: 0.1},
			{Start: 0.2, End: 1.7}, // too long to be one syllable
			{Start: 2.0, End: 2.1},
			{Start: 2.2, End: 2.3},
		}},
	}

	m, err := rhythmMetric{}.measure(f, &cfg)
	if err != nil {
		t.Fatalf("measure: %v", err)
	}
	if math.Abs(m.value) > 1e-9 {
		t.Errorf("npvi: got %v, want 0", m.value)
	}
	d := m.detail.(RhythmDetail)
	if !d.SyllableTimed {
		t.Error("expected syllable-timed flag")
	}
	if !strings.Contains(m.feedback, "Very syllable-timed") {
		t.Errorf("feedback: %q", m.feedback)
	}
}

func TestRhythmMetricInsufficient(t *testing.T) {
	cfg := DefaultConfig()
	cases := []struct {
		name string
		syl  []Interval
	}{
		{"one syllable", []Interval{{Start: 0, End: 0.1}}},
		{"one survivor after filtering", []Interval{{Start: 0, End: 0.1}, {Start: 0.2, End: 2.5}}},
	}
	for _, c := range cases {
		f := &features{duration: 3, seg: Segmentation{Syllables: c.syl}}
		if _, err := rhythmMetric{}.measure(f, &cfg); !errors.Is(err, ErrInsufficientSignal) {
			t.Errorf("%s: got %v, want ErrInsufficientSignal", c.name, err)
		}
	}
}

func TestPauseMetric(t *testing.T) {
	cfg := DefaultConfig()
	f := &features{
		duration:  30,
		intensity: contourAt(0.01, 50, 50, 50),
		seg: Segmentation{Pauses: []Interval{
			{Start: 1, End: 1.5}, {Start: 10, End: 10.6}, {Start: 20, End: 20.45},
		}},
	}

	m, err := pauseMetric{}.measure(f, &cfg)
	if err != nil {
		t.Fatalf("measure: %v", err)
	}
	if math.Abs(m.value-3) > 1e-9 {
		t.Errorf("rate: got %v, want 3", m.value)
	}
	d := m.detail.(PauseDetail)
	if d.Count != 3 {
		t.Errorf("count: got %d", d.Count)
	}
	if math.Abs(d.TotalSec-1.55) > 1e-9 {
		t.Errorf("total: got %v", d.TotalSec)
	}
	if math.Abs(d.AvgSec-1.55/3) > 1e-9 {
		t.Errorf("avg: got %v", d.AvgSec)
	}
	if math.Abs(d.Ratio-1.55/30) > 1e-9 {
		t.Errorf("ratio: got %v", d.Ratio)
	}
	if !strings.Contains(m.feedback, "Good pause pattern") {
		t.Errorf("feedback: %q", m.feedback)
	}
}

func TestPauseMetricNoPauses(t *testing.T) {
	cfg := DefaultConfig()
	f := &features{duration: 10, intensity: contourAt(0.01, 60, 60, 60)}

	m, err := pauseMetric{}.measure(f, &cfg)
	if err != nil {
		t.Fatalf("measure: %v", err)
	}
	if m.value != 0 {
		t.Errorf("rate: got %v, want 0", m.value)
	}
	if !strings.Contains(m.feedback, "No pauses detected") {
		t.Errorf("feedback: %q", m.feedback)
	}
}

func TestMetricsInOrder(t *testing.T) {
	want := Components()
	got := metricsInOrder()
	if len(got) != len(want) {
		t.Fatalf("got %d metrics, want %d", len(got), len(want))
	}
	for i, m := range got {
		if m.component() != want[i] {
			t.Errorf("position %d: got %s, want %s", i, m.component(), want[i])
		}
	}
}
