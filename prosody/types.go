package prosody

import (
	"errors"
	"fmt"
	"math"
)

// The two failure classes the engine distinguishes. MalformedInput aborts an
// analysis before it starts; InsufficientSignal is carried per component and
// leaves the rest of the result intact.
var (
	ErrMalformedInput     = errors.New("malformed input")
	ErrInsufficientSignal = errors.New("insufficient signal")
)

// Waveform is decoded mono audio with samples normalized to [-1, 1].
// The engine never mutates Samples.
type Waveform struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the waveform length in seconds.
func (w Waveform) Duration() float64 {
	if w.SampleRate <= 0 {
		return 0
	}
	return float64(len(w.Samples)) / float64(w.SampleRate)
}

// Validate rejects input nothing can be measured from: an empty signal, a
// non-positive sample rate, or non-finite samples.
func (w Waveform) Validate() error {
	if len(w.Samples) == 0 {
		return fmt.Errorf("%w: empty waveform", ErrMalformedInput)
	}
	if w.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d", ErrMalformedInput, w.SampleRate)
	}
	for i, s := range w.Samples {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return fmt.Errorf("%w: non-finite sample at index %d", ErrMalformedInput, i)
		}
	}
	return nil
}

// PitchPoint is one frame of the fundamental frequency contour.
type PitchPoint struct {
	Time   float64 // sec
	F0     float64 // Hz, 0 when unvoiced
	Voiced bool
}

// PitchContour is the framewise F0 track, timestamps ascending at Step.
type PitchContour struct {
	Points []PitchPoint
	Step   float64 // sec between frames
}

// VoicedValues returns the F0 values of voiced frames only.
func (c PitchContour) VoicedValues() []float64 {
	var out []float64
	for _, p := range c.Points {
		if p.Voiced {
			out = append(out, p.F0)
		}
	}
	return out
}

// IntensityPoint is one frame of the loudness contour.
type IntensityPoint struct {
	Time float64 // sec
	DB   float64
}

// IntensityContour is the framewise intensity track, aligned with the pitch
// contour frame-for-frame.
type IntensityContour struct {
	Points []IntensityPoint
	Step   float64 // sec between frames
}

// Interval is a half-open [Start, End) span of the recording in seconds.
type Interval struct {
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
}

// Dur returns the interval length in seconds.
func (iv Interval) Dur() float64 { return iv.End - iv.Start }

// Segmentation holds the detected syllable and pause intervals. Both lists
// are ascending and pairwise disjoint.
type Segmentation struct {
	Syllables []Interval
	Pauses    []Interval
}

// Component identifies one of the five prosodic dimensions.
type Component string

const (
	ComponentPitch  Component = "pitch"
	ComponentVolume Component = "volume"
	ComponentTempo  Component = "tempo"
	ComponentRhythm Component = "rhythm"
	ComponentPauses Component = "pauses"
)

// Components lists the five dimensions in their fixed reporting order.
func Components() []Component {
	return []Component{ComponentPitch, ComponentVolume, ComponentTempo, ComponentRhythm, ComponentPauses}
}

// Detail carries the per-component measurement specifics.
type Detail interface{ isDetail() }

type PitchDetail struct {
	MinHz   float64 `json:"min_hz" yaml:"min_hz"`
	MaxHz   float64 `json:"max_hz" yaml:"max_hz"`
	MeanHz  float64 `json:"mean_hz" yaml:"mean_hz"`
	StdHz   float64 `json:"std_hz" yaml:"std_hz"`
	RangeHz float64 `json:"range_hz" yaml:"range_hz"`
}

type VolumeDetail struct {
	MeanDB         float64 `json:"mean_db" yaml:"mean_db"`
	DynamicRangeDB float64 `json:"dynamic_range_db" yaml:"dynamic_range_db"`
	ContrastDB     float64 `json:"stress_contrast_db" yaml:"stress_contrast_db"`
}

type TempoDetail struct {
	SyllablesPerSec float64 `json:"syllables_per_second" yaml:"syllables_per_second"`
	WPM             float64 `json:"estimated_wpm" yaml:"estimated_wpm"`
	ActiveSec       float64 `json:"active_speech_sec" yaml:"active_speech_sec"`
}

type RhythmDetail struct {
	NPVI          float64 `json:"pvi" yaml:"pvi"`
	SyllableTimed bool    `json:"is_syllable_timed" yaml:"is_syllable_timed"`
}

type PauseDetail struct {
	Count     int     `json:"pause_count" yaml:"pause_count"`
	TotalSec  float64 `json:"total_pause_sec" yaml:"total_pause_sec"`
	AvgSec    float64 `json:"avg_pause_duration" yaml:"avg_pause_duration"`
	Ratio     float64 `json:"pause_ratio" yaml:"pause_ratio"`
	RatePer30 float64 `json:"pauses_per_30s" yaml:"pauses_per_30s"`
}

func (PitchDetail) isDetail()  {}
func (VolumeDetail) isDetail() {}
func (TempoDetail) isDetail()  {}
func (RhythmDetail) isDetail() {}
func (PauseDetail) isDetail()  {}

// ComponentScore is one component's outcome: either a scored measurement or
// the reason it could not be taken. Unmeasured components keep Score at zero
// but must never be read as "scored zero"; check Measured.
type ComponentScore struct {
	Component Component `json:"component" yaml:"component"`
	Measured  bool      `json:"measured" yaml:"measured"`
	Reason    string    `json:"reason,omitempty" yaml:"reason,omitempty"`
	Value     float64   `json:"value,omitempty" yaml:"value,omitempty"`
	Score     int       `json:"score,omitempty" yaml:"score,omitempty"`
	Label     string    `json:"label,omitempty" yaml:"label,omitempty"`
	Feedback  string    `json:"feedback,omitempty" yaml:"feedback,omitempty"`
	Detail    Detail    `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Result is a complete analysis: exactly five components in fixed order
// (pitch, volume, tempo, rhythm, pauses) plus the overall score, the mean of
// the measured components rounded to one decimal.
type Result struct {
	Duration   float64          `json:"duration" yaml:"duration"`
	Components []ComponentScore `json:"components" yaml:"components"`
	Overall    float64          `json:"overall_score" yaml:"overall_score"`
}

// Component returns the named component's score entry.
func (r *Result) Component(c Component) ComponentScore {
	for _, cs := range r.Components {
		if cs.Component == c {
			return cs
		}
	}
	return ComponentScore{Component: c}
}
