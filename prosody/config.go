package prosody

// Config holds every tuning constant of the analysis. Defaults are calibrated
// for natural English speech; all of them can be overridden through the
// application config. The zero value is not usable, start from DefaultConfig.
type Config struct {
	// Framing. The window must hold a few periods of the pitch floor.
	FrameStep   float64 `mapstructure:"frame_step"`   // sec
	FrameWindow float64 `mapstructure:"frame_window"` // sec

	// Pitch tracking.
	PitchFloorHz     float64 `mapstructure:"pitch_floor_hz"`
	PitchCeilingHz   float64 `mapstructure:"pitch_ceiling_hz"`
	VoicingThreshold float64 `mapstructure:"voicing_threshold"` // normalized autocorrelation peak
	MinVoicedFrames  int     `mapstructure:"min_voiced_frames"`

	// Pitch scoring, Hz of observed range.
	PitchGoodRange      float64 `mapstructure:"pitch_good_range"`
	PitchExcellentRange float64 `mapstructure:"pitch_excellent_range"`

	// Volume. Stress contrast is the spread between the loud and quiet
	// syllable-peak percentiles.
	VolumeGoodContrast      float64 `mapstructure:"volume_good_contrast"`      // dB
	VolumeExcellentContrast float64 `mapstructure:"volume_excellent_contrast"` // dB
	SpeechFloorDB           float64 `mapstructure:"speech_floor_db"`           // frames above this count as speech
	StressedPercentile      float64 `mapstructure:"stressed_percentile"`
	UnstressedPercentile    float64 `mapstructure:"unstressed_percentile"`

	// Tempo.
	MinWPM           float64 `mapstructure:"min_wpm"`
	MaxWPM           float64 `mapstructure:"max_wpm"`
	IdealWPM         float64 `mapstructure:"ideal_wpm"`
	SyllablesPerWord float64 `mapstructure:"syllables_per_word"`

	// Rhythm. nPVI band for stress-timed English; Spanish sits near 40.
	RhythmBandLow       float64 `mapstructure:"rhythm_band_low"`
	RhythmBandHigh      float64 `mapstructure:"rhythm_band_high"`
	RhythmSpanishTypic  float64 `mapstructure:"rhythm_spanish_typical"`
	RhythmSlope         float64 `mapstructure:"rhythm_slope"` // score points lost per nPVI unit outside the band
	MinSyllableDuration float64 `mapstructure:"min_syllable_duration"`
	MaxSyllableDuration float64 `mapstructure:"max_syllable_duration"`

	// Segmentation.
	MinSyllableGap    float64 `mapstructure:"min_syllable_gap"`   // sec between accepted nuclei
	NucleusPercentile float64 `mapstructure:"nucleus_percentile"` // height threshold
	ProminenceFactor  float64 `mapstructure:"prominence_factor"`  // x contour stddev
	SilencePercentile float64 `mapstructure:"silence_percentile"` // pause threshold
	SilenceFloorDB    float64 `mapstructure:"silence_floor_db"`   // absolute floor under the percentile

	// Pauses.
	MinPauseDuration   float64 `mapstructure:"min_pause_duration"` // sec
	MaxPauseDuration   float64 `mapstructure:"max_pause_duration"` // sec, longer counts against the score
	GoodPauseRate      float64 `mapstructure:"good_pause_rate"`    // per 30 sec
	ExcellentPauseRate float64 `mapstructure:"excellent_pause_rate"`
}

// DefaultConfig returns the calibrated defaults.
func DefaultConfig() Config {
	return Config{
		FrameStep:   0.010,
		FrameWindow: 0.040,

		PitchFloorHz:     75,
		PitchCeilingHz:   500,
		VoicingThreshold: 0.45,
		MinVoicedFrames:  5,

		PitchGoodRange:      100,
		PitchExcellentRange: 150,

		VolumeGoodContrast:      6,
		VolumeExcellentContrast: 10,
		SpeechFloorDB:           40,
		StressedPercentile:      90,
		UnstressedPercentile:    10,

		MinWPM:           100,
		MaxWPM:           180,
		IdealWPM:         140,
		SyllablesPerWord: 1.4,

		RhythmBandLow:       55,
		RhythmBandHigh:      65,
		RhythmSpanishTypic:  40,
		RhythmSlope:         0.75,
		MinSyllableDuration: 0.05,
		MaxSyllableDuration: 1.0,

		MinSyllableGap:    0.100,
		NucleusPercentile: 30,
		ProminenceFactor:  0.15,
		SilencePercentile: 25,
		SilenceFloorDB:    30,

		MinPauseDuration:   0.2,
		MaxPauseDuration:   2.0,
		GoodPauseRate:      3,
		ExcellentPauseRate: 5,
	}
}
