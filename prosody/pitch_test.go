package prosody

import (
	"errors"
	"math"
	"testing"
)

func tone(sr int, dur, freq, amp float64) Waveform {
	n := int(dur * float64(sr))
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(sr))
	}
	return Waveform{Samples: samples, SampleRate: sr}
}

func TestExtractPitchTone(t *testing.T) {
	cfg := DefaultConfig()
	c, err := extractPitch(tone(16000, 1, 150, 0.5), &cfg)
	if err != nil {
		t.Fatalf("extractPitch: %v", err)
	}
	if len(c.Points) != 97 {
		t.Fatalf("got %d frames, want 97", len(c.Points))
	}
	if c.Step != 0.01 {
		t.Errorf("step: got %v", c.Step)
	}

	voiced := 0
	for i, p := range c.Points {
		if want := float64(i) * 0.01; math.Abs(p.Time-want) > 1e-9 {
			t.Fatalf("frame %d time: got %v, want %v", i, p.Time, want)
		}
		if !p.Voiced {
			continue
		}
		voiced++
		if p.F0 < 148 || p.F0 > 152 {
			t.Errorf("frame %d: F0 %.2f Hz, want near 150", i, p.F0)
		}
	}
	if frac := float64(voiced) / float64(len(c.Points)); frac < 0.9 {
		t.Errorf("voiced fraction %.2f, want >= 0.9", frac)
	}
}

func TestExtractPitchHigherRate(t *testing.T) {
	cfg := DefaultConfig()
	c, err := extractPitch(tone(44100, 1, 200, 0.4), &cfg)
	if err != nil {
		t.Fatalf("extractPitch: %v", err)
	}
	vals := c.VoicedValues()
	if len(vals) == 0 {
		t.Fatal("no voiced frames")
	}
	if m := mean(vals); m < 197 || m > 203 {
		t.Errorf("mean F0 %.2f Hz, want near 200", m)
	}
}

func TestExtractPitchSilence(t *testing.T) {
	cfg := DefaultConfig()
	w := Waveform{Samples: make([]float64, 16000), SampleRate: 16000}
	if _, err := extractPitch(w, &cfg); !errors.Is(err, ErrInsufficientSignal) {
		t.Fatalf("got %v, want ErrInsufficientSignal", err)
	}
}

// A tone below the pitch floor must come out unvoiced, not fold into the
// search range as a spurious estimate.
func TestExtractPitchBelowFloor(t *testing.T) {
	cfg := DefaultConfig()
	if _, err := extractPitch(tone(16000, 1, 50, 0.5), &cfg); !errors.Is(err, ErrInsufficientSignal) {
		t.Fatalf("got %v, want ErrInsufficientSignal", err)
	}
}

func TestExtractPitchTooShort(t *testing.T) {
	cfg := DefaultConfig()
	w := Waveform{Samples: make([]float64, 100), SampleRate: 16000}
	if _, err := extractPitch(w, &cfg); !errors.Is(err, ErrInsufficientSignal) {
		t.Fatalf("got %v, want ErrInsufficientSignal", err)
	}
}
