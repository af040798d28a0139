package audio

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/prosodia/prosody-coach/prosody"
)

// Load reads an audio file of any common format. WAV is decoded natively;
// everything else goes through ffmpeg at the given target rate.
func Load(path string, targetRate int) (prosody.Waveform, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		return LoadWAV(path)
	}
	return loadViaFFmpeg(path, targetRate)
}

// loadViaFFmpeg converts path to a temporary mono 16-bit WAV and decodes that.
func loadViaFFmpeg(path string, rate int) (prosody.Waveform, error) {
	if _, err := os.Stat(path); err != nil {
		return prosody.Waveform{}, fmt.Errorf("input file: %w", err)
	}
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return prosody.Waveform{}, fmt.Errorf("decoding %s needs ffmpeg on PATH: %w", filepath.Ext(path), err)
	}
	if rate <= 0 {
		rate = 44100
	}

	tmp, err := os.CreateTemp("", "prosody-*.wav")
	if err != nil {
		return prosody.Waveform{}, fmt.Errorf("temp file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	cmd := exec.Command("ffmpeg",
		"-y",
		"-i", path,
		"-ac", "1",
		"-ar", strconv.Itoa(rate),
		"-c:a", "pcm_s16le",
		tmpPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return prosody.Waveform{}, fmt.Errorf("ffmpeg convert %s: %w: %s", path, err, strings.TrimSpace(string(out)))
	}
	return LoadWAV(tmpPath)
}
