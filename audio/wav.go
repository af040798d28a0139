// Package audio moves waveforms in and out of the process: WAV files, other
// formats through ffmpeg, and the microphone and speakers through portaudio.
package audio

import (
	"errors"
	"fmt"
	"os"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/prosodia/prosody-coach/prosody"
)

// LoadWAV decodes a PCM WAV file into a mono waveform in [-1, 1].
// Multi-channel audio is downmixed by averaging the channels.
func LoadWAV(path string) (prosody.Waveform, error) {
	f, err := os.Open(path)
	if err != nil {
		return prosody.Waveform{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return prosody.Waveform{}, fmt.Errorf("%s: not a valid WAV file", path)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return prosody.Waveform{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return fromPCMBuffer(buf)
}

func fromPCMBuffer(buf *gaudio.IntBuffer) (prosody.Waveform, error) {
	if buf == nil || buf.Format == nil || len(buf.Data) == 0 {
		return prosody.Waveform{}, errors.New("empty PCM buffer")
	}
	ch := buf.Format.NumChannels
	if ch < 1 {
		ch = 1
	}
	depth := buf.SourceBitDepth
	if depth <= 0 {
		depth = 16
	}
	scale := float64(int64(1) << (depth - 1))

	n := len(buf.Data) / ch
	samples := make([]float64, n)
	for i := 0; i < n; i++ {
		var sum float64
		for c := 0; c < ch; c++ {
			sum += float64(buf.Data[i*ch+c])
		}
		samples[i] = sum / float64(ch) / scale
	}
	return prosody.Waveform{Samples: samples, SampleRate: buf.Format.SampleRate}, nil
}

// SaveWAV writes the waveform as 16-bit mono PCM.
func SaveWAV(path string, w prosody.Waveform) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	enc := wav.NewEncoder(f, w.SampleRate, 16, 1, 1)
	data := make([]int, len(w.Samples))
	for i, s := range w.Samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		data[i] = int(s * 32767)
	}
	buf := &gaudio.IntBuffer{
		Format:         &gaudio.Format{NumChannels: 1, SampleRate: w.SampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalize %s: %w", path, err)
	}
	return f.Close()
}
