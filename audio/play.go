package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"

	"github.com/prosodia/prosody-coach/prosody"
)

// Play writes the waveform to the default output device and blocks until it
// has been played in full.
func Play(w prosody.Waveform) error {
	if err := w.Validate(); err != nil {
		return err
	}
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initialize portaudio: %w", err)
	}
	defer portaudio.Terminate()

	buffer := make([]float32, captureBufferFrames)
	stream, err := portaudio.OpenDefaultStream(0, 1, float64(w.SampleRate), captureBufferFrames, buffer)
	if err != nil {
		return fmt.Errorf("open output stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("start stream: %w", err)
	}
	defer stream.Stop()

	for off := 0; off < len(w.Samples); off += captureBufferFrames {
		n := len(w.Samples) - off
		if n > captureBufferFrames {
			n = captureBufferFrames
		}
		for i := 0; i < n; i++ {
			buffer[i] = float32(w.Samples[off+i])
		}
		for i := n; i < captureBufferFrames; i++ {
			buffer[i] = 0
		}
		if err := stream.Write(); err != nil {
			return fmt.Errorf("write stream: %w", err)
		}
	}
	return nil
}
