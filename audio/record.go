package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"

	"github.com/prosodia/prosody-coach/prosody"
)

const captureBufferFrames = 4096

// Recorder captures microphone input from the default device. Close releases
// the stream and the portaudio runtime.
type Recorder struct {
	rate     int
	channels int
	stream   *portaudio.Stream
	buffer   []float32
}

// NewRecorder initializes portaudio and opens the default input stream.
func NewRecorder(rate, channels int) (*Recorder, error) {
	if rate <= 0 {
		rate = 44100
	}
	if channels < 1 {
		channels = 1
	}
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initialize portaudio: %w", err)
	}
	r := &Recorder{
		rate:     rate,
		channels: channels,
		buffer:   make([]float32, captureBufferFrames*channels),
	}
	stream, err := portaudio.OpenDefaultStream(channels, 0, float64(rate), captureBufferFrames, r.buffer)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("open input stream: %w", err)
	}
	r.stream = stream
	return r, nil
}

// Record captures audio until stop is closed or maxSeconds have been read,
// whichever comes first. Multi-channel input is downmixed to mono.
func (r *Recorder) Record(stop <-chan struct{}, maxSeconds int) (prosody.Waveform, error) {
	if err := r.stream.Start(); err != nil {
		return prosody.Waveform{}, fmt.Errorf("start stream: %w", err)
	}
	defer r.stream.Stop()

	maxSamples := maxSeconds * r.rate
	if maxSamples <= 0 {
		maxSamples = 300 * r.rate
	}

	samples := make([]float64, 0, maxSamples)
	for len(samples) < maxSamples {
		select {
		case <-stop:
			return r.waveform(samples), nil
		default:
		}
		if err := r.stream.Read(); err != nil {
			return prosody.Waveform{}, fmt.Errorf("read stream: %w", err)
		}
		for i := 0; i < captureBufferFrames && len(samples) < maxSamples; i++ {
			var sum float64
			for c := 0; c < r.channels; c++ {
				sum += float64(r.buffer[i*r.channels+c])
			}
			samples = append(samples, sum/float64(r.channels))
		}
	}
	return r.waveform(samples), nil
}

func (r *Recorder) waveform(samples []float64) prosody.Waveform {
	return prosody.Waveform{Samples: samples, SampleRate: r.rate}
}

// Close stops the stream and tears down portaudio.
func (r *Recorder) Close() error {
	if r.stream != nil {
		r.stream.Close()
	}
	return portaudio.Terminate()
}
