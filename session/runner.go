// Package session runs the record-analyze-persist flow shared by the CLI
// commands.
package session

import (
	"bufio"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/prosodia/prosody-coach/audio"
	"github.com/prosodia/prosody-coach/config"
	"github.com/prosodia/prosody-coach/prosody"
	"github.com/prosodia/prosody-coach/storage"
)

// Runner wires the analyzer and session store for one CLI invocation.
type Runner struct {
	cfg      *config.Root
	analyzer *prosody.Analyzer
	store    *storage.Store
}

func NewRunner(cfg *config.Root) (*Runner, error) {
	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return nil, err
	}
	return &Runner{cfg: cfg, analyzer: prosody.New(cfg.Analysis), store: store}, nil
}

func (r *Runner) Close() error { return r.store.Close() }

// Store exposes the session store for the history and stats commands.
func (r *Runner) Store() *storage.Store { return r.store }

// LoadFile decodes an audio file of any supported format.
func (r *Runner) LoadFile(path string) (prosody.Waveform, error) {
	log.WithField("file", path).Debug("loading audio")
	return audio.Load(path, r.cfg.Audio.SampleRate)
}

// Record captures from the default microphone until Enter is pressed or the
// configured maximum duration is reached.
func (r *Runner) Record() (prosody.Waveform, error) {
	rec, err := audio.NewRecorder(r.cfg.Audio.SampleRate, r.cfg.Audio.Channels)
	if err != nil {
		return prosody.Waveform{}, err
	}
	defer rec.Close()

	stop := make(chan struct{})
	go func() {
		// The reader goroutine stays parked on stdin if the max-duration cap
		// fires first; the process is about to exit anyway.
		bufio.NewReader(os.Stdin).ReadString('\n')
		close(stop)
	}()
	return rec.Record(stop, r.cfg.Audio.MaxRecordSeconds)
}

// Analyze runs the engine over the waveform.
func (r *Runner) Analyze(w prosody.Waveform) (*prosody.Result, error) {
	start := time.Now()
	res, err := r.analyzer.Analyze(w)
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{
		"overall": res.Overall,
		"took":    time.Since(start).Round(time.Millisecond),
	}).Debug("analysis complete")
	return res, nil
}

// SaveRecording writes the waveform under the recordings directory and
// returns the recording id used in the session row.
func (r *Runner) SaveRecording(w prosody.Waveform) (id, path string, err error) {
	id = uuid.NewString()
	path = filepath.Join(r.cfg.Paths.Recordings, "recording_"+id+".wav")
	if err := audio.SaveWAV(path, w); err != nil {
		return "", "", err
	}
	log.WithField("path", path).Debug("recording saved")
	return id, path, nil
}

// Persist stores a finished session and returns its id.
func (r *Runner) Persist(res *prosody.Result, meta storage.Meta) (int64, error) {
	id, err := r.store.Save(res, meta)
	if err != nil {
		return 0, err
	}
	log.WithFields(log.Fields{"session": id, "mode": meta.Mode}).Debug("session stored")
	return id, nil
}
