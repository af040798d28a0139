// Package storage persists analysis sessions to SQLite for progress tracking.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/prosodia/prosody-coach/prosody"
)

// timeLayout matches sqlite's datetime() output so TEXT comparisons against
// datetime('now', ...) stay correct. Stored in UTC.
const timeLayout = "2006-01-02 15:04:05"

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the session database at path. Use ":memory:" for an
// ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func createTables(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at TEXT NOT NULL,
		duration REAL NOT NULL,
		pitch_score INTEGER NOT NULL,
		volume_score INTEGER NOT NULL,
		tempo_score INTEGER NOT NULL,
		rhythm_score INTEGER NOT NULL,
		pause_score INTEGER NOT NULL,
		overall_score REAL NOT NULL,
		mode TEXT NOT NULL DEFAULT 'analyze',
		prompt_id TEXT,
		transcript TEXT,
		pitch_feedback TEXT,
		volume_feedback TEXT,
		tempo_feedback TEXT,
		rhythm_feedback TEXT,
		pause_feedback TEXT,
		ai_summary TEXT,
		ai_tips TEXT,
		recording_id TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_created_at ON sessions(created_at);
	`
	if _, err := db.Exec(schema); err != nil {
		return err
	}
	// Older databases predate some columns; sqlite has no ADD COLUMN IF NOT
	// EXISTS, so failures here mean the column is already present.
	for _, col := range []string{
		"pitch_feedback", "volume_feedback", "tempo_feedback",
		"rhythm_feedback", "pause_feedback",
		"ai_summary", "ai_tips", "recording_id",
	} {
		db.Exec("ALTER TABLE sessions ADD COLUMN " + col + " TEXT")
	}
	return nil
}

// Meta carries the session context that does not come from the analysis.
type Meta struct {
	Mode        string // 'analyze' or 'practice'
	PromptID    string
	Transcript  string
	AISummary   string
	AITips      []string
	RecordingID string
}

// Session is one stored analysis run.
type Session struct {
	ID          int64
	CreatedAt   time.Time
	Duration    float64
	Pitch       int
	Volume      int
	Tempo       int
	Rhythm      int
	Pause       int
	Overall     float64
	Mode        string
	PromptID    string
	Transcript  string
	Feedback    map[prosody.Component]string
	AISummary   string
	AITips      []string
	RecordingID string
}

// Save stores a session and returns its id. Unmeasured components persist as
// score 0.
func (s *Store) Save(res *prosody.Result, meta Meta) (int64, error) {
	if meta.Mode == "" {
		meta.Mode = "analyze"
	}
	var tipsJSON interface{}
	if len(meta.AITips) > 0 {
		b, err := json.Marshal(meta.AITips)
		if err != nil {
			return 0, fmt.Errorf("encode tips: %w", err)
		}
		tipsJSON = string(b)
	}

	pitch := res.Component(prosody.ComponentPitch)
	volume := res.Component(prosody.ComponentVolume)
	tempo := res.Component(prosody.ComponentTempo)
	rhythm := res.Component(prosody.ComponentRhythm)
	pauses := res.Component(prosody.ComponentPauses)

	result, err := s.db.Exec(`
		INSERT INTO sessions (
			created_at, duration, pitch_score, volume_score,
			tempo_score, rhythm_score, pause_score, overall_score,
			mode, prompt_id, transcript,
			pitch_feedback, volume_feedback, tempo_feedback,
			rhythm_feedback, pause_feedback,
			ai_summary, ai_tips, recording_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(timeLayout),
		res.Duration,
		pitch.Score, volume.Score, tempo.Score, rhythm.Score, pauses.Score,
		res.Overall,
		meta.Mode,
		nullable(meta.PromptID),
		nullable(meta.Transcript),
		nullable(pitch.Feedback), nullable(volume.Feedback), nullable(tempo.Feedback),
		nullable(rhythm.Feedback), nullable(pauses.Feedback),
		nullable(meta.AISummary),
		tipsJSON,
		nullable(meta.RecordingID),
	)
	if err != nil {
		return 0, fmt.Errorf("insert session: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("session id: %w", err)
	}
	return id, nil
}

func nullable(v string) interface{} {
	if v == "" {
		return nil
	}
	return v
}

const sessionColumns = `
	id, created_at, duration,
	pitch_score, volume_score, tempo_score, rhythm_score, pause_score,
	overall_score, mode, prompt_id, transcript,
	pitch_feedback, volume_feedback, tempo_feedback, rhythm_feedback, pause_feedback,
	ai_summary, ai_tips, recording_id`

// History returns the most recent sessions, newest first, optionally filtered
// by mode.
func (s *Store) History(limit int, mode string) ([]Session, error) {
	if limit <= 0 {
		limit = 10
	}
	query := "SELECT" + sessionColumns + " FROM sessions ORDER BY created_at DESC, id DESC LIMIT ?"
	args := []interface{}{limit}
	if mode != "" {
		query = "SELECT" + sessionColumns + " FROM sessions WHERE mode = ? ORDER BY created_at DESC, id DESC LIMIT ?"
		args = []interface{}{mode, limit}
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

// Session returns one stored session by id; found is false when it does not
// exist.
func (s *Store) Session(id int64) (Session, bool, error) {
	row := s.db.QueryRow("SELECT"+sessionColumns+" FROM sessions WHERE id = ?", id)
	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, err
	}
	return sess, true, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(r rowScanner) (Session, error) {
	var (
		sess                                       Session
		createdAt                                  string
		promptID, transcript, summary, tips, recID sql.NullString
		fb                                         [5]sql.NullString
	)
	err := r.Scan(
		&sess.ID, &createdAt, &sess.Duration,
		&sess.Pitch, &sess.Volume, &sess.Tempo, &sess.Rhythm, &sess.Pause,
		&sess.Overall, &sess.Mode, &promptID, &transcript,
		&fb[0], &fb[1], &fb[2], &fb[3], &fb[4],
		&summary, &tips, &recID,
	)
	if err == sql.ErrNoRows {
		return Session{}, err
	}
	if err != nil {
		return Session{}, fmt.Errorf("scan session: %w", err)
	}

	if t, err := time.Parse(timeLayout, createdAt); err == nil {
		sess.CreatedAt = t.UTC()
	}
	sess.PromptID = promptID.String
	sess.Transcript = transcript.String
	sess.AISummary = summary.String
	sess.RecordingID = recID.String
	sess.Feedback = map[prosody.Component]string{
		prosody.ComponentPitch:  fb[0].String,
		prosody.ComponentVolume: fb[1].String,
		prosody.ComponentTempo:  fb[2].String,
		prosody.ComponentRhythm: fb[3].String,
		prosody.ComponentPauses: fb[4].String,
	}
	if tips.Valid && tips.String != "" {
		if err := json.Unmarshal([]byte(tips.String), &sess.AITips); err != nil {
			return Session{}, fmt.Errorf("decode tips: %w", err)
		}
	}
	return sess, nil
}

// Averages are all-time per-component means, rounded to one decimal.
type Averages struct {
	Pitch   float64
	Volume  float64
	Tempo   float64
	Rhythm  float64
	Pause   float64
	Overall float64
}

// Stats aggregates stored sessions for the progress view.
type Stats struct {
	TotalSessions        int
	TotalPracticeMinutes float64
	Averages             *Averages
	// RecentTrend is the overall-score average of the last `days` minus the
	// average before that window; nil when either side has no sessions.
	RecentTrend *float64
}

// Stats computes aggregates, comparing the last `days` days against older
// sessions for the trend.
func (s *Store) Stats(days int) (Stats, error) {
	if days <= 0 {
		days = 30
	}
	var st Stats
	if err := s.db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&st.TotalSessions); err != nil {
		return Stats{}, fmt.Errorf("count sessions: %w", err)
	}
	if st.TotalSessions == 0 {
		return st, nil
	}

	var avg Averages
	var totalDur float64
	err := s.db.QueryRow(`
		SELECT
			AVG(pitch_score), AVG(volume_score), AVG(tempo_score),
			AVG(rhythm_score), AVG(pause_score), AVG(overall_score),
			SUM(duration)
		FROM sessions`).
		Scan(&avg.Pitch, &avg.Volume, &avg.Tempo, &avg.Rhythm, &avg.Pause, &avg.Overall, &totalDur)
	if err != nil {
		return Stats{}, fmt.Errorf("aggregate sessions: %w", err)
	}
	avg.Pitch = round1(avg.Pitch)
	avg.Volume = round1(avg.Volume)
	avg.Tempo = round1(avg.Tempo)
	avg.Rhythm = round1(avg.Rhythm)
	avg.Pause = round1(avg.Pause)
	avg.Overall = round1(avg.Overall)
	st.Averages = &avg
	st.TotalPracticeMinutes = round1(totalDur / 60)

	cutoff := fmt.Sprintf("-%d days", days)
	var recent, older sql.NullFloat64
	if err := s.db.QueryRow(
		"SELECT AVG(overall_score) FROM sessions WHERE created_at >= datetime('now', ?)", cutoff).
		Scan(&recent); err != nil {
		return Stats{}, fmt.Errorf("recent average: %w", err)
	}
	if err := s.db.QueryRow(
		"SELECT AVG(overall_score) FROM sessions WHERE created_at < datetime('now', ?)", cutoff).
		Scan(&older); err != nil {
		return Stats{}, fmt.Errorf("older average: %w", err)
	}
	if recent.Valid && older.Valid {
		trend := math.Round((recent.Float64-older.Float64)*100) / 100
		st.RecentTrend = &trend
	}
	return st, nil
}

// ComponentAvg names a component with its all-time average score.
type ComponentAvg struct {
	Component prosody.Component
	Avg       float64
}

// BestWorst returns the strongest and weakest components by average score;
// ok is false when nothing is stored yet.
func (s *Store) BestWorst() (best, worst ComponentAvg, ok bool, err error) {
	var avgs [5]sql.NullFloat64
	err = s.db.QueryRow(`
		SELECT
			AVG(pitch_score), AVG(volume_score), AVG(tempo_score),
			AVG(rhythm_score), AVG(pause_score)
		FROM sessions`).
		Scan(&avgs[0], &avgs[1], &avgs[2], &avgs[3], &avgs[4])
	if err != nil {
		return ComponentAvg{}, ComponentAvg{}, false, fmt.Errorf("component averages: %w", err)
	}
	if !avgs[0].Valid {
		return ComponentAvg{}, ComponentAvg{}, false, nil
	}

	comps := prosody.Components()
	best = ComponentAvg{Component: comps[0], Avg: avgs[0].Float64}
	worst = best
	for i := 1; i < len(comps); i++ {
		ca := ComponentAvg{Component: comps[i], Avg: avgs[i].Float64}
		if ca.Avg > best.Avg {
			best = ca
		}
		if ca.Avg < worst.Avg {
			worst = ca
		}
	}
	best.Avg = round1(best.Avg)
	worst.Avg = round1(worst.Avg)
	return best, worst, true, nil
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
