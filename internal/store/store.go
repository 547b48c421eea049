// Package store persists completed speed measurements.
//
// Each measurement ("shot") is written to a local SQLite database so a
// session's history survives restarts and can be reviewed later. Storage is
// strictly downstream of the pipeline: nothing in the core depends on it.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS shots (
	id          TEXT PRIMARY KEY,
	recorded_at INTEGER NOT NULL,
	speed_mps   REAL NOT NULL,
	samples     INTEGER NOT NULL,
	ratio_cmpx  REAL NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_shots_recorded_at ON shots(recorded_at);
`

// Shot is one persisted speed measurement.
type Shot struct {
	// ID is a generated UUID.
	ID string `json:"id"`

	// RecordedAt is when the measurement was stored.
	RecordedAt time.Time `json:"recorded_at"`

	// SpeedMPS is the measured speed in meters per second.
	SpeedMPS float64 `json:"speed_mps"`

	// Samples is the number of trajectory samples the measurement used.
	Samples int `json:"samples"`

	// RatioCMPerPX is the calibration ratio in effect, for auditability.
	RatioCMPerPX float64 `json:"ratio_cm_per_px"`
}

// Store wraps the SQLite shot-history database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the shot database at path.
// Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open shot database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveShot records a measurement and returns it with ID and timestamp set.
func (s *Store) SaveShot(speedMPS float64, samples int, ratio float64) (*Shot, error) {
	shot := &Shot{
		ID:           uuid.NewString(),
		RecordedAt:   time.Now().UTC(),
		SpeedMPS:     speedMPS,
		Samples:      samples,
		RatioCMPerPX: ratio,
	}

	_, err := s.db.Exec(
		`INSERT INTO shots (id, recorded_at, speed_mps, samples, ratio_cmpx) VALUES (?, ?, ?, ?, ?)`,
		shot.ID, shot.RecordedAt.UnixMilli(), shot.SpeedMPS, shot.Samples, shot.RatioCMPerPX,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save shot: %w", err)
	}
	return shot, nil
}

// RecentShots returns up to limit shots, newest first.
func (s *Store) RecentShots(limit int) ([]Shot, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, recorded_at, speed_mps, samples, ratio_cmpx
		 FROM shots ORDER BY recorded_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query shots: %w", err)
	}
	defer rows.Close()

	shots := make([]Shot, 0, limit)
	for rows.Next() {
		var shot Shot
		var recordedAt int64
		if err := rows.Scan(&shot.ID, &recordedAt, &shot.SpeedMPS, &shot.Samples, &shot.RatioCMPerPX); err != nil {
			return nil, fmt.Errorf("failed to scan shot: %w", err)
		}
		shot.RecordedAt = time.UnixMilli(recordedAt).UTC()
		shots = append(shots, shot)
	}
	return shots, rows.Err()
}
