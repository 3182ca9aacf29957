package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/chenBenjamin97/posture-analyzer/pkg/analyzer"
	"github.com/chenBenjamin97/posture-analyzer/pkg/posture"
	_ "modernc.org/sqlite"
)

//ErrNotFound is returned when no report has the requested id
var ErrNotFound = errors.New("report not found")

const schema = `
CREATE TABLE IF NOT EXISTS reports (
	id                   TEXT PRIMARY KEY,
	posture_type         TEXT NOT NULL,
	created_at           INTEGER NOT NULL,
	total_checked_frames INTEGER NOT NULL,
	bad_frames           INTEGER NOT NULL,
	report_json          TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at);
`

//Entry is one row of the report history listing
type Entry struct {
	ID                 string    `json:"id"`
	PostureType        string    `json:"posture_type"`
	CreatedAt          time.Time `json:"created_at"`
	TotalCheckedFrames int       `json:"total_checked_frames"`
	BadFrames          int       `json:"bad_frames"`
}

//Store keeps finished reports in a sqlite database
type Store struct {
	db *sql.DB
}

//Open opens (creating if needed) the database at path and applies the schema
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store.Open: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("store.Open: %s: %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store.Open: could not apply schema: %w", err)
	}

	log.Printf("store.Open: Report database ready at '%s'", path)
	return &Store{db: db}, nil
}

//Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

//Save inserts rec
func (s *Store) Save(ctx context.Context, rec *analyzer.Record) error {
	body, err := json.Marshal(rec.VideoReport)
	if err != nil {
		return fmt.Errorf("Save: could not encode report: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reports (id, posture_type, created_at, total_checked_frames, bad_frames, report_json)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.PostureType, rec.CreatedAt.UnixNano(), rec.TotalCheckedFrames, len(rec.BadPostureFrames), string(body))
	if err != nil {
		return fmt.Errorf("Save: %w", err)
	}

	return nil
}

//Get returns the report with the given id
func (s *Store) Get(ctx context.Context, id string) (*analyzer.Record, error) {
	var (
		rec       analyzer.Record
		createdAt int64
		body      string
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT id, posture_type, created_at, report_json FROM reports WHERE id = ?`, id).
		Scan(&rec.ID, &rec.PostureType, &createdAt, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}

	var report posture.VideoReport
	if err := json.Unmarshal([]byte(body), &report); err != nil {
		return nil, fmt.Errorf("Get: corrupt report '%s': %w", id, err)
	}
	for i := range report.BadPostureFrames { //only bad frames are ever stored
		report.BadPostureFrames[i].IsBad = true
	}
	rec.VideoReport = report
	rec.CreatedAt = time.Unix(0, createdAt).UTC()

	return &rec, nil
}

//List returns up to limit reports, newest first
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, posture_type, created_at, total_checked_frames, bad_frames
		 FROM reports ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	res := make([]Entry, 0)
	for rows.Next() {
		var (
			r         Entry
			createdAt int64
		)
		if err := rows.Scan(&r.ID, &r.PostureType, &createdAt, &r.TotalCheckedFrames, &r.BadFrames); err != nil {
			return nil, fmt.Errorf("List: %w", err)
		}
		r.CreatedAt = time.Unix(0, createdAt).UTC()
		res = append(res, r)
	}

	return res, rows.Err()
}
