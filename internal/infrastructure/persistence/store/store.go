// Package store persists completed interview runs in SQLite.
//
// One row per (project slug, timestamp); re-running the same project at the
// same timestamp overwrites the record. The schema is created on first use.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/Nyukimin/reqgather/internal/domain/interview"
)

// SectionRecord is one section's stored answer and confidence.
type SectionRecord struct {
	Content    string  `json:"content"`
	Confidence float64 `json:"confidence"`
}

// RunRecord is a persisted interview run.
type RunRecord struct {
	ProjectID         string                   `json:"project_id"`
	Timestamp         string                   `json:"timestamp"`
	ProjectName       string                   `json:"project_name"`
	Document          string                   `json:"document"`
	OverallConfidence float64                  `json:"overall_confidence"`
	Sections          map[string]SectionRecord `json:"sections"`
}

// Store is the SQLite-backed run store.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and runs migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("store: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migration: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS requirement_runs (
			project_id         TEXT NOT NULL,
			run_timestamp      TEXT NOT NULL,
			project_name       TEXT NOT NULL,
			document           TEXT NOT NULL,
			overall_confidence REAL NOT NULL,
			sections           TEXT NOT NULL,
			created_at         TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at         TEXT NOT NULL DEFAULT (datetime('now')),
			PRIMARY KEY (project_id, run_timestamp)
		);

		CREATE INDEX IF NOT EXISTS idx_runs_project ON requirement_runs(project_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// UpsertRun inserts the record, replacing any existing row with the same
// (project_id, timestamp) key.
func (s *Store) UpsertRun(rec RunRecord) error {
	sections, err := json.Marshal(rec.Sections)
	if err != nil {
		return fmt.Errorf("store: marshal sections: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO requirement_runs
			(project_id, run_timestamp, project_name, document, overall_confidence, sections)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(project_id, run_timestamp) DO UPDATE SET
			project_name       = excluded.project_name,
			document           = excluded.document,
			overall_confidence = excluded.overall_confidence,
			sections           = excluded.sections,
			updated_at         = datetime('now')`,
		rec.ProjectID, rec.Timestamp, rec.ProjectName, rec.Document, rec.OverallConfidence, string(sections))
	if err != nil {
		return fmt.Errorf("store: upsert run: %w", err)
	}

	return nil
}

// SaveInterviewRun maps a finished run state to a RunRecord and upserts it
// under (slugified project name, timestamp).
func (s *Store) SaveInterviewRun(st *interview.RunState, timestamp string) error {
	sections := make(map[string]SectionRecord, len(st.Answers))
	for sec, answer := range st.Answers {
		sections[sec.String()] = SectionRecord{
			Content:    answer,
			Confidence: st.Scores[sec],
		}
	}

	return s.UpsertRun(RunRecord{
		ProjectID:         interview.Slugify(st.ProjectName),
		Timestamp:         timestamp,
		ProjectName:       st.ProjectName,
		Document:          st.Document,
		OverallConfidence: st.OverallConfidence(),
		Sections:          sections,
	})
}

// GetRun loads a persisted run by key. Returns sql.ErrNoRows (wrapped) when
// the record does not exist.
func (s *Store) GetRun(projectID, timestamp string) (*RunRecord, error) {
	var rec RunRecord
	var sections string

	err := s.db.QueryRow(`
		SELECT project_id, run_timestamp, project_name, document, overall_confidence, sections
		FROM requirement_runs
		WHERE project_id = ? AND run_timestamp = ?`,
		projectID, timestamp).
		Scan(&rec.ProjectID, &rec.Timestamp, &rec.ProjectName, &rec.Document, &rec.OverallConfidence, &sections)
	if err != nil {
		return nil, fmt.Errorf("store: get run %s/%s: %w", projectID, timestamp, err)
	}

	if err := json.Unmarshal([]byte(sections), &rec.Sections); err != nil {
		return nil, fmt.Errorf("store: unmarshal sections: %w", err)
	}

	return &rec, nil
}

// ListProjectRuns returns the timestamps of all stored runs for a project,
// newest first.
func (s *Store) ListProjectRuns(projectID string) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT run_timestamp FROM requirement_runs
		WHERE project_id = ?
		ORDER BY run_timestamp DESC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()

	var timestamps []string
	for rows.Next() {
		var ts string
		if err := rows.Scan(&ts); err != nil {
			return nil, fmt.Errorf("store: scan run: %w", err)
		}
		timestamps = append(timestamps, ts)
	}
	return timestamps, rows.Err()
}
