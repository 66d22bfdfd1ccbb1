// Package store archives completed analysis runs in SQLite. The analysis
// core stays stateless; session history belongs to the caller and lives
// here.
package store

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/medreview/medreview/internal/docanalysis"
)

var ErrNotFound = errors.New("analysis not found")

const schema = `
CREATE TABLE IF NOT EXISTS analyses (
	analysis_id     TEXT PRIMARY KEY,
	patient_ref     TEXT NOT NULL DEFAULT '',
	patient_name    TEXT NOT NULL DEFAULT '',
	identity_status TEXT NOT NULL DEFAULT '',
	score           INTEGER NOT NULL DEFAULT 0,
	document_count  INTEGER NOT NULL DEFAULT 0,
	created_at      TEXT NOT NULL,
	envelope        TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at DESC);
`

type Store struct {
	db *sqlx.DB
}

func Open(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Summary is the list view of one archived run.
type Summary struct {
	ID             string    `json:"id"`
	PatientRef     string    `json:"patient_ref,omitempty"`
	PatientName    string    `json:"patient_name,omitempty"`
	IdentityStatus string    `json:"identity_status"`
	Score          int       `json:"score"`
	DocumentCount  int       `json:"document_count"`
	CreatedAt      time.Time `json:"created_at"`
}

// Save archives a response envelope and returns it with its assigned ID.
func (s *Store) Save(env docanalysis.ResponseEnvelope) (docanalysis.ResponseEnvelope, error) {
	if env.ID == "" {
		id, err := newID()
		if err != nil {
			return env, err
		}
		env.ID = id
	}
	blob, err := json.Marshal(env)
	if err != nil {
		return env, fmt.Errorf("encode envelope: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO analyses (analysis_id, patient_ref, patient_name, identity_status, score, document_count, created_at, envelope)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		env.ID,
		env.PatientRef,
		env.Report.Identity.CanonicalName,
		string(env.Report.Identity.Status),
		env.Report.Score.Total,
		env.Report.DocumentCount,
		time.Now().UTC().Format(time.RFC3339Nano),
		string(blob),
	)
	if err != nil {
		return env, fmt.Errorf("insert analysis: %w", err)
	}
	return env, nil
}

func (s *Store) Get(id string) (docanalysis.ResponseEnvelope, error) {
	var blob string
	err := s.db.QueryRow("SELECT envelope FROM analyses WHERE analysis_id = ?", id).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return docanalysis.ResponseEnvelope{}, ErrNotFound
	}
	if err != nil {
		return docanalysis.ResponseEnvelope{}, err
	}
	var env docanalysis.ResponseEnvelope
	if err := json.Unmarshal([]byte(blob), &env); err != nil {
		return docanalysis.ResponseEnvelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	return env, nil
}

func (s *Store) List(limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT analysis_id, patient_ref, patient_name, identity_status, score, document_count, created_at
		 FROM analyses ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var sm Summary
		var createdAt string
		if err := rows.Scan(&sm.ID, &sm.PatientRef, &sm.PatientName, &sm.IdentityStatus, &sm.Score, &sm.DocumentCount, &createdAt); err != nil {
			return nil, err
		}
		sm.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
		out = append(out, sm)
	}
	return out, rows.Err()
}

func newID() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "an_" + hex.EncodeToString(buf), nil
}
