// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists parsed documents and their assignment rows in a
// SQLite database so summaries survive across runs and uploads.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/assignment-digest/internal/parse"
	"github.com/pdiddy/assignment-digest/pkg/types"
)

const dbFile = "digest.db"

// ErrNotFound is returned when a document is not in the store.
var ErrNotFound = errors.New("document not found")

// Store manages the summary SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at dir/digest.db and creates the
// schema if it does not exist.
func Open(cfg types.StoreConfig) (*Store, error) {
	if cfg.Dir == "" {
		return nil, errors.New("store directory not configured")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			source TEXT PRIMARY KEY,
			subject TEXT NOT NULL,
			strategy TEXT NOT NULL,
			file_mod_time TEXT,
			processed_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source TEXT NOT NULL REFERENCES documents(source) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			subject TEXT NOT NULL,
			assignment TEXT NOT NULL,
			weight TEXT NOT NULL,
			due_date TEXT NOT NULL,
			due_on TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_source ON records(source, position)`,
		`CREATE INDEX IF NOT EXISTS idx_records_due_on ON records(due_on)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// formatModTime renders a modification time the way it is stored. A zero
// time is stored as an empty string and never compares equal.
func formatModTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// Upsert replaces a document and all of its rows in one transaction.
func (s *Store) Upsert(ctx context.Context, doc types.DocumentResult, modTime time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE source = ?`, doc.Source); err != nil {
		return fmt.Errorf("deleting old records: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (source, subject, strategy, file_mod_time, processed_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(source) DO UPDATE SET
			subject=excluded.subject, strategy=excluded.strategy,
			file_mod_time=excluded.file_mod_time, processed_at=excluded.processed_at`,
		doc.Source, doc.Subject, doc.Strategy, formatModTime(modTime),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting document: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (source, position, subject, assignment, weight, due_date, due_on)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range doc.Records {
		_, err := stmt.ExecContext(ctx,
			doc.Source, i, r.Subject, r.Assignment, r.Weight, r.DueDate,
			nullString(parse.DueOn(r.DueDate)),
		)
		if err != nil {
			return fmt.Errorf("inserting record %d of %s: %w", i, doc.Source, err)
		}
	}

	return tx.Commit()
}

// Unchanged reports whether source was stored from a file with the same
// modification time using the same strategy.
func (s *Store) Unchanged(ctx context.Context, source string, modTime time.Time, strategy string) (bool, error) {
	var storedMod, storedStrategy sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT file_mod_time, strategy FROM documents WHERE source = ?`, source,
	).Scan(&storedMod, &storedStrategy)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", source, err)
	}

	want := formatModTime(modTime)
	return want != "" && storedMod.String == want && storedStrategy.String == strategy, nil
}

// Document returns a stored document with its records in emission order.
func (s *Store) Document(ctx context.Context, source string) (types.DocumentResult, error) {
	doc := types.DocumentResult{Source: source}
	err := s.db.QueryRowContext(ctx,
		`SELECT subject, strategy FROM documents WHERE source = ?`, source,
	).Scan(&doc.Subject, &doc.Strategy)
	if errors.Is(err, sql.ErrNoRows) {
		return doc, fmt.Errorf("%s: %w", source, ErrNotFound)
	}
	if err != nil {
		return doc, fmt.Errorf("reading %s: %w", source, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT subject, assignment, weight, due_date FROM records
		 WHERE source = ? ORDER BY position`, source)
	if err != nil {
		return doc, fmt.Errorf("reading records of %s: %w", source, err)
	}
	defer rows.Close()

	for rows.Next() {
		var r types.AssignmentRecord
		if err := rows.Scan(&r.Subject, &r.Assignment, &r.Weight, &r.DueDate); err != nil {
			return doc, fmt.Errorf("scanning record: %w", err)
		}
		doc.Records = append(doc.Records, r)
	}
	return doc, rows.Err()
}

// DocumentInfo describes a stored document without its records.
type DocumentInfo struct {
	Source      string `json:"source" yaml:"source"`
	Subject     string `json:"subject" yaml:"subject"`
	Strategy    string `json:"strategy" yaml:"strategy"`
	Records     int    `json:"records" yaml:"records"`
	ProcessedAt string `json:"processed_at" yaml:"processed_at"`
}

// Documents lists stored documents ordered by source.
func (s *Store) Documents(ctx context.Context) ([]DocumentInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.source, d.subject, d.strategy, d.processed_at, count(r.id)
		 FROM documents d LEFT JOIN records r ON r.source = d.source
		 GROUP BY d.source ORDER BY d.source`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var out []DocumentInfo
	for rows.Next() {
		var d DocumentInfo
		if err := rows.Scan(&d.Source, &d.Subject, &d.Strategy, &d.ProcessedAt, &d.Records); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// Delete removes a document and its rows. It returns ErrNotFound when the
// document is not stored.
func (s *Store) Delete(ctx context.Context, source string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE source = ?`, source)
	if err != nil {
		return fmt.Errorf("deleting %s: %w", source, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", source, ErrNotFound)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
