// Package storage implements the SQLite project store used by default.
//
// Each project is one row: the whole record as JSON plus a few indexed
// columns for listing. Save is a compare-and-swap on the version column.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/codebakers/codebakers/internal/engineering"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// DBFile is the database file name inside the data directory.
const DBFile = "engineering.db"

// Config holds SQLite store settings.
type Config struct {
	DataDir string
}

// SQLiteStore implements engineering.Store on a single SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	cfg Config
}

// New opens (or creates) the database and applies the schema.
func New(cfg Config) (*SQLiteStore, error) {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("storage: create data dir: %w", err)
	}

	db, err := openDB("sqlite", filepath.Join(cfg.DataDir, DBFile))
	if err != nil {
		return nil, fmt.Errorf("storage: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("storage: pragma %q: %w", p, err)
		}
	}

	s := &SQLiteStore{db: db, cfg: cfg}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration: %w", err)
	}
	return s, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the database file location.
func (s *SQLiteStore) Path() string {
	return filepath.Join(s.cfg.DataDir, DBFile)
}

func (s *SQLiteStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS engineering_projects (
			key           TEXT PRIMARY KEY,
			id            TEXT    NOT NULL,
			name          TEXT    NOT NULL,
			current_phase TEXT    NOT NULL,
			version       INTEGER NOT NULL,
			data          TEXT    NOT NULL,
			created_at    TEXT    NOT NULL,
			updated_at    TEXT    NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_eng_phase   ON engineering_projects(current_phase);
		CREATE INDEX IF NOT EXISTS idx_eng_updated ON engineering_projects(updated_at DESC);

		CREATE TABLE IF NOT EXISTS engineering_history (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			key        TEXT    NOT NULL,
			version    INTEGER NOT NULL,
			phase      TEXT    NOT NULL,
			saved_at   TEXT    NOT NULL,
			FOREIGN KEY (key) REFERENCES engineering_projects(key) ON DELETE CASCADE
		);

		CREATE INDEX IF NOT EXISTS idx_eng_history_key ON engineering_history(key, version);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load returns the project stored under key.
func (s *SQLiteStore) Load(ctx context.Context, key string) (*engineering.Project, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM engineering_projects WHERE key = ?", key,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, engineering.NoProject(key)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: load %q: %w", key, err)
	}
	p, err := engineering.DecodeProject([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("storage: project %q: %w", key, err)
	}
	return p, nil
}

// Save writes the project if the stored version still equals p.Version.
// A zero version means the project must not exist yet.
func (s *SQLiteStore) Save(ctx context.Context, key string, p *engineering.Project) error {
	next := *p
	next.Version = p.Version + 1
	data, err := engineering.EncodeProject(&next)
	if err != nil {
		return err
	}
	now := Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if p.Version == 0 {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO engineering_projects (key, id, name, current_phase, version, data, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			key, p.ID, p.Name, string(p.CurrentPhase), next.Version, string(data), now, now,
		)
		if isUniqueViolation(err) {
			stored, _ := s.storedVersion(ctx, tx, key)
			return engineering.Conflict(key, stored, p.Version)
		}
		if err != nil {
			return fmt.Errorf("storage: insert %q: %w", key, err)
		}
	} else {
		res, err := tx.ExecContext(ctx, `
			UPDATE engineering_projects
			SET name = ?, current_phase = ?, version = ?, data = ?, updated_at = ?
			WHERE key = ? AND version = ?`,
			p.Name, string(p.CurrentPhase), next.Version, string(data), now, key, p.Version,
		)
		if err != nil {
			return fmt.Errorf("storage: update %q: %w", key, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("storage: update %q: %w", key, err)
		}
		if n == 0 {
			stored, err := s.storedVersion(ctx, tx, key)
			if err != nil {
				return err
			}
			return engineering.Conflict(key, stored, p.Version)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO engineering_history (key, version, phase, saved_at) VALUES (?, ?, ?, ?)",
		key, next.Version, string(p.CurrentPhase), now,
	); err != nil {
		return fmt.Errorf("storage: history %q: %w", key, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: commit %q: %w", key, err)
	}
	p.Version = next.Version
	return nil
}

// storedVersion returns the current version for key, 0 when absent.
func (s *SQLiteStore) storedVersion(ctx context.Context, tx *sql.Tx, key string) (int64, error) {
	var v int64
	err := tx.QueryRowContext(ctx,
		"SELECT version FROM engineering_projects WHERE key = ?", key,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("storage: version %q: %w", key, err)
	}
	return v, nil
}

// List returns a summary of every stored project, sorted by key.
func (s *SQLiteStore) List(ctx context.Context) ([]engineering.ProjectSummary, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT data FROM engineering_projects ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	defer rows.Close()

	var out []engineering.ProjectSummary
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("storage: list: %w", err)
		}
		p, err := engineering.DecodeProject([]byte(data))
		if err != nil {
			return nil, fmt.Errorf("storage: list: %w", err)
		}
		out = append(out, engineering.Summarize(p))
	}
	return out, rows.Err()
}

// HistoryEntry records one successful save.
type HistoryEntry struct {
	Version int64             `json:"version"`
	Phase   engineering.Phase `json:"phase"`
	SavedAt string            `json:"saved_at"`
}

// History returns the save trail for key, oldest first.
func (s *SQLiteStore) History(ctx context.Context, key string) ([]HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT version, phase, saved_at FROM engineering_history WHERE key = ? ORDER BY version",
		key,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: history: %w", err)
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var phase string
		if err := rows.Scan(&e.Version, &phase, &e.SavedAt); err != nil {
			return nil, fmt.Errorf("storage: history: %w", err)
		}
		e.Phase = engineering.Phase(phase)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Now returns the current UTC time formatted the way rows store it.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
