// Package store persists the draft, the recording catalog and prompt
// progress in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"thoughts/internal/domain"
	"thoughts/internal/ports"
)

var (
	_ ports.DraftRepository    = (*Store)(nil)
	_ ports.ArtifactRepository = (*Store)(nil)
	_ ports.ProgressRepository = (*Store)(nil)
)

// Store provides data access to the SQLite database.
type Store struct {
	db *sql.DB
}

// New creates a new Store and initialises the schema.
func New(db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

const currentSchemaVersion = 2

func (s *Store) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var version int
	err := s.db.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		if _, err := s.db.Exec(`INSERT INTO schema_version (version) VALUES (0)`); err != nil {
			return fmt.Errorf("init schema version: %w", err)
		}
		version = 0
	} else if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("database schema v%d is newer than supported v%d", version, currentSchemaVersion)
	}

	migrations := []func() error{
		s.migrateV1, // v0 → v1: drafts and recordings
		s.migrateV2, // v1 → v2: prompt progress
	}

	for i := version; i < len(migrations); i++ {
		if err := migrations[i](); err != nil {
			return fmt.Errorf("migration v%d→v%d: %w", i, i+1, err)
		}
		if _, err := s.db.Exec(`UPDATE schema_version SET version = ?`, i+1); err != nil {
			return fmt.Errorf("update schema version to %d: %w", i+1, err)
		}
	}
	return nil
}

func (s *Store) migrateV1() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS drafts (
			key        TEXT PRIMARY KEY,
			body       TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS recordings (
			seq              INTEGER PRIMARY KEY AUTOINCREMENT,
			id               TEXT NOT NULL UNIQUE,
			path             TEXT NOT NULL,
			created_at       TEXT NOT NULL,
			duration_seconds INTEGER NOT NULL DEFAULT 0,
			size_bytes       INTEGER NOT NULL DEFAULT 0
		);
	`)
	return err
}

func (s *Store) migrateV2() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS prompt_progress (
			prompt_index INTEGER PRIMARY KEY,
			complete     INTEGER NOT NULL DEFAULT 0,
			updated_at   TEXT NOT NULL
		);
	`)
	return err
}

// LoadDraft returns the draft stored under key.
func (s *Store) LoadDraft(ctx context.Context, key string) (string, bool, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM drafts WHERE key = ?`, key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load draft: %w", err)
	}
	return body, true, nil
}

// SaveDraft overwrites the draft stored under key.
func (s *Store) SaveDraft(ctx context.Context, key string, text string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO drafts (key, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
	`, key, text, now())
	if err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// AppendArtifact adds a recording to the end of the catalog.
func (s *Store) AppendArtifact(ctx context.Context, a domain.Artifact) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO recordings (id, path, created_at, duration_seconds, size_bytes)
		VALUES (?, ?, ?, ?, ?)
	`, a.ID, a.Path, a.CreatedAt.UTC().Format(time.RFC3339Nano), a.DurationSeconds, a.SizeBytes)
	if err != nil {
		return fmt.Errorf("append recording: %w", err)
	}
	return nil
}

// ListArtifacts returns every recording in insertion order.
func (s *Store) ListArtifacts(ctx context.Context) ([]domain.Artifact, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, path, created_at, duration_seconds, size_bytes
		FROM recordings
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query recordings: %w", err)
	}
	defer rows.Close()

	var artifacts []domain.Artifact
	for rows.Next() {
		var a domain.Artifact
		var createdAt string
		if err := rows.Scan(&a.ID, &a.Path, &createdAt, &a.DurationSeconds, &a.SizeBytes); err != nil {
			return nil, fmt.Errorf("scan recording: %w", err)
		}
		a.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse recording %s created_at: %w", a.ID, err)
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, rows.Err()
}

// LoadProgress returns every stored completion flag keyed by prompt index.
func (s *Store) LoadProgress(ctx context.Context) (map[int]bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT prompt_index, complete FROM prompt_progress`)
	if err != nil {
		return nil, fmt.Errorf("query prompt progress: %w", err)
	}
	defer rows.Close()

	flags := map[int]bool{}
	for rows.Next() {
		var index int
		var complete bool
		if err := rows.Scan(&index, &complete); err != nil {
			return nil, fmt.Errorf("scan prompt progress: %w", err)
		}
		flags[index] = complete
	}
	return flags, rows.Err()
}

// SaveProgress stores the completion flag for one prompt.
func (s *Store) SaveProgress(ctx context.Context, index int, complete bool) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO prompt_progress (prompt_index, complete, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(prompt_index) DO UPDATE SET complete = excluded.complete, updated_at = excluded.updated_at
	`, index, complete, now())
	if err != nil {
		return fmt.Errorf("save prompt progress: %w", err)
	}
	return nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
