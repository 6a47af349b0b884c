/*
Package sqlite provides a SQLite-backed implementation of the store
interface.

PURPOSE:
  Persists the versioned app state document in a single-row table. The
  engine's single-writer model means there is exactly one document; the
  table exists for durability, not for relational queries.

SCHEMA:
  app_state:
    id             Fixed to 1 (single document)
    schema_version Version of the stored payload
    data_json      The AppState JSON
    updated_at     Last save time

MIGRATION:
  Schema-version migration of the document itself happens in the store
  package on load; this backend only round-trips bytes. A document whose
  version cannot be migrated is replaced by a seeded one on Load.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging): readers don't block,
  single writer at a time, better crash recovery.

USAGE:
  st, err := sqlite.New("./data/drops.db")
  if err != nil {
      log.Fatal(err)
  }
  defer st.Close()

SEE ALSO:
  - store/store.go: Interface definition
  - store/memory: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/microlot/drop-engine/drops"
	"github.com/microlot/drop-engine/store"
)

// Store implements store.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS app_state (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		schema_version INTEGER NOT NULL,
		data_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`
	_, err := s.db.Exec(schema)
	return err
}

// Load reads the document, migrating old versions. A missing row seeds a
// fresh state and persists it.
func (s *Store) Load(ctx context.Context) (*drops.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var raw []byte
	err := s.db.QueryRowContext(ctx, `SELECT data_json FROM app_state WHERE id = 1`).Scan(&raw)
	if err == sql.ErrNoRows {
		state := store.SeedState(time.Now())
		if err := s.saveLocked(ctx, state); err != nil {
			return nil, err
		}
		return state, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}

	return store.DecodeDocument(raw, time.Now()), nil
}

// Save writes the document back at the current schema version.
func (s *Store) Save(ctx context.Context, state *drops.AppState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx, state)
}

func (s *Store) saveLocked(ctx context.Context, state *drops.AppState) error {
	doc, err := store.EncodeDocument(state)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO app_state (id, schema_version, data_json, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			schema_version = excluded.schema_version,
			data_json = excluded.data_json,
			updated_at = excluded.updated_at`,
		store.SchemaVersion, string(doc), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}
