/*
Package store defines the persistence contract for the app state document.

PURPOSE:
  The entire engine state is one schema-versioned document:

    {"schemaVersion": 3, "data": {...AppState...}}

  A Store loads and saves that document as a unit. The ledger's
  single-writer semantics mean every operation is load -> compute ->
  save; the store never sees partial state.

SCHEMA MIGRATION:
  Documents written by older builds are migrated on load through an
  ordered chain of pure steps (see migrations.go). A version the chain
  cannot reach resets to a fresh seed document rather than erroring;
  data loss is the accepted fallback for this demo store.

IMPLEMENTATIONS:
  - store/memory: In-memory, for tests and dev
  - store/sqlite: SQLite-backed single-row document table

SEE ALSO:
  - migrations.go: The migration chain
  - seed.go: The seeded initial state
*/
package store

import (
	"context"

	"github.com/microlot/drop-engine/drops"
)

// Store persists the app state document. Load always returns a usable
// state: missing or unmigratable documents come back seeded.
type Store interface {
	// Load reads and, if needed, migrates the persisted document.
	Load(ctx context.Context) (*drops.AppState, error)

	// Save writes the state back as a current-version document.
	Save(ctx context.Context, state *drops.AppState) error

	// Close releases any underlying resources.
	Close() error
}
