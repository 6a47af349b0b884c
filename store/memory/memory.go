// Package memory provides an in-memory Store implementation (for testing/dev).
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/microlot/drop-engine/drops"
	"github.com/microlot/drop-engine/store"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory keeps the state document as encoded bytes so Load/Save go
// through the same codec and migration path as the durable backends, and
// callers always get an independent copy.
type Memory struct {
	mu  sync.RWMutex
	doc []byte
}

// New creates an empty store; the first Load seeds it.
func New() *Memory {
	return &Memory{}
}

// NewWithDocument creates a store preloaded with a raw document, useful
// for exercising migrations.
func NewWithDocument(doc []byte) *Memory {
	return &Memory{doc: doc}
}

func (m *Memory) Load(_ context.Context) (*drops.AppState, error) {
	m.mu.RLock()
	doc := m.doc
	m.mu.RUnlock()

	if doc == nil {
		state := store.SeedState(time.Now())
		if err := m.Save(context.Background(), state); err != nil {
			return nil, err
		}
		return state, nil
	}
	return store.DecodeDocument(doc, time.Now()), nil
}

func (m *Memory) Save(_ context.Context, state *drops.AppState) error {
	doc, err := store.EncodeDocument(state)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.doc = doc
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error { return nil }
