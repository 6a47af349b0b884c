/*
Package ledger hosts the stateful operations over the app state document.

PURPOSE:
  Every mutation of the platform state goes through this package:
  reservation admission, commitment consent/revocation, the idempotent
  payment-confirmation path with its payout side effect, financing offer
  refresh, and the roaster CRUD surface.

CONCURRENCY MODEL:
  Single writer. Each operation takes the service mutex, loads the whole
  document, computes the next document, and saves it back as one unit.
  No partial intermediate state is ever observable; there is nothing to
  retry internally. Cross-process write arbitration is explicitly out of
  scope - run one writer.

TIME AND IDENTITY:
  The service owns an injectable clock and id generator so operations
  stay deterministic under test. The pure computations they feed
  (status, admission, payability) all take `now` explicitly.

SEE ALSO:
  - drops package: Entities and the pure computation layer
  - payments.go: The idempotent confirm path (the core invariant holder)
  - store package: The versioned persistence contract
*/
package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/microlot/drop-engine/catalog"
	"github.com/microlot/drop-engine/drops"
	"github.com/microlot/drop-engine/store"
)

// Service is the single-writer mutation surface over the state document.
type Service struct {
	mu      sync.Mutex
	store   store.Store
	catalog *catalog.Catalog

	now   func() time.Time
	newID func() string
}

// New creates a service over the given store with the real clock and
// uuid-based id generation.
func New(st store.Store, cat *catalog.Catalog) *Service {
	return &Service{
		store:   st,
		catalog: cat,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// WithClock replaces the clock. For tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithIDGenerator replaces the id generator. For tests.
func (s *Service) WithIDGenerator(newID func() string) *Service {
	s.newID = newID
	return s
}

// Catalog exposes the static reference data.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// =============================================================================
// DOCUMENT ACCESS
// =============================================================================

// update runs fn against the current document and persists the result.
// fn returning an error aborts the save; the document is untouched.
func (s *Service) update(ctx context.Context, fn func(state *drops.AppState) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	if err := fn(state); err != nil {
		return err
	}
	return s.store.Save(ctx, state)
}

// read returns the current document for read-only use.
func (s *Service) read(ctx context.Context) (*drops.AppState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Load(ctx)
}

// State returns the full current state.
func (s *Service) State(ctx context.Context) (*drops.AppState, error) {
	return s.read(ctx)
}

// ResetToSeed discards everything and reinitializes to the seed state.
func (s *Service) ResetToSeed(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Save(ctx, store.SeedState(s.now()))
}

// SetPayoutMode flips the global payout mode. Existing payouts keep the
// mode and status they were created with.
func (s *Service) SetPayoutMode(ctx context.Context, mode drops.PayoutMode) error {
	return s.update(ctx, func(state *drops.AppState) error {
		state.PayoutConfig.Mode = mode
		return nil
	})
}
