/*
errors.go - Centralized error taxonomy for the drop engine

PURPOSE:
  All caller-visible rejections in one place. Nothing here crashes; every
  error is a local, synchronous, recoverable outcome returned to the
  immediate caller. Nothing is retried internally.

ERROR CATEGORIES:
  1. Admission errors  - reservation would exceed the 115% cap
  2. Ledger errors     - payability / lifecycle preconditions
  3. Lookup errors     - referenced entity does not exist

USAGE:
  Callers classify with errors.Is / errors.As:

    var admErr *drops.AdmissionError
    if errors.As(err, &admErr) {
        // offer admErr.AvailableGrams instead
    }

SEE ALSO:
  - compute.go: CanReserve / CanPay, the sources of these rejections
  - ledger package: Returns these from its operations
*/
package drops

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrAdmissionRejected is returned when a requested reservation would
	// push reserved weight past the cap.
	ErrAdmissionRejected = errors.New("reservation exceeds cap")

	// ErrNotPayable is returned when a payment confirmation is attempted
	// while the drop/reservation/commitment conjunction does not hold.
	ErrNotPayable = errors.New("payment preconditions not met")

	// ErrStaleDeadline is returned when a reservation cancellation is
	// attempted after the drop's deadline.
	ErrStaleDeadline = errors.New("deadline has passed")

	// ErrCommitmentUsed is returned when revoking a commitment that has
	// already backed a confirmed payment.
	ErrCommitmentUsed = errors.New("commitment already used")

	// ErrNotFound is returned when a referenced entity doesn't exist.
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidDrop is returned when a drop fails its creation
	// invariants (goal weight > 0, all three prices > 0).
	ErrInvalidDrop = errors.New("invalid drop")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// AdmissionError reports a cap overflow together with the weight still
// available, so the caller can offer a reduced quantity.
type AdmissionError struct {
	DropID         string
	RequestedGrams int
	AvailableGrams int
}

func (e *AdmissionError) Error() string {
	return fmt.Sprintf("reservation of %dg rejected for drop %s: only %dg available under cap",
		e.RequestedGrams, e.DropID, e.AvailableGrams)
}

func (e *AdmissionError) Unwrap() error {
	return ErrAdmissionRejected
}

// NotFoundError identifies which entity was missing.
type NotFoundError struct {
	Kind string // "drop", "reservation", "commitment", "offer"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is a precondition failure the
// caller can act on, as opposed to an internal fault.
func IsClientError(err error) bool {
	return errors.Is(err, ErrAdmissionRejected) ||
		errors.Is(err, ErrNotPayable) ||
		errors.Is(err, ErrStaleDeadline) ||
		errors.Is(err, ErrCommitmentUsed) ||
		errors.Is(err, ErrInvalidDrop)
}

// IsNotFound returns true if the error indicates a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
