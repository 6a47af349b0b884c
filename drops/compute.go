/*
compute.go - Pure derived-state computations for drops

PURPOSE:
  The status/progress engine. Everything in this file is a pure function
  of (drop, reservations, now): no clock reads, no stored status, no
  mutation. Callers recompute on every read; a cancellation that lowers
  reserved weight below goal moves a previously COMPLETED drop back.

STATUS RULES:
  COMPLETED  reservedGrams >= goalGrams
  EXPIRED    now > deadline AND reservedGrams < goalGrams
  ACTIVE     otherwise

  Completion is evaluated first: a drop that reached its goal before the
  deadline stays COMPLETED when queried after the deadline has passed.
  Reservations only exist pre-deadline, so current weight >= goal implies
  the goal was met in time.

CAP:
  Reservations are admitted up to floor(goal * 1.15). The cap is the only
  admission gate; the deadline is NOT checked at reservation time (caller
  responsibility, see CanReserve).

SEE ALSO:
  - types.go: Entity definitions
  - errors.go: AdmissionError and friends
  - finance package: KPI aggregation built on ReservedGrams/Status
*/
package drops

import (
	"math"
	"time"
)

// capRatio is the hard reservation ceiling relative to the goal.
const capRatio = 1.15

// =============================================================================
// RESERVED WEIGHT
// =============================================================================

// ReservedGrams sums quantity*bagSizeGrams over the drop's ACTIVE
// reservations. Canceled and fulfilled reservations contribute zero.
func ReservedGrams(dropID string, reservations []Reservation) int {
	total := 0
	for _, r := range reservations {
		if r.DropID == dropID && r.Status == ReservationActive {
			total += r.Grams()
		}
	}
	return total
}

// =============================================================================
// STATUS
// =============================================================================

// Status derives the drop's lifecycle state from the current reservation
// set and an explicit clock reading.
func Status(drop Drop, reservations []Reservation, now time.Time) DropStatus {
	reserved := ReservedGrams(drop.ID, reservations)

	// Completion takes precedence over lateness: a drop that reached its
	// goal stays COMPLETED even when queried after the deadline. Only the
	// current reservation set matters, so a cancellation can move it back.
	if reserved >= drop.GoalGrams {
		return DropCompleted
	}
	if now.After(drop.Deadline) {
		return DropExpired
	}
	return DropActive
}

// =============================================================================
// CAP / PROGRESS / AVAILABILITY
// =============================================================================

// CapGrams is the hard reservation ceiling: floor(goal * 1.15).
func CapGrams(drop Drop) int {
	return int(math.Floor(float64(drop.GoalGrams) * capRatio))
}

// ProgressPercent is reserved/goal as a rounded percentage, clamped to
// 115. A zero goal yields 0.
func ProgressPercent(drop Drop, reservations []Reservation) int {
	if drop.GoalGrams == 0 {
		return 0
	}
	reserved := ReservedGrams(drop.ID, reservations)
	pct := int(math.Round(float64(reserved) / float64(drop.GoalGrams) * 100))
	if pct > 115 {
		return 115
	}
	return pct
}

// AvailableGrams is the weight still admissible under the cap, floored
// at zero.
func AvailableGrams(drop Drop, reservations []Reservation) int {
	avail := CapGrams(drop) - ReservedGrams(drop.ID, reservations)
	if avail < 0 {
		return 0
	}
	return avail
}

// =============================================================================
// ADMISSION CONTROL
// =============================================================================

// Admission is the outcome of a cap check. AvailableGrams is reported on
// both outcomes so callers can offer a reduced quantity on rejection.
type Admission struct {
	OK             bool
	AvailableGrams int
}

// CanReserve gates a new reservation against the 115% cap. This is the
// only admission gate: deadline and drop status are deliberately not
// re-verified here; that is the caller's contract.
func CanReserve(drop Drop, reservations []Reservation, requestedGrams int) Admission {
	reserved := ReservedGrams(drop.ID, reservations)
	cap := CapGrams(drop)
	avail := cap - reserved
	if avail < 0 {
		avail = 0
	}
	return Admission{
		OK:             reserved+requestedGrams <= cap,
		AvailableGrams: avail,
	}
}

// =============================================================================
// PAYABILITY
// =============================================================================

// CanPay reports whether a confirmed charge may proceed: the drop is
// COMPLETED, the reservation and commitment are both ACTIVE, and the
// commitment points at the reservation.
//
// The status check narrows to the single reservation in question. That is
// sound only because callers establish drop-wide completion upstream with
// the full reservation list; this function exists to bundle the
// state/link checks without re-deriving aggregate weight.
func CanPay(drop Drop, reservation Reservation, commitment Commitment, now time.Time) bool {
	return Status(drop, []Reservation{reservation}, now) == DropCompleted &&
		reservation.Status == ReservationActive &&
		commitment.Status == CommitmentActive &&
		commitment.ReservationID == reservation.ID
}
