/*
reservations.go - Reservation admission and cancellation

ADMISSION:
  The 115% cap is the only gate. Deadline and drop status are not
  re-verified here; callers decide whether an EXPIRED drop still takes
  reservations. On rejection the error carries the grams still
  available so the caller can offer a reduced quantity.

CANCELLATION:
  Permitted only while now <= drop deadline. Canceling does NOT revoke a
  linked ACTIVE commitment; the commitment stays until the user revokes
  it or it backs a payment (which CanPay then blocks, since the
  reservation is no longer ACTIVE).
*/
package ledger

import (
	"context"

	"github.com/microlot/drop-engine/drops"
)

// ReservationInput carries the customer-chosen reservation fields.
type ReservationInput struct {
	DropID   string
	UserID   string
	Size     drops.BagSize
	Quantity int
	Grind    drops.GrindType
	Delivery drops.DeliveryMethod
}

// CreateReservation admits a reservation against the drop's cap and
// stores it ACTIVE. Returns AdmissionError when the requested weight
// would exceed floor(goal * 1.15).
func (s *Service) CreateReservation(ctx context.Context, in ReservationInput) (*drops.Reservation, error) {
	if in.Quantity < 1 {
		in.Quantity = 1
	}

	var created drops.Reservation
	err := s.update(ctx, func(state *drops.AppState) error {
		d := state.FindDrop(in.DropID)
		if d == nil {
			return &drops.NotFoundError{Kind: "drop", ID: in.DropID}
		}

		requestedGrams := in.Quantity * in.Size.Grams()
		admission := drops.CanReserve(*d, state.Reservations, requestedGrams)
		if !admission.OK {
			return &drops.AdmissionError{
				DropID:         d.ID,
				RequestedGrams: requestedGrams,
				AvailableGrams: admission.AvailableGrams,
			}
		}

		created = drops.Reservation{
			ID:           s.newID(),
			DropID:       in.DropID,
			UserID:       in.UserID,
			Size:         in.Size,
			Quantity:     in.Quantity,
			BagSizeGrams: in.Size.Grams(),
			Grind:        in.Grind,
			Delivery:     in.Delivery,
			Status:       drops.ReservationActive,
			CreatedAt:    s.now(),
		}
		state.Reservations = append(state.Reservations, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// CancelReservation sets the reservation CANCELED. Rejected with
// ErrStaleDeadline once the drop's deadline has passed; no state
// changes on rejection.
func (s *Service) CancelReservation(ctx context.Context, reservationID string) error {
	return s.update(ctx, func(state *drops.AppState) error {
		r := state.FindReservation(reservationID)
		if r == nil {
			return &drops.NotFoundError{Kind: "reservation", ID: reservationID}
		}
		d := state.FindDrop(r.DropID)
		if d == nil {
			return &drops.NotFoundError{Kind: "drop", ID: r.DropID}
		}
		if s.now().After(d.Deadline) {
			return drops.ErrStaleDeadline
		}
		r.Status = drops.ReservationCanceled
		return nil
	})
}
