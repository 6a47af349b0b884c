/*
payments.go - The idempotent confirm path and the payout side effect

PURPOSE:
  This is the invariant holder of the whole engine:

  1. At most one payment exists per (reservationId, commitmentId) pair.
  2. A CONFIRMED payment is immutable; re-confirming is a no-op that
     returns the same payment id.
  3. Confirming marks the commitment USED and the reservation FULFILLED,
     each only if not already in that state.
  4. At most one payout exists per drop. It is created lazily the first
     time any payment for the drop confirms, summing ALL confirmed
     payments for the drop at that moment. It is never topped up: a
     later confirmation for the same drop changes nothing.

  All of it happens inside one load-modify-save, so the caller observes
  either the whole transition or none of it.

PAYOUT FEE:
  fee = 1% of gross when the global mode is INSTANT, else 0.
  net = gross - fee. INSTANT payouts are created PAID, NORMAL ones
  SCHEDULED; the status is fixed at creation.

SEE ALSO:
  - drops/compute.go: CanPay, the precondition for a first confirmation
  - spec-free general path: CreatePayment/ConfirmPayment/MarkPaymentFailed
    below, for callers that stage INITIATED payments explicitly
*/
package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/microlot/drop-engine/drops"
)

// instantFeeRate is the payout fee applied in INSTANT mode.
var instantFeeRate = decimal.NewFromFloat(0.01)

// ConfirmPaymentInput identifies the commitment being charged and the
// charge itself.
type ConfirmPaymentInput struct {
	ReservationID string
	CommitmentID  string
	DropID        string
	UserID        string
	Amount        decimal.Decimal
	Beneficiary   string
	Reference     string
}

// ConfirmPaymentForReservation is the idempotent upsert-and-confirm
// path. Calling it twice with identical parameters yields exactly one
// payment, one payout per drop, and the same payment id both times.
//
// A first-time confirmation (no payment exists yet for the pair) is
// checked against CanPay and rejected with ErrNotPayable when the
// drop/reservation/commitment conjunction does not hold. The re-confirm
// paths skip that check: the states it inspects were already flipped by
// the first confirmation.
func (s *Service) ConfirmPaymentForReservation(ctx context.Context, in ConfirmPaymentInput) (string, error) {
	var paymentID string
	err := s.update(ctx, func(state *drops.AppState) error {
		existing := state.FindPaymentByPair(in.ReservationID, in.CommitmentID)

		// Already confirmed: complete no-op.
		if existing != nil && existing.Status == drops.PaymentConfirmed {
			paymentID = existing.ID
			return nil
		}

		now := s.now()
		if existing != nil {
			// Staged payment: confirm it in place.
			existing.Status = drops.PaymentConfirmed
			existing.ConfirmedAt = &now
			paymentID = existing.ID
		} else {
			r := state.FindReservation(in.ReservationID)
			if r == nil {
				return &drops.NotFoundError{Kind: "reservation", ID: in.ReservationID}
			}
			c := state.FindCommitment(in.CommitmentID)
			if c == nil {
				return &drops.NotFoundError{Kind: "commitment", ID: in.CommitmentID}
			}
			d := state.FindDrop(in.DropID)
			if d == nil {
				return &drops.NotFoundError{Kind: "drop", ID: in.DropID}
			}
			if !drops.CanPay(*d, *r, *c, now) {
				return drops.ErrNotPayable
			}

			// No staged payment: create directly in CONFIRMED.
			payment := drops.Payment{
				ID:            s.newID(),
				ReservationID: in.ReservationID,
				CommitmentID:  in.CommitmentID,
				DropID:        in.DropID,
				UserID:        in.UserID,
				Amount:        in.Amount,
				Beneficiary:   in.Beneficiary,
				Reference:     in.Reference,
				Status:        drops.PaymentConfirmed,
				CreatedAt:     now,
				ConfirmedAt:   &now,
			}
			state.Payments = append(state.Payments, payment)
			paymentID = payment.ID
		}

		s.applyConfirmationEffects(state, in.ReservationID, in.CommitmentID, in.DropID)
		return nil
	})
	if err != nil {
		return "", err
	}
	return paymentID, nil
}

// applyConfirmationEffects flips the commitment and reservation into
// their terminal states (each idempotently) and creates the drop's
// payout if it does not exist yet.
func (s *Service) applyConfirmationEffects(state *drops.AppState, reservationID, commitmentID, dropID string) {
	if c := state.FindCommitment(commitmentID); c != nil && c.Status != drops.CommitmentUsed {
		c.Status = drops.CommitmentUsed
	}
	if r := state.FindReservation(reservationID); r != nil && r.Status != drops.ReservationFulfilled {
		r.Status = drops.ReservationFulfilled
	}

	// Single payout per drop; an existing one is never topped up.
	if state.FindPayoutByDrop(dropID) != nil {
		return
	}
	d := state.FindDrop(dropID)
	if d == nil {
		return
	}

	gross := decimal.Zero
	confirmed := 0
	for _, p := range state.Payments {
		if p.DropID == dropID && p.Status == drops.PaymentConfirmed {
			gross = gross.Add(p.Amount)
			confirmed++
		}
	}
	if confirmed == 0 {
		return
	}

	fee := decimal.Zero
	payoutStatus := drops.PayoutScheduled
	if state.PayoutConfig.Mode == drops.PayoutInstant {
		fee = gross.Mul(instantFeeRate)
		payoutStatus = drops.PayoutPaid
	}

	state.Payouts = append(state.Payouts, drops.Payout{
		ID:          s.newID(),
		DropID:      dropID,
		RoasterID:   d.Roaster,
		GrossAmount: gross,
		FeeAmount:   fee,
		NetAmount:   gross.Sub(fee),
		Mode:        state.PayoutConfig.Mode,
		Status:      payoutStatus,
		CreatedAt:   s.now(),
	})
}

// =============================================================================
// GENERAL PATH - staged payments
// =============================================================================

// CreatePayment stages an INITIATED payment for a pair that has none
// yet. The idempotency boundary applies here too: if a payment already
// exists for the pair, its id is returned unchanged.
func (s *Service) CreatePayment(ctx context.Context, in ConfirmPaymentInput) (string, error) {
	var paymentID string
	err := s.update(ctx, func(state *drops.AppState) error {
		if existing := state.FindPaymentByPair(in.ReservationID, in.CommitmentID); existing != nil {
			paymentID = existing.ID
			return nil
		}
		payment := drops.Payment{
			ID:            s.newID(),
			ReservationID: in.ReservationID,
			CommitmentID:  in.CommitmentID,
			DropID:        in.DropID,
			UserID:        in.UserID,
			Amount:        in.Amount,
			Beneficiary:   in.Beneficiary,
			Reference:     in.Reference,
			Status:        drops.PaymentInitiated,
			CreatedAt:     s.now(),
		}
		state.Payments = append(state.Payments, payment)
		paymentID = payment.ID
		return nil
	})
	if err != nil {
		return "", err
	}
	return paymentID, nil
}

// ConfirmPayment confirms a staged payment by id, with the same side
// effects as the upsert path. Already-confirmed payments are a no-op.
func (s *Service) ConfirmPayment(ctx context.Context, paymentID string) error {
	return s.update(ctx, func(state *drops.AppState) error {
		var payment *drops.Payment
		for i := range state.Payments {
			if state.Payments[i].ID == paymentID {
				payment = &state.Payments[i]
				break
			}
		}
		if payment == nil {
			return &drops.NotFoundError{Kind: "payment", ID: paymentID}
		}
		if payment.Status == drops.PaymentConfirmed {
			return nil
		}

		now := s.now()
		payment.Status = drops.PaymentConfirmed
		payment.ConfirmedAt = &now
		s.applyConfirmationEffects(state, payment.ReservationID, payment.CommitmentID, payment.DropID)
		return nil
	})
}

// MarkPaymentFailed moves an INITIATED payment to its terminal FAILED
// state. Confirmed payments are immutable and cannot fail.
func (s *Service) MarkPaymentFailed(ctx context.Context, paymentID string) error {
	return s.update(ctx, func(state *drops.AppState) error {
		for i := range state.Payments {
			if state.Payments[i].ID == paymentID {
				if state.Payments[i].Status != drops.PaymentInitiated {
					return drops.ErrNotPayable
				}
				state.Payments[i].Status = drops.PaymentFailed
				return nil
			}
		}
		return &drops.NotFoundError{Kind: "payment", ID: paymentID}
	})
}
