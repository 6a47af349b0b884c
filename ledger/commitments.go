/*
commitments.go - Conditional payment authorizations

PURPOSE:
  A commitment is the user's consent to be charged up to the bag price
  if the drop completes. It is created ACTIVE at consent time, valid
  until drop deadline + 24h, and carries a human-readable condition so
  receipts can show exactly what was agreed.

REVOCATION:
  The user may revoke while ACTIVE. Revoking a USED commitment is
  rejected: the charge already happened, the record must not lie about
  it afterwards.
*/
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/microlot/drop-engine/drops"
)

// commitmentValidity is how long past the drop deadline a commitment
// stays chargeable.
const commitmentValidity = 24 * time.Hour

// CommitmentInput carries the consent-time parameters.
type CommitmentInput struct {
	ReservationID     string
	UserID            string
	SelectedAccountID string
}

// CreateCommitment records consent for a reservation. Max chargeable
// amount is the drop's price for the reserved bag size; validity is the
// drop deadline + 24h.
func (s *Service) CreateCommitment(ctx context.Context, in CommitmentInput) (*drops.Commitment, error) {
	var created drops.Commitment
	err := s.update(ctx, func(state *drops.AppState) error {
		r := state.FindReservation(in.ReservationID)
		if r == nil {
			return &drops.NotFoundError{Kind: "reservation", ID: in.ReservationID}
		}
		d := state.FindDrop(r.DropID)
		if d == nil {
			return &drops.NotFoundError{Kind: "drop", ID: r.DropID}
		}

		created = drops.Commitment{
			ID:            s.newID(),
			ReservationID: r.ID,
			UserID:        in.UserID,
			MaxAmount:     d.Prices[r.Size],
			ValidUntil:    d.Deadline.Add(commitmentValidity),
			Condition: fmt.Sprintf("Charge only if %s are reserved before %s",
				formatGrams(d.GoalGrams), d.Deadline.Format("Jan 2, 2006")),
			SelectedAccountID: in.SelectedAccountID,
			Status:            drops.CommitmentActive,
			CreatedAt:         s.now(),
		}
		state.Commitments = append(state.Commitments, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// RevokeCommitment sets an ACTIVE commitment to REVOKED. No side
// effects on payments or reservations. USED commitments are rejected.
func (s *Service) RevokeCommitment(ctx context.Context, commitmentID string) error {
	return s.update(ctx, func(state *drops.AppState) error {
		c := state.FindCommitment(commitmentID)
		if c == nil {
			return &drops.NotFoundError{Kind: "commitment", ID: commitmentID}
		}
		if c.Status == drops.CommitmentUsed {
			return drops.ErrCommitmentUsed
		}
		c.Status = drops.CommitmentRevoked
		return nil
	})
}

// formatGrams renders a weight the way receipts show it: "250g", "1kg",
// "12.5kg".
func formatGrams(grams int) string {
	if grams < 1000 {
		return fmt.Sprintf("%dg", grams)
	}
	kg := float64(grams) / 1000
	if kg == float64(int(kg)) {
		return fmt.Sprintf("%dkg", int(kg))
	}
	return fmt.Sprintf("%.1fkg", kg)
}
