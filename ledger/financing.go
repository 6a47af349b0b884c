/*
financing.go - Roaster KPIs and the financing offer lifecycle

OFFER REFRESH POLICY:
  Exactly one offer exists per roaster at a time. It is created on the
  first KPI computation, and while its status is OFFERED every refresh
  recomputes amount/repayPct/termWeeks/basedOnKPIs and overwrites them
  when any numeric field changed (exact equality). ACCEPTED and DECLINED
  offers are frozen forever.
*/
package ledger

import (
	"context"

	"github.com/microlot/drop-engine/drops"
	"github.com/microlot/drop-engine/finance"
)

// RoasterKPIs aggregates the roaster's metrics at the current instant.
func (s *Service) RoasterKPIs(ctx context.Context, roasterID string) (finance.KPIs, error) {
	state, err := s.read(ctx)
	if err != nil {
		return finance.KPIs{}, err
	}
	return finance.ComputeRoasterKPIs(roasterID, state.Drops, state.Reservations,
		state.Payments, state.Payouts, s.now()), nil
}

// RefreshFinancingOffer recomputes the roaster's offer from current
// KPIs. Creates the offer if absent; overwrites a live OFFERED offer
// only when the terms actually changed; leaves ACCEPTED/DECLINED offers
// untouched. Returns the offer as it stands after the refresh.
func (s *Service) RefreshFinancingOffer(ctx context.Context, roasterID string) (*drops.FinancingOffer, error) {
	var result drops.FinancingOffer
	err := s.update(ctx, func(state *drops.AppState) error {
		kpis := finance.ComputeRoasterKPIs(roasterID, state.Drops, state.Reservations,
			state.Payments, state.Payouts, s.now())
		terms := finance.ComputeOffer(kpis)

		existing := state.FindOfferByRoaster(roasterID)
		if existing == nil {
			snapshot := terms.BasedOnKPIs
			result = drops.FinancingOffer{
				ID:          s.newID(),
				RoasterID:   roasterID,
				Amount:      terms.Amount,
				RepayPct:    terms.RepayPct,
				TermWeeks:   terms.TermWeeks,
				Status:      drops.OfferOffered,
				BasedOnKPIs: &snapshot,
				CreatedAt:   s.now(),
			}
			state.FinancingOffers = append(state.FinancingOffers, result)
			return nil
		}

		if existing.Status != drops.OfferOffered {
			result = *existing
			return nil
		}

		if offerTermsEqual(*existing, terms) {
			result = *existing
			return nil
		}

		snapshot := terms.BasedOnKPIs
		existing.Amount = terms.Amount
		existing.RepayPct = terms.RepayPct
		existing.TermWeeks = terms.TermWeeks
		existing.BasedOnKPIs = &snapshot
		result = *existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// offerTermsEqual compares the numeric fields by exact equality.
func offerTermsEqual(offer drops.FinancingOffer, terms finance.OfferTerms) bool {
	if !offer.Amount.Equal(terms.Amount) ||
		offer.RepayPct != terms.RepayPct ||
		offer.TermWeeks != terms.TermWeeks {
		return false
	}
	if offer.BasedOnKPIs == nil {
		return false
	}
	return *offer.BasedOnKPIs == terms.BasedOnKPIs
}

// AcceptFinancingOffer freezes the offer as ACCEPTED and records when.
func (s *Service) AcceptFinancingOffer(ctx context.Context, roasterID string) error {
	return s.setOfferStatus(ctx, roasterID, drops.OfferAccepted)
}

// DeclineFinancingOffer freezes the offer as DECLINED.
func (s *Service) DeclineFinancingOffer(ctx context.Context, roasterID string) error {
	return s.setOfferStatus(ctx, roasterID, drops.OfferDeclined)
}

func (s *Service) setOfferStatus(ctx context.Context, roasterID string, status drops.OfferStatus) error {
	return s.update(ctx, func(state *drops.AppState) error {
		offer := state.FindOfferByRoaster(roasterID)
		if offer == nil {
			return &drops.NotFoundError{Kind: "offer", ID: roasterID}
		}
		if offer.Status != drops.OfferOffered {
			// Already frozen; decided offers don't change.
			return nil
		}
		offer.Status = status
		if status == drops.OfferAccepted {
			now := s.now()
			offer.AcceptedAt = &now
		}
		return nil
	})
}
