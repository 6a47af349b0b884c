/*
Package finance computes roaster KPIs and sizes financing offers.

PURPOSE:
  Aggregates a roaster's drops, reservations, payments, and payouts into
  a KPI set, and derives a deterministic credit offer from those KPIs.
  Both computations are pure: same inputs, same outputs, no clock reads
  beyond the explicit `now` parameter.

OFFER FORMULA:
  amount = round(2500 * fillMult * cancelMult * volumeMult)
    fillMult   = min(2.0, avgFillRate / 50)       50% fill -> 1.0x
    cancelMult = 1.0 - min(0.5, cancelRate / 100) 50% cancel -> 0.5x
    volumeMult = min(1.5, 0.5 + volumeGrams/1000)
  Repayment terms are fixed: 6% of payouts over 8 weeks.

SEE ALSO:
  - drops package: ReservedGrams/Status feeding the fill-rate and
    completed-drop KPIs
  - ledger package: Offer refresh policy (create/overwrite while OFFERED)
*/
package finance

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/microlot/drop-engine/drops"
)

// Fixed offer terms.
const (
	BaseOfferAmount = 2500
	RepayPct        = 6
	TermWeeks       = 8
)

// KPIs is the aggregate metric set for one roaster.
type KPIs struct {
	ExpectedRevenue  decimal.Decimal `json:"expectedRevenue"`
	AvgFillRate      float64         `json:"avgFillRate"`
	NetPayouts       decimal.Decimal `json:"netPayouts"`
	TotalDrops       int             `json:"totalDrops"`
	CompletedDrops   int             `json:"completedDrops"`
	CancellationRate float64         `json:"cancellationRate"`
	VolumeIndex      int             `json:"volumeIndex"`
}

// OfferTerms is a sized financing offer before it becomes a persisted
// FinancingOffer entity.
type OfferTerms struct {
	Amount      decimal.Decimal
	RepayPct    int
	TermWeeks   int
	BasedOnKPIs drops.KPISnapshot
}

// =============================================================================
// KPI AGGREGATION
// =============================================================================

// ComputeRoasterKPIs aggregates metrics over everything belonging to one
// roaster. Fill rates are unweighted means over the roaster's drops; the
// cancellation rate is over its reservations.
func ComputeRoasterKPIs(roasterID string, allDrops []drops.Drop, reservations []drops.Reservation,
	payments []drops.Payment, payouts []drops.Payout, now time.Time) KPIs {

	roasterDrops := make([]drops.Drop, 0)
	dropIDs := make(map[string]bool)
	for _, d := range allDrops {
		if d.Roaster == roasterID {
			roasterDrops = append(roasterDrops, d)
			dropIDs[d.ID] = true
		}
	}

	// Expected revenue: confirmed payments against the roaster's drops.
	expectedRevenue := decimal.Zero
	for _, p := range payments {
		if p.Status == drops.PaymentConfirmed && dropIDs[p.DropID] {
			expectedRevenue = expectedRevenue.Add(p.Amount)
		}
	}

	// Average fill rate: unweighted mean of reserved/goal per drop.
	avgFillRate := 0.0
	completedDrops := 0
	volumeIndex := 0
	if len(roasterDrops) > 0 {
		sum := 0.0
		for _, d := range roasterDrops {
			if d.GoalGrams > 0 {
				reserved := drops.ReservedGrams(d.ID, reservations)
				sum += float64(reserved) / float64(d.GoalGrams) * 100
			}
			if drops.Status(d, reservations, now) == drops.DropCompleted {
				completedDrops++
			}
			volumeIndex += d.GoalGrams
		}
		avgFillRate = sum / float64(len(roasterDrops))
	}

	// Net payouts for the roaster.
	netPayouts := decimal.Zero
	for _, p := range payouts {
		if p.RoasterID == roasterID {
			netPayouts = netPayouts.Add(p.NetAmount)
		}
	}

	// Cancellation rate over the roaster's reservations.
	total, canceled := 0, 0
	for _, r := range reservations {
		if !dropIDs[r.DropID] {
			continue
		}
		total++
		if r.Status == drops.ReservationCanceled {
			canceled++
		}
	}
	cancellationRate := 0.0
	if total > 0 {
		cancellationRate = float64(canceled) / float64(total) * 100
	}

	return KPIs{
		ExpectedRevenue:  expectedRevenue,
		AvgFillRate:      avgFillRate,
		NetPayouts:       netPayouts,
		TotalDrops:       len(roasterDrops),
		CompletedDrops:   completedDrops,
		CancellationRate: cancellationRate,
		VolumeIndex:      volumeIndex,
	}
}

// =============================================================================
// OFFER SIZING
// =============================================================================

// ComputeOffer sizes a financing offer from a KPI set. Deterministic:
// identical KPIs always produce identical terms.
func ComputeOffer(kpis KPIs) OfferTerms {
	fillMult := math.Min(2.0, kpis.AvgFillRate/50)
	cancelMult := 1.0 - math.Min(0.5, kpis.CancellationRate/100)
	volumeMult := math.Min(1.5, 0.5+float64(kpis.VolumeIndex)/1000)

	amount := math.Round(BaseOfferAmount * fillMult * cancelMult * volumeMult)

	return OfferTerms{
		Amount:    decimal.NewFromInt(int64(amount)),
		RepayPct:  RepayPct,
		TermWeeks: TermWeeks,
		BasedOnKPIs: drops.KPISnapshot{
			FillRate:         kpis.AvgFillRate,
			CancellationRate: kpis.CancellationRate,
			VolumeIndex:      kpis.VolumeIndex,
		},
	}
}
