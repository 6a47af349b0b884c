/*
Package drops contains the core domain model for the group-buy pre-order
engine.

PURPOSE:
  This package defines the entities of the platform (Drop, Reservation,
  Commitment, Payment, Payout, FinancingOffer, BankConnection) and the
  pure computation layer over them: derived drop status, reserved weight,
  the 115% reservation cap, admission control, and payment eligibility.

KEY CONCEPTS IN THIS FILE (types.go):
  - Drop: A time-boxed, weight-goal-based group pre-order of a coffee batch
  - Reservation: A customer's claim on bags within a drop
  - Commitment: A conditional payment authorization tied to one reservation
  - Payment: An actual charge record resulting from a fulfilled commitment
  - Payout: A roaster's aggregated disbursement for one drop
  - AppState: The single versioned aggregate document holding everything

DESIGN PRINCIPLES:
  1. Purity: Status is always derived from current data, never cached.
     Every time-dependent function takes `now` as an explicit parameter.
  2. Precision: Uses decimal.Decimal for money. Weights are int grams.
  3. Exhaustive enums: Every entity has a closed status set; transitions
     are enforced by ledger operations, not ad-hoc field writes.
  4. Single document: AppState is mutated as one unit by a single writer.

SEE ALSO:
  - compute.go: Derived status, progress, cap, admission, payability
  - errors.go: Error taxonomy shared by the ledger and HTTP layers
  - ledger package: Stateful operations over AppState
*/
package drops

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// BAG SIZES
// =============================================================================

// BagSize is one of the three sellable bag formats.
type BagSize string

const (
	Bag250g BagSize = "250g"
	Bag500g BagSize = "500g"
	Bag1kg  BagSize = "1kg"
)

// Grams returns the weight of a single bag of this size.
// Unknown sizes resolve to 0 so they never count toward a goal.
func (b BagSize) Grams() int {
	switch b {
	case Bag250g:
		return 250
	case Bag500g:
		return 500
	case Bag1kg:
		return 1000
	default:
		return 0
	}
}

// BagSizeFromGrams maps a bag weight back to its size label.
func BagSizeFromGrams(grams int) (BagSize, bool) {
	switch grams {
	case 250:
		return Bag250g, true
	case 500:
		return Bag500g, true
	case 1000:
		return Bag1kg, true
	default:
		return "", false
	}
}

// =============================================================================
// STATUS ENUMS
// =============================================================================

// DropStatus is derived, never stored: see Status in compute.go.
type DropStatus string

const (
	DropActive    DropStatus = "ACTIVE"
	DropCompleted DropStatus = "COMPLETED"
	DropExpired   DropStatus = "EXPIRED"
)

type ReservationStatus string

const (
	ReservationActive    ReservationStatus = "ACTIVE"
	ReservationCanceled  ReservationStatus = "CANCELED"
	ReservationFulfilled ReservationStatus = "FULFILLED"
)

type CommitmentStatus string

const (
	CommitmentActive  CommitmentStatus = "ACTIVE"
	CommitmentRevoked CommitmentStatus = "REVOKED"
	CommitmentUsed    CommitmentStatus = "USED"
)

type PaymentStatus string

const (
	PaymentInitiated PaymentStatus = "INITIATED"
	PaymentConfirmed PaymentStatus = "CONFIRMED"
	PaymentFailed    PaymentStatus = "FAILED"
)

type PayoutMode string

const (
	PayoutNormal  PayoutMode = "NORMAL"
	PayoutInstant PayoutMode = "INSTANT"
)

type PayoutStatus string

const (
	PayoutScheduled PayoutStatus = "SCHEDULED"
	PayoutPaid      PayoutStatus = "PAID"
)

type OfferStatus string

const (
	OfferOffered  OfferStatus = "OFFERED"
	OfferAccepted OfferStatus = "ACCEPTED"
	OfferDeclined OfferStatus = "DECLINED"
)

// GrindType is how the customer wants the coffee ground.
type GrindType string

const (
	GrindWhole    GrindType = "whole"
	GrindEspresso GrindType = "espresso"
	GrindFilter   GrindType = "filter"
	GrindPress    GrindType = "press"
)

// DeliveryMethod is how the customer receives the order.
type DeliveryMethod string

const (
	DeliveryShipping DeliveryMethod = "shipping"
	DeliveryPickup   DeliveryMethod = "pickup"
)

// =============================================================================
// ENTITIES
// =============================================================================

// Drop is a coffee batch a roaster offers for group pre-order.
// Its status is never stored; it is derived from goal, deadline, and the
// current reservation set.
type Drop struct {
	ID                string                      `json:"id"`
	Name              string                      `json:"name"`
	Roaster           string                      `json:"roaster"`
	Origin            string                      `json:"origin"`
	Process           string                      `json:"process"`
	Prices            map[BagSize]decimal.Decimal `json:"prices"`
	GoalGrams         int                         `json:"goalGrams"`
	Deadline          time.Time                   `json:"deadline"`
	RoastDateEstimate *time.Time                  `json:"roastDateEstimate,omitempty"`
	TastingNotes      []string                    `json:"tastingNotes,omitempty"`
	CreatedAt         time.Time                   `json:"createdAt"`
}

// Reservation is a customer's claim on a quantity of bags for a drop.
// Only ACTIVE reservations count toward a drop's reserved weight.
type Reservation struct {
	ID           string            `json:"id"`
	DropID       string            `json:"dropId"`
	UserID       string            `json:"userId"`
	Size         BagSize           `json:"size"`
	Quantity     int               `json:"quantity"`
	BagSizeGrams int               `json:"bagSizeGrams"`
	Grind        GrindType         `json:"grind"`
	Delivery     DeliveryMethod    `json:"delivery"`
	Status       ReservationStatus `json:"status"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// Grams returns the total weight this reservation claims.
func (r Reservation) Grams() int {
	return r.Quantity * r.BagSizeGrams
}

// Commitment is a conditional, revocable authorization to charge up to
// MaxAmount for one reservation. Valid until drop deadline + 24h.
type Commitment struct {
	ID                string           `json:"id"`
	ReservationID     string           `json:"reservationId"`
	UserID            string           `json:"userId"`
	MaxAmount         decimal.Decimal  `json:"maxAmount"`
	ValidUntil        time.Time        `json:"validUntil"`
	Condition         string           `json:"condition"`
	SelectedAccountID string           `json:"selectedAccountId,omitempty"`
	Status            CommitmentStatus `json:"status"`
	CreatedAt         time.Time        `json:"createdAt"`
}

// Payment records money charged (or attempted) against a commitment.
// INVARIANT: at most one payment per (ReservationID, CommitmentID) pair.
// A CONFIRMED payment is immutable.
type Payment struct {
	ID            string          `json:"id"`
	ReservationID string          `json:"reservationId"`
	CommitmentID  string          `json:"commitmentId"`
	DropID        string          `json:"dropId"`
	UserID        string          `json:"userId"`
	Amount        decimal.Decimal `json:"amount"`
	Beneficiary   string          `json:"beneficiary"`
	Reference     string          `json:"reference"`
	Status        PaymentStatus   `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	ConfirmedAt   *time.Time      `json:"confirmedAt,omitempty"`
}

// Payout is the aggregated disbursement to a roaster for one drop.
// INVARIANT: at most one payout per DropID, created lazily on the first
// confirmed payment for that drop and never topped up afterward.
type Payout struct {
	ID          string          `json:"id"`
	DropID      string          `json:"dropId"`
	RoasterID   string          `json:"roasterId"`
	GrossAmount decimal.Decimal `json:"grossAmount"`
	FeeAmount   decimal.Decimal `json:"feeAmount"`
	NetAmount   decimal.Decimal `json:"netAmount"`
	Mode        PayoutMode      `json:"mode"`
	Status      PayoutStatus    `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// KPISnapshot is the numeric basis a financing offer was computed from.
type KPISnapshot struct {
	FillRate         float64 `json:"fillRate"`
	CancellationRate float64 `json:"cancellationRate"`
	VolumeIndex      int     `json:"volumeIndex"`
}

// FinancingOffer is a computed credit offer for a roaster. While OFFERED
// it is refreshed on every KPI change; it freezes once accepted/declined.
type FinancingOffer struct {
	ID          string          `json:"id"`
	RoasterID   string          `json:"roasterId"`
	Amount      decimal.Decimal `json:"amount"`
	RepayPct    int             `json:"repayPct"`
	TermWeeks   int             `json:"termWeeks"`
	Status      OfferStatus     `json:"status"`
	BasedOnKPIs *KPISnapshot    `json:"basedOnKPIs,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	AcceptedAt  *time.Time      `json:"acceptedAt,omitempty"`
}

// BankAccount is a simulated account inside a bank connection.
type BankAccount struct {
	ID          string `json:"id"`
	IBAN        string `json:"iban"`
	DisplayName string `json:"displayName"`
}

// BankConnection is a simulated linked bank. It only exists to feed the
// commitment's selected-account reference; no real banking semantics.
type BankConnection struct {
	ID          string        `json:"id"`
	BankID      string        `json:"bankId"`
	BankName    string        `json:"bankName"`
	Status      string        `json:"status"`
	ConnectedAt time.Time     `json:"connectedAt"`
	Accounts    []BankAccount `json:"accounts"`
}

// BankConnected is the only connection status the simulation produces.
const BankConnected = "CONNECTED"

// PayoutConfig is the single global payout mode toggle.
type PayoutConfig struct {
	Mode PayoutMode `json:"mode"`
}

// =============================================================================
// AGGREGATE ROOT
// =============================================================================

// AppState is the aggregate root: every entity collection plus the global
// payout config, persisted as one schema-versioned document.
type AppState struct {
	Drops           []Drop           `json:"drops"`
	Reservations    []Reservation    `json:"reservations"`
	Commitments     []Commitment     `json:"commitments"`
	Payments        []Payment        `json:"payments"`
	PayoutConfig    PayoutConfig     `json:"payoutConfig"`
	Payouts         []Payout         `json:"payouts"`
	FinancingOffers []FinancingOffer `json:"financingOffers"`
	BankConnections []BankConnection `json:"bankConnections"`
}

// FindDrop returns the drop with the given id, or nil.
func (s *AppState) FindDrop(id string) *Drop {
	for i := range s.Drops {
		if s.Drops[i].ID == id {
			return &s.Drops[i]
		}
	}
	return nil
}

// FindReservation returns the reservation with the given id, or nil.
func (s *AppState) FindReservation(id string) *Reservation {
	for i := range s.Reservations {
		if s.Reservations[i].ID == id {
			return &s.Reservations[i]
		}
	}
	return nil
}

// FindCommitment returns the commitment with the given id, or nil.
func (s *AppState) FindCommitment(id string) *Commitment {
	for i := range s.Commitments {
		if s.Commitments[i].ID == id {
			return &s.Commitments[i]
		}
	}
	return nil
}

// FindPaymentByPair returns the payment keyed by (reservationID,
// commitmentID), the ledger's idempotency boundary, or nil.
func (s *AppState) FindPaymentByPair(reservationID, commitmentID string) *Payment {
	for i := range s.Payments {
		if s.Payments[i].ReservationID == reservationID && s.Payments[i].CommitmentID == commitmentID {
			return &s.Payments[i]
		}
	}
	return nil
}

// FindPayoutByDrop returns the payout for a drop, or nil. At most one
// exists per drop.
func (s *AppState) FindPayoutByDrop(dropID string) *Payout {
	for i := range s.Payouts {
		if s.Payouts[i].DropID == dropID {
			return &s.Payouts[i]
		}
	}
	return nil
}

// FindOfferByRoaster returns the roaster's financing offer, or nil.
// Exactly one offer exists per roaster at a time.
func (s *AppState) FindOfferByRoaster(roasterID string) *FinancingOffer {
	for i := range s.FinancingOffers {
		if s.FinancingOffers[i].RoasterID == roasterID {
			return &s.FinancingOffers[i]
		}
	}
	return nil
}
