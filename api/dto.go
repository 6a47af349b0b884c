/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupled from the domain
  model. Money fields travel as JSON strings (decimal's representation)
  so clients never see binary-float artifacts.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Done in handlers; DTOs are pure data carriers.
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/microlot/drop-engine/drops"
	"github.com/microlot/drop-engine/finance"
	"github.com/microlot/drop-engine/ledger"
)

// =============================================================================
// DROPS
// =============================================================================

// DropDTO is a drop plus its derived progress view.
type DropDTO struct {
	drops.Drop
	Progress ledger.DropProgress `json:"progress"`
}

// DropRequest is the body for creating or updating a drop.
type DropRequest struct {
	Name              string            `json:"name"`
	Roaster           string            `json:"roaster"`
	Origin            string            `json:"origin"`
	Process           string            `json:"process"`
	Prices            map[string]string `json:"prices"` // size -> decimal string
	GoalGrams         int               `json:"goalGrams"`
	Deadline          time.Time         `json:"deadline"`
	RoastDateEstimate *time.Time        `json:"roastDateEstimate,omitempty"`
	TastingNotes      []string          `json:"tastingNotes,omitempty"`
}

// ToInput converts the request to a ledger input. Unparseable prices
// become zero and fail drop validation downstream.
func (r DropRequest) ToInput() ledger.DropInput {
	prices := make(map[drops.BagSize]decimal.Decimal, len(r.Prices))
	for size, raw := range r.Prices {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			price = decimal.Zero
		}
		prices[drops.BagSize(size)] = price
	}
	return ledger.DropInput{
		Name:              r.Name,
		Roaster:           r.Roaster,
		Origin:            r.Origin,
		Process:           r.Process,
		Prices:            prices,
		GoalGrams:         r.GoalGrams,
		Deadline:          r.Deadline,
		RoastDateEstimate: r.RoastDateEstimate,
		TastingNotes:      r.TastingNotes,
	}
}

// =============================================================================
// RESERVATIONS / COMMITMENTS
// =============================================================================

type ReservationRequest struct {
	DropID   string `json:"dropId"`
	UserID   string `json:"userId"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
	Grind    string `json:"grind"`
	Delivery string `json:"delivery"`
}

type CommitmentRequest struct {
	ReservationID     string `json:"reservationId"`
	UserID            string `json:"userId"`
	SelectedAccountID string `json:"selectedAccountId,omitempty"`
}

// =============================================================================
// PAYMENTS
// =============================================================================

type ConfirmPaymentRequest struct {
	ReservationID string `json:"reservationId"`
	CommitmentID  string `json:"commitmentId"`
	DropID        string `json:"dropId"`
	UserID        string `json:"userId"`
	Amount        string `json:"amount"` // decimal string
	Beneficiary   string `json:"beneficiary"`
	Reference     string `json:"reference"`
}

type ConfirmPaymentResponse struct {
	PaymentID string `json:"paymentId"`
}

// =============================================================================
// PAYOUTS / FINANCING
// =============================================================================

type PayoutConfigRequest struct {
	Mode string `json:"mode"`
}

type KPIsDTO struct {
	finance.KPIs
	RoasterID string `json:"roasterId"`
}

type OfferDecisionRequest struct {
	Decision string `json:"decision"` // "accept" or "decline"
}

// =============================================================================
// BANKS
// =============================================================================

type ConnectBankRequest struct {
	BankID string `json:"bankId"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the uniform error body. AvailableGrams is set only
// for cap rejections so clients can offer a reduced quantity.
type ErrorResponse struct {
	Error          string `json:"error"`
	Detail         string `json:"detail,omitempty"`
	AvailableGrams *int   `json:"availableGrams,omitempty"`
}
