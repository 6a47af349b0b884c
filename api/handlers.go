/*
handlers.go - HTTP handlers for the drop engine

PURPOSE:
  Exposes the ledger's operation set via REST. Handlers parse and
  validate input, delegate to the ledger service, and map the error
  taxonomy to status codes.

ERROR MAPPING:
  400  malformed input
  404  referenced entity not found
  409  precondition failures (cap exceeded, not payable, stale
       deadline, revoking a used commitment)
  500  everything else

SEE ALSO:
  - dto.go: Request/response shapes
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/microlot/drop-engine/drops"
	"github.com/microlot/drop-engine/ledger"
)

// Handler holds the handler dependencies.
type Handler struct {
	Ledger *ledger.Service
}

// NewHandler creates a handler over the ledger service.
func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{Ledger: svc}
}

// =============================================================================
// DROP HANDLERS
// =============================================================================

// ListDrops returns all drops with their derived progress.
func (h *Handler) ListDrops(w http.ResponseWriter, r *http.Request) {
	state, err := h.Ledger.State(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load state", err)
		return
	}

	dtos := make([]DropDTO, 0, len(state.Drops))
	for _, d := range state.Drops {
		progress, err := h.Ledger.DropProgress(r.Context(), d.ID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to compute progress", err)
			return
		}
		dtos = append(dtos, DropDTO{Drop: d, Progress: *progress})
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetDrop returns one drop with its derived progress.
func (h *Handler) GetDrop(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	state, err := h.Ledger.State(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load state", err)
		return
	}
	d := state.FindDrop(id)
	if d == nil {
		writeError(w, http.StatusNotFound, "Drop not found", nil)
		return
	}
	progress, err := h.Ledger.DropProgress(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DropDTO{Drop: *d, Progress: *progress})
}

// CreateDrop creates a drop from the request body.
func (h *Handler) CreateDrop(w http.ResponseWriter, r *http.Request) {
	var req DropRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	created, err := h.Ledger.CreateDrop(r.Context(), req.ToInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateDrop replaces a drop's editable fields.
func (h *Handler) UpdateDrop(w http.ResponseWriter, r *http.Request) {
	var req DropRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	updated, err := h.Ledger.UpdateDrop(r.Context(), chi.URLParam(r, "id"), req.ToInput())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteDrop removes a drop.
func (h *Handler) DeleteDrop(w http.ResponseWriter, r *http.Request) {
	if err := h.Ledger.DeleteDrop(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetDropProgress returns just the derived view.
func (h *Handler) GetDropProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.Ledger.DropProgress(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

// =============================================================================
// RESERVATION HANDLERS
// =============================================================================

// CreateReservation admits a reservation against the drop's cap.
func (h *Handler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req ReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.UserID == "" || req.DropID == "" {
		writeError(w, http.StatusBadRequest, "dropId and userId are required", nil)
		return
	}
	if drops.BagSize(req.Size).Grams() == 0 {
		writeError(w, http.StatusBadRequest, "size must be one of 250g, 500g, 1kg", nil)
		return
	}

	created, err := h.Ledger.CreateReservation(r.Context(), ledger.ReservationInput{
		DropID:   req.DropID,
		UserID:   req.UserID,
		Size:     drops.BagSize(req.Size),
		Quantity: req.Quantity,
		Grind:    drops.GrindType(req.Grind),
		Delivery: drops.DeliveryMethod(req.Delivery),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// CancelReservation cancels a reservation while the deadline allows.
func (h *Handler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	if err := h.Ledger.CancelReservation(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// COMMITMENT HANDLERS
// =============================================================================

// CreateCommitment records payment consent for a reservation.
func (h *Handler) CreateCommitment(w http.ResponseWriter, r *http.Request) {
	var req CommitmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	created, err := h.Ledger.CreateCommitment(r.Context(), ledger.CommitmentInput{
		ReservationID:     req.ReservationID,
		UserID:            req.UserID,
		SelectedAccountID: req.SelectedAccountID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// RevokeCommitment revokes an ACTIVE commitment.
func (h *Handler) RevokeCommitment(w http.ResponseWriter, r *http.Request) {
	if err := h.Ledger.RevokeCommitment(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PAYMENT HANDLERS
// =============================================================================

// ConfirmPayment is the idempotent upsert-and-confirm endpoint.
// Repeating the call returns the same payment id with no new effects.
func (h *Handler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req ConfirmPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "amount must be a decimal string", err)
		return
	}

	paymentID, err := h.Ledger.ConfirmPaymentForReservation(r.Context(), ledger.ConfirmPaymentInput{
		ReservationID: req.ReservationID,
		CommitmentID:  req.CommitmentID,
		DropID:        req.DropID,
		UserID:        req.UserID,
		Amount:        amount,
		Beneficiary:   req.Beneficiary,
		Reference:     req.Reference,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ConfirmPaymentResponse{PaymentID: paymentID})
}

// ListPayments returns all payments.
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	state, err := h.Ledger.State(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load state", err)
		return
	}
	writeJSON(w, http.StatusOK, state.Payments)
}

// =============================================================================
// PAYOUT HANDLERS
// =============================================================================

// ListPayouts returns all payouts.
func (h *Handler) ListPayouts(w http.ResponseWriter, r *http.Request) {
	state, err := h.Ledger.State(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load state", err)
		return
	}
	writeJSON(w, http.StatusOK, state.Payouts)
}

// GetPayoutConfig returns the global payout mode.
func (h *Handler) GetPayoutConfig(w http.ResponseWriter, r *http.Request) {
	state, err := h.Ledger.State(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load state", err)
		return
	}
	writeJSON(w, http.StatusOK, state.PayoutConfig)
}

// SetPayoutConfig flips the global payout mode.
func (h *Handler) SetPayoutConfig(w http.ResponseWriter, r *http.Request) {
	var req PayoutConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	mode := drops.PayoutMode(req.Mode)
	if mode != drops.PayoutNormal && mode != drops.PayoutInstant {
		writeError(w, http.StatusBadRequest, "mode must be NORMAL or INSTANT", nil)
		return
	}
	if err := h.Ledger.SetPayoutMode(r.Context(), mode); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update payout mode", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ROASTER HANDLERS
// =============================================================================

// GetRoasterKPIs aggregates the roaster's metrics.
func (h *Handler) GetRoasterKPIs(w http.ResponseWriter, r *http.Request) {
	roasterID := chi.URLParam(r, "id")
	kpis, err := h.Ledger.RoasterKPIs(r.Context(), roasterID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute KPIs", err)
		return
	}
	writeJSON(w, http.StatusOK, KPIsDTO{KPIs: kpis, RoasterID: roasterID})
}

// GetFinancingOffer refreshes and returns the roaster's offer.
func (h *Handler) GetFinancingOffer(w http.ResponseWriter, r *http.Request) {
	offer, err := h.Ledger.RefreshFinancingOffer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, offer)
}

// DecideFinancingOffer accepts or declines the roaster's offer.
func (h *Handler) DecideFinancingOffer(w http.ResponseWriter, r *http.Request) {
	var req OfferDecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	roasterID := chi.URLParam(r, "id")
	var err error
	switch req.Decision {
	case "accept":
		err = h.Ledger.AcceptFinancingOffer(r.Context(), roasterID)
	case "decline":
		err = h.Ledger.DeclineFinancingOffer(r.Context(), roasterID)
	default:
		writeError(w, http.StatusBadRequest, "decision must be accept or decline", nil)
		return
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// BANK HANDLERS
// =============================================================================

// ListBanks returns the simulated bank catalog.
func (h *Handler) ListBanks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Ledger.Catalog().Banks)
}

// ListBankConnections returns all simulated connections.
func (h *Handler) ListBankConnections(w http.ResponseWriter, r *http.Request) {
	state, err := h.Ledger.State(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load state", err)
		return
	}
	writeJSON(w, http.StatusOK, state.BankConnections)
}

// ConnectBank simulates linking a bank.
func (h *Handler) ConnectBank(w http.ResponseWriter, r *http.Request) {
	var req ConnectBankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	conn, err := h.Ledger.ConnectBank(r.Context(), req.BankID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, conn)
}

// =============================================================================
// MISC HANDLERS
// =============================================================================

// GetCatalog returns the full static catalog.
func (h *Handler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Ledger.Catalog())
}

// Reset reinitializes the document to seed state (dev only).
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	if err := h.Ledger.ResetToSeed(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	resp := ErrorResponse{Error: msg}
	if err != nil {
		resp.Detail = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps the drops error taxonomy to HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	var admErr *drops.AdmissionError
	if errors.As(err, &admErr) {
		avail := admErr.AvailableGrams
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error:          "Reservation exceeds cap",
			Detail:         admErr.Error(),
			AvailableGrams: &avail,
		})
		return
	}

	switch {
	case drops.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case drops.IsClientError(err):
		writeError(w, http.StatusConflict, "Precondition failed", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
