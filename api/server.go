/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the frontend

ROUTE GROUPS:
  /api/drops/*             Drop CRUD + derived progress
  /api/reservations/*      Reservation admission and cancellation
  /api/commitments/*       Consent and revocation
  /api/payments/*          Idempotent confirmation
  /api/payouts             Payout records
  /api/payout-config       Global payout mode
  /api/roasters/*          KPIs and financing offers
  /api/banks, /api/bank-connections  Simulated Open-Banking
  /api/catalog             Static reference data
  /api/reset               Seed reset (dev only)

SECURITY NOTE:
  No authentication middleware. A user is an opaque string id supplied
  by the caller; identity is out of scope for the demo.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/drops", func(r chi.Router) {
			r.Get("/", h.ListDrops)
			r.Post("/", h.CreateDrop)
			r.Get("/{id}", h.GetDrop)
			r.Put("/{id}", h.UpdateDrop)
			r.Delete("/{id}", h.DeleteDrop)
			r.Get("/{id}/progress", h.GetDropProgress)
		})

		r.Route("/reservations", func(r chi.Router) {
			r.Post("/", h.CreateReservation)
			r.Post("/{id}/cancel", h.CancelReservation)
		})

		r.Route("/commitments", func(r chi.Router) {
			r.Post("/", h.CreateCommitment)
			r.Post("/{id}/revoke", h.RevokeCommitment)
		})

		r.Route("/payments", func(r chi.Router) {
			r.Get("/", h.ListPayments)
			r.Post("/confirm", h.ConfirmPayment)
		})

		r.Get("/payouts", h.ListPayouts)
		r.Get("/payout-config", h.GetPayoutConfig)
		r.Put("/payout-config", h.SetPayoutConfig)

		r.Route("/roasters/{id}", func(r chi.Router) {
			r.Get("/kpis", h.GetRoasterKPIs)
			r.Get("/offer", h.GetFinancingOffer)
			r.Post("/offer", h.DecideFinancingOffer)
		})

		r.Get("/banks", h.ListBanks)
		r.Route("/bank-connections", func(r chi.Router) {
			r.Get("/", h.ListBankConnections)
			r.Post("/", h.ConnectBank)
		})

		r.Get("/catalog", h.GetCatalog)
		r.Post("/reset", h.Reset)
	})

	return r
}
