/*
banks.go - Simulated Open-Banking connections

PURPOSE:
  The demo stands in for a real bank-linking flow: connecting a bank
  from the catalog fabricates two accounts with IBAN-like labels. The
  only thing the rest of the engine consumes is the opaque account id a
  commitment references.
*/
package ledger

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/microlot/drop-engine/drops"
)

// ConnectBank links a catalog bank and fabricates its accounts.
func (s *Service) ConnectBank(ctx context.Context, bankID string) (*drops.BankConnection, error) {
	bank := s.catalog.FindBank(bankID)
	if bank == nil {
		return nil, &drops.NotFoundError{Kind: "bank", ID: bankID}
	}

	var created drops.BankConnection
	err := s.update(ctx, func(state *drops.AppState) error {
		created = drops.BankConnection{
			ID:          s.newID(),
			BankID:      bank.ID,
			BankName:    bank.Name,
			Status:      drops.BankConnected,
			ConnectedAt: s.now(),
			Accounts: []drops.BankAccount{
				{ID: s.newID(), IBAN: fakeIBAN(), DisplayName: "Current Account"},
				{ID: s.newID(), IBAN: fakeIBAN(), DisplayName: "Savings Account"},
			},
		}
		state.BankConnections = append(state.BankConnections, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// fakeIBAN produces an IBAN-like label. Display only; it is not a valid
// IBAN and nothing validates it.
func fakeIBAN() string {
	return fmt.Sprintf("ES91%020d", rand.Int63())
}
