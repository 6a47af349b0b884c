package ledger_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microlot/drop-engine/catalog"
	"github.com/microlot/drop-engine/drops"
	"github.com/microlot/drop-engine/ledger"
	"github.com/microlot/drop-engine/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var deadline = time.Date(2026, time.April, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc   *ledger.Service
	store *memory.Memory
	clock *time.Time
}

// newFixture wires a service over an in-memory store with a controllable
// clock and sequential ids (id-1, id-2, ...).
func newFixture(t *testing.T, state *drops.AppState) *fixture {
	t.Helper()

	st := memory.New()
	require.NoError(t, st.Save(context.Background(), state))

	now := deadline.Add(-time.Hour)
	seq := 0
	svc := ledger.New(st, catalog.MustLoad()).
		WithClock(func() time.Time { return now }).
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		})

	return &fixture{svc: svc, store: st, clock: &now}
}

func emptyState() *drops.AppState {
	return &drops.AppState{
		PayoutConfig: drops.PayoutConfig{Mode: drops.PayoutNormal},
	}
}

func testDrop(id string, goalGrams int) drops.Drop {
	return drops.Drop{
		ID:      id,
		Name:    "Test Drop " + id,
		Roaster: "Nomad Coffee",
		Prices: map[drops.BagSize]decimal.Decimal{
			drops.Bag250g: decimal.NewFromFloat(10),
			drops.Bag500g: decimal.NewFromFloat(18),
			drops.Bag1kg:  decimal.NewFromFloat(32),
		},
		GoalGrams: goalGrams,
		Deadline:  deadline,
		CreatedAt: deadline.AddDate(0, 0, -14),
	}
}

func activeReservation(id, dropID string, grams int) drops.Reservation {
	return drops.Reservation{
		ID:           id,
		DropID:       dropID,
		UserID:       "user-1",
		Size:         drops.Bag1kg,
		Quantity:     1,
		BagSizeGrams: grams,
		Status:       drops.ReservationActive,
		CreatedAt:    deadline.AddDate(0, 0, -7),
	}
}

func activeCommitment(id, reservationID string) drops.Commitment {
	return drops.Commitment{
		ID:            id,
		ReservationID: reservationID,
		UserID:        "user-1",
		MaxAmount:     decimal.NewFromFloat(32),
		ValidUntil:    deadline.Add(24 * time.Hour),
		Status:        drops.CommitmentActive,
		CreatedAt:     deadline.AddDate(0, 0, -7),
	}
}

// payableState is a completed drop (goal met by one reservation) with an
// active commitment backing it.
func payableState() *drops.AppState {
	state := emptyState()
	state.Drops = []drops.Drop{testDrop("drop-1", 1000)}
	state.Reservations = []drops.Reservation{activeReservation("res-1", "drop-1", 1000)}
	state.Commitments = []drops.Commitment{activeCommitment("com-1", "res-1")}
	return state
}

func confirmInput(amount float64) ledger.ConfirmPaymentInput {
	return ledger.ConfirmPaymentInput{
		ReservationID: "res-1",
		CommitmentID:  "com-1",
		DropID:        "drop-1",
		UserID:        "user-1",
		Amount:        decimal.NewFromFloat(amount),
		Beneficiary:   "Microlot Drops (for Nomad Coffee)",
		Reference:     "Microlot Drop - Test Drop drop-1",
	}
}

// =============================================================================
// PAYMENT IDEMPOTENCE
// =============================================================================

func TestConfirmPayment_IdempotentAcrossCalls(t *testing.T) {
	// GIVEN: a payable reservation/commitment on a completed drop
	// WHEN:  confirming the same parameters twice
	// THEN:  exactly one payment and one payout exist, both calls return
	//        the same id, commitment is USED and reservation FULFILLED

	f := newFixture(t, payableState())
	ctx := context.Background()

	first, err := f.svc.ConfirmPaymentForReservation(ctx, confirmInput(32))
	require.NoError(t, err)

	second, err := f.svc.ConfirmPaymentForReservation(ctx, confirmInput(32))
	require.NoError(t, err)
	assert.Equal(t, first, second, "second call must return the same payment id")

	state, err := f.svc.State(ctx)
	require.NoError(t, err)
	require.Len(t, state.Payments, 1)
	require.Len(t, state.Payouts, 1)

	assert.Equal(t, drops.PaymentConfirmed, state.Payments[0].Status)
	require.NotNil(t, state.Payments[0].ConfirmedAt)
	assert.Equal(t, drops.CommitmentUsed, state.Commitments[0].Status)
	assert.Equal(t, drops.ReservationFulfilled, state.Reservations[0].Status)
}

func TestConfirmPayment_StagedPaymentConfirmedInPlace(t *testing.T) {
	// An INITIATED payment for the pair is confirmed rather than duplicated.
	f := newFixture(t, payableState())
	ctx := context.Background()

	stagedID, err := f.svc.CreatePayment(ctx, confirmInput(32))
	require.NoError(t, err)

	confirmedID, err := f.svc.ConfirmPaymentForReservation(ctx, confirmInput(32))
	require.NoError(t, err)
	assert.Equal(t, stagedID, confirmedID)

	state, err := f.svc.State(ctx)
	require.NoError(t, err)
	require.Len(t, state.Payments, 1)
	assert.Equal(t, drops.PaymentConfirmed, state.Payments[0].Status)
}

func TestConfirmPayment_RejectedWhenNotPayable(t *testing.T) {
	// GIVEN: the drop has not reached its goal
	// THEN:  a first-time confirmation is rejected, nothing changes
	state := payableState()
	state.Reservations[0].BagSizeGrams = 500 // 500g of 1000g goal

	f := newFixture(t, state)
	ctx := context.Background()

	_, err := f.svc.ConfirmPaymentForReservation(ctx, confirmInput(32))
	assert.ErrorIs(t, err, drops.ErrNotPayable)

	after, err := f.svc.State(ctx)
	require.NoError(t, err)
	assert.Empty(t, after.Payments)
	assert.Empty(t, after.Payouts)
	assert.Equal(t, drops.CommitmentActive, after.Commitments[0].Status)
}

func TestConfirmPayment_RevokedCommitmentNotPayable(t *testing.T) {
	state := payableState()
	state.Commitments[0].Status = drops.CommitmentRevoked

	f := newFixture(t, state)
	_, err := f.svc.ConfirmPaymentForReservation(context.Background(), confirmInput(32))
	assert.ErrorIs(t, err, drops.ErrNotPayable)
}

// =============================================================================
// PAYOUT UNIQUENESS
// =============================================================================

// twoBuyerState is a completed drop with two independent
// reservation/commitment pairs.
func twoBuyerState() *drops.AppState {
	state := emptyState()
	state.Drops = []drops.Drop{testDrop("drop-1", 1000)}
	state.Reservations = []drops.Reservation{
		activeReservation("res-1", "drop-1", 1000),
		activeReservation("res-2", "drop-1", 500),
	}
	state.Commitments = []drops.Commitment{
		activeCommitment("com-1", "res-1"),
		activeCommitment("com-2", "res-2"),
	}
	return state
}

func TestPayout_SinglePerDropAndNeverToppedUp(t *testing.T) {
	// GIVEN: two confirmed payments for the same drop
	// THEN:  one payout exists, reflecting only the total at creation
	//        time (gross stays 10; the later 15 is not added)

	f := newFixture(t, twoBuyerState())
	ctx := context.Background()

	_, err := f.svc.ConfirmPaymentForReservation(ctx, ledger.ConfirmPaymentInput{
		ReservationID: "res-1", CommitmentID: "com-1", DropID: "drop-1",
		UserID: "user-1", Amount: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	state, err := f.svc.State(ctx)
	require.NoError(t, err)
	require.Len(t, state.Payouts, 1)
	assert.True(t, state.Payouts[0].GrossAmount.Equal(decimal.NewFromInt(10)))

	_, err = f.svc.ConfirmPaymentForReservation(ctx, ledger.ConfirmPaymentInput{
		ReservationID: "res-2", CommitmentID: "com-2", DropID: "drop-1",
		UserID: "user-2", Amount: decimal.NewFromInt(15),
	})
	require.NoError(t, err)

	state, err = f.svc.State(ctx)
	require.NoError(t, err)
	require.Len(t, state.Payments, 2)
	require.Len(t, state.Payouts, 1, "no second payout for the same drop")
	assert.True(t, state.Payouts[0].GrossAmount.Equal(decimal.NewFromInt(10)),
		"payout is never topped up, got %s", state.Payouts[0].GrossAmount)
}

func TestPayout_NormalModeScheduledNoFee(t *testing.T) {
	f := newFixture(t, payableState())
	ctx := context.Background()

	_, err := f.svc.ConfirmPaymentForReservation(ctx, confirmInput(32))
	require.NoError(t, err)

	state, err := f.svc.State(ctx)
	require.NoError(t, err)
	require.Len(t, state.Payouts, 1)

	payout := state.Payouts[0]
	assert.Equal(t, drops.PayoutNormal, payout.Mode)
	assert.Equal(t, drops.PayoutScheduled, payout.Status)
	assert.True(t, payout.FeeAmount.IsZero())
	assert.True(t, payout.NetAmount.Equal(payout.GrossAmount))
	assert.Equal(t, "Nomad Coffee", payout.RoasterID)
}

func TestPayout_InstantModeTakesOnePercentFee(t *testing.T) {
	state := payableState()
	state.PayoutConfig.Mode = drops.PayoutInstant

	f := newFixture(t, state)
	ctx := context.Background()

	_, err := f.svc.ConfirmPaymentForReservation(ctx, confirmInput(100))
	require.NoError(t, err)

	after, err := f.svc.State(ctx)
	require.NoError(t, err)
	require.Len(t, after.Payouts, 1)

	payout := after.Payouts[0]
	assert.Equal(t, drops.PayoutPaid, payout.Status)
	assert.True(t, payout.FeeAmount.Equal(decimal.NewFromInt(1)), "1%% of 100, got %s", payout.FeeAmount)
	assert.True(t, payout.NetAmount.Equal(decimal.NewFromInt(99)), "got %s", payout.NetAmount)
}

func TestSetPayoutMode_AffectsOnlyLaterPayouts(t *testing.T) {
	f := newFixture(t, twoBuyerState())
	ctx := context.Background()

	_, err := f.svc.ConfirmPaymentForReservation(ctx, ledger.ConfirmPaymentInput{
		ReservationID: "res-1", CommitmentID: "com-1", DropID: "drop-1",
		UserID: "user-1", Amount: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.SetPayoutMode(ctx, drops.PayoutInstant))

	state, err := f.svc.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, drops.PayoutInstant, state.PayoutConfig.Mode)
	// The existing payout keeps the mode it was created with.
	assert.Equal(t, drops.PayoutNormal, state.Payouts[0].Mode)
	assert.Equal(t, drops.PayoutScheduled, state.Payouts[0].Status)
}

// =============================================================================
// GENERAL PAYMENT PATH
// =============================================================================

func TestGeneralPath_InitiateThenConfirm(t *testing.T) {
	f := newFixture(t, payableState())
	ctx := context.Background()

	id, err := f.svc.CreatePayment(ctx, confirmInput(32))
	require.NoError(t, err)

	state, err := f.svc.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, drops.PaymentInitiated, state.Payments[0].Status)
	assert.Empty(t, state.Payouts, "staging must not create a payout")

	require.NoError(t, f.svc.ConfirmPayment(ctx, id))

	state, err = f.svc.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, drops.PaymentConfirmed, state.Payments[0].Status)
	assert.Len(t, state.Payouts, 1)
	assert.Equal(t, drops.CommitmentUsed, state.Commitments[0].Status)
}

func TestGeneralPath_FailedOnlyFromInitiated(t *testing.T) {
	f := newFixture(t, payableState())
	ctx := context.Background()

	id, err := f.svc.CreatePayment(ctx, confirmInput(32))
	require.NoError(t, err)
	require.NoError(t, f.svc.ConfirmPayment(ctx, id))

	// Confirmed payments are immutable.
	assert.Error(t, f.svc.MarkPaymentFailed(ctx, id))
}

// =============================================================================
// RESERVATION ADMISSION & CANCELLATION
// =============================================================================

func TestCreateReservation_RejectedOverCapWithAvailableGrams(t *testing.T) {
	// GIVEN: goal 1000g (cap 1150g) with 1100g reserved
	// WHEN:  requesting 250g
	// THEN:  rejected, error carries the 50g still available
	state := emptyState()
	state.Drops = []drops.Drop{testDrop("drop-1", 1000)}
	state.Reservations = []drops.Reservation{activeReservation("res-1", "drop-1", 1100)}

	f := newFixture(t, state)
	_, err := f.svc.CreateReservation(context.Background(), ledger.ReservationInput{
		DropID:   "drop-1",
		UserID:   "user-2",
		Size:     drops.Bag250g,
		Quantity: 1,
		Grind:    drops.GrindWhole,
		Delivery: drops.DeliveryShipping,
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, drops.ErrAdmissionRejected)
	var admErr *drops.AdmissionError
	require.ErrorAs(t, err, &admErr)
	assert.Equal(t, 50, admErr.AvailableGrams)
	assert.Equal(t, 250, admErr.RequestedGrams)
}

func TestCreateReservation_AdmittedUnderCap(t *testing.T) {
	state := emptyState()
	state.Drops = []drops.Drop{testDrop("drop-1", 1000)}

	f := newFixture(t, state)
	created, err := f.svc.CreateReservation(context.Background(), ledger.ReservationInput{
		DropID:   "drop-1",
		UserID:   "user-2",
		Size:     drops.Bag500g,
		Quantity: 2,
		Grind:    drops.GrindFilter,
		Delivery: drops.DeliveryPickup,
	})

	require.NoError(t, err)
	assert.Equal(t, drops.ReservationActive, created.Status)
	assert.Equal(t, 500, created.BagSizeGrams)
	assert.Equal(t, 1000, created.Grams())
}

func TestCancelReservation_BeforeDeadline(t *testing.T) {
	state := emptyState()
	state.Drops = []drops.Drop{testDrop("drop-1", 1000)}
	state.Reservations = []drops.Reservation{activeReservation("res-1", "drop-1", 1000)}

	f := newFixture(t, state)
	require.NoError(t, f.svc.CancelReservation(context.Background(), "res-1"))

	after, err := f.svc.State(context.Background())
	require.NoError(t, err)
	assert.Equal(t, drops.ReservationCanceled, after.Reservations[0].Status)
	assert.Equal(t, 0, drops.ReservedGrams("drop-1", after.Reservations),
		"canceled reservations stop counting")
}

func TestCancelReservation_AfterDeadlineRejected(t *testing.T) {
	state := emptyState()
	state.Drops = []drops.Drop{testDrop("drop-1", 1000)}
	state.Reservations = []drops.Reservation{activeReservation("res-1", "drop-1", 1000)}

	f := newFixture(t, state)
	*f.clock = deadline.Add(time.Minute)

	err := f.svc.CancelReservation(context.Background(), "res-1")
	assert.ErrorIs(t, err, drops.ErrStaleDeadline)

	after, loadErr := f.svc.State(context.Background())
	require.NoError(t, loadErr)
	assert.Equal(t, drops.ReservationActive, after.Reservations[0].Status, "no state change on rejection")
}

// =============================================================================
// COMMITMENTS
// =============================================================================

func TestCreateCommitment_DerivesTermsFromDrop(t *testing.T) {
	state := emptyState()
	state.Drops = []drops.Drop{testDrop("drop-1", 12500)}
	state.Reservations = []drops.Reservation{activeReservation("res-1", "drop-1", 1000)}

	f := newFixture(t, state)
	created, err := f.svc.CreateCommitment(context.Background(), ledger.CommitmentInput{
		ReservationID:     "res-1",
		UserID:            "user-1",
		SelectedAccountID: "acc-1",
	})

	require.NoError(t, err)
	assert.Equal(t, drops.CommitmentActive, created.Status)
	assert.True(t, created.MaxAmount.Equal(decimal.NewFromFloat(32)), "price of the reserved 1kg size")
	assert.Equal(t, deadline.Add(24*time.Hour), created.ValidUntil)
	assert.Contains(t, created.Condition, "12.5kg")
}

func TestRevokeCommitment_ActiveBecomesRevoked(t *testing.T) {
	f := newFixture(t, payableState())
	ctx := context.Background()

	require.NoError(t, f.svc.RevokeCommitment(ctx, "com-1"))

	state, err := f.svc.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, drops.CommitmentRevoked, state.Commitments[0].Status)
	// No side effects on the reservation.
	assert.Equal(t, drops.ReservationActive, state.Reservations[0].Status)
}

func TestRevokeCommitment_UsedIsRejected(t *testing.T) {
	f := newFixture(t, payableState())
	ctx := context.Background()

	_, err := f.svc.ConfirmPaymentForReservation(ctx, confirmInput(32))
	require.NoError(t, err)

	err = f.svc.RevokeCommitment(ctx, "com-1")
	assert.ErrorIs(t, err, drops.ErrCommitmentUsed)
}

// =============================================================================
// FINANCING OFFERS
// =============================================================================

func TestFinancingOffer_CreatedOnFirstRefresh(t *testing.T) {
	state := emptyState()
	state.Drops = []drops.Drop{testDrop("drop-1", 1000)}
	state.Reservations = []drops.Reservation{activeReservation("res-1", "drop-1", 500)}

	f := newFixture(t, state)
	offer, err := f.svc.RefreshFinancingOffer(context.Background(), "Nomad Coffee")

	require.NoError(t, err)
	assert.Equal(t, drops.OfferOffered, offer.Status)
	assert.Equal(t, 6, offer.RepayPct)
	assert.Equal(t, 8, offer.TermWeeks)
	require.NotNil(t, offer.BasedOnKPIs)
	assert.InDelta(t, 50.0, offer.BasedOnKPIs.FillRate, 0.001)
}

func TestFinancingOffer_RefreshOverwritesWhileOffered(t *testing.T) {
	state := emptyState()
	state.Drops = []drops.Drop{testDrop("drop-1", 1000)}
	state.Reservations = []drops.Reservation{activeReservation("res-1", "drop-1", 500)}

	f := newFixture(t, state)
	ctx := context.Background()

	first, err := f.svc.RefreshFinancingOffer(ctx, "Nomad Coffee")
	require.NoError(t, err)

	// Unchanged KPIs: same offer, same id.
	again, err := f.svc.RefreshFinancingOffer(ctx, "Nomad Coffee")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.True(t, first.Amount.Equal(again.Amount))

	// KPI change: fill rate doubles, the live offer is overwritten.
	_, err = f.svc.CreateReservation(ctx, ledger.ReservationInput{
		DropID: "drop-1", UserID: "user-2", Size: drops.Bag500g, Quantity: 1,
	})
	require.NoError(t, err)

	updated, err := f.svc.RefreshFinancingOffer(ctx, "Nomad Coffee")
	require.NoError(t, err)
	assert.Equal(t, first.ID, updated.ID, "still one offer per roaster")
	assert.False(t, updated.Amount.Equal(first.Amount), "amount recomputed")
	assert.InDelta(t, 100.0, updated.BasedOnKPIs.FillRate, 0.001)
}

func TestFinancingOffer_FrozenOnceAccepted(t *testing.T) {
	state := emptyState()
	state.Drops = []drops.Drop{testDrop("drop-1", 1000)}
	state.Reservations = []drops.Reservation{activeReservation("res-1", "drop-1", 500)}

	f := newFixture(t, state)
	ctx := context.Background()

	first, err := f.svc.RefreshFinancingOffer(ctx, "Nomad Coffee")
	require.NoError(t, err)
	require.NoError(t, f.svc.AcceptFinancingOffer(ctx, "Nomad Coffee"))

	// KPI change after acceptance.
	_, err = f.svc.CreateReservation(ctx, ledger.ReservationInput{
		DropID: "drop-1", UserID: "user-2", Size: drops.Bag500g, Quantity: 1,
	})
	require.NoError(t, err)

	frozen, err := f.svc.RefreshFinancingOffer(ctx, "Nomad Coffee")
	require.NoError(t, err)
	assert.Equal(t, drops.OfferAccepted, frozen.Status)
	assert.True(t, frozen.Amount.Equal(first.Amount), "accepted offers never change")
	assert.NotNil(t, frozen.AcceptedAt)

	// A decision on a frozen offer is a no-op, not an error.
	require.NoError(t, f.svc.DeclineFinancingOffer(ctx, "Nomad Coffee"))
	state2, err := f.svc.State(ctx)
	require.NoError(t, err)
	assert.Equal(t, drops.OfferAccepted, state2.FinancingOffers[0].Status)
}

// =============================================================================
// DROPS CRUD
// =============================================================================

func TestCreateDrop_ValidatesGoalAndPrices(t *testing.T) {
	f := newFixture(t, emptyState())
	ctx := context.Background()

	valid := ledger.DropInput{
		Name:    "New Drop",
		Roaster: "Nomad Coffee",
		Origin:  "Ethiopia",
		Process: "Natural",
		Prices: map[drops.BagSize]decimal.Decimal{
			drops.Bag250g: decimal.NewFromFloat(12.5),
			drops.Bag500g: decimal.NewFromFloat(22),
			drops.Bag1kg:  decimal.NewFromFloat(40),
		},
		GoalGrams: 10000,
		Deadline:  deadline,
	}

	created, err := f.svc.CreateDrop(ctx, valid)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	noGoal := valid
	noGoal.GoalGrams = 0
	_, err = f.svc.CreateDrop(ctx, noGoal)
	assert.ErrorIs(t, err, drops.ErrInvalidDrop)

	freebie := valid
	freebie.Prices = map[drops.BagSize]decimal.Decimal{
		drops.Bag250g: decimal.Zero,
		drops.Bag500g: decimal.NewFromFloat(22),
		drops.Bag1kg:  decimal.NewFromFloat(40),
	}
	_, err = f.svc.CreateDrop(ctx, freebie)
	assert.ErrorIs(t, err, drops.ErrInvalidDrop)
}

func TestDeleteDrop_NoCascade(t *testing.T) {
	// Deleting a drop leaves its reservations orphaned; they stop
	// counting anywhere because aggregates start from the drop list.
	f := newFixture(t, payableState())
	ctx := context.Background()

	require.NoError(t, f.svc.DeleteDrop(ctx, "drop-1"))

	state, err := f.svc.State(ctx)
	require.NoError(t, err)
	assert.Empty(t, state.Drops)
	assert.Len(t, state.Reservations, 1, "reservations survive as orphans")
	assert.Len(t, state.Commitments, 1)
}

func TestDropProgress_DerivedView(t *testing.T) {
	state := emptyState()
	state.Drops = []drops.Drop{testDrop("drop-1", 1000)}
	state.Reservations = []drops.Reservation{activeReservation("res-1", "drop-1", 500)}

	f := newFixture(t, state)
	progress, err := f.svc.DropProgress(context.Background(), "drop-1")

	require.NoError(t, err)
	assert.Equal(t, drops.DropActive, progress.Status)
	assert.Equal(t, 500, progress.ReservedGrams)
	assert.Equal(t, 1150, progress.CapGrams)
	assert.Equal(t, 650, progress.AvailableGrams)
	assert.Equal(t, 50, progress.ProgressPercent)
}

// =============================================================================
// BANK CONNECTIONS
// =============================================================================

func TestConnectBank_FabricatesAccounts(t *testing.T) {
	f := newFixture(t, emptyState())
	conn, err := f.svc.ConnectBank(context.Background(), "bbva")

	require.NoError(t, err)
	assert.Equal(t, "BBVA", conn.BankName)
	assert.Equal(t, drops.BankConnected, conn.Status)
	require.Len(t, conn.Accounts, 2)
	assert.Contains(t, conn.Accounts[0].IBAN, "ES91")
}

func TestConnectBank_UnknownBankRejected(t *testing.T) {
	f := newFixture(t, emptyState())
	_, err := f.svc.ConnectBank(context.Background(), "monzo")
	assert.ErrorIs(t, err, drops.ErrNotFound)
}
