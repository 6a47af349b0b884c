package store_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microlot/drop-engine/drops"
	"github.com/microlot/drop-engine/store"
)

var seedTime = time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)

// envelope builds a raw persisted document at a given schema version.
func envelope(t *testing.T, version int, data map[string]any) []byte {
	t.Helper()
	payload, err := json.Marshal(data)
	require.NoError(t, err)
	raw, err := json.Marshal(map[string]any{
		"schemaVersion": version,
		"data":          json.RawMessage(payload),
	})
	require.NoError(t, err)
	return raw
}

// =============================================================================
// CODEC ROUNDTRIP
// =============================================================================

func TestCodec_Roundtrip(t *testing.T) {
	state := &drops.AppState{
		Drops: []drops.Drop{{
			ID:      "d-1",
			Name:    "Huila Lot 4",
			Roaster: "Hola Coffee Roasters",
			Prices: map[drops.BagSize]decimal.Decimal{
				drops.Bag250g: decimal.NewFromFloat(12.5),
				drops.Bag500g: decimal.NewFromFloat(22),
				drops.Bag1kg:  decimal.NewFromFloat(40),
			},
			GoalGrams: 7500,
			Deadline:  seedTime.AddDate(0, 0, 10),
			CreatedAt: seedTime,
		}},
		Reservations: []drops.Reservation{{
			ID: "r-1", DropID: "d-1", UserID: "u-1",
			Size: drops.Bag500g, Quantity: 2, BagSizeGrams: 500,
			Status: drops.ReservationActive, CreatedAt: seedTime,
		}},
		PayoutConfig: drops.PayoutConfig{Mode: drops.PayoutInstant},
	}

	raw, err := store.EncodeDocument(state)
	require.NoError(t, err)

	decoded := store.DecodeDocument(raw, seedTime)
	require.Len(t, decoded.Drops, 1)
	assert.Equal(t, "d-1", decoded.Drops[0].ID)
	assert.True(t, decoded.Drops[0].Prices[drops.Bag1kg].Equal(decimal.NewFromInt(40)))
	require.Len(t, decoded.Reservations, 1)
	assert.Equal(t, 1000, decoded.Reservations[0].Grams())
	assert.Equal(t, drops.PayoutInstant, decoded.PayoutConfig.Mode)
}

func TestDecode_CurrentVersionUntouched(t *testing.T) {
	raw := envelope(t, store.SchemaVersion, map[string]any{
		"drops":        []any{},
		"reservations": []any{},
		"payoutConfig": map[string]any{"mode": "NORMAL"},
	})

	decoded := store.DecodeDocument(raw, seedTime)
	assert.Empty(t, decoded.Drops, "a current-version document is not reseeded")
	assert.Equal(t, drops.PayoutNormal, decoded.PayoutConfig.Mode)
}

// =============================================================================
// MIGRATIONS
// =============================================================================

func TestMigrate_V2ToV3_UnitsBecomeGrams(t *testing.T) {
	// v2 stored drop goals in 250g units and reservations without
	// quantity/bagSizeGrams.
	raw := envelope(t, 2, map[string]any{
		"drops": []any{map[string]any{
			"id":        "d-legacy",
			"name":      "Legacy Drop",
			"roaster":   "Nomad Coffee",
			"goalUnits": 40,
			"deadline":  seedTime.Format(time.RFC3339),
			"createdAt": seedTime.Format(time.RFC3339),
		}},
		"reservations": []any{map[string]any{
			"id":        "r-legacy",
			"dropId":    "d-legacy",
			"userId":    "u-1",
			"size":      "500g",
			"status":    "ACTIVE",
			"createdAt": seedTime.Format(time.RFC3339),
		}},
		"bankConnections": []any{},
		"payoutConfig":    map[string]any{"mode": "NORMAL"},
	})

	decoded := store.DecodeDocument(raw, seedTime)

	require.Len(t, decoded.Drops, 1)
	assert.Equal(t, 10000, decoded.Drops[0].GoalGrams, "40 units x 250g")

	require.Len(t, decoded.Reservations, 1)
	assert.Equal(t, 1, decoded.Reservations[0].Quantity)
	assert.Equal(t, 500, decoded.Reservations[0].BagSizeGrams)
	assert.Equal(t, drops.Bag500g, decoded.Reservations[0].Size)
}

func TestMigrate_V1RunsWholeChain(t *testing.T) {
	// v1 predates bank connections AND gram-based goals; both steps must
	// apply in order.
	raw := envelope(t, 1, map[string]any{
		"drops": []any{map[string]any{
			"id":        "d-old",
			"name":      "Oldest Drop",
			"roaster":   "Nomad Coffee",
			"goalUnits": 25,
			"deadline":  seedTime.Format(time.RFC3339),
			"createdAt": seedTime.Format(time.RFC3339),
		}},
		"reservations": []any{map[string]any{
			"id":     "r-old",
			"dropId": "d-old",
			"size":   "250g",
			"status": "ACTIVE",
		}},
		"payoutConfig": map[string]any{"mode": "NORMAL"},
	})

	decoded := store.DecodeDocument(raw, seedTime)

	require.Len(t, decoded.Drops, 1)
	assert.Equal(t, 6250, decoded.Drops[0].GoalGrams)
	assert.NotNil(t, decoded.BankConnections, "v1->v2 adds the collection")
	require.Len(t, decoded.Reservations, 1)
	assert.Equal(t, 250, decoded.Reservations[0].BagSizeGrams)
}

func TestMigrate_GramGoalsNotDoubleConverted(t *testing.T) {
	// A v2 document whose drop already carries goalGrams (written by a
	// patched build) must not be multiplied again.
	raw := envelope(t, 2, map[string]any{
		"drops": []any{map[string]any{
			"id":        "d-mixed",
			"roaster":   "Nomad Coffee",
			"goalGrams": 5000,
		}},
		"reservations":    []any{},
		"bankConnections": []any{},
		"payoutConfig":    map[string]any{"mode": "NORMAL"},
	})

	decoded := store.DecodeDocument(raw, seedTime)
	require.Len(t, decoded.Drops, 1)
	assert.Equal(t, 5000, decoded.Drops[0].GoalGrams)
}

// =============================================================================
// FAIL-SAFE RESEEDING
// =============================================================================

func TestDecode_UnknownVersionFallsBackToSeed(t *testing.T) {
	raw := envelope(t, 99, map[string]any{"drops": []any{}})

	decoded := store.DecodeDocument(raw, seedTime)
	assert.Len(t, decoded.Drops, len(store.SeedDrops(seedTime)),
		"future-version documents reset to seed")
	assert.Equal(t, drops.PayoutNormal, decoded.PayoutConfig.Mode)
}

func TestDecode_GarbageFallsBackToSeed(t *testing.T) {
	decoded := store.DecodeDocument([]byte("{not json"), seedTime)
	assert.NotEmpty(t, decoded.Drops)
}

func TestSeedState_StableIDs(t *testing.T) {
	a := store.SeedState(seedTime)
	b := store.SeedState(seedTime.Add(time.Hour))
	require.Equal(t, len(a.Drops), len(b.Drops))
	for i := range a.Drops {
		assert.Equal(t, a.Drops[i].ID, b.Drops[i].ID, "seed ids do not depend on the clock")
	}
}
