/*
seed.go - Seeded initial state

PURPOSE:
  Builds the fresh demo state used when no document exists yet or when a
  persisted document cannot be migrated. Eight drops with staggered
  goals and deadlines give every derived status a chance to show up.

  IDs are fixed so repeated seeding is stable; deadlines are relative to
  the seeding instant.
*/
package store

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/microlot/drop-engine/drops"
)

func seedDrop(id, name, roaster, origin, process string, p250, p500, p1k float64,
	goalGrams int, deadlineDays, roastDays int, notes []string, now time.Time) drops.Drop {

	roast := now.AddDate(0, 0, roastDays)
	return drops.Drop{
		ID:      id,
		Name:    name,
		Roaster: roaster,
		Origin:  origin,
		Process: process,
		Prices: map[drops.BagSize]decimal.Decimal{
			drops.Bag250g: decimal.NewFromFloat(p250),
			drops.Bag500g: decimal.NewFromFloat(p500),
			drops.Bag1kg:  decimal.NewFromFloat(p1k),
		},
		GoalGrams:         goalGrams,
		Deadline:          now.AddDate(0, 0, deadlineDays),
		RoastDateEstimate: &roast,
		TastingNotes:      notes,
		CreatedAt:         now,
	}
}

// SeedDrops returns the eight demo drops.
func SeedDrops(now time.Time) []drops.Drop {
	return []drops.Drop{
		seedDrop("seed-drop-ethiopian-yirgacheffe", "Ethiopian Yirgacheffe Natural",
			"Nomad Coffee", "Ethiopia", "Natural",
			12.5, 22.0, 40.0, 12500, 14, 21,
			[]string{"Blueberry", "Jasmine", "Winey"}, now),
		seedDrop("seed-drop-colombian-gesha", "Colombian Gesha Washed",
			"Hola Coffee Roasters", "Colombia", "Washed",
			18.0, 32.0, 58.0, 7500, 10, 17,
			[]string{"Bergamot", "Honey", "Floral"}, now),
		seedDrop("seed-drop-panamanian-geisha", "Panamanian Geisha Anaerobic",
			"Right Side Coffee", "Panama", "Anaerobic",
			24.0, 42.0, 75.0, 6250, 7, 14,
			[]string{"Strawberry", "Champagne", "Complex"}, now),
		seedDrop("seed-drop-kenyan-aa", "Kenyan AA Double Washed",
			"Coffee Mori", "Kenya", "Double Washed",
			14.0, 25.0, 45.0, 15000, 21, 28,
			[]string{"Blackcurrant", "Grapefruit", "Black tea"}, now),
		seedDrop("seed-drop-costa-rican-honey", "Costa Rican Honey Process",
			"Sakona Coffee Roasters", "Costa Rica", "Honey",
			13.0, 23.0, 42.0, 10000, 12, 19,
			[]string{"Caramel", "Citrus", "Sweet"}, now),
		seedDrop("seed-drop-brazilian-natural", "Brazilian Natural",
			"Factoría 77", "Brazil", "Natural",
			10.0, 18.0, 32.0, 20000, 18, 25,
			[]string{"Chocolate", "Nutty", "Full body"}, now),
		seedDrop("seed-drop-rwandan-extended", "Rwandan Extended Fermentation",
			"Ineffable Coffee", "Rwanda", "Extended Fermentation",
			15.0, 27.0, 48.0, 8750, 9, 16,
			[]string{"Wine", "Red berries", "Fermented"}, now),
		seedDrop("seed-drop-yemeni-mocha", "Yemeni Mocha Natural",
			"Nomad Coffee", "Yemen", "Natural",
			28.0, 50.0, 90.0, 5000, 5, 12,
			[]string{"Spice", "Dark chocolate", "Mocha"}, now),
	}
}

// SeedState returns a complete fresh state: seeded drops, empty entity
// collections, NORMAL payout mode.
func SeedState(now time.Time) *drops.AppState {
	return &drops.AppState{
		Drops:           SeedDrops(now),
		Reservations:    []drops.Reservation{},
		Commitments:     []drops.Commitment{},
		Payments:        []drops.Payment{},
		PayoutConfig:    drops.PayoutConfig{Mode: drops.PayoutNormal},
		Payouts:         []drops.Payout{},
		FinancingOffers: []drops.FinancingOffer{},
		BankConnections: []drops.BankConnection{},
	}
}
