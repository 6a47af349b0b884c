/*
migrations.go - Schema migration chain for the app state document

PURPOSE:
  Migrates documents written by older builds to the current schema. The
  chain is an ordered list of pure (version, data) -> (version+1, data)
  steps applied in a loop until the document reaches SchemaVersion.

HISTORY:
  v1 -> v2  Add the empty bankConnections collection.
  v2 -> v3  Replace the unit-based drop goal (goalUnits) with a gram-based
            one (goalGrams, 250g per unit), and backfill reservation
            quantity=1 / bagSizeGrams derived from the size label.

FAIL-SAFE:
  A document whose version has no step in the chain (including versions
  newer than this build) cannot be migrated; the caller falls back to a
  seeded document. This is deliberate: a demo store prefers a clean reset
  over refusing to start.
*/
package store

import (
	"encoding/json"
	"fmt"
)

// gramsPerUnit is the fixed conversion for pre-v3 unit-based goals.
const gramsPerUnit = 250

// migrationStep upgrades the raw data payload from From to From+1.
type migrationStep struct {
	From  int
	Apply func(data map[string]any) map[string]any
}

var migrationChain = []migrationStep{
	{From: 1, Apply: migrateV1toV2},
	{From: 2, Apply: migrateV2toV3},
}

// migrate walks the chain until the document reaches SchemaVersion.
// Returns an error when no step covers the document's version.
func migrate(doc document) (document, error) {
	if doc.SchemaVersion == SchemaVersion {
		return doc, nil
	}

	version := doc.SchemaVersion
	var data map[string]any
	if err := json.Unmarshal(doc.Data, &data); err != nil {
		return document{}, fmt.Errorf("unreadable v%d document: %w", version, err)
	}

	for version != SchemaVersion {
		step, ok := findStep(version)
		if !ok {
			return document{}, fmt.Errorf("no migration path from schema version %d", version)
		}
		data = step.Apply(data)
		version++
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return document{}, err
	}
	return document{SchemaVersion: SchemaVersion, Data: raw}, nil
}

func findStep(version int) (migrationStep, bool) {
	for _, s := range migrationChain {
		if s.From == version {
			return s, true
		}
	}
	return migrationStep{}, false
}

// =============================================================================
// STEPS
// =============================================================================

// migrateV1toV2 adds the bank connections collection.
func migrateV1toV2(data map[string]any) map[string]any {
	if _, ok := data["bankConnections"]; !ok {
		data["bankConnections"] = []any{}
	}
	return data
}

// migrateV2toV3 converts unit-based goals to grams and backfills
// reservation quantity/bag weight from the size label.
func migrateV2toV3(data map[string]any) map[string]any {
	if rawDrops, ok := data["drops"].([]any); ok {
		for _, rd := range rawDrops {
			drop, ok := rd.(map[string]any)
			if !ok {
				continue
			}
			if _, hasGrams := drop["goalGrams"]; hasGrams {
				continue
			}
			units, _ := drop["goalUnits"].(float64)
			drop["goalGrams"] = units * gramsPerUnit
			delete(drop, "goalUnits")
		}
	}

	if rawReservations, ok := data["reservations"].([]any); ok {
		for _, rr := range rawReservations {
			res, ok := rr.(map[string]any)
			if !ok {
				continue
			}
			_, hasQuantity := res["quantity"]
			_, hasBagGrams := res["bagSizeGrams"]
			if hasQuantity && hasBagGrams {
				continue
			}
			res["quantity"] = 1
			res["bagSizeGrams"] = bagGramsFromSize(res["size"])
		}
	}

	return data
}

func bagGramsFromSize(size any) int {
	switch size {
	case "250g":
		return 250
	case "500g":
		return 500
	default:
		return 1000
	}
}
