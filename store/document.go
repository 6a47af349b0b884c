package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/microlot/drop-engine/drops"
)

// SchemaVersion is the version this build reads and writes.
const SchemaVersion = 3

// document is the persisted envelope around AppState.
type document struct {
	SchemaVersion int             `json:"schemaVersion"`
	Data          json.RawMessage `json:"data"`
}

// EncodeDocument wraps the state in a current-version envelope.
func EncodeDocument(state *drops.AppState) ([]byte, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to encode state: %w", err)
	}
	return json.Marshal(document{SchemaVersion: SchemaVersion, Data: data})
}

// DecodeDocument parses a persisted document, migrating older schema
// versions forward. Unparseable documents and versions outside the
// migration chain reset to a fresh seed state; the caller never sees a
// migration error.
func DecodeDocument(raw []byte, now time.Time) *drops.AppState {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return SeedState(now)
	}

	migrated, err := migrate(doc)
	if err != nil {
		return SeedState(now)
	}

	var state drops.AppState
	if err := json.Unmarshal(migrated.Data, &state); err != nil {
		return SeedState(now)
	}
	return &state
}
