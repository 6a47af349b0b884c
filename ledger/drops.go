/*
drops.go - Roaster-facing drop CRUD and drop read models

PURPOSE:
  Create/update/delete for drops, plus the derived progress read model
  every view consumes (status, reserved, cap, available, percent).

INVARIANTS AT CREATION:
  goal weight > 0 and all three prices > 0. The deadline is a fixed
  instant; editing it does not retroactively move state - status is
  recomputed from current data on every read anyway.

DELETION:
  Deleting a drop does not cascade. Reservations and commitments that
  referenced it become orphans; they no longer count anywhere because
  every aggregate starts from the drop list.
*/
package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/microlot/drop-engine/drops"
)

// DropInput carries the roaster-editable drop fields.
type DropInput struct {
	Name              string
	Roaster           string
	Origin            string
	Process           string
	Prices            map[drops.BagSize]decimal.Decimal
	GoalGrams         int
	Deadline          time.Time
	RoastDateEstimate *time.Time
	TastingNotes      []string
}

func (in DropInput) validate() error {
	if in.GoalGrams <= 0 {
		return drops.ErrInvalidDrop
	}
	for _, size := range []drops.BagSize{drops.Bag250g, drops.Bag500g, drops.Bag1kg} {
		price, ok := in.Prices[size]
		if !ok || !price.IsPositive() {
			return drops.ErrInvalidDrop
		}
	}
	return nil
}

// CreateDrop creates a new drop for a roaster.
func (s *Service) CreateDrop(ctx context.Context, in DropInput) (*drops.Drop, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var created drops.Drop
	err := s.update(ctx, func(state *drops.AppState) error {
		created = drops.Drop{
			ID:                s.newID(),
			Name:              in.Name,
			Roaster:           in.Roaster,
			Origin:            in.Origin,
			Process:           in.Process,
			Prices:            in.Prices,
			GoalGrams:         in.GoalGrams,
			Deadline:          in.Deadline,
			RoastDateEstimate: in.RoastDateEstimate,
			TastingNotes:      in.TastingNotes,
			CreatedAt:         s.now(),
		}
		state.Drops = append(state.Drops, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateDrop replaces the roaster-editable fields of an existing drop.
func (s *Service) UpdateDrop(ctx context.Context, id string, in DropInput) (*drops.Drop, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var updated drops.Drop
	err := s.update(ctx, func(state *drops.AppState) error {
		d := state.FindDrop(id)
		if d == nil {
			return &drops.NotFoundError{Kind: "drop", ID: id}
		}
		d.Name = in.Name
		d.Roaster = in.Roaster
		d.Origin = in.Origin
		d.Process = in.Process
		d.Prices = in.Prices
		d.GoalGrams = in.GoalGrams
		d.Deadline = in.Deadline
		d.RoastDateEstimate = in.RoastDateEstimate
		d.TastingNotes = in.TastingNotes
		updated = *d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteDrop removes a drop. No cascade (see package comment).
func (s *Service) DeleteDrop(ctx context.Context, id string) error {
	return s.update(ctx, func(state *drops.AppState) error {
		for i := range state.Drops {
			if state.Drops[i].ID == id {
				state.Drops = append(state.Drops[:i], state.Drops[i+1:]...)
				return nil
			}
		}
		return &drops.NotFoundError{Kind: "drop", ID: id}
	})
}

// =============================================================================
// READ MODEL
// =============================================================================

// DropProgress is the derived view of a drop every page consumes.
type DropProgress struct {
	Status          drops.DropStatus `json:"status"`
	ReservedGrams   int              `json:"reservedGrams"`
	CapGrams        int              `json:"capGrams"`
	AvailableGrams  int              `json:"availableGrams"`
	ProgressPercent int              `json:"progressPercent"`
}

// DropProgress computes the derived view for one drop at the service
// clock's current instant.
func (s *Service) DropProgress(ctx context.Context, dropID string) (*DropProgress, error) {
	state, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	d := state.FindDrop(dropID)
	if d == nil {
		return nil, &drops.NotFoundError{Kind: "drop", ID: dropID}
	}
	return &DropProgress{
		Status:          drops.Status(*d, state.Reservations, s.now()),
		ReservedGrams:   drops.ReservedGrams(d.ID, state.Reservations),
		CapGrams:        drops.CapGrams(*d),
		AvailableGrams:  drops.AvailableGrams(*d, state.Reservations),
		ProgressPercent: drops.ProgressPercent(*d, state.Reservations),
	}, nil
}
