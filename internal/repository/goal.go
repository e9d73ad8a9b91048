package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"metas/internal/model"
	"metas/internal/store"
)

// GoalsPath is the fixed collection path holding all goal records.
const GoalsPath = "/metas"

// ErrStoreWrite marks a transport or write failure at the store boundary.
// Recoverable by retry at the caller's discretion; never retried here.
var ErrStoreWrite = errors.New("store write failed")

type GoalRepository interface {
	// Create inserts a new goal under a fresh key and returns the key.
	// OwnerID is stamped from the authenticated session, never from the
	// candidate fields, which could be spoofed.
	Create(ctx context.Context, ownerID string, fields model.Goal) (string, error)

	// ObserveGoal delivers the record at id on subscription and on every
	// remote change. An absent id delivers the zero goal; absence is a
	// valid empty state, not an error.
	ObserveGoal(id string, fn func(model.Goal)) (unsubscribe func())

	// ObserveAll delivers the full keyed collection on subscription and on
	// every remote change. Re-subscribing rebuilds from the current state.
	ObserveAll(fn func(map[string]model.Goal)) (unsubscribe func())

	// Update fully overwrites the record at id.
	Update(ctx context.Context, id string, fields model.Goal) error

	// Delete removes the record at id. Callers holding a local copy of the
	// collection should drop the id themselves rather than wait for the
	// next push snapshot.
	Delete(ctx context.Context, id string) error
}

type goalRepository struct {
	store store.Store
}

func NewGoalRepository(st store.Store) GoalRepository {
	return &goalRepository{store: st}
}

func (r *goalRepository) Create(ctx context.Context, ownerID string, fields model.Goal) (string, error) {
	fields.ID = ""
	fields.OwnerID = ownerID

	key, err := r.store.Push(ctx, GoalsPath, fields)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create goal: %w", ErrStoreWrite, err)
	}

	return key, nil
}

func (r *goalRepository) ObserveGoal(id string, fn func(model.Goal)) func() {
	return r.store.ObserveKey(GoalsPath, id, func(raw json.RawMessage) {
		goal := model.Goal{}
		if raw != nil {
			err := json.Unmarshal(raw, &goal)
			if err != nil {
				slog.Warn("failed to decode goal record", "error", err, "goal_id", id)
				return
			}
			goal.ID = id
		}
		fn(goal)
	})
}

func (r *goalRepository) ObserveAll(fn func(map[string]model.Goal)) func() {
	return r.store.Observe(GoalsPath, func(snap store.Snapshot) {
		goals := make(map[string]model.Goal, len(snap))
		for key, raw := range snap {
			goal := model.Goal{}
			err := json.Unmarshal(raw, &goal)
			if err != nil {
				slog.Warn("failed to decode goal record", "error", err, "goal_id", key)
				continue
			}
			goal.ID = key
			goals[key] = goal
		}
		fn(goals)
	})
}

func (r *goalRepository) Update(ctx context.Context, id string, fields model.Goal) error {
	fields.ID = ""

	err := r.store.Update(ctx, GoalsPath, id, fields)
	if err != nil {
		return fmt.Errorf("%w: failed to update goal: %w", ErrStoreWrite, err)
	}

	return nil
}

func (r *goalRepository) Delete(ctx context.Context, id string) error {
	err := r.store.Remove(ctx, GoalsPath, id)
	if err != nil {
		return fmt.Errorf("%w: failed to delete goal: %w", ErrStoreWrite, err)
	}

	return nil
}
