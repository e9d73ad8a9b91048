package controller

import (
	"context"
	"sync"

	"metas/internal/model"
	"metas/internal/repository"
	"metas/internal/session"
)

// List mirrors the signed-in user's slice of the goal collection. Every
// push snapshot is filtered down to records owned by the session identity
// and republished; foreign records never appear, regardless of iteration
// order.
type List struct {
	repo       repository.GoalRepository
	owner      string
	onSnapshot func(map[string]model.Goal)

	mu    sync.Mutex
	goals map[string]model.Goal
	unsub func()
}

// NewList requires a resolved identity from the gate; without one it
// performs no fetch and returns ErrMissingIdentity (navigation away is the
// gate's job). onSnapshot, when non-nil, receives each republished filtered
// mapping.
func NewList(gate *session.Gate, repo repository.GoalRepository, onSnapshot func(map[string]model.Goal)) (*List, error) {
	owner, ok := gate.Identity()
	if !ok {
		return nil, ErrMissingIdentity
	}

	l := &List{
		repo:       repo,
		owner:      owner,
		onSnapshot: onSnapshot,
		goals:      map[string]model.Goal{},
	}
	l.unsub = repo.ObserveAll(l.apply)
	return l, nil
}

// Goals returns a copy of the current filtered mapping.
func (l *List) Goals() map[string]model.Goal {
	l.mu.Lock()
	defer l.mu.Unlock()
	goals := make(map[string]model.Goal, len(l.goals))
	for id, g := range l.goals {
		goals[id] = g
	}
	return goals
}

// Remove deletes the goal and drops it from the local mapping ahead of the
// next push snapshot, so the row never flashes back. On failure the local
// state is left untouched and the error returned once; there is no retry.
// Removing an id already absent locally is a silent no-op.
func (l *List) Remove(ctx context.Context, id string) error {
	err := l.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	l.mu.Lock()
	delete(l.goals, id)
	l.mu.Unlock()
	l.republish()
	return nil
}

// Close releases the collection subscription. Safe to call repeatedly.
func (l *List) Close() {
	l.mu.Lock()
	unsub := l.unsub
	l.unsub = nil
	l.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

func (l *List) apply(all map[string]model.Goal) {
	filtered := make(map[string]model.Goal)
	for id, g := range all {
		if g.OwnerID == l.owner {
			filtered[id] = g
		}
	}

	l.mu.Lock()
	l.goals = filtered
	l.mu.Unlock()
	l.republish()
}

func (l *List) republish() {
	if l.onSnapshot != nil {
		l.onSnapshot(l.Goals())
	}
}
