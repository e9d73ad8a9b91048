package controller

import (
	"context"
	"sync"
	"time"

	"metas/internal/model"
	"metas/internal/repository"
	"metas/internal/validation"
)

// Edit holds one goal as editable local state fed by a single-record
// subscription. Remote snapshots overwrite in-progress local edits
// (last-write-wins from the remote side).
type Edit struct {
	repo repository.GoalRepository
	id   string

	// Now supplies the submission date for validation; tests fix it.
	Now func() time.Time

	mu    sync.Mutex
	draft model.Goal
	unsub func()
}

func NewEdit(repo repository.GoalRepository, id string) *Edit {
	e := &Edit{
		repo: repo,
		id:   id,
		Now:  time.Now,
	}
	e.unsub = repo.ObserveGoal(id, e.apply)
	return e
}

func (e *Edit) Draft() model.Goal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draft
}

// SetDraft replaces the editable fields. The record key and owner are not
// client-editable and always carry over from the loaded record.
func (e *Edit) SetDraft(g model.Goal) {
	e.mu.Lock()
	defer e.mu.Unlock()
	g.ID = e.draft.ID
	g.OwnerID = e.draft.OwnerID
	e.draft = g
}

// Submit validates the draft and, when clean, overwrites the remote record.
// It returns only after the write acknowledges, so callers navigate away on
// a resolved result rather than racing the write. Violations come back as a
// validation.Violations error carrying every message.
func (e *Edit) Submit(ctx context.Context) error {
	draft := e.Draft()

	violations := validation.ForEdit(draft, today(e.Now))
	if len(violations) > 0 {
		return violations
	}

	return e.repo.Update(ctx, e.id, draft)
}

// Close releases the record subscription. Safe to call repeatedly.
func (e *Edit) Close() {
	e.mu.Lock()
	unsub := e.unsub
	e.unsub = nil
	e.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

func (e *Edit) apply(g model.Goal) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft = g
}
