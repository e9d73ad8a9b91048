package controller

import (
	"context"
	"sync"
	"time"

	"metas/internal/model"
	"metas/internal/repository"
	"metas/internal/session"
	"metas/internal/validation"
)

// Create assembles a new goal bound to the current session. The draft seeds
// its owner from the gate once the session resolves; all other fields start
// empty.
type Create struct {
	gate *session.Gate
	repo repository.GoalRepository

	// Now supplies the submission date for validation; tests fix it.
	Now func() time.Time

	mu    sync.Mutex
	draft model.Goal
}

func NewCreate(gate *session.Gate, repo repository.GoalRepository) *Create {
	return &Create{
		gate: gate,
		repo: repo,
		Now:  time.Now,
	}
}

func (c *Create) Draft() model.Goal {
	c.mu.Lock()
	defer c.mu.Unlock()
	draft := c.draft
	if owner, ok := c.gate.Identity(); ok {
		draft.OwnerID = owner
	}
	return draft
}

// SetDraft replaces the editable fields. Owner and key are assigned at
// submission, never taken from input.
func (c *Create) SetDraft(g model.Goal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	g.ID = ""
	g.OwnerID = ""
	c.draft = g
}

// Submit validates the draft and inserts it under the session owner,
// returning the assigned key. Before the session resolves it fails with
// ErrMissingIdentity without validating further. On acked success the draft
// resets to its empty seeded state; on failure it is left intact so the
// user can retry without re-entering data.
func (c *Create) Submit(ctx context.Context) (string, error) {
	owner, ok := c.gate.Identity()
	if !ok {
		return "", ErrMissingIdentity
	}

	draft := c.Draft()
	draft.OwnerID = owner

	violations := validation.ForCreate(draft, today(c.Now))
	if len(violations) > 0 {
		return "", violations
	}

	key, err := c.repo.Create(ctx, owner, draft)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.draft = model.Goal{}
	c.mu.Unlock()
	return key, nil
}
