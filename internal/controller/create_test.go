package controller_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"metas/internal/controller"
	"metas/internal/model"
	"metas/internal/repository"
	"metas/internal/session"
	"metas/internal/validation"
)

func TestCreateSubmitAcceptsValidGoal(t *testing.T) {
	env := newTestEnv(t, "user-a")

	create := controller.NewCreate(env.Gate, env.Repo)
	create.Now = fixedNow

	draft := validDraft()
	draft.EndDate = "2026-04-09" // today + 30 days
	create.SetDraft(draft)

	key, err := create.Submit(env.Ctx)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if key == "" {
		t.Fatalf("expected assigned key")
	}

	// the creating user's next list snapshot includes the new goal
	list, err := controller.NewList(env.Gate, env.Repo, nil)
	if err != nil {
		t.Fatalf("new list: %v", err)
	}
	defer list.Close()
	if _, ok := list.Goals()[key]; !ok {
		t.Fatalf("list snapshot missing created goal %s", key)
	}

	// draft reset to its empty seeded state
	got := create.Draft()
	if got.Title != "" || got.Description != "" {
		t.Fatalf("draft not reset after success: %+v", got)
	}
	if got.OwnerID != "user-a" {
		t.Fatalf("reset draft lost its owner seed: %+v", got)
	}
}

func TestCreateSubmitRejectsShortTitle(t *testing.T) {
	env := newTestEnv(t, "user-a")

	var snapshots []map[string]model.Goal
	list, err := controller.NewList(env.Gate, env.Repo, func(goals map[string]model.Goal) {
		snapshots = append(snapshots, goals)
	})
	if err != nil {
		t.Fatalf("new list: %v", err)
	}
	defer list.Close()

	create := controller.NewCreate(env.Gate, env.Repo)
	create.Now = fixedNow

	draft := validDraft()
	draft.Title = "Run"
	create.SetDraft(draft)

	_, err = create.Submit(env.Ctx)
	var violations validation.Violations
	if !errors.As(err, &violations) {
		t.Fatalf("error = %v, want validation violations", err)
	}
	if !slices.Equal(violations, validation.Violations{validation.MsgTitleLength}) {
		t.Fatalf("violations = %v, want exactly the title-length message", violations)
	}

	// no write occurred: only the immediate empty snapshot was delivered
	if len(snapshots) != 1 || len(snapshots[0]) != 0 {
		t.Fatalf("rejected submit reached the store: %v", snapshots)
	}

	// draft left intact for retry
	if create.Draft().Title != "Run" {
		t.Fatalf("draft changed after rejected submit: %+v", create.Draft())
	}
}

func TestCreateSubmitRequiresIdentity(t *testing.T) {
	env := newTestEnv(t, "")

	create := controller.NewCreate(env.Gate, env.Repo)
	create.Now = fixedNow
	create.SetDraft(validDraft())

	_, err := create.Submit(env.Ctx)
	if !errors.Is(err, controller.ErrMissingIdentity) {
		t.Fatalf("error = %v, want ErrMissingIdentity", err)
	}
}

func TestCreateSubmitFailureKeepsDraft(t *testing.T) {
	provider := &fakeProvider{identity: "user-a"}
	gate := session.NewGate(provider, nil)
	defer gate.Close()

	create := controller.NewCreate(gate, repository.NewGoalRepository(failingStore{}))
	create.Now = fixedNow
	create.SetDraft(validDraft())

	_, err := create.Submit(context.Background())
	if !errors.Is(err, repository.ErrStoreWrite) {
		t.Fatalf("error = %v, want ErrStoreWrite", err)
	}
	if create.Draft().Title != "Learn Piano" {
		t.Fatalf("draft lost after failed submit: %+v", create.Draft())
	}
}

func TestCreateDraftSeedsOwnerOnceResolved(t *testing.T) {
	env := newTestEnv(t, "")

	create := controller.NewCreate(env.Gate, env.Repo)
	if owner := create.Draft().OwnerID; owner != "" {
		t.Fatalf("draft owner = %q before session resolved", owner)
	}

	env.Provider.emit("user-a")
	if owner := create.Draft().OwnerID; owner != "user-a" {
		t.Fatalf("draft owner = %q, want user-a", owner)
	}
}
