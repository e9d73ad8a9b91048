package controller_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"metas/internal/controller"
	"metas/internal/model"
	"metas/internal/repository"
	"metas/internal/validation"
)

func TestEditLoadsRecordAsDraft(t *testing.T) {
	env := newTestEnv(t, "user-a")

	key, err := env.Repo.Create(env.Ctx, "user-a", validDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	edit := controller.NewEdit(env.Repo, key)
	defer edit.Close()

	draft := edit.Draft()
	if draft.Title != "Learn Piano" || draft.OwnerID != "user-a" || draft.ID != key {
		t.Fatalf("draft = %+v", draft)
	}
}

func TestEditRemoteSnapshotOverwritesLocalDraft(t *testing.T) {
	env := newTestEnv(t, "user-a")

	key, err := env.Repo.Create(env.Ctx, "user-a", validDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	edit := controller.NewEdit(env.Repo, key)
	defer edit.Close()

	local := edit.Draft()
	local.Title = "My Local Edit"
	edit.SetDraft(local)

	remote := validDraft()
	remote.OwnerID = "user-a"
	remote.Title = "Remote Wins"
	if err := env.Repo.Update(env.Ctx, key, remote); err != nil {
		t.Fatalf("update: %v", err)
	}

	if title := edit.Draft().Title; title != "Remote Wins" {
		t.Fatalf("draft title = %q, want remote overwrite", title)
	}
}

func TestEditSubmitRejectsEmptyDescription(t *testing.T) {
	env := newTestEnv(t, "user-a")

	key, err := env.Repo.Create(env.Ctx, "user-a", validDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	edit := controller.NewEdit(env.Repo, key)
	defer edit.Close()
	edit.Now = fixedNow

	draft := edit.Draft()
	draft.Description = ""
	edit.SetDraft(draft)

	err = edit.Submit(env.Ctx)
	var violations validation.Violations
	if !errors.As(err, &violations) {
		t.Fatalf("error = %v, want validation violations", err)
	}
	if !slices.Contains(violations, validation.MsgDescRequired) {
		t.Fatalf("violations = %v, missing description message", violations)
	}

	// remote record unchanged
	var remote model.Goal
	unsub := env.Repo.ObserveGoal(key, func(g model.Goal) { remote = g })
	defer unsub()
	if remote.Description != "twelve chars" {
		t.Fatalf("remote record changed by rejected submit: %+v", remote)
	}
}

func TestEditSubmitOverwritesRemoteRecord(t *testing.T) {
	env := newTestEnv(t, "user-a")

	key, err := env.Repo.Create(env.Ctx, "user-a", validDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	edit := controller.NewEdit(env.Repo, key)
	defer edit.Close()
	edit.Now = fixedNow

	draft := edit.Draft()
	draft.Title = "Learn Guitar"
	edit.SetDraft(draft)

	if err := edit.Submit(env.Ctx); err != nil {
		t.Fatalf("submit: %v", err)
	}

	list, err := controller.NewList(env.Gate, env.Repo, nil)
	if err != nil {
		t.Fatalf("new list: %v", err)
	}
	defer list.Close()
	if got := list.Goals()[key]; got.Title != "Learn Guitar" || got.OwnerID != "user-a" {
		t.Fatalf("remote record = %+v", got)
	}
}

func TestEditSetDraftCannotChangeOwnerOrKey(t *testing.T) {
	env := newTestEnv(t, "user-a")

	key, err := env.Repo.Create(env.Ctx, "user-a", validDraft())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	edit := controller.NewEdit(env.Repo, key)
	defer edit.Close()

	tampered := validDraft()
	tampered.ID = "other-key"
	tampered.OwnerID = "user-b"
	edit.SetDraft(tampered)

	draft := edit.Draft()
	if draft.OwnerID != "user-a" || draft.ID != key {
		t.Fatalf("owner/key editable through SetDraft: %+v", draft)
	}
}

func TestEditSubmitReportsWriteFailure(t *testing.T) {
	edit := controller.NewEdit(repository.NewGoalRepository(failingStore{}), "some-id")
	defer edit.Close()
	edit.Now = fixedNow

	draft := validDraft()
	edit.SetDraft(draft)

	err := edit.Submit(context.Background())
	if !errors.Is(err, repository.ErrStoreWrite) {
		t.Fatalf("error = %v, want ErrStoreWrite", err)
	}
}
