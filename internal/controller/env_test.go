package controller_test

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"metas/internal/db"
	"metas/internal/model"
	"metas/internal/repository"
	"metas/internal/session"
	"metas/internal/store"
)

const testToday = "2026-03-10"

var fixedNow = func() time.Time {
	return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
}

type testEnv struct {
	Repo     repository.GoalRepository
	Provider *fakeProvider
	Gate     *session.Gate
	Ctx      context.Context
}

func newTestEnv(t *testing.T, identity string) testEnv {
	t.Helper()
	database, err := db.Init("sqlite", filepath.Join(t.TempDir(), "metas.db"))
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	if err := db.RunMigrations(database.DB, "sqlite"); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	provider := &fakeProvider{identity: identity}
	gate := session.NewGate(provider, nil)
	t.Cleanup(gate.Close)

	return testEnv{
		Repo:     repository.NewGoalRepository(store.NewSQL(database)),
		Provider: provider,
		Gate:     gate,
		Ctx:      context.Background(),
	}
}

func validDraft() model.Goal {
	return model.Goal{
		Title:       "Learn Piano",
		Category:    "music",
		Description: "twelve chars",
		StartDate:   testToday,
		EndDate:     "2026-04-09",
		Status:      "active",
	}
}

type fakeProvider struct {
	identity string
	subs     []func(string)
}

func (p *fakeProvider) Observe(fn func(string)) func() {
	p.subs = append(p.subs, fn)
	fn(p.identity)
	return func() {}
}

func (p *fakeProvider) SignOut(ctx context.Context) error {
	p.emit("")
	return nil
}

func (p *fakeProvider) emit(identity string) {
	p.identity = identity
	for _, fn := range p.subs {
		fn(identity)
	}
}

// failingStore fails every write, standing in for transport failure.
type failingStore struct{}

var errTransport = errors.New("transport down")

func (failingStore) Push(ctx context.Context, path string, record any) (string, error) {
	return "", errTransport
}

func (failingStore) Update(ctx context.Context, path, key string, record any) error {
	return errTransport
}

func (failingStore) Remove(ctx context.Context, path, key string) error {
	return errTransport
}

func (failingStore) Observe(path string, fn func(store.Snapshot)) func() {
	fn(store.Snapshot{})
	return func() {}
}

func (failingStore) ObserveKey(path, key string, fn func(json.RawMessage)) func() {
	fn(nil)
	return func() {}
}
