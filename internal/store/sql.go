package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// SQL implements Store on a relational database: records are JSON values
// keyed by (path, key), and an in-process subscriber registry broadcasts a
// full snapshot after every committed write.
//
// A single mutex serializes writes, registration and delivery, which gives
// each subscription snapshots in commit order. Callbacks run under that
// mutex and must not call back into the store.
type SQL struct {
	db *sqlx.DB

	mu     sync.Mutex
	subs   map[int]*subscriber
	nextID int
}

type subscriber struct {
	path string
	key  string // empty for whole-path observers
	fn   func(Snapshot)
	keyF func(json.RawMessage)
}

func NewSQL(db *sqlx.DB) *SQL {
	return &SQL{
		db:   db,
		subs: map[int]*subscriber{},
	}
}

func (s *SQL) Push(ctx context.Context, path string, record any) (string, error) {
	value, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("failed to encode record: %w", err)
	}

	key := uuid.New().String()
	now := time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `INSERT INTO records (path, key, value, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err = s.db.ExecContext(ctx, query, path, key, string(value), now, now)
	if err != nil {
		return "", fmt.Errorf("failed to push record: %w", err)
	}

	err = s.broadcastLocked(ctx, path)
	if err != nil {
		return "", err
	}
	return key, nil
}

func (s *SQL) Update(ctx context.Context, path, key string, record any) error {
	value, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}

	now := time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `INSERT INTO records (path, key, value, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (path, key)
	          DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	_, err = s.db.ExecContext(ctx, query, path, key, string(value), now, now)
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}

	return s.broadcastLocked(ctx, path)
}

func (s *SQL) Remove(ctx context.Context, path, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `DELETE FROM records WHERE path = $1 AND key = $2`
	_, err := s.db.ExecContext(ctx, query, path, key)
	if err != nil {
		return fmt.Errorf("failed to remove record: %w", err)
	}

	return s.broadcastLocked(ctx, path)
}

func (s *SQL) Observe(path string, fn func(Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.register(&subscriber{path: path, fn: fn})

	// First delivery happens at registration time with whatever is
	// currently committed, mirroring the remote store's subscribe contract.
	snap, err := s.snapshotLocked(context.Background(), path)
	if err == nil {
		fn(snap)
	}

	return s.unsubscribeFunc(id)
}

func (s *SQL) ObserveKey(path, key string, fn func(json.RawMessage)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.register(&subscriber{path: path, key: key, keyF: fn})

	snap, err := s.snapshotLocked(context.Background(), path)
	if err == nil {
		fn(snap[key])
	}

	return s.unsubscribeFunc(id)
}

func (s *SQL) register(sub *subscriber) int {
	s.nextID++
	id := s.nextID
	s.subs[id] = sub
	return id
}

func (s *SQL) unsubscribeFunc(id int) func() {
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// broadcastLocked reads the committed snapshot of path once and delivers it
// to every subscription observing that path. Caller holds s.mu.
func (s *SQL) broadcastLocked(ctx context.Context, path string) error {
	snap, err := s.snapshotLocked(ctx, path)
	if err != nil {
		return err
	}

	for _, sub := range s.subs {
		if sub.path != path {
			continue
		}
		if sub.fn != nil {
			sub.fn(snap)
		}
		if sub.keyF != nil {
			sub.keyF(snap[sub.key])
		}
	}
	return nil
}

func (s *SQL) snapshotLocked(ctx context.Context, path string) (Snapshot, error) {
	var rows []struct {
		Key   string `db:"key"`
		Value string `db:"value"`
	}

	query := `SELECT key, value FROM records WHERE path = $1`
	err := s.db.SelectContext(ctx, &rows, query, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	snap := make(Snapshot, len(rows))
	for _, r := range rows {
		snap[r.Key] = json.RawMessage(r.Value)
	}
	return snap, nil
}
