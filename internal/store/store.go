package store

import (
	"context"
	"encoding/json"
)

// Snapshot is the full contents of a collection path at one moment. Every
// committed change produces a fresh complete snapshot, not an incremental
// diff.
type Snapshot map[string]json.RawMessage

// Store is a keyed record store with push-on-change semantics: observers
// receive the current state immediately on registration and a full snapshot
// after every committed write, in commit order.
type Store interface {
	// Push inserts record under a fresh key at path and returns the key.
	Push(ctx context.Context, path string, record any) (string, error)

	// Update fully overwrites the record at path/key, creating it if absent.
	Update(ctx context.Context, path, key string, record any) error

	// Remove deletes the record at path/key. Removing an absent key is not
	// an error.
	Remove(ctx context.Context, path, key string) error

	// Observe subscribes fn to full snapshots of path. fn fires once
	// immediately with the current snapshot, then once per committed
	// change. The returned function releases the subscription; calling it
	// more than once is safe.
	Observe(path string, fn func(Snapshot)) (unsubscribe func())

	// ObserveKey subscribes fn to a single record. fn receives nil while
	// the key is absent; absence is a valid empty state, not an error.
	ObserveKey(path, key string, fn func(json.RawMessage)) (unsubscribe func())
}
