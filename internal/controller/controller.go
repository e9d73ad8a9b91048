// Package controller holds the session-scoped controllers driving the goal
// lifecycle: a live filtered list, a single-record editor and a draft-based
// creator. Each controller owns its store subscription and must be closed on
// teardown.
package controller

import (
	"errors"
	"time"
)

// ErrMissingIdentity marks an operation attempted before the session
// resolved an identity. Recoverable by waiting for auth to settle.
var ErrMissingIdentity = errors.New("session identity not resolved")

const dateFormat = "2006-01-02"

func today(now func() time.Time) string {
	return now().UTC().Format(dateFormat)
}
