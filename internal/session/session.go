package session

import (
	"context"
	"errors"
)

var ErrSignOut = errors.New("sign out failed")

// Provider supplies the current authenticated identity and notifies
// observers of auth-state transitions.
type Provider interface {
	// Observe registers fn for auth-state transitions. fn fires once
	// immediately with the identity known at registration (empty string
	// when there is none) and again on every subsequent transition. The
	// returned function releases the observation; calling it more than
	// once is safe.
	Observe(fn func(identity string)) (unsubscribe func())

	// SignOut ends the session, transitioning observers to the
	// unauthenticated state.
	SignOut(ctx context.Context) error
}
