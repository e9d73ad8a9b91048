package session

import "sync"

// Gate translates raw auth state into the identity controllers use for
// ownership stamping and access control. It fires onSignedOut exactly once
// per transition into the unauthenticated state; repeated "none" states do
// not re-trigger it. Close releases the provider observation and must be
// called on every teardown path.
type Gate struct {
	mu          sync.Mutex
	identity    string
	started     bool
	authed      bool
	onSignedOut func()
	unsub       func()
}

func NewGate(provider Provider, onSignedOut func()) *Gate {
	g := &Gate{onSignedOut: onSignedOut}
	g.unsub = provider.Observe(g.transition)
	return g
}

// Identity returns the current identity and whether a session is resolved.
func (g *Gate) Identity() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.identity, g.identity != ""
}

func (g *Gate) Close() {
	g.mu.Lock()
	unsub := g.unsub
	g.unsub = nil
	g.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

func (g *Gate) transition(identity string) {
	g.mu.Lock()
	fire := identity == "" && (!g.started || g.authed)
	g.started = true
	g.identity = identity
	g.authed = identity != ""
	cb := g.onSignedOut
	g.mu.Unlock()

	if fire && cb != nil {
		cb()
	}
}
