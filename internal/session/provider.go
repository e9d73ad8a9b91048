package session

import (
	"context"
	"sync"
	"time"
)

// TokenProvider is a Provider backed by a verified session token. It reports
// the token's subject as the identity until the token expires or SignOut is
// called, whichever comes first, then transitions observers to
// unauthenticated exactly once.
type TokenProvider struct {
	mu       sync.Mutex
	identity string
	subs     map[int]func(string)
	nextID   int
	timer    *time.Timer
}

// NewTokenProvider verifies tokenString against secret and returns a
// provider for its session.
func NewTokenProvider(tokenString, secret string) (*TokenProvider, error) {
	userID, expiresAt, err := VerifyToken(tokenString, secret)
	if err != nil {
		return nil, err
	}

	p := &TokenProvider{
		identity: userID,
		subs:     map[int]func(string){},
	}
	p.timer = time.AfterFunc(time.Until(expiresAt), p.expire)
	return p, nil
}

func (p *TokenProvider) Observe(fn func(identity string)) func() {
	p.mu.Lock()
	p.nextID++
	id := p.nextID
	p.subs[id] = fn
	identity := p.identity
	p.mu.Unlock()

	// Immediate first fire with the state known at registration time.
	fn(identity)

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, id)
	}
}

func (p *TokenProvider) SignOut(ctx context.Context) error {
	p.timer.Stop()
	p.expire()
	return nil
}

// Static returns a Provider frozen on one identity, for scopes whose auth
// state cannot change over their lifetime (a single verified request).
func Static(identity string) Provider {
	return staticProvider(identity)
}

type staticProvider string

func (p staticProvider) Observe(fn func(string)) func() {
	fn(string(p))
	return func() {}
}

func (p staticProvider) SignOut(ctx context.Context) error {
	return nil
}

func (p *TokenProvider) expire() {
	p.mu.Lock()
	if p.identity == "" {
		p.mu.Unlock()
		return
	}
	p.identity = ""
	subs := make([]func(string), 0, len(p.subs))
	for _, fn := range p.subs {
		subs = append(subs, fn)
	}
	p.mu.Unlock()

	for _, fn := range subs {
		fn("")
	}
}
