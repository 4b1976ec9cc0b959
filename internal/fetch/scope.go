// Package fetch coordinates the network calls a screen makes. Each screen
// owns a Scope: calls made through it share one cancellation, and a call
// that is already in flight for the same key is joined instead of repeated.
package fetch

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Scope is a per-screen request scope.
type Scope struct {
	ctx    context.Context
	cancel context.CancelFunc
	group  singleflight.Group

	mu     sync.Mutex
	closed bool
}

// NewScope derives a scope from parent.
func NewScope(parent context.Context) *Scope {
	ctx, cancel := context.WithCancel(parent)
	return &Scope{ctx: ctx, cancel: cancel}
}

// Context returns the scope's context. It is cancelled by Close.
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Do runs fn under the scope's context. Concurrent calls with the same key
// share one execution and its result. shared reports whether the result
// was delivered to more than one caller.
func (s *Scope) Do(key string, fn func(ctx context.Context) (any, error)) (v any, shared bool, err error) {
	if err := s.ctx.Err(); err != nil {
		return nil, false, err
	}
	v, err, shared = s.group.Do(key, func() (any, error) {
		return fn(s.ctx)
	})
	return v, shared, err
}

// Close cancels every in-flight call. It is safe to call more than once.
func (s *Scope) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.cancel()
}

// Closed reports whether Close has been called.
func (s *Scope) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Get is the typed form of Do.
func Get[T any](s *Scope, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	v, _, err := s.Do(key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

// All runs fns in parallel under the scope and returns the first error.
// The remaining calls are cancelled once one fails.
func (s *Scope) All(fns ...func(ctx context.Context) error) error {
	g, ctx := errgroup.WithContext(s.ctx)
	for _, fn := range fns {
		g.Go(func() error { return fn(ctx) })
	}
	return g.Wait()
}
