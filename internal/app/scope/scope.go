// Package scope holds per-request state for application services.
//
// A Scope lives for one request. Reads go through Memo so that a value
// fetched by one part of a page (the signed-in user, the tag list) is not
// fetched again by another. Writes are staged with Stage and applied
// together by Commit; when a step fails, the steps that already ran are
// undone in reverse order.
//
//	sc := scope.FromContext(ctx)
//	user, err := scope.Memo(ctx, sc, "user", func(ctx context.Context) (*domain.User, error) {
//	    return sessions.CurrentUser(ctx, token)
//	})
//
//	sc.Stage(scope.Step{Name: "store submission", Do: ..., Undo: ...})
//	sc.Stage(scope.Step{Name: "publish submission.created", Do: ...})
//	err = sc.Commit(ctx)
package scope

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// ErrCommitted is returned when staging or committing on a scope whose
// steps have already been committed.
var ErrCommitted = errors.New("scope already committed")

type ctxKey struct{}

// Scope carries memoized reads and staged writes for one request.
type Scope struct {
	ctx context.Context

	group singleflight.Group
	cache sync.Map

	mu        sync.Mutex
	steps     []Action
	committed bool
}

// New creates a scope bound to ctx.
func New(ctx context.Context) *Scope {
	return &Scope{ctx: ctx}
}

// FromContext returns the scope stored in ctx. When there is none it
// returns a fresh, unattached scope so callers never have to nil-check.
func FromContext(ctx context.Context) *Scope {
	if ctx != nil {
		if s, ok := ctx.Value(ctxKey{}).(*Scope); ok {
			return s
		}
	}

	return New(ctx)
}

// Attached reports whether ctx already carries a scope.
func Attached(ctx context.Context) bool {
	if ctx == nil {
		return false
	}

	_, ok := ctx.Value(ctxKey{}).(*Scope)

	return ok
}

// WithContext stores s in ctx.
func WithContext(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// Context returns the context the scope was created with.
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Memo returns the cached value for key, calling fetch with ctx on first
// use. Concurrent callers for the same key share one fetch, which runs on
// the context of the caller that started it. Errors are not cached, so a
// later call retries.
func Memo[T any](ctx context.Context, s *Scope, key string, fetch func(ctx context.Context) (T, error)) (T, error) {
	if v, ok := s.cache.Load(key); ok {
		t, _ := v.(T)

		return t, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		if v, ok := s.cache.Load(key); ok {
			return v, nil
		}

		fetched, err := fetch(ctx)
		if err != nil {
			return nil, err
		}

		s.cache.Store(key, fetched)

		return fetched, nil
	})
	if err != nil {
		var zero T

		return zero, err
	}

	t, _ := v.(T)

	return t, nil
}

// Forget drops a memoized value.
func (s *Scope) Forget(key string) {
	s.cache.Delete(key)
}

// Action is a staged write.
type Action interface {
	Execute(ctx context.Context) error
	Rollback(ctx context.Context) error
	Description() string
}

// Step adapts a pair of functions to Action. Undo may be nil for steps
// that cannot or need not be reverted.
type Step struct {
	Name string
	Do   func(ctx context.Context) error
	Undo func(ctx context.Context) error
}

func (st Step) Execute(ctx context.Context) error { return st.Do(ctx) }

func (st Step) Rollback(ctx context.Context) error {
	if st.Undo == nil {
		return nil
	}

	return st.Undo(ctx)
}

func (st Step) Description() string { return st.Name }

// Stage queues an action for Commit.
func (s *Scope) Stage(a Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.committed {
		return ErrCommitted
	}

	s.steps = append(s.steps, a)

	return nil
}

// Staged returns a copy of the queued actions.
func (s *Scope) Staged() []Action {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Action, len(s.steps))
	copy(out, s.steps)

	return out
}

// Commit runs the staged actions in order. If one fails, the actions that
// already ran are rolled back newest first and the returned error joins the
// failure with any rollback errors. The queue is cleared either way; a
// scope can only be committed successfully once.
func (s *Scope) Commit(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.committed {
		return ErrCommitted
	}

	steps := s.steps
	s.steps = nil

	for i, a := range steps {
		err := a.Execute(ctx)
		if err == nil {
			continue
		}

		errs := []error{fmt.Errorf("%s: %w", a.Description(), err)}

		for j := i - 1; j >= 0; j-- {
			if rbErr := steps[j].Rollback(ctx); rbErr != nil {
				errs = append(errs, fmt.Errorf("rollback %s: %w", steps[j].Description(), rbErr))
			}
		}

		return errors.Join(errs...)
	}

	s.committed = true

	return nil
}
