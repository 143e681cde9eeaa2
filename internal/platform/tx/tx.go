package tx

import (
	"context"
	"database/sql"
)

// Manager wraps transactional boundaries for multi-adapter operations.
type Manager interface {
	Within(ctx context.Context, fn func(context.Context) error) error
}

type NoopManager struct{}

func (NoopManager) Within(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

// Scope is one open transaction plus the work deferred until it commits.
type Scope struct {
	Tx          *sql.Tx
	afterCommit []func()
}

func NewScope(tx *sql.Tx) *Scope {
	return &Scope{Tx: tx}
}

// Committed runs the deferred hooks in registration order.
func (s *Scope) Committed() {
	hooks := s.afterCommit
	s.afterCommit = nil
	for _, fn := range hooks {
		fn()
	}
}

type scopeKey struct{}

func With(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, s)
}

func From(ctx context.Context) (*Scope, bool) {
	s, ok := ctx.Value(scopeKey{}).(*Scope)
	return s, ok && s != nil
}

// AfterCommit runs fn once the transaction carried by ctx commits, or
// immediately when ctx carries none. Hooks of a rolled back transaction
// are dropped.
func AfterCommit(ctx context.Context, fn func()) {
	if s, ok := From(ctx); ok {
		s.afterCommit = append(s.afterCommit, fn)
		return
	}
	fn()
}
