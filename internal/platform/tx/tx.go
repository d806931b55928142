package tx

import (
	"context"
	"database/sql"
)

// Manager scopes a unit of work so every store call made with the
// callback's context shares one transaction.
type Manager interface {
	Within(ctx context.Context, fn func(context.Context) error) error
}

// NoopManager runs the callback directly. Stores without transactions use it.
type NoopManager struct{}

func (NoopManager) Within(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type ctxKey struct{}

// With returns ctx carrying the open transaction.
func With(ctx context.Context, t *sql.Tx) context.Context {
	return context.WithValue(ctx, ctxKey{}, t)
}

// From reports the transaction carried by ctx, if any.
func From(ctx context.Context) (*sql.Tx, bool) {
	t, ok := ctx.Value(ctxKey{}).(*sql.Tx)
	return t, ok && t != nil
}
