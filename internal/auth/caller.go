package auth

import (
	"context"

	"github.com/google/uuid"
)

// Caller is the verified identity behind a request. Every mutating ledger
// operation receives one; how the identity was proven is this package's
// concern, not the ledger's.
type Caller struct {
	ID uuid.UUID
}

type contextKey int

const (
	callerContextKey contextKey = iota
)

// WithCaller returns a context carrying the verified caller.
func WithCaller(ctx context.Context, caller *Caller) context.Context {
	return context.WithValue(ctx, callerContextKey, caller)
}

// CallerFromContext extracts the verified caller from the request context.
// Returns nil if no caller is present (unauthenticated request).
func CallerFromContext(ctx context.Context) *Caller {
	caller, _ := ctx.Value(callerContextKey).(*Caller)
	return caller
}
