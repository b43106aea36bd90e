// Package identity carries the authenticated caller through a request context.
package identity

import (
	"context"

	"github.com/google/uuid"
)

type Identity struct {
	UserID uuid.UUID
	Email  string
}

type contextKey struct{}

func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity stored by the authorization gate.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	if !ok || id.UserID == uuid.Nil {
		return Identity{}, false
	}
	return id, true
}
