package internal

import (
	"context"
	"net/http"
	"time"
)

type ctxKey string

const (
	ContextUserKey     ctxKey = "userID"
	ContextIdentityKey ctxKey = "identity"
)

// Identity headers set by the gatekeeper for downstream handlers.
const (
	HeaderUserID    = "x-user-id"
	HeaderUserRole  = "x-user-role"
	HeaderUserEmail = "x-user-email"
)

// Identity is the caller as forwarded by the gatekeeper.
type Identity struct {
	ID    string
	Role  string
	Email string
}

func (i Identity) IsZero() bool {
	return i.ID == ""
}

// IdentityFromRequest reads the identity headers. Values are trusted as-is.
func IdentityFromRequest(r *http.Request) Identity {
	return Identity{
		ID:    r.Header.Get(HeaderUserID),
		Role:  r.Header.Get(HeaderUserRole),
		Email: r.Header.Get(HeaderUserEmail),
	}
}

func IdentityFromContext(ctx context.Context) Identity {
	if ctx == nil {
		return Identity{}
	}
	if id, ok := ctx.Value(ContextIdentityKey).(Identity); ok {
		return id
	}
	return Identity{}
}

func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	ctx = context.WithValue(ctx, ContextIdentityKey, id)
	return ContextWithUserID(ctx, id.ID)
}

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if userID, ok := ctx.Value(ContextUserKey).(string); ok {
		return userID
	}
	return ""
}

func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ContextUserKey, userID)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
