package auth

import (
	"context"

	"github.com/dmitrijs2005/urbannest/internal/server/models"
)

type ctxKey int

const (
	userKey ctxKey = iota
	sessionKey
)

// WithUser returns a context carrying the authenticated user and the
// session token it was resolved from.
func WithUser(ctx context.Context, user *models.User, sessionToken string) context.Context {
	ctx = context.WithValue(ctx, userKey, user)
	return context.WithValue(ctx, sessionKey, sessionToken)
}

// UserFromContext returns the authenticated user, or nil for anonymous requests.
func UserFromContext(ctx context.Context) *models.User {
	u, _ := ctx.Value(userKey).(*models.User)
	return u
}

// SessionFromContext returns the session token, or "" for anonymous requests.
func SessionFromContext(ctx context.Context) string {
	s, _ := ctx.Value(sessionKey).(string)
	return s
}
