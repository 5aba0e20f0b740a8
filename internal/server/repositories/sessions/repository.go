// Package sessions declares the server-side session store: opaque tokens
// bound to a user id with a fixed expiry.
package sessions

import (
	"context"
	"time"

	"github.com/dmitrijs2005/urbannest/internal/server/models"
)

// Repository defines operations for issuing, resolving and revoking sessions.
type Repository interface {
	// Create stores a new session for userID expiring at now+validity.
	Create(ctx context.Context, userID string, token string, validity time.Duration) (*models.Session, error)

	// Find returns the session for token if it has not expired.
	// Unknown and expired tokens both yield common.ErrorNotFound.
	Find(ctx context.Context, token string) (*models.Session, error)

	// Delete removes a session. Deleting an absent token is not an error.
	Delete(ctx context.Context, token string) error

	// PurgeExpired deletes every expired session and returns how many went.
	PurgeExpired(ctx context.Context) (int64, error)
}
