// Package users declares the credential store: persistence of registered
// landlords and their bcrypt password hashes.
package users

import (
	"context"

	"github.com/dmitrijs2005/urbannest/internal/server/models"
)

type Repository interface {
	// Create inserts the user and fills ID and timestamps. A taken email
	// yields common.ErrDuplicateEmail.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetByEmail returns common.ErrorNotFound when no user has the email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByID returns common.ErrorNotFound when no user has the id.
	GetByID(ctx context.Context, id string) (*models.User, error)
}
