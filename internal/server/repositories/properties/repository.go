package properties

import (
	"context"

	"github.com/dmitrijs2005/urbannest/internal/server/models"
)

// Repository is the persistence contract for rental listings. Every list is
// ordered newest first and is never nil.
type Repository interface {
	List(ctx context.Context, filter models.PropertyFilter) ([]models.Property, error)
	// GetByID returns common.ErrorNotFound for an unknown id.
	GetByID(ctx context.Context, id string) (*models.Property, error)
	ListByOwner(ctx context.Context, userID string) ([]models.Property, error)
	// ListByType returns up to SimilarLimit available listings of the type,
	// skipping excludeID when it is not empty.
	ListByType(ctx context.Context, propertyType string, excludeID string) ([]models.Property, error)
	Create(ctx context.Context, ownerID string, p *models.NewProperty) (*models.Property, error)
	// Update applies patch only when the row exists and belongs to ownerID;
	// otherwise it returns common.ErrorNotFound.
	Update(ctx context.Context, id string, ownerID string, patch *models.PropertyPatch) (*models.Property, error)
	// Delete reports whether a row owned by ownerID was removed.
	Delete(ctx context.Context, id string, ownerID string) (bool, error)
}
