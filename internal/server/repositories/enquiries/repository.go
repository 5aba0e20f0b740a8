// Package enquiries stores visitor enquiries against listings.
package enquiries

import (
	"context"

	"github.com/dmitrijs2005/urbannest/internal/server/models"
)

type Repository interface {
	// ListForProperties returns the enquiries of all given properties,
	// newest first. No ids means no query and an empty result.
	ListForProperties(ctx context.Context, propertyIDs []string) ([]models.Enquiry, error)
	// Create inserts the enquiry only if the property exists and is
	// available, else it returns common.ErrPropertyUnavailable.
	Create(ctx context.Context, e *models.NewEnquiry) (*models.Enquiry, error)
}
