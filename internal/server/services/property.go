package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/urbannest/internal/common"
	"github.com/dmitrijs2005/urbannest/internal/server/models"
	"github.com/dmitrijs2005/urbannest/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/urbannest/internal/validation"
	"github.com/google/uuid"
)

// PropertyService is the access-controlled surface over listings. Mutations
// always scope by the caller's user id.
type PropertyService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	validator   *validation.Validator
}

func NewPropertyService(db *sql.DB, m repomanager.RepositoryManager, v *validation.Validator) *PropertyService {
	return &PropertyService{db: db, repomanager: m, validator: v}
}

func (s *PropertyService) List(ctx context.Context, filter models.PropertyFilter) ([]models.Property, error) {
	if filter.Type != "" && !isPropertyType(filter.Type) {
		return nil, common.NewValidationError("type", "must be one of: room apartment house")
	}
	props, err := s.repomanager.Properties(s.db).List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	return props, nil
}

// Get returns common.ErrorNotFound for unknown or malformed ids.
func (s *PropertyService) Get(ctx context.Context, id string) (*models.Property, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	p, err := s.repomanager.Properties(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get property: %w", err)
	}
	return p, nil
}

// Similar returns up to three available listings of the same type as id,
// never id itself.
func (s *PropertyService) Similar(ctx context.Context, id string) ([]models.Property, error) {
	base, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	props, err := s.repomanager.Properties(s.db).ListByType(ctx, base.Type, base.ID)
	if err != nil {
		return nil, fmt.Errorf("similar properties: %w", err)
	}
	return props, nil
}

// ListMine returns every listing of userID, available or not.
func (s *PropertyService) ListMine(ctx context.Context, userID string) ([]models.Property, error) {
	props, err := s.repomanager.Properties(s.db).ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list own properties: %w", err)
	}
	return props, nil
}

// Create validates in and stores a listing owned by userID.
func (s *PropertyService) Create(ctx context.Context, userID string, in CreatePropertyInput) (*models.Property, error) {
	if err := s.validator.Struct(&in); err != nil {
		return nil, err
	}

	np := &models.NewProperty{
		Title:         in.Title,
		Type:          in.Type,
		Price:         *in.Price,
		Location:      in.Location,
		Bedrooms:      intOr(in.Bedrooms, 1),
		Bathrooms:     intOr(in.Bathrooms, 1),
		Description:   in.Description,
		Features:      in.Features,
		Images:        in.Images,
		Available:     in.Available == nil || *in.Available,
		LandlordPhone: in.LandlordPhone,
	}
	if np.Features == nil {
		np.Features = []string{}
	}
	if np.Images == nil {
		np.Images = []string{}
	}

	p, err := s.repomanager.Properties(s.db).Create(ctx, userID, np)
	if err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}
	return p, nil
}

// Update changes the given fields of a listing owned by userID. A missing
// listing and someone else's listing both yield common.ErrorNotFound.
func (s *PropertyService) Update(ctx context.Context, id, userID string, in UpdatePropertyInput) (*models.Property, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	if err := s.validator.Struct(&in); err != nil {
		return nil, err
	}

	patch := &models.PropertyPatch{
		Title:         in.Title,
		Type:          in.Type,
		Price:         in.Price,
		Location:      in.Location,
		Bedrooms:      in.Bedrooms,
		Bathrooms:     in.Bathrooms,
		Description:   in.Description,
		Features:      in.Features,
		Images:        in.Images,
		Available:     in.Available,
		LandlordPhone: in.LandlordPhone,
	}

	p, err := s.repomanager.Properties(s.db).Update(ctx, id, userID, patch)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update property: %w", err)
	}
	return p, nil
}

// Delete removes a listing owned by userID, cascading to its enquiries.
func (s *PropertyService) Delete(ctx context.Context, id, userID string) error {
	if !validID(id) {
		return common.ErrorNotFound
	}
	ok, err := s.repomanager.Properties(s.db).Delete(ctx, id, userID)
	if err != nil {
		return fmt.Errorf("delete property: %w", err)
	}
	if !ok {
		return common.ErrorNotFound
	}
	return nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func isPropertyType(t string) bool {
	switch t {
	case models.PropertyTypeRoom, models.PropertyTypeApartment, models.PropertyTypeHouse:
		return true
	}
	return false
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
