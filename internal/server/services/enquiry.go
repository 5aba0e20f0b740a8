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
)

type EnquiryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	validator   *validation.Validator
}

func NewEnquiryService(db *sql.DB, m repomanager.RepositoryManager, v *validation.Validator) *EnquiryService {
	return &EnquiryService{db: db, repomanager: m, validator: v}
}

// Create records an enquiry against an available listing. Unknown and
// unavailable listings yield common.ErrPropertyUnavailable.
func (s *EnquiryService) Create(ctx context.Context, in CreateEnquiryInput) (*models.Enquiry, error) {
	if err := s.validator.Struct(&in); err != nil {
		return nil, err
	}

	e, err := s.repomanager.Enquiries(s.db).Create(ctx, &models.NewEnquiry{
		PropertyID: in.PropertyID,
		Name:       in.Name,
		Phone:      in.Phone,
		Whatsapp:   in.Whatsapp,
		Message:    in.Message,
	})
	if err != nil {
		if errors.Is(err, common.ErrPropertyUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("create enquiry: %w", err)
	}
	return e, nil
}

// ListForOwner returns the enquiries on every listing userID owns.
func (s *EnquiryService) ListForOwner(ctx context.Context, userID string) ([]models.Enquiry, error) {
	props, err := s.repomanager.Properties(s.db).ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list own properties: %w", err)
	}

	ids := make([]string, 0, len(props))
	for _, p := range props {
		ids = append(ids, p.ID)
	}

	enqs, err := s.repomanager.Enquiries(s.db).ListForProperties(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list enquiries: %w", err)
	}
	return enqs, nil
}
