package httpapi

import (
	"context"
	"time"

	"github.com/dmitrijs2005/urbannest/internal/server/models"
	"github.com/dmitrijs2005/urbannest/internal/server/services"
)

type UserService interface {
	Signup(ctx context.Context, in services.SignupInput) (*models.User, *services.IssuedSession, error)
	Login(ctx context.Context, in services.LoginInput) (*models.User, *services.IssuedSession, error)
	ResolveSession(ctx context.Context, cookie string) (*models.User, string, error)
	Logout(ctx context.Context, token string) error
}

type PropertyService interface {
	List(ctx context.Context, filter models.PropertyFilter) ([]models.Property, error)
	Get(ctx context.Context, id string) (*models.Property, error)
	Similar(ctx context.Context, id string) ([]models.Property, error)
	ListMine(ctx context.Context, userID string) ([]models.Property, error)
	Create(ctx context.Context, userID string, in services.CreatePropertyInput) (*models.Property, error)
	Update(ctx context.Context, id, userID string, in services.UpdatePropertyInput) (*models.Property, error)
	Delete(ctx context.Context, id, userID string) error
}

type EnquiryService interface {
	Create(ctx context.Context, in services.CreateEnquiryInput) (*models.Enquiry, error)
	ListForOwner(ctx context.Context, userID string) ([]models.Enquiry, error)
}

type UploadService interface {
	UploadBatch(ctx context.Context, userID string, files []services.Upload) (*models.UploadBatchResult, error)
}

// RateCounter counts hits per key in a fixed window.
type RateCounter interface {
	IncrWithExpire(ctx context.Context, key string, expiration time.Duration) (int64, error)
}

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}
