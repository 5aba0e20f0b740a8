package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/urbannest/internal/dbx"
	"github.com/dmitrijs2005/urbannest/internal/server/models"
	"github.com/dmitrijs2005/urbannest/internal/server/repositories/enquiries"
	"github.com/dmitrijs2005/urbannest/internal/server/repositories/properties"
	"github.com/dmitrijs2005/urbannest/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/urbannest/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// --- users ---

type fakeUsersRepo struct {
	created   *models.User
	createErr error

	byEmail    *models.User
	byEmailErr error

	byID    *models.User
	byIDErr error
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = u
	out := *u
	out.ID = "11111111-1111-1111-1111-111111111111"
	out.CreatedAt = time.Now()
	out.UpdatedAt = out.CreatedAt
	return &out, nil
}

func (f *fakeUsersRepo) GetByEmail(context.Context, string) (*models.User, error) {
	if f.byEmailErr != nil {
		return nil, f.byEmailErr
	}
	return f.byEmail, nil
}

func (f *fakeUsersRepo) GetByID(context.Context, string) (*models.User, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byID, nil
}

// --- sessions ---

type fakeSessionsRepo struct {
	createErr  error
	createdFor []string

	found   *models.Session
	findErr error

	deleted []string
	delErr  error

	purged   int64
	purgeErr error
}

func (f *fakeSessionsRepo) Create(_ context.Context, userID, token string, validity time.Duration) (*models.Session, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.createdFor = append(f.createdFor, userID)
	now := time.Now()
	return &models.Session{Token: token, UserID: userID, ExpiresAt: now.Add(validity), CreatedAt: now}, nil
}

func (f *fakeSessionsRepo) Find(context.Context, string) (*models.Session, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.found, nil
}

func (f *fakeSessionsRepo) Delete(_ context.Context, token string) error {
	f.deleted = append(f.deleted, token)
	return f.delErr
}

func (f *fakeSessionsRepo) PurgeExpired(context.Context) (int64, error) {
	return f.purged, f.purgeErr
}

// --- properties ---

type fakePropertiesRepo struct {
	calls []string

	listOut    []models.Property
	listFilter models.PropertyFilter

	getOut *models.Property
	getErr error

	byOwner    []models.Property
	byOwnerErr error

	byType        []models.Property
	byTypeType    string
	byTypeExclude string

	createOwner string
	createIn    *models.NewProperty

	updateOut   *models.Property
	updateErr   error
	updatePatch *models.PropertyPatch

	deleteOK  bool
	deleteErr error
}

func (f *fakePropertiesRepo) List(_ context.Context, filter models.PropertyFilter) ([]models.Property, error) {
	f.calls = append(f.calls, "List")
	f.listFilter = filter
	return f.listOut, nil
}

func (f *fakePropertiesRepo) GetByID(context.Context, string) (*models.Property, error) {
	f.calls = append(f.calls, "GetByID")
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakePropertiesRepo) ListByOwner(context.Context, string) ([]models.Property, error) {
	f.calls = append(f.calls, "ListByOwner")
	if f.byOwnerErr != nil {
		return nil, f.byOwnerErr
	}
	return f.byOwner, nil
}

func (f *fakePropertiesRepo) ListByType(_ context.Context, propertyType, excludeID string) ([]models.Property, error) {
	f.calls = append(f.calls, "ListByType")
	f.byTypeType = propertyType
	f.byTypeExclude = excludeID
	return f.byType, nil
}

func (f *fakePropertiesRepo) Create(_ context.Context, ownerID string, p *models.NewProperty) (*models.Property, error) {
	f.calls = append(f.calls, "Create")
	f.createOwner = ownerID
	f.createIn = p
	return &models.Property{
		ID:            "22222222-2222-2222-2222-222222222222",
		UserID:        ownerID,
		Title:         p.Title,
		Type:          p.Type,
		Price:         p.Price,
		Location:      p.Location,
		Bedrooms:      p.Bedrooms,
		Bathrooms:     p.Bathrooms,
		Description:   p.Description,
		Features:      p.Features,
		Images:        p.Images,
		Available:     p.Available,
		LandlordPhone: p.LandlordPhone,
	}, nil
}

func (f *fakePropertiesRepo) Update(_ context.Context, _, _ string, patch *models.PropertyPatch) (*models.Property, error) {
	f.calls = append(f.calls, "Update")
	f.updatePatch = patch
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updateOut, nil
}

func (f *fakePropertiesRepo) Delete(context.Context, string, string) (bool, error) {
	f.calls = append(f.calls, "Delete")
	return f.deleteOK, f.deleteErr
}

// --- enquiries ---

type fakeEnquiriesRepo struct {
	listIDs []string
	listOut []models.Enquiry

	createIn  *models.NewEnquiry
	createErr error
}

func (f *fakeEnquiriesRepo) ListForProperties(_ context.Context, ids []string) ([]models.Enquiry, error) {
	f.listIDs = ids
	return f.listOut, nil
}

func (f *fakeEnquiriesRepo) Create(_ context.Context, e *models.NewEnquiry) (*models.Enquiry, error) {
	f.createIn = e
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Enquiry{
		ID:         "33333333-3333-3333-3333-333333333333",
		PropertyID: e.PropertyID,
		Name:       e.Name,
		Phone:      e.Phone,
		Whatsapp:   e.Whatsapp,
		Message:    e.Message,
		CreatedAt:  time.Now(),
	}, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	s *fakeSessionsRepo
	p *fakePropertiesRepo
	e *fakeEnquiriesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository              { return m.u }
func (m *fakeRepoManager) Sessions(dbx.DBTX) sessions.Repository        { return m.s }
func (m *fakeRepoManager) Properties(dbx.DBTX) properties.Repository    { return m.p }
func (m *fakeRepoManager) Enquiries(dbx.DBTX) enquiries.Repository      { return m.e }
