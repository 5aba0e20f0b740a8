package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/urbannest/internal/common"
	"github.com/dmitrijs2005/urbannest/internal/logging"
	"github.com/dmitrijs2005/urbannest/internal/server/config"
	"github.com/dmitrijs2005/urbannest/internal/server/models"
	"github.com/dmitrijs2005/urbannest/internal/server/services"
)

const (
	testCookie = "cookie-alice"
	aliceID    = "0f8fad5b-d9cb-469f-a165-70867728950e"
	propID     = "5d9c2a51-7f57-4c1e-9a4b-0c5b8d5e1f10"
)

var alice = &models.User{ID: aliceID, Email: "alice@example.com", PasswordHash: "$2a$10$secret"}

type mockUsers struct {
	signupFunc func(ctx context.Context, in services.SignupInput) (*models.User, *services.IssuedSession, error)
	loginFunc  func(ctx context.Context, in services.LoginInput) (*models.User, *services.IssuedSession, error)
	resolveErr error
	loggedOut  []string
	logoutErr  error
}

func (m *mockUsers) Signup(ctx context.Context, in services.SignupInput) (*models.User, *services.IssuedSession, error) {
	if m.signupFunc != nil {
		return m.signupFunc(ctx, in)
	}
	return nil, nil, common.NewValidationError("email", "is required")
}

func (m *mockUsers) Login(ctx context.Context, in services.LoginInput) (*models.User, *services.IssuedSession, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, in)
	}
	return nil, nil, common.NewValidationError("email", "is required")
}

func (m *mockUsers) ResolveSession(_ context.Context, cookie string) (*models.User, string, error) {
	if m.resolveErr != nil {
		return nil, "", m.resolveErr
	}
	if cookie == testCookie {
		return alice, "tok-alice", nil
	}
	return nil, "", nil
}

func (m *mockUsers) Logout(_ context.Context, token string) error {
	m.loggedOut = append(m.loggedOut, token)
	return m.logoutErr
}

type mockProperties struct {
	listFunc     func(ctx context.Context, filter models.PropertyFilter) ([]models.Property, error)
	getFunc      func(ctx context.Context, id string) (*models.Property, error)
	similarFunc  func(ctx context.Context, id string) ([]models.Property, error)
	listMineFunc func(ctx context.Context, userID string) ([]models.Property, error)
	createFunc   func(ctx context.Context, userID string, in services.CreatePropertyInput) (*models.Property, error)
	updateFunc   func(ctx context.Context, id, userID string, in services.UpdatePropertyInput) (*models.Property, error)
	deleteFunc   func(ctx context.Context, id, userID string) error
}

func (m *mockProperties) List(ctx context.Context, filter models.PropertyFilter) ([]models.Property, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter)
	}
	return []models.Property{}, nil
}

func (m *mockProperties) Get(ctx context.Context, id string) (*models.Property, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, common.ErrorNotFound
}

func (m *mockProperties) Similar(ctx context.Context, id string) ([]models.Property, error) {
	if m.similarFunc != nil {
		return m.similarFunc(ctx, id)
	}
	return []models.Property{}, nil
}

func (m *mockProperties) ListMine(ctx context.Context, userID string) ([]models.Property, error) {
	if m.listMineFunc != nil {
		return m.listMineFunc(ctx, userID)
	}
	return []models.Property{}, nil
}

func (m *mockProperties) Create(ctx context.Context, userID string, in services.CreatePropertyInput) (*models.Property, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, userID, in)
	}
	return nil, common.NewValidationError("title", "is required")
}

func (m *mockProperties) Update(ctx context.Context, id, userID string, in services.UpdatePropertyInput) (*models.Property, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, userID, in)
	}
	return nil, common.ErrorNotFound
}

func (m *mockProperties) Delete(ctx context.Context, id, userID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id, userID)
	}
	return nil
}

type mockEnquiries struct {
	createFunc func(ctx context.Context, in services.CreateEnquiryInput) (*models.Enquiry, error)
	listFunc   func(ctx context.Context, userID string) ([]models.Enquiry, error)
}

func (m *mockEnquiries) Create(ctx context.Context, in services.CreateEnquiryInput) (*models.Enquiry, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, in)
	}
	return nil, common.NewValidationError("name", "is required")
}

func (m *mockEnquiries) ListForOwner(ctx context.Context, userID string) ([]models.Enquiry, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, userID)
	}
	return []models.Enquiry{}, nil
}

type mockUploads struct {
	uploadFunc func(ctx context.Context, userID string, files []services.Upload) (*models.UploadBatchResult, error)
}

func (m *mockUploads) UploadBatch(ctx context.Context, userID string, files []services.Upload) (*models.UploadBatchResult, error) {
	if m.uploadFunc != nil {
		return m.uploadFunc(ctx, userID, files)
	}
	return &models.UploadBatchResult{}, nil
}

type fakeCounter struct {
	counts map[string]int64
	err    error
}

func (f *fakeCounter) IncrWithExpire(_ context.Context, key string, _ time.Duration) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	if f.counts == nil {
		f.counts = map[string]int64{}
	}
	f.counts[key]++
	return f.counts[key], nil
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

type testEnv struct {
	users      *mockUsers
	properties *mockProperties
	enquiries  *mockEnquiries
	uploads    *mockUploads
	limiter    *fakeCounter
	cfg        *config.Config
	uploadDir  string
	db         fakePinger
}

func newTestEnv() *testEnv {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return &testEnv{
		users:      &mockUsers{},
		properties: &mockProperties{},
		enquiries:  &mockEnquiries{},
		uploads:    &mockUploads{},
		cfg:        cfg,
	}
}

func (e *testEnv) handler() http.Handler {
	d := Deps{
		Users:      e.users,
		Properties: e.properties,
		Enquiries:  e.enquiries,
		Uploads:    e.uploads,
		DB:         e.db,
		UploadDir:  e.uploadDir,
		Log:        logging.Nop(),
		Config:     e.cfg,
	}
	if e.limiter != nil {
		d.Limiter = e.limiter
	}
	return NewRouter(d)
}

func (e *testEnv) do(t *testing.T, method, path, body string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.AddCookie(&http.Cookie{Name: common.SessionCookieName, Value: testCookie})
	}
	return e.doReq(req)
}

func (e *testEnv) doReq(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.handler().ServeHTTP(rec, req)
	return rec
}
