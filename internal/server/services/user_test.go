package services

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/dmitrijs2005/urbannest/internal/common"
	"github.com/dmitrijs2005/urbannest/internal/cryptox"
	"github.com/dmitrijs2005/urbannest/internal/logging"
	"github.com/dmitrijs2005/urbannest/internal/server/auth"
	"github.com/dmitrijs2005/urbannest/internal/server/config"
	"github.com/dmitrijs2005/urbannest/internal/server/models"
	"github.com/dmitrijs2005/urbannest/internal/validation"
)

const testSecret = "k"

func newUserService(t *testing.T, db *sql.DB, rm *fakeRepoManager) *UserService {
	t.Helper()
	cfg := &config.Config{SecretKey: testSecret, SessionValidityDuration: time.Hour}
	return NewUserService(db, rm, validation.New(), logging.Nop(), cfg)
}

func hashOf(t *testing.T, pw string) string {
	t.Helper()
	h, err := cryptox.HashPassword([]byte(pw))
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	return h
}

func TestSignup_Success(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := &fakeRepoManager{u: &fakeUsersRepo{}, s: &fakeSessionsRepo{}}
	s := newUserService(t, db, rm)

	name := "Alice"
	user, issued, err := s.Signup(context.Background(), SignupInput{Email: "a@example.com", Password: "secret", FullName: &name})
	if err != nil {
		t.Fatalf("Signup error: %v", err)
	}
	if user.ID == "" || user.Email != "a@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if rm.u.created.PasswordHash == "secret" || !cryptox.CheckPassword(rm.u.created.PasswordHash, []byte("secret")) {
		t.Fatalf("password not stored as bcrypt hash: %q", rm.u.created.PasswordHash)
	}
	if len(rm.s.createdFor) != 1 || rm.s.createdFor[0] != user.ID {
		t.Fatalf("session not created for new user: %v", rm.s.createdFor)
	}

	token, err := auth.OpenSession(issued.Cookie, []byte(testSecret))
	if err != nil {
		t.Fatalf("OpenSession: %v", err)
	}
	if len(token) != 2*sessionTokenBytes {
		t.Fatalf("session token length = %d", len(token))
	}
	if time.Until(issued.ExpiresAt) <= 0 {
		t.Fatalf("session already expired: %v", issued.ExpiresAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := &fakeRepoManager{u: &fakeUsersRepo{createErr: common.ErrDuplicateEmail}, s: &fakeSessionsRepo{}}
	s := newUserService(t, db, rm)

	_, _, err := s.Signup(context.Background(), SignupInput{Email: "a@example.com", Password: "secret"})
	if !errors.Is(err, common.ErrDuplicateEmail) {
		t.Fatalf("want ErrDuplicateEmail, got %v", err)
	}
	if len(rm.s.createdFor) != 0 {
		t.Fatalf("session created despite failed signup")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestSignup_SessionCreateErrRollsBack(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := &fakeRepoManager{u: &fakeUsersRepo{}, s: &fakeSessionsRepo{createErr: errBoom{}}}
	s := newUserService(t, db, rm)

	_, _, err := s.Signup(context.Background(), SignupInput{Email: "a@example.com", Password: "secret"})
	if err == nil || !regexp.MustCompile(`signup: .*boom`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped session error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestSignup_ValidationBeforeStorage(t *testing.T) {
	db, mock := newSQLMockDB(t)

	rm := &fakeRepoManager{u: &fakeUsersRepo{}, s: &fakeSessionsRepo{}}
	s := newUserService(t, db, rm)

	cases := []struct {
		name  string
		in    SignupInput
		field string
	}{
		{"missing email", SignupInput{Password: "x"}, "email"},
		{"missing password", SignupInput{Email: "a@example.com"}, "password"},
		{"bad email", SignupInput{Email: "nope", Password: "x"}, "email"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := s.Signup(context.Background(), tc.in)
			var ve *common.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("want ValidationError, got %v", err)
			}
			if _, ok := ve.Fields[tc.field]; !ok {
				t.Fatalf("want field %q in %v", tc.field, ve.Fields)
			}
		})
	}

	if rm.u.created != nil {
		t.Fatalf("repository reached on invalid input")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}

func TestSignup_PasswordTooLong(t *testing.T) {
	db, _ := newSQLMockDB(t)
	s := newUserService(t, db, &fakeRepoManager{u: &fakeUsersRepo{}, s: &fakeSessionsRepo{}})

	long := make([]byte, 100)
	for i := range long {
		long[i] = 'a'
	}
	_, _, err := s.Signup(context.Background(), SignupInput{Email: "a@example.com", Password: string(long)})
	var ve *common.ValidationError
	if !errors.As(err, &ve) || ve.Fields["password"] == "" {
		t.Fatalf("want password ValidationError, got %v", err)
	}
}

func TestCreateUser_SuccessAndErrors(t *testing.T) {
	db, _ := newSQLMockDB(t)

	sOK := newUserService(t, db, &fakeRepoManager{u: &fakeUsersRepo{}})
	u, err := sOK.CreateUser(context.Background(), "b@example.com", "pw", nil, nil)
	if err != nil || u.ID == "" {
		t.Fatalf("CreateUser ok: got (%v, %v)", u, err)
	}

	sDup := newUserService(t, db, &fakeRepoManager{u: &fakeUsersRepo{createErr: common.ErrDuplicateEmail}})
	if _, err := sDup.CreateUser(context.Background(), "b@example.com", "pw", nil, nil); !errors.Is(err, common.ErrDuplicateEmail) {
		t.Fatalf("want ErrDuplicateEmail, got %v", err)
	}

	sErr := newUserService(t, db, &fakeRepoManager{u: &fakeUsersRepo{createErr: errBoom{}}})
	_, err = sErr.CreateUser(context.Background(), "b@example.com", "pw", nil, nil)
	if err == nil || !regexp.MustCompile(`create user: .*boom`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestLogin_Flows(t *testing.T) {
	db, _ := newSQLMockDB(t)
	stored := &models.User{ID: "u1", Email: "a@example.com", PasswordHash: hashOf(t, "right")}

	// unknown email → unauthorized
	sNF := newUserService(t, db, &fakeRepoManager{u: &fakeUsersRepo{byEmailErr: common.ErrorNotFound}, s: &fakeSessionsRepo{}})
	if _, _, err := sNF.Login(context.Background(), LoginInput{Email: "ghost@example.com", Password: "x"}); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("not found → unauthorized, got %v", err)
	}

	// wrong password → unauthorized
	sWP := newUserService(t, db, &fakeRepoManager{u: &fakeUsersRepo{byEmail: stored}, s: &fakeSessionsRepo{}})
	if _, _, err := sWP.Login(context.Background(), LoginInput{Email: "a@example.com", Password: "wrong"}); !errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("wrong password → unauthorized, got %v", err)
	}

	// storage error is not unauthorized
	sIE := newUserService(t, db, &fakeRepoManager{u: &fakeUsersRepo{byEmailErr: errBoom{}}, s: &fakeSessionsRepo{}})
	if _, _, err := sIE.Login(context.Background(), LoginInput{Email: "a@example.com", Password: "x"}); err == nil || errors.Is(err, common.ErrorUnauthorized) {
		t.Fatalf("storage error must surface, got %v", err)
	}

	// missing fields
	var ve *common.ValidationError
	if _, _, err := sWP.Login(context.Background(), LoginInput{Email: "a@example.com"}); !errors.As(err, &ve) {
		t.Fatalf("missing password → ValidationError, got %v", err)
	}

	sessions := &fakeSessionsRepo{}
	sOK := newUserService(t, db, &fakeRepoManager{u: &fakeUsersRepo{byEmail: stored}, s: sessions})
	user, issued, err := sOK.Login(context.Background(), LoginInput{Email: "a@example.com", Password: "right"})
	if err != nil || user.ID != "u1" || issued.Cookie == "" {
		t.Fatalf("Login success: user=%+v issued=%+v err=%v", user, issued, err)
	}
	if len(sessions.createdFor) != 1 || sessions.createdFor[0] != "u1" {
		t.Fatalf("session bound to wrong user: %v", sessions.createdFor)
	}
}

func TestLogin_ConcurrentSessionsAllowed(t *testing.T) {
	db, _ := newSQLMockDB(t)
	stored := &models.User{ID: "u1", Email: "a@example.com", PasswordHash: hashOf(t, "right")}
	s := newUserService(t, db, &fakeRepoManager{u: &fakeUsersRepo{byEmail: stored}, s: &fakeSessionsRepo{}})

	_, first, err := s.Login(context.Background(), LoginInput{Email: "a@example.com", Password: "right"})
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	_, second, err := s.Login(context.Background(), LoginInput{Email: "a@example.com", Password: "right"})
	if err != nil {
		t.Fatalf("second login: %v", err)
	}

	t1, _ := auth.OpenSession(first.Cookie, []byte(testSecret))
	t2, _ := auth.OpenSession(second.Cookie, []byte(testSecret))
	if t1 == "" || t1 == t2 {
		t.Fatalf("expected two distinct session tokens, got %q and %q", t1, t2)
	}
}

func TestResolveSession(t *testing.T) {
	db, _ := newSQLMockDB(t)
	user := &models.User{ID: "u1", Email: "a@example.com"}

	cookie, err := auth.SealSession("tok", []byte(testSecret), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("SealSession: %v", err)
	}

	t.Run("empty cookie", func(t *testing.T) {
		s := newUserService(t, db, &fakeRepoManager{})
		u, tok, err := s.ResolveSession(context.Background(), "")
		if u != nil || tok != "" || err != nil {
			t.Fatalf("got (%v, %q, %v)", u, tok, err)
		}
	})

	t.Run("forged cookie", func(t *testing.T) {
		forged, _ := auth.SealSession("tok", []byte("other"), time.Now().Add(time.Hour))
		s := newUserService(t, db, &fakeRepoManager{s: &fakeSessionsRepo{findErr: errBoom{}}})
		u, _, err := s.ResolveSession(context.Background(), forged)
		if u != nil || err != nil {
			t.Fatalf("forged cookie must resolve to nil, got (%v, %v)", u, err)
		}
	})

	t.Run("valid", func(t *testing.T) {
		rm := &fakeRepoManager{
			s: &fakeSessionsRepo{found: &models.Session{Token: "tok", UserID: "u1"}},
			u: &fakeUsersRepo{byID: user},
		}
		s := newUserService(t, db, rm)
		u, tok, err := s.ResolveSession(context.Background(), cookie)
		if err != nil || u == nil || u.ID != "u1" || tok != "tok" {
			t.Fatalf("got (%v, %q, %v)", u, tok, err)
		}
	})

	t.Run("expired or deleted row", func(t *testing.T) {
		s := newUserService(t, db, &fakeRepoManager{s: &fakeSessionsRepo{findErr: common.ErrorNotFound}})
		u, _, err := s.ResolveSession(context.Background(), cookie)
		if u != nil || err != nil {
			t.Fatalf("got (%v, %v)", u, err)
		}
	})

	t.Run("storage error", func(t *testing.T) {
		s := newUserService(t, db, &fakeRepoManager{s: &fakeSessionsRepo{findErr: errBoom{}}})
		_, _, err := s.ResolveSession(context.Background(), cookie)
		if err == nil || !regexp.MustCompile(`resolve session: .*boom`).MatchString(err.Error()) {
			t.Fatalf("expected wrapped error, got %v", err)
		}
	})
}

func TestLogout(t *testing.T) {
	db, _ := newSQLMockDB(t)
	sessions := &fakeSessionsRepo{}
	s := newUserService(t, db, &fakeRepoManager{s: sessions})

	if err := s.Logout(context.Background(), ""); err != nil {
		t.Fatalf("empty token logout: %v", err)
	}
	if len(sessions.deleted) != 0 {
		t.Fatalf("empty token reached repository")
	}

	if err := s.Logout(context.Background(), "tok"); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if len(sessions.deleted) != 1 || sessions.deleted[0] != "tok" {
		t.Fatalf("deleted = %v", sessions.deleted)
	}

	sessions.delErr = errBoom{}
	if err := s.Logout(context.Background(), "tok"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestGetUser_NotFoundIsNil(t *testing.T) {
	db, _ := newSQLMockDB(t)
	s := newUserService(t, db, &fakeRepoManager{u: &fakeUsersRepo{byIDErr: common.ErrorNotFound, byEmailErr: common.ErrorNotFound}})

	if u, err := s.GetUserByID(context.Background(), "x"); u != nil || err != nil {
		t.Fatalf("GetUserByID: (%v, %v)", u, err)
	}
	if u, err := s.GetUserByEmail(context.Background(), "x@example.com"); u != nil || err != nil {
		t.Fatalf("GetUserByEmail: (%v, %v)", u, err)
	}

	sErr := newUserService(t, db, &fakeRepoManager{u: &fakeUsersRepo{byIDErr: errBoom{}}})
	if _, err := sErr.GetUserByID(context.Background(), "x"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestPurgeExpiredSessions(t *testing.T) {
	db, _ := newSQLMockDB(t)

	s := newUserService(t, db, &fakeRepoManager{s: &fakeSessionsRepo{purged: 4}})
	n, err := s.PurgeExpiredSessions(context.Background())
	if err != nil || n != 4 {
		t.Fatalf("got (%d, %v)", n, err)
	}

	sErr := newUserService(t, db, &fakeRepoManager{s: &fakeSessionsRepo{purgeErr: errBoom{}}})
	if _, err := sErr.PurgeExpiredSessions(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}
