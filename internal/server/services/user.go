// Package services contains server-side business logic. This file implements
// UserService: the credential store and the server-side session lifecycle.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/urbannest/internal/common"
	"github.com/dmitrijs2005/urbannest/internal/cryptox"
	"github.com/dmitrijs2005/urbannest/internal/dbx"
	"github.com/dmitrijs2005/urbannest/internal/logging"
	"github.com/dmitrijs2005/urbannest/internal/server/auth"
	"github.com/dmitrijs2005/urbannest/internal/server/config"
	"github.com/dmitrijs2005/urbannest/internal/server/models"
	"github.com/dmitrijs2005/urbannest/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/urbannest/internal/validation"
)

// sessionTokenBytes is the entropy of a session token; the hex form is
// twice as long.
const sessionTokenBytes = 32

// dummyHash is compared against when the email is unknown, so a login for a
// missing user costs the same bcrypt work as a wrong password.
var dummyHash = sync.OnceValue(func() string {
	h, _ := cryptox.HashPassword([]byte("urbannest-no-such-user"))
	return h
})

// IssuedSession is a freshly created session in cookie form.
type IssuedSession struct {
	Cookie    string
	ExpiresAt time.Time
}

// UserService provides authentication-related operations:
//   - Signup / CreateUser: register users with a bcrypt hash
//   - Login / ValidatePassword: verify credentials and mint sessions
//   - ResolveSession / Logout: look up and revoke sessions from cookies
type UserService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	validator       *validation.Validator
	log             logging.Logger
	secret          []byte
	sessionValidity time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, v *validation.Validator, log logging.Logger, cfg *config.Config) *UserService {
	validity := cfg.SessionValidityDuration
	if validity <= 0 {
		validity = common.DefaultSessionValidity
	}
	return &UserService{
		db:              db,
		repomanager:     m,
		validator:       v,
		log:             log.With("module", "users"),
		secret:          []byte(cfg.SecretKey),
		sessionValidity: validity,
	}
}

// Signup creates the user and its first session in one transaction.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*models.User, *IssuedSession, error) {
	if err := s.validator.Struct(&in); err != nil {
		return nil, nil, err
	}

	user, err := s.newUser(in.Email, in.Password, in.FullName, in.Phone)
	if err != nil {
		return nil, nil, err
	}

	var issued *IssuedSession
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		created, err := s.repomanager.Users(tx).Create(ctx, user)
		if err != nil {
			return err
		}
		user = created

		issued, err = s.createSession(ctx, tx, user.ID)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("signup: %w", err)
	}

	return user, issued, nil
}

// CreateUser registers a user without starting a session.
func (s *UserService) CreateUser(ctx context.Context, email, password string, fullName, phone *string) (*models.User, error) {
	in := SignupInput{Email: email, Password: password, FullName: fullName, Phone: phone}
	if err := s.validator.Struct(&in); err != nil {
		return nil, err
	}

	user, err := s.newUser(in.Email, in.Password, in.FullName, in.Phone)
	if err != nil {
		return nil, err
	}

	created, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// Login checks the credentials and starts a new session. Unknown email and
// wrong password both yield common.ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, in LoginInput) (*models.User, *IssuedSession, error) {
	if err := s.validator.Struct(&in); err != nil {
		return nil, nil, err
	}

	user, err := s.ValidatePassword(ctx, in.Email, in.Password)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, common.ErrorUnauthorized
	}

	issued, err := s.createSession(ctx, s.db, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("login: %w", err)
	}
	return user, issued, nil
}

// ValidatePassword returns the user when password matches, and nil (not an
// error) when the email is unknown or the password is wrong.
func (s *UserService) ValidatePassword(ctx context.Context, email, password string) (*models.User, error) {
	pw := []byte(password)
	defer common.WipeByteArray(pw)

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			cryptox.CheckPassword(dummyHash(), pw)
			return nil, nil
		}
		return nil, fmt.Errorf("validate password: %w", err)
	}

	if !cryptox.CheckPassword(user.PasswordHash, pw) {
		return nil, nil
	}
	return user, nil
}

// ResolveSession maps a cookie value to its user and session token. Bad,
// expired, revoked or unknown cookies resolve to nil without an error;
// only storage failures are returned.
func (s *UserService) ResolveSession(ctx context.Context, cookie string) (*models.User, string, error) {
	if cookie == "" {
		return nil, "", nil
	}

	token, err := auth.OpenSession(cookie, s.secret)
	if err != nil {
		s.log.Debug(ctx, "session cookie rejected", "err", err)
		return nil, "", nil
	}

	session, err := s.repomanager.Sessions(s.db).Find(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("resolve session: %w", err)
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", nil
		}
		return nil, "", fmt.Errorf("resolve session: %w", err)
	}

	return user, token, nil
}

// Logout deletes the session row. Unknown tokens are not an error.
func (s *UserService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.repomanager.Sessions(s.db).Delete(ctx, token); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.lookup(ctx, func(ctx context.Context) (*models.User, error) {
		return s.repomanager.Users(s.db).GetByID(ctx, id)
	})
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.lookup(ctx, func(ctx context.Context) (*models.User, error) {
		return s.repomanager.Users(s.db).GetByEmail(ctx, email)
	})
}

// PurgeExpiredSessions deletes sessions past their expiry.
func (s *UserService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.repomanager.Sessions(s.db).PurgeExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return n, nil
}

// --- helpers below ---

func (s *UserService) lookup(ctx context.Context, get func(context.Context) (*models.User, error)) (*models.User, error) {
	u, err := get(ctx)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

func (s *UserService) newUser(email, password string, fullName, phone *string) (*models.User, error) {
	pw := []byte(password)
	defer common.WipeByteArray(pw)

	hash, err := cryptox.HashPassword(pw)
	if err != nil {
		if errors.Is(err, cryptox.ErrPasswordTooLong) {
			return nil, common.NewValidationError("password", "must be at most 72 bytes")
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return &models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Phone:        phone,
	}, nil
}

func (s *UserService) createSession(ctx context.Context, db dbx.DBTX, userID string) (*IssuedSession, error) {
	token, err := common.MakeRandHexString(sessionTokenBytes)
	if err != nil {
		return nil, err
	}

	session, err := s.repomanager.Sessions(db).Create(ctx, userID, token, s.sessionValidity)
	if err != nil {
		return nil, err
	}

	cookie, err := auth.SealSession(token, s.secret, session.ExpiresAt)
	if err != nil {
		return nil, err
	}

	return &IssuedSession{Cookie: cookie, ExpiresAt: session.ExpiresAt}, nil
}
