// Package admin implements the operator commands of cmd/admin: schema
// migration, user creation and expired-session cleanup.
package admin

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/urbannest/internal/common"
	"github.com/dmitrijs2005/urbannest/internal/dbx"
	"github.com/dmitrijs2005/urbannest/internal/flagx"
	"github.com/dmitrijs2005/urbannest/internal/logging"
	"github.com/dmitrijs2005/urbannest/internal/server/config"
	"github.com/dmitrijs2005/urbannest/internal/server/models"
	"github.com/dmitrijs2005/urbannest/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/urbannest/internal/server/services"
	"github.com/dmitrijs2005/urbannest/internal/validation"
)

const usage = `usage: admin <command> [flags]

commands:
  migrate                                  apply database migrations
  create-user -email E [-name N] [-phone P] create a user (password is prompted)
  purge-sessions                           delete expired sessions
`

var ErrUsage = errors.New("invalid usage")

type UserAdmin interface {
	CreateUser(ctx context.Context, email, password string, fullName, phone *string) (*models.User, error)
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}

type Migrator interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
}

type App struct {
	db       *sql.DB
	migrator Migrator
	users    UserAdmin
	out      io.Writer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	db, err := dbx.Open(ctx, dbx.DriverPostgres, c.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	rm := repomanager.NewPostgresRepositoryManager()
	us := services.NewUserService(db, rm, validation.New(), logging.Nop(), c)

	return &App{db: db, migrator: rm, users: us, out: os.Stdout}, nil
}

func (a *App) Close() error {
	return a.db.Close()
}

// Run executes the command named by args[0].
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return ErrUsage
	}

	switch args[0] {
	case "migrate":
		return a.migrate(ctx)
	case "create-user":
		return a.createUser(ctx, args[1:])
	case "purge-sessions":
		return a.purgeSessions(ctx)
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	default:
		fmt.Fprintf(a.out, "unknown command: %s\n\n%s", args[0], usage)
		return ErrUsage
	}
}

func (a *App) migrate(ctx context.Context) error {
	if err := a.migrator.RunMigrations(ctx, a.db); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	fmt.Fprintln(a.out, "migrations applied")
	return nil
}

func (a *App) createUser(ctx context.Context, args []string) error {
	var email, name, phone string

	fs := flag.NewFlagSet("create-user", flag.ContinueOnError)
	fs.SetOutput(a.out)
	fs.StringVar(&email, "email", "", "email address")
	fs.StringVar(&name, "name", "", "full name")
	fs.StringVar(&phone, "phone", "", "phone number")

	if err := fs.Parse(flagx.FilterArgs(args, []string{"-email", "-name", "-phone"})); err != nil {
		return ErrUsage
	}
	if email == "" {
		fmt.Fprint(a.out, usage)
		return ErrUsage
	}

	pw, err := GetNewPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	user, err := a.users.CreateUser(ctx, email, string(pw), optional(name), optional(phone))
	if err != nil {
		var ve *common.ValidationError
		if errors.As(err, &ve) {
			return fmt.Errorf("invalid input: %w", err)
		}
		return err
	}

	fmt.Fprintf(a.out, "created user %s <%s>\n", user.ID, user.Email)
	return nil
}

func (a *App) purgeSessions(ctx context.Context) error {
	n, err := a.users.PurgeExpiredSessions(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "purged %d expired sessions\n", n)
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
