package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/urbannest/internal/dbx"
	"github.com/dmitrijs2005/urbannest/internal/server/repositories/enquiries"
	"github.com/dmitrijs2005/urbannest/internal/server/repositories/properties"
	"github.com/dmitrijs2005/urbannest/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/urbannest/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a *sql.DB or *sql.Tx so
// services can run several of them inside one transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Properties(db dbx.DBTX) properties.Repository
	Enquiries(db dbx.DBTX) enquiries.Repository
}
