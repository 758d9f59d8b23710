package repomanager

import (
	"context"
	"database/sql"

	"github.com/mkravets/paperjobs/internal/dbx"
	"github.com/mkravets/paperjobs/internal/server/repositories/jobs"
	"github.com/mkravets/paperjobs/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX so services can use
// the same repository code inside and outside transactions.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Jobs(db dbx.DBTX) jobs.Repository
}
