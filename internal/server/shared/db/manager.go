// Package db wires the database connection, migrations and repositories
// behind a single manager.
package db

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/accounthelper/internal/server/accounts"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Accounts() accounts.Repository
}
