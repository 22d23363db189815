package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/accounthelper/internal/server/accounts"
	"github.com/dmitrijs2005/accounthelper/internal/server/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct {
	db       *sql.DB
	accounts accounts.Repository
}

func (m *PostgresRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresRepositoryManager) Accounts() accounts.Repository {
	return m.accounts
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return err
	}

	return nil
}

func NewPostgresRepositoryManager(dsn string) (RepositoryManager, error) {

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	accountRepo, err := accounts.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("account repo creation error: %w", err)
	}

	m := &PostgresRepositoryManager{
		db:       db,
		accounts: accountRepo,
	}

	err = m.RunMigrations(context.Background())
	if err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
