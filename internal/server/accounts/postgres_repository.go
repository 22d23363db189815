package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/accounthelper/internal/common"
	"github.com/dmitrijs2005/accounthelper/internal/dbx"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

const selectColumns = "id, account_id, phone_number, email, security_code, confirmed, created_at"

// FindOrCreate upserts on the (account_id, phone_number, email) unique key.
// The no-op DO UPDATE makes RETURNING yield the row in both the insert and
// the conflict case, keeping the operation a single atomic statement.
func (r *PostgresRepository) FindOrCreate(ctx context.Context, accountID string, contact Contact) (*Account, error) {
	query := `INSERT INTO accounts (account_id, phone_number, email)
	 VALUES ($1, $2, $3)
	 ON CONFLICT (account_id, phone_number, email)
	 DO UPDATE SET account_id = EXCLUDED.account_id
	 RETURNING ` + selectColumns

	acc := &Account{}
	err := r.db.QueryRowContext(ctx, query, accountID, contact.PhoneNumber, contact.Email).
		Scan(&acc.ID, &acc.AccountID, &acc.PhoneNumber, &acc.Email, &acc.SecurityCode, &acc.Confirmed, &acc.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return acc, nil
}

func (r *PostgresRepository) FindOne(ctx context.Context, accountID string, contact Contact) (*Account, error) {
	query := `SELECT ` + selectColumns + ` FROM accounts
	 WHERE account_id = $1 AND phone_number = $2 AND email = $3`

	acc := &Account{}
	err := r.db.QueryRowContext(ctx, query, accountID, contact.PhoneNumber, contact.Email).
		Scan(&acc.ID, &acc.AccountID, &acc.PhoneNumber, &acc.Email, &acc.SecurityCode, &acc.Confirmed, &acc.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %w", err)
	}

	return acc, nil
}

func (r *PostgresRepository) SetSecurityCode(ctx context.Context, id int64, code string) error {
	query := `UPDATE accounts SET security_code = $1 WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, code, id)
	if err != nil {
		return fmt.Errorf("error performing sql request: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

// ConsumeSecurityCode runs the read-check-clear sequence inside one
// transaction with the row locked, so two submissions of the same code
// cannot both succeed even across helper instances. The confirmed flag
// only ever goes up.
func (r *PostgresRepository) ConsumeSecurityCode(ctx context.Context, id int64, code string, confirm bool) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var stored string
		err := tx.QueryRowContext(ctx, `SELECT security_code FROM accounts WHERE id = $1 FOR UPDATE`, id).Scan(&stored)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return common.ErrNotFound
			}
			return fmt.Errorf("error performing sql request: %w", err)
		}

		if stored == "" || stored != code {
			return common.ErrNotFound
		}

		_, err = tx.ExecContext(ctx, `UPDATE accounts SET security_code = '', confirmed = confirmed OR $1 WHERE id = $2`, confirm, id)
		if err != nil {
			return fmt.Errorf("error performing sql request: %w", err)
		}
		return nil
	})
}
