package accounts

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/accounthelper/internal/common"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	repo, err := NewPostgresRepository(db)
	if err != nil {
		t.Fatalf("NewPostgresRepository error: %v", err)
	}
	return repo, mock, db
}

func accountRows(code string, confirmed bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "account_id", "phone_number", "email", "security_code", "confirmed", "created_at"}).
		AddRow(int64(1), "alice.near", "+15550001111", "", code, confirmed, time.Now())
}

func TestFindOrCreate_ReturnsRow(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := regexp.MustCompile(`INSERT INTO accounts .* ON CONFLICT \(account_id, phone_number, email\) .* RETURNING`)
	mock.ExpectQuery(q.String()).
		WithArgs("alice.near", "+15550001111", "").
		WillReturnRows(accountRows("", false))

	acc, err := repo.FindOrCreate(context.Background(), "alice.near", Contact{PhoneNumber: "+15550001111"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if acc.AccountID != "alice.near" || acc.SecurityCode != "" || acc.Confirmed {
		t.Fatalf("unexpected record: %+v", acc)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFindOrCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO accounts`).
		WithArgs("alice.near", "+15550001111", "").
		WillReturnError(errors.New("db is down"))

	_, err := repo.FindOrCreate(context.Background(), "alice.near", Contact{PhoneNumber: "+15550001111"})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestFindOne_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM accounts`).
		WithArgs("alice.near", "", "alice@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindOne(context.Background(), "alice.near", Contact{Email: "alice@example.com"})
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestFindOne_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM accounts`).
		WithArgs("alice.near", "+15550001111", "").
		WillReturnRows(accountRows("123456", true))

	acc, err := repo.FindOne(context.Background(), "alice.near", Contact{PhoneNumber: "+15550001111"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if acc.SecurityCode != "123456" || !acc.Confirmed {
		t.Fatalf("unexpected record: %+v", acc)
	}
}

func TestSetSecurityCode(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE accounts SET security_code = \$1 WHERE id = \$2`).
		WithArgs("654321", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetSecurityCode(context.Background(), 1, "654321"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSetSecurityCode_MissingRow(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE accounts SET security_code`).
		WithArgs("654321", int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetSecurityCode(context.Background(), 9, "654321")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestConsumeSecurityCode_ClearsAndConfirms(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT security_code FROM accounts WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"security_code"}).AddRow("123456"))
	mock.ExpectExec(`UPDATE accounts SET security_code = '', confirmed = confirmed OR \$1 WHERE id = \$2`).
		WithArgs(true, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.ConsumeSecurityCode(context.Background(), 1, "123456", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestConsumeSecurityCode_StaleCodeRollsBack(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT security_code FROM accounts WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"security_code"}).AddRow("999999"))
	mock.ExpectRollback()

	err := repo.ConsumeSecurityCode(context.Background(), 1, "123456", false)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestConsumeSecurityCode_AlreadyConsumed(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT security_code FROM accounts WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"security_code"}).AddRow(""))
	mock.ExpectRollback()

	err := repo.ConsumeSecurityCode(context.Background(), 1, "", false)
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
