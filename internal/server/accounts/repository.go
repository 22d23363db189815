// Package accounts persists recovery records, one per (accountId, contact)
// pair.
package accounts

import (
	"context"
)

// Repository is the account record store. Implementations must make
// FindOrCreate atomic for concurrent callers with the same key, and every
// state transition a single all-or-nothing write.
type Repository interface {
	// FindOrCreate returns the record for the key, creating it with no
	// security code and confirmed=false if it does not exist yet.
	FindOrCreate(ctx context.Context, accountID string, contact Contact) (*Account, error)

	// FindOne returns common.ErrNotFound when no record exists for the key.
	FindOne(ctx context.Context, accountID string, contact Contact) (*Account, error)

	// SetSecurityCode stores a freshly issued code on the record.
	SetSecurityCode(ctx context.Context, id int64, code string) error

	// ConsumeSecurityCode clears the stored code, provided it still equals
	// code, and raises the confirmed flag when confirm is set. Returns
	// common.ErrNotFound when the code was already consumed or replaced,
	// so a duplicate submission can never succeed twice.
	ConsumeSecurityCode(ctx context.Context, id int64, code string, confirm bool) error
}
