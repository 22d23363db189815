package accounts

import "time"

// Contact is the delivery channel half of a record's identity. Exactly one
// of the two fields is expected to be set; a record keyed by phone and a
// record keyed by email for the same account id are distinct records.
type Contact struct {
	PhoneNumber string
	Email       string
}

// Account is the persisted recovery state for one (accountId, contact) pair.
// SecurityCode is empty when no code is outstanding. Confirmed flips to true
// on the first successful code+signature validation and never reverts.
type Account struct {
	ID           int64
	AccountID    string
	PhoneNumber  string
	Email        string
	SecurityCode string
	Confirmed    bool
	CreatedAt    time.Time
}

func (a *Account) Contact() Contact {
	return Contact{PhoneNumber: a.PhoneNumber, Email: a.Email}
}
