// Package recovery implements the account-recovery protocol: issuing
// one-time security codes, validating them together with an account-holder
// signature, and granting new access keys once a record is confirmed.
package recovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"slices"
	"strings"

	"github.com/dmitrijs2005/accounthelper/internal/common"
	"github.com/dmitrijs2005/accounthelper/internal/logging"
	"github.com/dmitrijs2005/accounthelper/internal/near"
	"github.com/dmitrijs2005/accounthelper/internal/seedphrase"
	"github.com/dmitrijs2005/accounthelper/internal/server/accounts"
	"github.com/dmitrijs2005/accounthelper/internal/server/notify"
)

const securityCodeDigits = 6

// Gateway is the remote blockchain network as the engine sees it. Calls may
// fail or time out; the engine propagates failures without retrying.
type Gateway interface {
	AuthorizedKeys(ctx context.Context, accountID string) ([]string, error)
	AddAccessKey(ctx context.Context, accountID, publicKey string) error
	CreateAccount(ctx context.Context, newAccountID, publicKey string, amount *big.Int) (json.RawMessage, error)
}

// Service is the recovery protocol engine. All state lives in the record
// store; the service serializes operations on the same (accountId, contact)
// record through a keyed mutex so a code can never be consumed twice or
// overwritten mid-validation.
type Service struct {
	repo       accounts.Repository
	gateway    Gateway
	dispatcher notify.Dispatcher

	// helperKey is the canonical encoding of the recovery trust key.
	helperKey        string
	newAccountAmount *big.Int
	walletURL        string

	locks  *keyedMutex
	logger logging.Logger
}

func NewService(repo accounts.Repository, gateway Gateway, dispatcher notify.Dispatcher, helperKey near.PublicKey, newAccountAmount *big.Int, walletURL string, logger logging.Logger) *Service {
	return &Service{
		repo:             repo,
		gateway:          gateway,
		dispatcher:       dispatcher,
		helperKey:        helperKey.String(),
		newAccountAmount: newAccountAmount,
		walletURL:        strings.TrimSuffix(walletURL, "/"),
		locks:            newKeyedMutex(),
		logger:           logger.With("module", "recovery"),
	}
}

func lockKey(accountID string, contact accounts.Contact) string {
	return accountID + "\x00" + contact.PhoneNumber + "\x00" + contact.Email
}

// RequestCode issues a fresh security code for the (accountID, contact)
// record, creating the record on first use, and dispatches it over the
// contact channel. Every call produces a new code.
func (s *Service) RequestCode(ctx context.Context, accountID string, contact accounts.Contact) error {
	if accountID == "" || (contact.PhoneNumber == "" && contact.Email == "") {
		return fmt.Errorf("%w: account id and contact are required", common.ErrValidation)
	}

	unlock := s.locks.Lock(lockKey(accountID, contact))
	defer unlock()

	acc, err := s.repo.FindOrCreate(ctx, accountID, contact)
	if err != nil {
		return err
	}

	code := common.RandomDigits(securityCodeDigits)
	if err := s.repo.SetSecurityCode(ctx, acc.ID, code); err != nil {
		return err
	}

	if err := s.dispatcher.SendCode(ctx, contact, code); err != nil {
		return err
	}

	s.logger.Info(ctx, "security code issued", "account", accountID)
	return nil
}

// ValidateCode consumes a previously issued code. For an unconfirmed record
// the caller must additionally prove existing account access with a
// detached signature over the code digest; success confirms the record.
// For a confirmed record the code alone suffices and publicKey is granted
// full access on the account.
//
// Missing record, missing code and wrong code all collapse into
// ErrUnauthorized so callers cannot probe which accounts have records.
func (s *Service) ValidateCode(ctx context.Context, accountID string, contact accounts.Contact, securityCode, signature, publicKey string) error {
	unlock := s.locks.Lock(lockKey(accountID, contact))
	defer unlock()

	acc, err := s.repo.FindOne(ctx, accountID, contact)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrUnauthorized
		}
		return err
	}

	if acc.SecurityCode == "" || acc.SecurityCode != securityCode {
		return common.ErrUnauthorized
	}

	if !acc.Confirmed {
		keys, err := s.gateway.AuthorizedKeys(ctx, accountID)
		if err != nil {
			return err
		}
		ok, err := verifyCodeSignature(keys, s.helperKey, securityCode, signature)
		if err != nil {
			return fmt.Errorf("account %s: %w", accountID, err)
		}
		if !ok {
			return common.ErrUnauthorized
		}

		if err := s.repo.ConsumeSecurityCode(ctx, acc.ID, securityCode, true); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return common.ErrUnauthorized
			}
			return err
		}

		s.logger.Info(ctx, "record confirmed", "account", accountID)
		return nil
	}

	if publicKey == "" {
		return fmt.Errorf("%w: public key is required", common.ErrValidation)
	}

	if err := s.gateway.AddAccessKey(ctx, accountID, publicKey); err != nil {
		return err
	}

	if err := s.repo.ConsumeSecurityCode(ctx, acc.ID, securityCode, false); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrUnauthorized
		}
		return err
	}

	s.logger.Info(ctx, "access key granted", "account", accountID)
	return nil
}

// SendRecoveryMessage delivers a recovery deep link for seedPhrase to the
// given contact, after checking the phrase actually corresponds to one of
// the account's authorized keys. Handing the phrase back without that check
// would let anyone exfiltrate arbitrary phrases through the helper.
func (s *Service) SendRecoveryMessage(ctx context.Context, accountID string, contact accounts.Contact, seedPhrase string) error {
	if contact.PhoneNumber == "" && contact.Email == "" {
		return fmt.Errorf("%w: account %s has no contact information", common.ErrValidation, accountID)
	}

	pub, err := seedphrase.PublicKey(seedPhrase)
	if err != nil {
		return err
	}

	keys, err := s.gateway.AuthorizedKeys(ctx, accountID)
	if err != nil {
		return err
	}
	if !slices.Contains(keys, pub.String()) {
		return fmt.Errorf("%w: seed phrase doesn't match any access keys", common.ErrForbidden)
	}

	// phone takes precedence when both channels are supplied
	if contact.PhoneNumber != "" {
		contact.Email = ""
	}

	acc, err := s.repo.FindOrCreate(ctx, accountID, contact)
	if err != nil {
		return err
	}

	link := s.walletURL + "/recover-seed-phrase/" + url.PathEscape(accountID) + "/" + url.PathEscape(seedPhrase)
	if err := s.dispatcher.SendRecoveryLink(ctx, acc.Contact(), accountID, seedPhrase, link); err != nil {
		return err
	}

	s.logger.Info(ctx, "recovery message sent", "account", accountID)
	return nil
}

// CreateAccount passes an account-creation request through to the gateway,
// funding the new account with the configured amount. The gateway's
// transaction outcome is returned to the caller untouched.
func (s *Service) CreateAccount(ctx context.Context, newAccountID, publicKey string) (json.RawMessage, error) {
	if newAccountID == "" || publicKey == "" {
		return nil, fmt.Errorf("%w: new account id and public key are required", common.ErrValidation)
	}
	return s.gateway.CreateAccount(ctx, newAccountID, publicKey, s.newAccountAmount)
}
