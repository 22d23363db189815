// Package notify delivers security codes and recovery links over SMS or
// email. Delivery is synchronous: a transport failure surfaces to the
// caller so the user knows to retry, nothing is queued.
package notify

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/accounthelper/internal/common"
	"github.com/dmitrijs2005/accounthelper/internal/server/accounts"
)

// Dispatcher is the interface the recovery engine talks to.
type Dispatcher interface {
	SendCode(ctx context.Context, contact accounts.Contact, code string) error
	SendRecoveryLink(ctx context.Context, contact accounts.Contact, accountID, seedPhrase, link string) error
}

// SMSSender delivers a plain text message to a phone number.
type SMSSender interface {
	SendSMS(ctx context.Context, to, text string) error
}

// MailSender delivers a plain text email.
type MailSender interface {
	SendMail(ctx context.Context, to, subject, body string) error
}

// Notifier routes messages to the right transport based on the contact
// channel. Phone wins when both are present.
type Notifier struct {
	sms  SMSSender
	mail MailSender
}

func NewNotifier(sms SMSSender, mail MailSender) *Notifier {
	return &Notifier{sms: sms, mail: mail}
}

func (n *Notifier) SendCode(ctx context.Context, contact accounts.Contact, code string) error {
	text := fmt.Sprintf("Your wallet security code is: %s", code)
	switch {
	case contact.PhoneNumber != "":
		return n.sms.SendSMS(ctx, contact.PhoneNumber, text)
	case contact.Email != "":
		return n.mail.SendMail(ctx, contact.Email, "Your wallet security code", text)
	default:
		return fmt.Errorf("%w: no contact information", common.ErrValidation)
	}
}

func (n *Notifier) SendRecoveryLink(ctx context.Context, contact accounts.Contact, accountID, seedPhrase, link string) error {
	switch {
	case contact.PhoneNumber != "":
		text := fmt.Sprintf("Your wallet (%s) backup link is: %s\nSave this message in secure place to allow you to recover account.", accountID, link)
		return n.sms.SendSMS(ctx, contact.PhoneNumber, text)
	case contact.Email != "":
		subject := fmt.Sprintf("Important: Wallet Recovery Email for %s", accountID)
		body := fmt.Sprintf(
			"Hello %s!\n\nUse this link to recover account:\n%s\n\nAlternatively use this backup phrase:\n%s\n\nSave this message in secure place to allow you to recover account.",
			accountID, link, seedPhrase)
		return n.mail.SendMail(ctx, contact.Email, subject, body)
	default:
		return fmt.Errorf("%w: account %s has no contact information", common.ErrValidation, accountID)
	}
}
