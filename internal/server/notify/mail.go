package notify

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/accounthelper/internal/common"
	"github.com/wneessen/go-mail"
)

// SMTPSender sends plain text email through an SMTP relay.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	sender   string
}

func NewSMTPSender(host string, port int, username, password, sender string) *SMTPSender {
	return &SMTPSender{host: host, port: port, username: username, password: password, sender: sender}
}

func (s *SMTPSender) SendMail(ctx context.Context, to, subject, body string) error {
	m := mail.NewMsg()
	if err := m.From(s.sender); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.To(to); err != nil {
		return fmt.Errorf("%w: invalid recipient address: %v", common.ErrValidation, err)
	}
	m.Subject(subject)
	m.SetBodyString(mail.TypeTextPlain, body)

	opts := []mail.Option{mail.WithPort(s.port)}
	if s.username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.username),
			mail.WithPassword(s.password),
		)
	}

	client, err := mail.NewClient(s.host, opts...)
	if err != nil {
		return fmt.Errorf("%w: creating smtp client: %v", common.ErrUpstream, err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("%w: sending mail: %v", common.ErrUpstream, err)
	}
	return nil
}
