package notify

import (
	"context"

	"github.com/dmitrijs2005/accounthelper/internal/logging"
)

// LogSender logs messages instead of transmitting them. It stands in for
// both transports outside production.
type LogSender struct {
	logger logging.Logger
}

func NewLogSender(logger logging.Logger) *LogSender {
	return &LogSender{logger: logger.With("module", "notify")}
}

func (s *LogSender) SendSMS(ctx context.Context, to, text string) error {
	s.logger.Info(ctx, "sendSms", "to", to, "text", text)
	return nil
}

func (s *LogSender) SendMail(ctx context.Context, to, subject, body string) error {
	s.logger.Info(ctx, "sendMail", "to", to, "subject", subject, "body", body)
	return nil
}
