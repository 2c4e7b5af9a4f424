package mail

import (
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"

	"reviewhub/internal/config"
)

// Mailer delivers confirmation codes. Delivery is synchronous on the request
// path; callers decide whether a failure is fatal.
type Mailer interface {
	SendConfirmationCode(to, code string) error
}

// NewMailer returns the SMTP mailer, or a log-only mailer when no SMTP host
// is configured (local development).
func NewMailer(cfg *config.Config, logger *slog.Logger) Mailer {
	if cfg.SMTPHost == "" {
		logger.Warn("SMTP_HOST not set, confirmation codes will be logged instead of emailed")
		return &logMailer{logger: logger}
	}
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.EmailFrom,
	}
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

func (m *smtpMailer) SendConfirmationCode(to, code string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Confirmation code")
	msg.SetBody("text/plain", fmt.Sprintf("Your confirmation code: %s", code))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send confirmation code: %w", err)
	}
	return nil
}

type logMailer struct {
	logger *slog.Logger
}

func (m *logMailer) SendConfirmationCode(to, code string) error {
	m.logger.Info("confirmation code issued", "to", to, "code", code)
	return nil
}
