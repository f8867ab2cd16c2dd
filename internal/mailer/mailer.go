package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog/log"

	"moodshare/internal/config"
)

// Mailer delivers the password-reset email. The rest of the system treats
// delivery as an external collaborator: a send failure never fails the
// request that triggered it.
type Mailer interface {
	SendPasswordReset(to, username, resetURL string) error
}

// New returns an SMTP mailer when SMTP is configured, otherwise a mailer that
// only logs the reset link (useful in development).
func New(cfg *config.Config) Mailer {
	if cfg.SMTPHost == "" {
		log.Info().Msg("SMTP not configured, password-reset emails will be logged only")
		return &logMailer{}
	}
	return &smtpMailer{
		addr: cfg.SMTPHost + ":" + cfg.SMTPPort,
		auth: smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPHost),
		from: cfg.MailFrom,
	}
}

type smtpMailer struct {
	addr string
	auth smtp.Auth
	from string
}

func (m *smtpMailer) SendPasswordReset(to, username, resetURL string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: [moodshare] Reset Your Password\r\n")
	fmt.Fprintf(&b, "\r\n")
	fmt.Fprintf(&b, "Dear %s,\r\n\r\n", username)
	fmt.Fprintf(&b, "To reset your password visit the following link:\r\n\r\n%s\r\n\r\n", resetURL)
	fmt.Fprintf(&b, "If you have not requested a password reset simply ignore this message.\r\n")

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, []byte(b.String())); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}

type logMailer struct{}

func (m *logMailer) SendPasswordReset(to, username, resetURL string) error {
	log.Info().Str("to", to).Str("url", resetURL).Msg("password reset requested")
	return nil
}
