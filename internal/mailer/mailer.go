package mailer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	mail "gopkg.in/mail.v2"
	"seungpyo.lee/PersonalBlog/internal/domain"
)

// Mailer delivers outbound messages. Sending blocks the caller.
type Mailer interface {
	Send(ctx context.Context, msg domain.Message) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
}

type dialer interface {
	DialAndSend(m ...*mail.Message) error
}

// SMTPMailer sends through an authenticated SMTP relay.
type SMTPMailer struct {
	dialer dialer
	sender string
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		sender: cfg.Sender,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, msg domain.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	mm := mail.NewMessage()
	mm.SetHeader("From", m.sender)
	mm.SetHeader("To", msg.To)
	mm.SetHeader("Subject", msg.Subject)
	mm.SetBody("text/plain", msg.Body)
	if err := m.dialer.DialAndSend(mm); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

// LogMailer records messages instead of sending them. Used in development
// when no SMTP server is configured. Bodies carry reset links, so they only
// appear at debug level.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, msg domain.Message) error {
	m.log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Msg("mail not sent: smtp disabled")
	m.log.Debug().
		Str("to", msg.To).
		Str("body", msg.Body).
		Msg("unsent mail body")
	return nil
}
