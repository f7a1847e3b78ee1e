package smtp

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"

	"github.com/by22shh/buh-ai-assistant/internal/config"
	"github.com/by22shh/buh-ai-assistant/internal/infrastructure/mail"
)

type mailer struct {
	host     string
	port     string
	from     string
	fromName string
	username string
	password string
	send     func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewMailer returns a mail.Sender that relays through an SMTP server.
func NewMailer(cfg config.Mail) mail.Sender {
	return &mailer{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		from:     cfg.From,
		fromName: cfg.FromName,
		username: cfg.SMTPUsername,
		password: cfg.SMTPPassword,
		send:     smtp.SendMail,
	}
}

// Send ignores ctx deadlines: net/smtp has no context support, the
// dispatcher bounds the worker instead.
func (m *mailer) Send(_ context.Context, msg mail.Message) error {
	addr := fmt.Sprintf("%s:%s", m.host, m.port)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}
	if err := m.send(addr, auth, m.from, []string{msg.To}, m.build(msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (m *mailer) build(msg mail.Message) []byte {
	from := m.from
	if m.fromName != "" {
		from = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", m.fromName), m.from)
	}
	return []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=\"utf-8\"\r\n\r\n%s",
		from, msg.To, mime.QEncoding.Encode("utf-8", msg.Subject), msg.Text,
	))
}
