package smtp

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"github.com/by22shh/buh-ai-assistant/internal/config"
	"github.com/by22shh/buh-ai-assistant/internal/infrastructure/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailer_Send(t *testing.T) {
	m := NewMailer(config.Mail{SMTPHost: "mail.local", SMTPPort: "25", From: "noreply@x.com", FromName: "Buh"}).(*mailer)

	var gotAddr string
	var gotTo []string
	var gotMsg string
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotMsg = addr, to, string(msg)
		assert.Nil(t, a)
		return nil
	}

	err := m.Send(context.Background(), mail.Message{To: "a@x.com", Subject: "Код", Text: "123456"})
	require.NoError(t, err)
	assert.Equal(t, "mail.local:25", gotAddr)
	assert.Equal(t, []string{"a@x.com"}, gotTo)
	assert.True(t, strings.HasSuffix(gotMsg, "\r\n\r\n123456"))
	assert.Contains(t, gotMsg, "Subject: =?utf-8?q?")
	assert.Contains(t, gotMsg, "<noreply@x.com>")
}

func TestMailer_SendError(t *testing.T) {
	m := NewMailer(config.Mail{SMTPHost: "h", SMTPPort: "1", From: "f@x.com", SMTPUsername: "u"}).(*mailer)
	m.send = func(string, smtp.Auth, string, []string, []byte) error { return errors.New("refused") }

	err := m.Send(context.Background(), mail.Message{To: "a@x.com"})
	assert.ErrorContains(t, err, "smtp send")
}
