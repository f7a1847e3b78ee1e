package mailersend

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/by22shh/buh-ai-assistant/internal/infrastructure/mail"
	"github.com/mailersend/mailersend-go"
)

// Sender delivers mail through the MailerSend HTTP API.
type Sender struct {
	client *mailersend.Mailersend
	from   mailersend.From
}

func NewSender(apiKey, fromName, fromEmail string) (*Sender, error) {
	if apiKey == "" || fromEmail == "" {
		return nil, fmt.Errorf("mailersend: missing api key or sender address")
	}
	return &Sender{
		client: mailersend.NewMailersend(apiKey),
		from:   mailersend.From{Name: fromName, Email: fromEmail},
	}, nil
}

func (s *Sender) Send(ctx context.Context, msg mail.Message) error {
	m := s.client.Email.NewMessage()
	m.SetFrom(s.from)
	m.SetRecipients([]mailersend.Recipient{{Email: msg.To}})
	m.SetSubject(msg.Subject)
	if strings.TrimSpace(msg.Text) != "" {
		m.SetText(msg.Text)
	}
	if strings.TrimSpace(msg.HTML) != "" {
		m.SetHTML(msg.HTML)
	}

	res, err := s.client.Email.Send(ctx, m)
	if err != nil {
		return fmt.Errorf("mailersend send: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("mailersend error: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
