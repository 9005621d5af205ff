package mailer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"
)

// MailerSendMailer delivers contact mail through the MailerSend API
// instead of raw SMTP.
type MailerSendMailer struct {
	client    *mailersend.Mailersend
	from      mailersend.From
	recipient string
	Enabled   bool
}

func NewMailerSendMailer(apiKey, fromName, fromEmail, recipient string) *MailerSendMailer {
	m := &MailerSendMailer{
		Enabled:   apiKey != "" && fromEmail != "",
		recipient: strings.TrimSpace(recipient),
		from: mailersend.From{
			Name:  fromName,
			Email: fromEmail,
		},
	}
	if m.Enabled {
		m.client = mailersend.NewMailersend(apiKey)
	}
	return m
}

func (m *MailerSendMailer) SendContact(msg ContactMessage) error {
	if !m.Enabled {
		return errors.New("mailer disabled (missing MAILERSEND_API_KEY or SMTP_FROM_EMAIL)")
	}
	if m.recipient == "" {
		return errors.New("contact recipient email is not configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	message := m.client.Email.NewMessage()
	message.SetFrom(m.from)
	message.SetRecipients([]mailersend.Recipient{{Email: m.recipient}})
	message.SetReplyTo(mailersend.ReplyTo{
		Name:  msg.FirstName + " " + msg.LastName,
		Email: msg.Email,
	})
	message.SetSubject(msg.Subject)
	message.SetText(msg.Text())

	res, err := m.client.Email.Send(ctx, message)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("mailersend error: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
