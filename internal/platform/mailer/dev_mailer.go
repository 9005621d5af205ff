package mailer

import "github.com/stroman-properties/owner-dashboard/pkg/logger"

// DevMailer logs contact messages instead of delivering them.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) SendContact(msg ContactMessage) error {
	logger.Info("Contact email (dev mode)",
		"from", msg.Email,
		"name", msg.FirstName+" "+msg.LastName,
		"subject", msg.Subject,
		"body", msg.Body,
	)
	return nil
}
