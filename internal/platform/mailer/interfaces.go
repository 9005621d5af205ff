package mailer

import "fmt"

// ContactMessage is a visitor contact-form submission.
type ContactMessage struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// Complete reports whether every field is present.
func (m ContactMessage) Complete() bool {
	return m.Email != "" && m.FirstName != "" && m.LastName != "" && m.Subject != "" && m.Body != ""
}

// Text renders the plain-text body delivered to the site owner.
func (m ContactMessage) Text() string {
	return fmt.Sprintf("%s\n\nFrom: %s %s\nEmail: %s", m.Body, m.FirstName, m.LastName, m.Email)
}

type Service interface {
	SendContact(msg ContactMessage) error
}
