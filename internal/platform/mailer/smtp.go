package mailer

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"
)

type SMTPMailer struct {
	Host      string
	Port      int
	From      string
	Recipient string
	User      string
	Pass      string
	UseTLS    bool // false for Mailpit on 1025
}

func NewSMTPMailer(host string, port int, from, recipient, user, pass string, useTLS bool) *SMTPMailer {
	from = strings.TrimSpace(from)
	if from == "" {
		from = strings.TrimSpace(user)
	}
	return &SMTPMailer{
		Host:      strings.TrimSpace(host),
		Port:      port,
		From:      from,
		Recipient: strings.TrimSpace(recipient),
		User:      strings.TrimSpace(user),
		Pass:      strings.TrimSpace(pass),
		UseTLS:    useTLS,
	}
}

// SendContact delivers a contact-form submission to the configured
// recipient, with Reply-To pointing back at the visitor.
func (s *SMTPMailer) SendContact(msg ContactMessage) error {
	if s.Recipient == "" {
		return fmt.Errorf("contact recipient email is not configured")
	}
	return s.send(s.Recipient, msg.Subject, msg.Text(), msg.Email)
}

func (s *SMTPMailer) send(toEmail, subject, text, replyTo string) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", s.From)
	fmt.Fprintf(&buf, "To: %s\r\n", toEmail)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	if replyTo != "" {
		fmt.Fprintf(&buf, "Reply-To: %s\r\n", replyTo)
	}
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&buf, "%s\r\n", text)

	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)

	// Mailpit on 1025: no auth, no TLS
	if !s.UseTLS && s.User == "" {
		return smtp.SendMail(addr, nil, s.From, []string{toEmail}, buf.Bytes())
	}

	var auth smtp.Auth
	if s.User != "" {
		auth = smtp.PlainAuth("", s.User, s.Pass, s.Host)
	}

	// Plain SendMail first; it upgrades via STARTTLS when advertised.
	if err := smtp.SendMail(addr, auth, s.From, []string{toEmail}, buf.Bytes()); err == nil {
		return nil
	}

	// Fallback to implicit TLS (e.g., port 465) if requested
	if s.UseTLS {
		tlsCfg := &tls.Config{ServerName: s.Host}
		conn, err := tls.Dial("tcp", addr, tlsCfg)
		if err != nil {
			return err
		}
		defer conn.Close()

		c, err := smtp.NewClient(conn, s.Host)
		if err != nil {
			return err
		}
		defer c.Quit()

		if s.User != "" {
			if err := c.Auth(auth); err != nil {
				return err
			}
		}
		if err := c.Mail(s.From); err != nil {
			return err
		}
		if err := c.Rcpt(toEmail); err != nil {
			return err
		}
		w, err := c.Data()
		if err != nil {
			return err
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			return err
		}
		return w.Close()
	}

	return fmt.Errorf("smtp send failed")
}
