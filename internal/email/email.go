// Package email sends transactional mail through an SMTP relay. A single
// provider is wired on purpose; the Sender interface keeps callers testable.
package email

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Sender sends a single email.
type Sender interface {
	Send(recipient, subject, body string) error
}

// SMTPConfig holds the relay settings.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// smtpSender implements Sender over net/smtp with PLAIN auth.
type smtpSender struct {
	cfg SMTPConfig
}

// NewSMTPSender creates a Sender backed by the configured SMTP relay.
func NewSMTPSender(cfg SMTPConfig) (Sender, error) {
	if cfg.Host == "" || cfg.Port == "" {
		return nil, fmt.Errorf("email: SMTP host and port are required")
	}
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("email: SMTP username and password are required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("email: sender address is required")
	}
	return &smtpSender{cfg: cfg}, nil
}

// Send delivers one message. The Content-Type is inferred from the body:
// anything containing HTML tags is sent as text/html.
func (s *smtpSender) Send(recipient, subject, body string) error {
	if recipient == "" {
		return fmt.Errorf("email: recipient cannot be empty")
	}
	if subject == "" {
		return fmt.Errorf("email: subject cannot be empty")
	}

	contentType := "text/plain; charset=UTF-8"
	lower := strings.ToLower(body)
	if strings.Contains(lower, "<html>") || strings.Contains(lower, "<p>") {
		contentType = "text/html; charset=UTF-8"
	}

	message := []byte(fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: %s\r\n"+
		"\r\n"+
		"%s\r\n", recipient, s.cfg.From, subject, contentType, body))

	addr := s.cfg.Host + ":" + s.cfg.Port
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{recipient}, message); err != nil {
		return fmt.Errorf("email: failed to send to %s: %w", recipient, err)
	}
	return nil
}
