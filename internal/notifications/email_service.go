package notifications

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"tripvia/internal/shared/config"
)

// EmailService sends notification emails.
type EmailService interface {
	Send(ctx context.Context, message *EmailMessage) error
}

// SMTPEmailService sends mail over SMTP with STARTTLS.
type SMTPEmailService struct {
	cfg config.EmailConfig
}

func NewSMTPEmailService(cfg config.EmailConfig) (*SMTPEmailService, error) {
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.FromEmail == "" {
		return nil, fmt.Errorf("from email is required")
	}
	return &SMTPEmailService{cfg: cfg}, nil
}

func (s *SMTPEmailService) Send(ctx context.Context, message *EmailMessage) error {
	body := s.buildMessage(message)
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)

	var err error
	if s.cfg.UseTLS {
		err = s.sendWithSTARTTLS(addr, auth, message.RecipientEmail, body)
	} else {
		err = smtp.SendMail(addr, auth, s.cfg.FromEmail, []string{message.RecipientEmail}, body)
	}
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Printf("Email sent to %s (%s)", message.RecipientEmail, message.Type)
	return nil
}

func (s *SMTPEmailService) buildMessage(message *EmailMessage) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", s.cfg.FromName, s.cfg.FromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", message.RecipientEmail)
	fmt.Fprintf(&b, "Subject: %s\r\n", message.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	if message.RecipientName != "" {
		fmt.Fprintf(&b, "Halo %s,\r\n\r\n", message.RecipientName)
	}
	b.WriteString(message.Body)
	b.WriteString("\r\n")
	return []byte(b.String())
}

func (s *SMTPEmailService) sendWithSTARTTLS(addr string, auth smtp.Auth, to string, message []byte) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	tlsConfig := &tls.Config{ServerName: s.cfg.SMTPHost}
	if err := client.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}

	if err := client.Mail(s.cfg.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err := w.Write(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}

// LogEmailService is a stand-in for environments without SMTP; it logs
// the mail instead of sending it.
type LogEmailService struct{}

func (LogEmailService) Send(ctx context.Context, message *EmailMessage) error {
	log.Printf("[EMAIL] To: %s, Subject: %s", message.RecipientEmail, message.Subject)
	return nil
}
