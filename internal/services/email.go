package services

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/xamad/smartfridge/internal/config"
	"github.com/xamad/smartfridge/internal/models"
)

// EmailService sends household alerts via SMTP
type EmailService struct {
	cfg *config.Config
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{cfg: cfg}
}

// IsConfigured returns true if SMTP is properly configured
func (s *EmailService) IsConfigured() bool {
	return s.cfg.SMTPEnabled && s.cfg.SMTPHost != "" && s.cfg.SMTPToAddr != ""
}

// SendExpiryAlert mails the list of products expiring within the alert window
func (s *EmailService) SendExpiryAlert(products []*models.Product) error {
	if !s.IsConfigured() {
		return fmt.Errorf("SMTP is not configured")
	}

	subject := fmt.Sprintf("Smart Fridge - %d product(s) expiring soon", len(products))

	var body strings.Builder
	body.WriteString("The following products are about to expire:\r\n\r\n")
	for _, p := range products {
		name := p.Barcode
		if p.Name != nil && *p.Name != "" {
			name = *p.Name
		}
		if p.ExpiryDate != nil {
			body.WriteString(fmt.Sprintf("- %s (expires %s)\r\n", name, p.ExpiryDate.Format("2006-01-02")))
		} else {
			body.WriteString(fmt.Sprintf("- %s\r\n", name))
		}
	}
	body.WriteString("\r\nCheck the fridge dashboard for details.\r\n")

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: Smart Fridge <%s>\r\n", s.cfg.SMTPFromAddr))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", s.cfg.SMTPToAddr))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body.String())

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	var auth smtp.Auth
	if s.cfg.SMTPUser != "" && s.cfg.SMTPPassword != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}

	// Port 465 uses implicit TLS, everything else STARTTLS
	if s.cfg.SMTPPort == 465 {
		return s.sendMailWithTLS(addr, auth, msg.String())
	}
	return s.sendMailWithSTARTTLS(addr, auth, msg.String())
}

func (s *EmailService) sendMailWithTLS(addr string, auth smtp.Auth, msg string) error {
	tlsConfig := &tls.Config{
		ServerName: s.cfg.SMTPHost,
	}

	conn, err := tls.Dial("tcp", addr, tlsConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.cfg.SMTPHost)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	return s.transmit(client, auth, msg)
}

func (s *EmailService) sendMailWithSTARTTLS(addr string, auth smtp.Auth, msg string) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		tlsConfig := &tls.Config{
			ServerName: s.cfg.SMTPHost,
		}
		if err = client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("STARTTLS failed: %w", err)
		}
	}

	return s.transmit(client, auth, msg)
}

func (s *EmailService) transmit(client *smtp.Client, auth smtp.Auth, msg string) error {
	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err := client.Mail(s.cfg.SMTPFromAddr); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	if err := client.Rcpt(s.cfg.SMTPToAddr); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}

	if _, err = w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("failed to write email body: %w", err)
	}

	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}
