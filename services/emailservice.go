package services

import (
	"fmt"
	"net/smtp"
	"os"

	"opsboard/model"
)

func LoadEmailConfig() (*model.EmailConfig, error) {
	config := &model.EmailConfig{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     os.Getenv("SMTP_PORT"),
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}
	if config.Host == "" || config.Port == "" || config.Username == "" || config.Password == "" {
		return nil, fmt.Errorf("missing required SMTP environment variables")
	}
	if config.From == "" {
		config.From = config.Username
	}
	return config, nil
}

// SMTPMailer sends HTML mail through the relay account. One fixed
// from-address for everything.
type SMTPMailer struct {
	config *model.EmailConfig
}

func NewSMTPMailer(config *model.EmailConfig) *SMTPMailer {
	return &SMTPMailer{config: config}
}

func (m *SMTPMailer) Send(to, subject, body string) error {
	addr := m.config.Host + ":" + m.config.Port
	auth := smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)

	mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
	message := "From: " + m.config.From + "\n" +
		"To: " + to + "\n" +
		"Subject: " + subject + "\n" +
		mime + "\n" +
		body

	if err := smtp.SendMail(addr, auth, m.config.From, []string{to}, []byte(message)); err != nil {
		return fmt.Errorf("SMTP send error: %w", err)
	}
	return nil
}
