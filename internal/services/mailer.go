package services

import (
	"fmt"
	"log"

	"gopkg.in/gomail.v2"

	"github.com/roomly/roomly-backend/internal/config"
)

// Mailer sends token-bearing account-lifecycle emails over SMTP.
type Mailer struct {
	dialer      *gomail.Dialer
	from        string
	frontendURL string
	enabled     bool
}

func NewMailer(cfg *config.Config) *Mailer {
	m := &Mailer{
		from:        cfg.SMTPFrom,
		frontendURL: cfg.FrontendURL,
		enabled:     cfg.SMTPHost != "",
	}

	if !m.enabled {
		log.Println("⚠️  WARNING: SMTP_HOST not set. Account emails will be logged, not sent.")
		return m
	}

	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)
	dialer.SSL = cfg.SMTPUseTLS && cfg.SMTPPort == 465
	m.dialer = dialer
	return m
}

// SendPasswordReset emails a reset link carrying the given token.
func (m *Mailer) SendPasswordReset(to, token string) error {
	link := fmt.Sprintf("%s/reset_password/%s", m.frontendURL, token)
	body := fmt.Sprintf(
		"To reset your password, visit the following link:\n\n%s\n\n"+
			"If you have not requested a password reset, simply ignore this message.\n", link)

	return m.send(to, "[Roomly] Reset Your Password", body)
}

// SendEmailConfirmation emails a confirmation link carrying the given token.
func (m *Mailer) SendEmailConfirmation(to, token string) error {
	link := fmt.Sprintf("%s/email_confirmation/%s", m.frontendURL, token)
	body := fmt.Sprintf(
		"Welcome to Roomly! To confirm your email address, visit the following link:\n\n%s\n", link)

	return m.send(to, "[Roomly] Confirm Your Email", body)
}

func (m *Mailer) send(to, subject, body string) error {
	if !m.enabled {
		// Development fallback: keep the flow testable without an SMTP server.
		log.Printf("📧 (not sent) to=%s subject=%q", to, subject)
		return nil
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	return m.dialer.DialAndSend(msg)
}
