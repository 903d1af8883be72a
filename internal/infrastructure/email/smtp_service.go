package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/mail"
	"net/smtp"
	"strings"
	"text/template"

	"github.com/rs/zerolog/log"

	"staybook-backend/internal/config"
)

// ErrInvalidRecipient marks a permanent validation failure: the address is
// malformed and resending will never help, so the worker must not retry.
var ErrInvalidRecipient = errors.New("invalid recipient address")

type VerificationEmailData struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	VerifyLink string `json:"verify_link"`
	ExpiresIn  string `json:"expires_in"`
}

type EmailChangeData struct {
	Name       string `json:"name"`
	Email      string `json:"email"` // pending address being confirmed
	VerifyLink string `json:"verify_link"`
	ExpiresIn  string `json:"expires_in"`
}

type ResetPasswordData struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	VerifyLink string `json:"verify_link"`
	ExpiresIn  string `json:"expires_in"`
}

type DeactivationData struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	VerifyLink string `json:"verify_link"`
	ExpiresIn  string `json:"expires_in"`
}

type BookingConfirmationData struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	PropertyName string `json:"property_name"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	TotalPrice   string `json:"total_price"`
}

type EmailService interface {
	SendVerificationEmail(ctx context.Context, data VerificationEmailData) error
	SendEmailChangeEmail(ctx context.Context, data EmailChangeData) error
	SendResetPasswordEmail(ctx context.Context, data ResetPasswordData) error
	SendDeactivationEmail(ctx context.Context, data DeactivationData) error
	SendBookingConfirmation(ctx context.Context, data BookingConfirmationData) error
}

const verificationTemplate = `Hello {{.Name}},

Please click the link below to verify your account:
{{.VerifyLink}}

The link is valid for {{.ExpiresIn}}.

If you did not register this account, please ignore this email.`

const emailChangeTemplate = `Hello {{.Name}},

Please confirm your new email address by clicking the link below:
{{.VerifyLink}}

The link is valid for {{.ExpiresIn}}.

If you did not request this change, please ignore this email.`

const resetPasswordTemplate = `Hello {{.Name}},

Please use the link below to reset your password:
{{.VerifyLink}}

The link is valid for {{.ExpiresIn}}.

If you did not request a password reset, please ignore this email.`

const deactivationTemplate = `Hello {{.Name}},

Please confirm the deactivation of your account by clicking the link below:
{{.VerifyLink}}

The link is valid for {{.ExpiresIn}}.

If you did not request this, please change your password immediately.`

const bookingConfirmationTemplate = `Hello {{.Name}},

Your booking has been confirmed.

Property:    {{.PropertyName}}
Check-in:    {{.StartDate}}
Check-out:   {{.EndDate}}
Total price: {{.TotalPrice}}

Thank you for booking with us.`

var templates = template.Must(template.New("verification").Parse(verificationTemplate))

func init() {
	template.Must(templates.New("email_change").Parse(emailChangeTemplate))
	template.Must(templates.New("reset_password").Parse(resetPasswordTemplate))
	template.Must(templates.New("deactivation").Parse(deactivationTemplate))
	template.Must(templates.New("booking_confirmation").Parse(bookingConfirmationTemplate))
}

type smtpEmailService struct {
	cfg config.SMTPConfig
}

func NewSMTPEmailService(cfg config.SMTPConfig) EmailService {
	return &smtpEmailService{cfg: cfg}
}

func (s *smtpEmailService) render(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return buf.String(), nil
}

// send delivers one message over SMTP with STARTTLS. Transport-level failures
// (connect/auth/TLS/protocol) bubble up so the queue can retry; a malformed
// recipient comes back as ErrInvalidRecipient and is never retried.
func (s *smtpEmailService) send(recipient, subject, body string) error {
	if _, err := mail.ParseAddress(recipient); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidRecipient, recipient)
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("smtp dial %s: %w", addr, err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		tlsConfig := &tls.Config{ServerName: s.cfg.Host}
		if err := client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}

	if s.cfg.Username != "" {
		auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(s.cfg.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(recipient); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}

	msg := strings.Join([]string{
		"From: " + s.cfg.From,
		"To: " + recipient,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	if _, err := w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}

	if err := client.Quit(); err != nil {
		log.Warn().Err(err).Msg("SMTP quit failed after successful send")
	}

	return nil
}

func (s *smtpEmailService) SendVerificationEmail(ctx context.Context, data VerificationEmailData) error {
	body, err := s.render("verification", data)
	if err != nil {
		return err
	}
	return s.send(data.Email, "Verify your Staybook account", body)
}

func (s *smtpEmailService) SendEmailChangeEmail(ctx context.Context, data EmailChangeData) error {
	body, err := s.render("email_change", data)
	if err != nil {
		return err
	}
	return s.send(data.Email, "Confirm your new email address", body)
}

func (s *smtpEmailService) SendResetPasswordEmail(ctx context.Context, data ResetPasswordData) error {
	body, err := s.render("reset_password", data)
	if err != nil {
		return err
	}
	return s.send(data.Email, "Reset your Staybook password", body)
}

func (s *smtpEmailService) SendDeactivationEmail(ctx context.Context, data DeactivationData) error {
	body, err := s.render("deactivation", data)
	if err != nil {
		return err
	}
	return s.send(data.Email, "Confirm account deactivation", body)
}

func (s *smtpEmailService) SendBookingConfirmation(ctx context.Context, data BookingConfirmationData) error {
	body, err := s.render("booking_confirmation", data)
	if err != nil {
		return err
	}
	return s.send(data.Email, "Booking Confirmation", body)
}
