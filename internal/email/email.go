package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"github.com/ecom-backend/user-service/internal/logger"
)

// Service sends transactional account emails through Resend.
// With an empty API key the client stays nil and sends are logged instead,
// so local runs work without a mail provider.
type Service struct {
	client    *resend.Client
	fromEmail string
	appURL    string
}

// NewService creates an email service. apiKey may be empty.
func NewService(apiKey, fromEmail, appURL string) *Service {
	var client *resend.Client
	if apiKey != "" {
		client = resend.NewClient(apiKey)
	}

	return &Service{
		client:    client,
		fromEmail: fromEmail,
		appURL:    appURL,
	}
}

// SendWelcome sends the post-signup welcome email.
func (s *Service) SendWelcome(ctx context.Context, toEmail, firstName, lastName string) error {
	subject := fmt.Sprintf("Welcome, %s %s!", firstName, lastName)
	body := fmt.Sprintf(
		"Welcome to our website, %s %s!\n\nYour account has been created successfully.\n\nLogin here: %s/login\n",
		firstName, lastName, s.appURL,
	)

	return s.send(ctx, "welcome", toEmail, subject, body)
}

// SendPasswordReset sends a reset link carrying the one-shot token.
func (s *Service) SendPasswordReset(ctx context.Context, toEmail, token string) error {
	resetURL := fmt.Sprintf("%s/password-reset/%s", s.appURL, token)
	subject := "Reset your password"
	body := fmt.Sprintf(
		"A password reset was requested for your account.\n\nReset it here: %s\n\nIf you did not request this, ignore this email.\n",
		resetURL,
	)

	return s.send(ctx, "password_reset", toEmail, subject, body)
}

func (s *Service) send(ctx context.Context, kind, toEmail, subject, body string) error {
	if s.client == nil {
		logger.Log.Infow("email skipped, client not configured", "type", kind, "to", toEmail, "subject", subject)
		return nil
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{toEmail},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		logger.Log.Errorw("failed to send email", "type", kind, "to", toEmail, "error", err)
		return err
	}

	logger.Log.Infow("email sent", "type", kind, "to", toEmail)
	return nil
}
