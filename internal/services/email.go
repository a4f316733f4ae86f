package services

import (
	"context"
	"fmt"
	"log"

	"warriorhub/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendWelcomeMessage sends the sign-up welcome email using the "welcome" template.
func (s *emailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeEmailData) error {
	if data == nil {
		return fmt.Errorf("welcome message data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("welcome", data)
	if err != nil {
		return fmt.Errorf("failed to render welcome template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	log.Printf("[EMAIL] Welcome email sent to %s", data.Email)
	return nil
}

// SendEventChanged notifies an organizer that an admin updated or deleted
// their event, using the "event_changed" template.
func (s *emailService) SendEventChanged(ctx context.Context, data *domain.EventChangedEmailData) error {
	if data == nil {
		return fmt.Errorf("event changed data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("event_changed", data)
	if err != nil {
		return fmt.Errorf("failed to render event_changed template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send event changed email: %w", err)
	}
	log.Printf("[EMAIL] Event %s notification sent to %s", data.Action, data.Email)
	return nil
}
