package services

import (
	"context"
	"fmt"
	"log"

	"weplan/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendWelcomeMessage sends a welcome email using the "welcome" template and the given data.
func (s *emailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeMessageEmailData) error {
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

// SendWeddingInvitation sends the invitation email with the deep link using the
// "wedding_invitation" template.
func (s *emailService) SendWeddingInvitation(ctx context.Context, data *domain.WeddingInvitationEmailData) error {
	if data == nil {
		return fmt.Errorf("wedding invitation data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("wedding_invitation", data)
	if err != nil {
		return fmt.Errorf("failed to render wedding_invitation template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send wedding invitation email: %w", err)
	}
	log.Printf("[EMAIL] Wedding invitation sent to %s", data.Email)
	return nil
}
