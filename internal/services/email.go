package services

import (
	"context"
	"fmt"
	"log"

	"eventhub/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and
// template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendActivation sends the account activation email using the "activation"
// template.
func (s *emailService) SendActivation(ctx context.Context, data *domain.ActivationEmailData) error {
	if data == nil {
		return fmt.Errorf("activation email data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("activation", data)
	if err != nil {
		return fmt.Errorf("failed to render activation template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send activation email: %w", err)
	}
	log.Printf("[EMAIL] Activation email sent to %s", data.Email)
	return nil
}

// SendRSVPConfirmation sends the participant confirmation using the
// "rsvp_confirmation" template.
func (s *emailService) SendRSVPConfirmation(ctx context.Context, data *domain.RSVPConfirmationEmailData) error {
	if data == nil {
		return fmt.Errorf("rsvp confirmation data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("rsvp_confirmation", data)
	if err != nil {
		return fmt.Errorf("failed to render rsvp_confirmation template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send rsvp confirmation email: %w", err)
	}
	return nil
}

// SendOrganizerRSVPAlert sends the new-RSVP notice to one organizer using the
// "rsvp_organizer" template.
func (s *emailService) SendOrganizerRSVPAlert(ctx context.Context, data *domain.OrganizerRSVPEmailData) error {
	if data == nil {
		return fmt.Errorf("organizer rsvp alert data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("rsvp_organizer", data)
	if err != nil {
		return fmt.Errorf("failed to render rsvp_organizer template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send organizer rsvp alert: %w", err)
	}
	return nil
}
