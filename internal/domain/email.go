package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the
// given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// ActivationEmailData holds data for the account activation email.
type ActivationEmailData struct {
	Email         string
	FirstName     string
	Username      string
	ActivationURL string
	ExpiresInDays int
}

// RSVPConfirmationEmailData holds data for the RSVP confirmation email sent
// to the participant.
type RSVPConfirmationEmailData struct {
	Email     string
	FirstName string
	EventName string
	EventDate string
	EventTime string
	Location  string
}

// OrganizerRSVPEmailData holds data for the new-RSVP notification sent to
// each organizer.
type OrganizerRSVPEmailData struct {
	Email           string
	ParticipantName string
	EventName       string
	EventDate       string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendActivation(ctx context.Context, data *ActivationEmailData) error
	SendRSVPConfirmation(ctx context.Context, data *RSVPConfirmationEmailData) error
	SendOrganizerRSVPAlert(ctx context.Context, data *OrganizerRSVPEmailData) error
}
