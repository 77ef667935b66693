package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// WelcomeMessageEmailData holds data for the welcome email.
type WelcomeMessageEmailData struct {
	Email     string
	FirstName string
}

// WeddingInvitationEmailData holds data for the wedding invitation email.
type WeddingInvitationEmailData struct {
	Email        string
	Role         string
	InviterName  string
	WeddingNames string
	// InviteURL is the deep link carrying the invitation token.
	InviteURL     string
	ExpiresInDays int
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendWelcomeMessage(ctx context.Context, data *WelcomeMessageEmailData) error
	SendWeddingInvitation(ctx context.Context, data *WeddingInvitationEmailData) error
}
