package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data interface{}) (subject, htmlBody, textBody string, err error)
}

// WelcomeEmailData is the data for the sign-up welcome email.
type WelcomeEmailData struct {
	Email string
}

// EventChangedEmailData notifies an organizer that an admin edited or deleted
// one of their events.
type EventChangedEmailData struct {
	Email     string
	EventName string
	Action    string // "updated" or "deleted"
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendWelcomeMessage(ctx context.Context, data *WelcomeEmailData) error
	SendEventChanged(ctx context.Context, data *EventChangedEmailData) error
}

// ImageValidator checks that a URL resolves to an image resource.
type ImageValidator interface {
	IsImage(ctx context.Context, url string) bool
}
