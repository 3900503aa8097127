package notification

import "context"

// EmailMessage is one outbound email.
type EmailMessage struct {
	To      string
	Subject string
	HTML    string
}

// Notifier is the outbound notification sink. Sends are best-effort:
// callers fire them asynchronously and a failed send never rolls back the
// state transition that triggered it.
type Notifier interface {
	SendEmail(ctx context.Context, msg EmailMessage) error
	SendPush(ctx context.Context, deviceToken, title, body string) error
}
