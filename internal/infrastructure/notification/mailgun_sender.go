package notification

import (
	"context"
	"fmt"
	"time"

	"firebase.google.com/go/v4/messaging"
	"github.com/mailgun/mailgun-go/v3"

	"greenloop/pkg/logger"
)

type mailgunNotifier struct {
	mg        mailgun.Mailgun
	from      string
	messaging *messaging.Client
}

// NewMailgunNotifier sends email through Mailgun and push notifications
// through Firebase Cloud Messaging. messagingClient may be nil when FCM is
// not configured; pushes are then skipped.
func NewMailgunNotifier(domain, apiKey, from string, messagingClient *messaging.Client) Notifier {
	return &mailgunNotifier{
		mg:        mailgun.NewMailgun(domain, apiKey),
		from:      from,
		messaging: messagingClient,
	}
}

func (n *mailgunNotifier) SendEmail(ctx context.Context, msg EmailMessage) error {
	message := n.mg.NewMessage(
		fmt.Sprintf("greenloop <%s>", n.from),
		msg.Subject,
		"Sent from greenloop",
		msg.To,
	)
	message.SetHtml(msg.HTML)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, _, err := n.mg.Send(ctx, message)
	if err != nil {
		return err
	}

	return nil
}

func (n *mailgunNotifier) SendPush(ctx context.Context, deviceToken, title, body string) error {
	if deviceToken == "" || n.messaging == nil {
		return nil
	}

	msg := &messaging.Message{
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Token: deviceToken,
	}

	response, err := n.messaging.Send(ctx, msg)
	if err != nil {
		return err
	}

	logger.Debug("Push notification sent: %v", response)
	return nil
}
