package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type SendGridConfig struct {
	APIKey    string
	FromName  string
	FromEmail string
}

type sendGridNotifier struct {
	client *sendgrid.Client
	from   *mail.Email
}

// NewSendGridNotifier builds the email-backed Notifier.
func NewSendGridNotifier(cfg SendGridConfig) (Notifier, error) {
	if cfg.APIKey == "" || cfg.FromEmail == "" {
		return nil, fmt.Errorf("invalid SendGrid configuration: api key and sender are required")
	}
	return &sendGridNotifier{
		client: sendgrid.NewSendClient(cfg.APIKey),
		from:   mail.NewEmail(cfg.FromName, cfg.FromEmail),
	}, nil
}

func (n *sendGridNotifier) BracketPublished(ctx context.Context, recipient, tournamentName, categoryName string) error {
	subject := fmt.Sprintf("Draw published: %s (%s)", categoryName, tournamentName)
	plain := fmt.Sprintf("The draw for %s (%s) has been published. Check your first match!", categoryName, tournamentName)
	html := fmt.Sprintf("<p>The draw for <strong>%s</strong> (%s) has been published. Check your first match!</p>", categoryName, tournamentName)

	message := mail.NewSingleEmail(n.from, subject, mail.NewEmail("", recipient), plain, html)
	response, err := n.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: %d - %s", response.StatusCode, response.Body)
	}
	return nil
}
