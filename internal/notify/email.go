package notify

import (
	"context"
	"fmt"
	"html"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Email sends failure notifications through SendGrid.
type Email struct {
	apiKey string
	from   string
	to     string
}

// NewEmail creates a SendGrid-backed notifier.
func NewEmail(apiKey, from, to string) *Email {
	return &Email{apiKey: apiKey, from: from, to: to}
}

// Notify implements Notifier.
func (e *Email) Notify(ctx context.Context, subject, body string) error {
	htmlBody := fmt.Sprintf(
		"<p>An error occurred while syncing Toggl time entries to the worklog:</p><pre>%s</pre><p>Please check the logs for more details.</p>",
		html.EscapeString(body),
	)
	msg := mail.NewSingleEmail(
		mail.NewEmail("worklog-sync", e.from),
		subject,
		mail.NewEmail("", e.to),
		body,
		htmlBody,
	)

	client := sendgrid.NewSendClient(e.apiKey)
	resp, err := client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sending notification email: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid rejected notification: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
