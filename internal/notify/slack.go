package notify

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

// Slack posts failure notifications to a channel.
type Slack struct {
	client  *slack.Client
	channel string
}

// NewSlack creates a Slack-backed notifier.
func NewSlack(botToken, channel string) *Slack {
	return &Slack{client: slack.New(botToken), channel: channel}
}

// Notify implements Notifier.
func (s *Slack) Notify(ctx context.Context, subject, body string) error {
	text := fmt.Sprintf("*%s*\n```%s```", subject, body)
	_, _, err := s.client.PostMessageContext(ctx, s.channel, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("posting notification to %s: %w", s.channel, err)
	}
	return nil
}
