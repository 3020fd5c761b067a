package notify

import "github.com/jereslo/worklog-sync/internal/config"

// FromConfig assembles the configured notification sinks. With nothing
// configured it returns Nop, so callers can always notify unconditionally.
func FromConfig(cfg config.Config) Notifier {
	var sinks Multi
	if cfg.EmailEnabled() {
		sinks = append(sinks, NewEmail(cfg.SendGridAPIKey, cfg.NotificationEmailFrom, cfg.NotificationEmailTo))
	}
	if cfg.SlackEnabled() {
		sinks = append(sinks, NewSlack(cfg.SlackBotToken, cfg.SlackChannel))
	}
	if len(sinks) == 0 {
		return Nop{}
	}
	return sinks
}
