// Package config loads application settings from environment variables,
// optionally seeded from a .env file for local development.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	// Toggl Track
	TogglAPIToken string `envconfig:"TOGGL_API_TOKEN" required:"true"`

	// GitHub worklog location
	GitHubToken       string `envconfig:"GITHUB_TOKEN" required:"true"`
	GitHubRepo        string `envconfig:"GITHUB_REPO" required:"true"` // "owner/name"
	GitHubWorklogPath string `envconfig:"GITHUB_WORKLOG_PATH" required:"true"`
	GitHubBranch      string `envconfig:"GITHUB_BRANCH"` // empty = default branch

	// Timezone determines which local day an entry belongs to.
	Timezone string `envconfig:"TIMEZONE" default:"America/Los_Angeles"`

	// WorklogEmptyPlaceholder controls what happens to entries without a
	// description: substitute a visible placeholder (true) or drop them
	// from the rendered line (false).
	WorklogEmptyPlaceholder bool `envconfig:"WORKLOG_EMPTY_PLACEHOLDER" default:"true"`

	// Scheduling
	SyncInterval time.Duration `envconfig:"SYNC_INTERVAL" default:"1h"`

	// Failure notifications (all optional)
	SendGridAPIKey        string `envconfig:"SENDGRID_API_KEY"`
	NotificationEmailFrom string `envconfig:"NOTIFICATION_EMAIL_FROM"`
	NotificationEmailTo   string `envconfig:"NOTIFICATION_EMAIL_TO"`
	SlackBotToken         string `envconfig:"SLACK_BOT_TOKEN"`
	SlackChannel          string `envconfig:"SLACK_CHANNEL"`

	// Logging
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first if present. Missing required settings or
// unusable values fail here, before any sync logic runs.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks settings that envconfig tags cannot express.
func (c Config) Validate() error {
	owner, name, ok := strings.Cut(c.GitHubRepo, "/")
	if !ok || owner == "" || name == "" {
		return fmt.Errorf("GITHUB_REPO must be \"owner/name\", got %q", c.GitHubRepo)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE %q is not a valid IANA zone: %w", c.Timezone, err)
	}
	if c.SyncInterval <= 0 {
		return fmt.Errorf("SYNC_INTERVAL must be positive, got %s", c.SyncInterval)
	}
	return nil
}

// Location resolves the configured timezone. Validate guarantees this
// cannot fail after Load.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// RepoOwner returns the owner half of GITHUB_REPO.
func (c Config) RepoOwner() string {
	owner, _, _ := strings.Cut(c.GitHubRepo, "/")
	return owner
}

// RepoName returns the repository half of GITHUB_REPO.
func (c Config) RepoName() string {
	_, name, _ := strings.Cut(c.GitHubRepo, "/")
	return name
}

// EmailEnabled reports whether SendGrid failure e-mails are configured.
func (c Config) EmailEnabled() bool {
	return c.SendGridAPIKey != "" && c.NotificationEmailFrom != "" && c.NotificationEmailTo != ""
}

// SlackEnabled reports whether Slack failure notifications are configured.
func (c Config) SlackEnabled() bool {
	return c.SlackBotToken != "" && c.SlackChannel != ""
}
