package cmd

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/jereslo/worklog-sync/internal/config"
	"github.com/jereslo/worklog-sync/internal/ghstore"
	"github.com/jereslo/worklog-sync/internal/notify"
	"github.com/jereslo/worklog-sync/internal/syncer"
	"github.com/jereslo/worklog-sync/internal/toggl"
)

// newLogger builds the console logger shared by all commands.
func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().Timestamp().Logger()
}

// buildReconciler wires the Toggl source, GitHub store and notifiers into a
// ready-to-run Reconciler.
func buildReconciler(ctx context.Context, cfg config.Config, logger zerolog.Logger, dryRun bool) *syncer.Reconciler {
	source := toggl.NewClient(cfg.TogglAPIToken, logger)
	store := ghstore.New(ctx, cfg.GitHubToken, cfg.RepoOwner(), cfg.RepoName(), cfg.GitHubWorklogPath, cfg.GitHubBranch, logger)

	return syncer.New(source, store, notify.FromConfig(cfg), cfg.Location(), syncer.Options{
		FillEmptyDescriptions: cfg.WorklogEmptyPlaceholder,
		DryRun:                dryRun,
	}, logger)
}
