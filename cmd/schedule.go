package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jereslo/worklog-sync/internal/config"
	"github.com/jereslo/worklog-sync/internal/scheduler"
	"github.com/jereslo/worklog-sync/internal/timecalc"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Sync today's entries on an interval until interrupted",
	Args:  cobra.NoArgs,
	RunE:  runSchedule,
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := newLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reconciler := buildReconciler(ctx, cfg, logger, false)
	loc := cfg.Location()

	job := func(ctx context.Context) error {
		// The covered day is resolved at tick time so a long-running
		// process rolls over midnight correctly.
		today := time.Now().In(loc)
		_, err := reconciler.Run(ctx, timecalc.StartOfDay(today), timecalc.EndOfDay(today))
		return err
	}

	err = scheduler.New(cfg.SyncInterval, logger).Run(ctx, job)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
