package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jereslo/worklog-sync/internal/config"
	"github.com/jereslo/worklog-sync/internal/timecalc"
	"github.com/jereslo/worklog-sync/internal/toggl"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current Toggl timer and today's total",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	loc := cfg.Location()
	now := time.Now().In(loc)
	logger := newLogger(cfg.LogLevel)
	client := toggl.NewClient(cfg.TogglAPIToken, logger)
	ctx := context.Background()

	current, err := client.Current(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	entries, err := client.ListEntries(ctx, timecalc.StartOfDay(now), timecalc.EndOfDay(now))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if current != nil {
		elapsed := int64(now.Sub(current.Start).Seconds())
		fmt.Println("Running:")
		if current.Description != "" {
			fmt.Printf("  Task: %s\n", current.Description)
		}
		fmt.Printf("  Since: %s\n", current.Start.In(loc).Format("15:04"))
		fmt.Printf("  Elapsed: %s\n", timecalc.FormatDurationHHMMSS(elapsed))
	} else {
		fmt.Println("No running timer.")
	}

	hours := timecalc.CalculateHours(entries, now)
	fmt.Printf("Today: %.1fh logged.\n", hours)
	return nil
}
