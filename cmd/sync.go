package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jereslo/worklog-sync/internal/config"
	apperrors "github.com/jereslo/worklog-sync/internal/errors"
	"github.com/jereslo/worklog-sync/internal/timecalc"
)

var (
	syncFrom   string
	syncTo     string
	syncDate   string
	syncToday  bool
	syncDryRun bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one reconciliation of Toggl entries into the worklog",
	Args:  cobra.NoArgs,
	RunE:  runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncFrom, "from", "", "Start date (YYYY-MM-DD); required when --to is specified")
	syncCmd.Flags().StringVar(&syncTo, "to", "", "End date (YYYY-MM-DD); defaults to today")
	syncCmd.Flags().StringVar(&syncDate, "date", "", "Sync a specific date (YYYY-MM-DD)")
	syncCmd.Flags().BoolVar(&syncToday, "today", false, "Sync only today (default)")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Print the resulting document without writing")
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	from, to, err := resolveRange(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	ctx := context.Background()
	reconciler := buildReconciler(ctx, cfg, logger, syncDryRun)

	if _, err := reconciler.Run(ctx, from, to); err != nil {
		if apperrors.IsConflict(err) {
			fmt.Fprintln(os.Stderr, "The worklog changed remotely during the sync; run again to reconcile.")
		}
		os.Exit(2)
	}
	return nil
}

// resolveRange turns the date flags into an inclusive local date range,
// defaulting to today in the configured timezone.
func resolveRange(cfg config.Config) (time.Time, time.Time, error) {
	loc := cfg.Location()
	now := time.Now().In(loc)

	parse := func(flag, value string) (time.Time, error) {
		d, err := time.ParseInLocation("2006-01-02", value, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --%s value %q: %w", flag, value, err)
		}
		return d, nil
	}

	if syncToday && (syncDate != "" || syncFrom != "" || syncTo != "") {
		return time.Time{}, time.Time{}, fmt.Errorf("--today cannot be combined with --date, --from or --to")
	}

	switch {
	case syncDate != "":
		d, err := parse("date", syncDate)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return timecalc.StartOfDay(d), timecalc.EndOfDay(d), nil

	case syncFrom != "" || syncTo != "":
		if syncTo != "" && syncFrom == "" {
			return time.Time{}, time.Time{}, fmt.Errorf("--from is required when --to is specified")
		}
		from, err := parse("from", syncFrom)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to := now
		if syncTo != "" {
			if to, err = parse("to", syncTo); err != nil {
				return time.Time{}, time.Time{}, err
			}
		}
		return timecalc.StartOfDay(from), timecalc.EndOfDay(to), nil

	default:
		// Default: today.
		return timecalc.StartOfDay(now), timecalc.EndOfDay(now), nil
	}
}
