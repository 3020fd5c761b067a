package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "worklog-sync",
	Short: "Sync Toggl time entries into a GitHub-hosted worklog",
	Long: `worklog-sync pulls time entries from Toggl Track and merges them into a
human-readable worklog file in a GitHub repository: one line per day with
total hours and task descriptions, sorted most recent first.

Configuration comes from environment variables (optionally via a .env file);
see the config package for the full list. TOGGL_API_TOKEN, GITHUB_TOKEN,
GITHUB_REPO and GITHUB_WORKLOG_PATH are required.`,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(statusCmd)
}
