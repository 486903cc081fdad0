package cmd

import (
	"github.com/huangsam/gitstreak/core"
	"github.com/huangsam/gitstreak/internal/contract"
	"github.com/spf13/cobra"
)

// runExecutor runs a refresh command against the configured login.
func runExecutor(exec core.ExecutorFunc, failure string) func(*cobra.Command, []string) {
	return func(_ *cobra.Command, _ []string) {
		if err := exec(rootCtx, cfg, newGraphClient(), cacheManager); err != nil {
			contract.LogFatal(failure, err)
		}
	}
}

// statsCmd reports the current and longest streaks of a login.
var statsCmd = &cobra.Command{
	Use:   "stats [login]",
	Short: "Show the current and longest contribution streaks.",
	Long: `Refresh the stored contribution log of a GitHub user and summarize it.

The first run fetches every year since the account was created. Later runs
only fetch the days since the last stored date, and runs within the refresh
interval reuse the stored log without contacting GitHub.

Reports:
- Total contributions and the first contribution day
- Current streak and its date range
- Longest streak on record and its date range

Weekdays passed to --exclude-days never break a streak, but only extend one
that is already running.

Examples:
  # Summarize a user's streaks
  gitstreak stats octocat

  # Treat weekends as rest days
  gitstreak stats octocat --exclude-days sat,sun

  # Skip the refresh throttle and export JSON
  gitstreak stats octocat --force --output json --output-file streak.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor(core.ExecuteStats, "Cannot compute streak stats"),
}
