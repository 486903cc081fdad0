package cmd

import (
	"github.com/huangsam/gitstreak/core"
	"github.com/spf13/cobra"
)

// logCmd lists the daily contribution counts of a login.
var logCmd = &cobra.Command{
	Use:   "log [login]",
	Short: "List daily contribution counts.",
	Long: `Refresh the stored contribution log of a GitHub user and list it day by day.

Each row shows the date, weekday, contribution count and whether the weekday
is excluded from streak breaking.

Examples:
  # Show the last month as a table with activity bars
  gitstreak log octocat --since "1 month ago"

  # Export the full log for a notebook
  gitstreak log octocat --output parquet --output-file octocat.parquet`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run:     runExecutor(core.ExecuteLog, "Cannot list activity log"),
}
