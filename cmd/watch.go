package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/huangsam/gitstreak/core"
	"github.com/huangsam/gitstreak/internal/contract"
	"github.com/spf13/cobra"
)

// watchCmd keeps a login's streak up to date in the foreground.
var watchCmd = &cobra.Command{
	Use:   "watch [login]",
	Short: "Refresh on a schedule and remind before a streak breaks.",
	Long: `Refresh the contribution log of a GitHub user on a cron schedule.

After --reminder-hour, a day without contributions triggers one reminder per
day through the console or a Telegram chat. With --metrics-addr set, streak
gauges and refresh counters are served in the Prometheus text format.
With --notifications, the participating notifications inbox is polled on
--notifications-schedule and the newest unseen item is announced through the
same reminder channel.

Stops on SIGINT or SIGTERM.

Examples:
  # Refresh every 30 minutes and remind on the console after 8pm
  gitstreak watch octocat

  # Refresh hourly, remind on Telegram after 9pm and expose metrics
  GITSTREAK_TELEGRAM_TOKEN=... gitstreak watch octocat --schedule "@hourly" \
    --reminder telegram --telegram-chat-id 123456 --reminder-hour 21 --metrics-addr :9090

  # Also announce new GitHub notifications every two minutes
  gitstreak watch octocat --notifications --notifications-schedule "@every 2m"`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := core.ExecuteWatch(ctx, cfg, newGraphClient(), cacheManager); err != nil {
			contract.LogFatal("Cannot watch streak", err)
		}
	},
}
