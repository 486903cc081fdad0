// Package cmd defines the command-line interface for gitstreak.
package cmd

import (
	"github.com/huangsam/gitstreak/internal/contract"
	"github.com/huangsam/gitstreak/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("login", "", "GitHub login to analyze (the positional argument wins)")
	rootCmd.PersistentFlags().String("token", "", "GitHub token with read:user scope (prefer GITSTREAK_TOKEN)")
	rootCmd.PersistentFlags().String("api-url", contract.DefaultAPIURL, "GitHub API root, e.g. https://ghe.example.com/api")
	rootCmd.PersistentFlags().String("exclude-days", "", "Comma-separated weekdays that never break a streak (e.g. sat,sun)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent year fetches")
	rootCmd.PersistentFlags().String("refresh-interval", "5m", "Minimum age of the stored log before GitHub is queried again")
	rootCmd.PersistentFlags().Bool("force", false, "Refresh from GitHub regardless of the refresh interval")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Activity log backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("history-backend", "", "Refresh history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for refresh history (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of logCmd to Viper
	logCmd.Flags().String("since", "", "Earliest day to list (YYYY-MM-DD or e.g. '3 months ago')")
	if err := viper.BindPFlags(logCmd.Flags()); err != nil {
		contract.LogFatal("Error binding log flags", err)
	}

	// Bind all flags of watchCmd to Viper
	watchCmd.Flags().String("schedule", contract.DefaultSchedule, "Cron spec or @every interval between refreshes")
	watchCmd.Flags().String("reminder", string(schema.ConsoleNotifier), "Reminder channel: console or telegram or none")
	watchCmd.Flags().Int("reminder-hour", contract.DefaultReminderHour, "Local hour after which a missing contribution triggers a reminder")
	watchCmd.Flags().String("metrics-addr", "", "Address to serve Prometheus metrics on (e.g. :9090)")
	watchCmd.Flags().String("telegram-token", "", "Telegram bot token (prefer GITSTREAK_TELEGRAM_TOKEN)")
	watchCmd.Flags().String("telegram-chat-id", "", "Telegram chat that receives reminders")
	watchCmd.Flags().Bool("notifications", false, "Poll the GitHub notifications inbox and alert on new items")
	watchCmd.Flags().String("notifications-schedule", contract.DefaultNotificationSchedule, "Cron spec or @every interval between inbox polls")
	if err := viper.BindPFlags(watchCmd.Flags()); err != nil {
		contract.LogFatal("Error binding watch flags", err)
	}

	// Bind all flags of historyShowCmd to Viper
	historyShowCmd.Flags().Int("limit", 30, "Number of snapshots to display")
	if err := viper.BindPFlags(historyShowCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history show flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
