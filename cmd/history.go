package cmd

import (
	"fmt"

	"github.com/huangsam/gitstreak/core"
	"github.com/huangsam/gitstreak/internal/contract"
	"github.com/huangsam/gitstreak/internal/iocache"
	"github.com/huangsam/gitstreak/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyBackendFromConfig reads and validates the history backend settings.
// An unset backend is treated as NoneBackend.
func historyBackendFromConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backendStr := viper.GetString("history-backend")
	connStr := viper.GetString("history-db-connect")

	backend := schema.NoneBackend
	if backendStr != "" {
		backend = schema.DatabaseBackend(backendStr)
	}

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// historySetup loads minimal configuration needed for history operations.
// This is used by commands that need history access without full shared setup.
func historySetup() error {
	backend, connStr, err := historyBackendFromConfig()
	if err != nil {
		return err
	}

	// Initialize stores with the loaded config (no log store for history commands)
	if err := iocache.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")

	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func historyMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := historyBackendFromConfig()
	if err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetHistoryDBFilePath()
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr

	return nil
}

// historyCmd focused on refresh history management.
//
// Note: Most history subcommands use minimal initialization (historySetup)
// instead of the full sharedSetup used by refresh commands.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage refresh history and streak snapshots",
	Long: `Manage the history of refreshes used for tracking streaks over time.

When enabled with --history-backend, gitstreak records every refresh:
- Run metadata (timestamp, configuration, duration, outcome)
- A snapshot of the streak summary the run produced

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, default)

Subcommands:
  show    - List recent snapshots of a login
  status  - Show history statistics
  export  - Export runs and snapshots to Parquet
  clear   - Remove all history
  migrate - Run database schema migrations

Examples:
  # Record history in SQLite
  gitstreak stats octocat --history-backend sqlite

  # Review how the streak evolved
  gitstreak history show octocat --history-backend sqlite`,
}

// historyShowCmd lists the snapshots of a login.
var historyShowCmd = &cobra.Command{
	Use:   "show [login]",
	Short: "List recent streak snapshots of a login",
	Long: `List the streak snapshots recorded for a login, newest first.

Examples:
  # Show the last 10 snapshots as CSV
  gitstreak history show octocat --limit 10 --output csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHistory(cfg, cacheManager, viper.GetInt("limit")); err != nil {
			contract.LogFatal("Cannot list streak history", err)
		}
	},
}

// historyClearCmd clears the history data.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all refresh history",
	Long: `Delete all stored refresh runs and streak snapshots.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  gitstreak history export --output-file backup
  gitstreak history clear`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// Release the SQLite handle before the file is removed
		iocache.CloseStores()
		dbPath := sqliteFilePath(cfg.HistoryDBConnect, contract.GetHistoryDBFilePath())
		if err := iocache.ClearHistory(cfg.HistoryBackend, dbPath, cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history", err)
		}
		fmt.Println("History cleared successfully.")
	},
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display history statistics and connection details",
	Long: `Show detailed information about the refresh history.

Displays:
- Backend type and connection status
- Total number of refresh runs and snapshots
- Last and oldest run timestamps
- Database table sizes

Examples:
  # Check history status
  gitstreak history status --history-backend sqlite`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetHistoryStore()
		if store == nil {
			contract.LogFatal("Failed to get history status", core.ErrHistoryDisabled)
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iocache.PrintHistoryStatus(status)
	},
}

// historyExportCmd exports history data to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export refresh history to Parquet",
	Long: `Export all refresh runs and streak snapshots to Parquet files.

Writes two files next to --output-file:
- <output-file>.refresh_runs.parquet
- <output-file>.streak_snapshots.parquet

Examples:
  # Export and query with DuckDB
  gitstreak history export --output-file streaks
  duckdb -c "SELECT * FROM read_parquet('streaks.streak_snapshots.parquet')"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteHistoryExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  gitstreak history migrate --history-backend sqlite

  # Rollback to initial state
  gitstreak history migrate --history-backend sqlite --target-version 0`,
	PreRunE: historyMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
		version, dirty, err := iocache.HistoryVersion(cfg.HistoryBackend, cfg.HistoryDBConnect)
		if err != nil {
			contract.LogFatal("Failed to read migration version", err)
		}
		fmt.Printf("History schema at version %d (dirty: %t)\n", version, dirty)
	},
}
