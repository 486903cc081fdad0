package cmd

import (
	"fmt"

	"github.com/huangsam/gitstreak/internal/contract"
	"github.com/huangsam/gitstreak/internal/iocache"
	"github.com/huangsam/gitstreak/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get cache-related config values
	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Initialize the log store with the loaded config (no history tracking for cache commands)
	if err := iocache.InitStores(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr

	return nil
}

// sqliteFilePath returns the SQLite file a connection string points at.
func sqliteFilePath(connStr, defaultPath string) string {
	if connStr != "" {
		return connStr
	}
	return defaultPath
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheCmd focused on management of the stored activity logs.
//
// Note: Cache subcommands use minimal initialization (cacheSetup) instead of
// the full sharedSetup used by refresh commands. No login or token is needed.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage stored contribution logs",
	Long: `Manage the contribution logs that gitstreak keeps between runs.

Every refresh merges newly fetched days into a stored log per login, so only
the first run downloads the whole contribution history.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status - Show cache statistics and connection info
  clear  - Remove all stored logs

Examples:
  # Check cache status
  gitstreak cache status

  # Start over with a full download on the next run
  gitstreak cache clear`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored contribution logs",
	Long: `Delete all stored contribution logs from the configured backend.

The next refresh of every login fetches its full history again.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the log table

Examples:
  # Clear SQLite cache (default)
  gitstreak cache clear

  # Clear MySQL cache (set connection string via env variable)
  GITSTREAK_CACHE_BACKEND=mysql GITSTREAK_CACHE_DB_CONNECT="..." gitstreak cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// Release the SQLite handle before the file is removed
		iocache.CloseStores()
		dbPath := sqliteFilePath(cfg.CacheDBConnect, iocache.GetLogDBFilePath())
		if err := iocache.ClearLogs(cfg.CacheBackend, dbPath, cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show detailed information about the stored contribution logs.

Displays:
- Backend type and connection status
- Number of stored logins
- Last and oldest refresh timestamps
- Cache database size

Examples:
  # Check cache status
  gitstreak cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetLogStore()
		if store == nil {
			contract.LogFatal("Failed to get cache status", fmt.Errorf("cache backend is disabled"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(status)
	},
}
