package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"slices"
	"sync"

	"github.com/huangsam/gitstreak/internal/contract"
	"github.com/huangsam/gitstreak/schema"
)

// activityLogsTable is the name of the table holding merged activity logs.
const activityLogsTable = "gitstreak_activity_logs"

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetLogDBFilePath returns the path to the SQLite DB file for activity logs.
func GetLogDBFilePath() string {
	return contract.GetCacheDBFilePath()
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for refresh history.
func GetHistoryDBFilePath() string {
	return contract.GetHistoryDBFilePath()
}

// InitStores initializes the global manager with separate log and history stores.
// An empty backend leaves the corresponding store disabled.
func InitStores(logBackend schema.DatabaseBackend, logConnStr string, historyBackend schema.DatabaseBackend, historyConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		var err error

		var logStore contract.LogStore
		if logBackend != "" {
			logStore, err = NewLogStore(activityLogsTable, logBackend, logConnStr)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize activity log store: %w", err)
				return
			}
		}

		var historyStore contract.HistoryStore
		if historyBackend != "" {
			historyStore, err = NewHistoryStore(historyBackend, historyConnStr)
			if err != nil {
				if logStore != nil {
					_ = logStore.Close()
				}
				initErr = fmt.Errorf("failed to initialize history store: %w", err)
				return
			}
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.logs = logStore
		Manager.history = historyStore
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.logs != nil {
			_ = Manager.logs.Close()
		}
		if Manager.history != nil {
			_ = Manager.history.Close()
		}
	})
}

// ClearLogs removes every persisted activity log.
// For SQLite it deletes the database file, for MySQL and PostgreSQL it drops the table.
func ClearLogs(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearBackend(backend, dbFilePath, connStr, activityLogsTable)
}

// migrationsTable is where golang-migrate records the applied version.
const migrationsTable = "schema_migrations"

// ClearHistory removes every refresh run and streak snapshot, along with the
// migration version so that a later migrate starts from scratch.
func ClearHistory(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	tables := append(slices.Clone(historyTables), migrationsTable)
	return clearBackend(backend, dbFilePath, connStr, tables...)
}

func clearBackend(backend schema.DatabaseBackend, dbFilePath, connStr string, tables ...string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		for _, table := range tables {
			if err := clearSQLTable(backend, connStr, table); err != nil {
				return err
			}
		}
		return nil

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported backend for clearing: %s", backend)
	}
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(backend schema.DatabaseBackend, connStr, tableName string) error {
	driverName, err := driverFor(backend)
	if err != nil {
		return err
	}
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", backend, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", backend, err)
	}

	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(tableName, backend))
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}
	return nil
}
