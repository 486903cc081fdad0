package iocache

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/huangsam/gitstreak/internal/contract"
	"github.com/huangsam/gitstreak/schema"
)

// LogStoreImpl persists serialized activity logs using various database backends.
type LogStoreImpl struct {
	db        *sql.DB
	tableName string
	backend   schema.DatabaseBackend
	connStr   string
}

var _ contract.LogStore = &LogStoreImpl{} // Compile-time check

// NewLogStore initializes and returns a new LogStore based on the backend type.
func NewLogStore(tableName string, backend schema.DatabaseBackend, connStr string) (contract.LogStore, error) {
	// Validate table name to prevent SQL injection
	if err := validateTableName(tableName); err != nil {
		return nil, err
	}

	if backend == schema.NoneBackend {
		// Return a no-op store for disabled persistence
		return &LogStoreImpl{tableName: tableName, backend: backend, connStr: connStr}, nil
	}

	db, err := openDB(backend, connStr, GetLogDBFilePath())
	if err != nil {
		return nil, err
	}

	query := getCreateLogTableQuery(tableName, backend)
	if _, err := db.Exec(query); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	return &LogStoreImpl{
		db:        db,
		tableName: tableName,
		backend:   backend,
		connStr:   connStr,
	}, nil
}

// getCreateLogTableQuery returns the CREATE TABLE query for the given backend.
func getCreateLogTableQuery(tableName string, backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(tableName, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				log_key VARCHAR(255) PRIMARY KEY,
				log_value LONGBLOB NOT NULL,
				log_version INT NOT NULL,
				log_timestamp BIGINT NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				log_key TEXT PRIMARY KEY,
				log_value BYTEA NOT NULL,
				log_version INTEGER NOT NULL,
				log_timestamp BIGINT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				log_key TEXT PRIMARY KEY,
				log_value BLOB NOT NULL,
				log_version INTEGER NOT NULL,
				log_timestamp INTEGER NOT NULL
			);
		`, quotedTableName)
	}
}

// Get retrieves a value by key from the store.
func (ls *LogStoreImpl) Get(key string) ([]byte, int, int64, error) {
	// Return not found error for NoneBackend
	if ls.backend == schema.NoneBackend || ls.db == nil {
		return nil, 0, 0, sql.ErrNoRows
	}

	var value []byte
	var version int
	var ts int64

	quotedTableName := quoteTableName(ls.tableName, ls.backend)
	query := fmt.Sprintf(`SELECT log_value, log_version, log_timestamp FROM %s WHERE log_key = %s`,
		quotedTableName, placeholders(ls.backend, 1)[0])
	if err := ls.db.QueryRow(query, key).Scan(&value, &version, &ts); err != nil {
		return nil, 0, 0, err
	}
	return value, version, ts, nil
}

// Set inserts or replaces a key/value pair in the store.
func (ls *LogStoreImpl) Set(key string, value []byte, version int, timestamp int64) error {
	// Skip for NoneBackend
	if ls.backend == schema.NoneBackend || ls.db == nil {
		return nil
	}

	_, err := ls.db.Exec(ls.getUpsertQuery(), key, value, version, timestamp)
	return err
}

// getUpsertQuery returns the UPSERT query for the backend.
func (ls *LogStoreImpl) getUpsertQuery() string {
	quotedTableName := quoteTableName(ls.tableName, ls.backend)
	params := strings.Join(placeholders(ls.backend, 4), ", ")
	switch ls.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (log_key, log_value, log_version, log_timestamp) VALUES (%s) AS new
			ON DUPLICATE KEY UPDATE log_value = new.log_value, log_version = new.log_version, log_timestamp = new.log_timestamp`, quotedTableName, params)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (log_key, log_value, log_version, log_timestamp) VALUES (%s)
			ON CONFLICT (log_key) DO UPDATE SET log_value = EXCLUDED.log_value, log_version = EXCLUDED.log_version, log_timestamp = EXCLUDED.log_timestamp`, quotedTableName, params)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (log_key, log_value, log_version, log_timestamp) VALUES (%s)`, quotedTableName, params)
	}
}

// Close closes the underlying DB connection.
func (ls *LogStoreImpl) Close() error {
	if ls.db != nil {
		return ls.db.Close()
	}
	return nil
}

// GetStatus returns status information about the log store.
func (ls *LogStoreImpl) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{
		Backend:   string(ls.backend),
		Connected: ls.db != nil,
	}

	if ls.backend == schema.NoneBackend || ls.db == nil {
		return status, nil
	}

	quotedTableName := quoteTableName(ls.tableName, ls.backend)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTableName)
	if err := ls.db.QueryRow(countQuery).Scan(&status.TotalEntries); err != nil {
		return status, fmt.Errorf("failed to get total entries: %w", err)
	}

	if status.TotalEntries == 0 {
		return status, nil
	}

	var lastTs, oldestTs int64
	rangeQuery := fmt.Sprintf("SELECT MAX(log_timestamp), MIN(log_timestamp) FROM %s", quotedTableName)
	if err := ls.db.QueryRow(rangeQuery).Scan(&lastTs, &oldestTs); err != nil {
		return status, fmt.Errorf("failed to get entry time range: %w", err)
	}
	status.LastEntryTime = time.Unix(lastTs, 0)
	status.OldestEntryTime = time.Unix(oldestTs, 0)

	status.TableSizeBytes = ls.tableSize(int64(status.TotalEntries))
	return status, nil
}

// tableSize estimates the on-disk size of the table, falling back to a rough row estimate.
func (ls *LogStoreImpl) tableSize(rows int64) int64 {
	fallback := rows * 4000 // a year of days serialized as JSON is a few KB
	var size int64

	switch ls.backend {
	case schema.SQLiteBackend:
		row := ls.db.QueryRow("SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
		if err := row.Scan(&size); err != nil {
			return 0
		}
	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(ls.connStr)
		if err != nil || cfg.DBName == "" {
			return fallback
		}
		row := ls.db.QueryRow("SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?", cfg.DBName, ls.tableName)
		if err := row.Scan(&size); err != nil {
			return fallback
		}
	case schema.PostgreSQLBackend:
		row := ls.db.QueryRow("SELECT pg_total_relation_size($1)", ls.tableName)
		if err := row.Scan(&size); err != nil {
			return fallback
		}
	default:
		return fallback
	}
	return size
}
