package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/gitstreak/internal/contract"
	"github.com/huangsam/gitstreak/schema"
)

// Table names for refresh history.
const (
	refreshRunsTable     = "gitstreak_refresh_runs"
	streakSnapshotsTable = "gitstreak_streak_snapshots"
)

// historyTables lists the history tables in creation order.
var historyTables = []string{refreshRunsTable, streakSnapshotsTable}

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled tracking
		return &HistoryStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

// createHistoryTables creates the history tracking tables.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	queries := map[string]string{
		refreshRunsTable:     getCreateRefreshRunsQuery(backend),
		streakSnapshotsTable: getCreateStreakSnapshotsQuery(backend),
	}
	for _, table := range historyTables {
		if _, err := db.Exec(queries[table]); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table, err)
		}
	}
	return nil
}

// getCreateRefreshRunsQuery returns the CREATE TABLE query for gitstreak_refresh_runs.
func getCreateRefreshRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(refreshRunsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id CHAR(36) PRIMARY KEY,
				login VARCHAR(39) NOT NULL,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				status VARCHAR(16) NOT NULL,
				days_fetched INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT PRIMARY KEY,
				login TEXT NOT NULL,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				status TEXT NOT NULL,
				days_fetched INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT PRIMARY KEY,
				login TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				status TEXT NOT NULL,
				days_fetched INTEGER NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateStreakSnapshotsQuery returns the CREATE TABLE query for gitstreak_streak_snapshots.
func getCreateStreakSnapshotsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(streakSnapshotsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id CHAR(36) PRIMARY KEY,
				login VARCHAR(39) NOT NULL,
				snapshot_time DATETIME(6) NOT NULL,
				total_contributions INT NOT NULL,
				first_contribution VARCHAR(10) NOT NULL,
				current_length INT NOT NULL,
				current_start VARCHAR(10) NOT NULL,
				current_end VARCHAR(10) NOT NULL,
				longest_length INT NOT NULL,
				longest_start VARCHAR(10) NOT NULL,
				longest_end VARCHAR(10) NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT PRIMARY KEY,
				login TEXT NOT NULL,
				snapshot_time TIMESTAMPTZ NOT NULL,
				total_contributions INT NOT NULL,
				first_contribution TEXT NOT NULL,
				current_length INT NOT NULL,
				current_start TEXT NOT NULL,
				current_end TEXT NOT NULL,
				longest_length INT NOT NULL,
				longest_start TEXT NOT NULL,
				longest_end TEXT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id TEXT PRIMARY KEY,
				login TEXT NOT NULL,
				snapshot_time TEXT NOT NULL,
				total_contributions INTEGER NOT NULL,
				first_contribution TEXT NOT NULL,
				current_length INTEGER NOT NULL,
				current_start TEXT NOT NULL,
				current_end TEXT NOT NULL,
				longest_length INTEGER NOT NULL,
				longest_start TEXT NOT NULL,
				longest_end TEXT NOT NULL
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new refresh run and returns its unique ID.
func (hs *HistoryStoreImpl) BeginRun(login string, startTime time.Time, configParams map[string]any) (string, error) {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return "", nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config params: %w", err)
	}

	runID := uuid.NewString()
	query := fmt.Sprintf(`INSERT INTO %s (run_id, login, start_time, status, config_params) VALUES (%s)`,
		quoteTableName(refreshRunsTable, hs.backend), strings.Join(placeholders(hs.backend, 5), ", "))
	if _, err := hs.db.Exec(query, runID, login, formatTime(startTime, hs.backend), string(schema.RunRunning), string(configJSON)); err != nil {
		return "", fmt.Errorf("failed to insert refresh run: %w", err)
	}
	return runID, nil
}

// EndRun updates the refresh run with completion data.
func (hs *HistoryStoreImpl) EndRun(runID string, endTime time.Time, status schema.RunStatus, daysFetched int) error {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(refreshRunsTable, hs.backend)
	p := placeholders(hs.backend, 5)

	// First, get the start_time to calculate duration
	start := newTimeScanner(hs.backend)
	selectQuery := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, p[0])
	if err := hs.db.QueryRow(selectQuery, runID).Scan(start.dest()); err != nil {
		return fmt.Errorf("failed to get start_time for run %s: %w", runID, err)
	}
	startTime, err := start.value()
	if err != nil {
		return fmt.Errorf("failed to read start_time for run %s: %w", runID, err)
	}
	if startTime == nil {
		return fmt.Errorf("run %s has no start_time", runID)
	}
	durationMs := endTime.Sub(*startTime).Milliseconds()

	updateQuery := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, status = %s, days_fetched = %s WHERE run_id = %s`,
		quotedTableName, p[0], p[1], p[2], p[3], p[4])
	if _, err := hs.db.Exec(updateQuery, formatTime(endTime, hs.backend), durationMs, string(status), daysFetched, runID); err != nil {
		return fmt.Errorf("failed to update refresh run: %w", err)
	}
	return nil
}

// RecordSnapshot stores the streak summary computed by a run.
func (hs *HistoryStoreImpl) RecordSnapshot(s schema.StreakSnapshotRecord) error {
	// Skip for NoneBackend
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (run_id, login, snapshot_time, total_contributions, first_contribution,
		                current_length, current_start, current_end,
		                longest_length, longest_start, longest_end)
		VALUES (%s)
	`, quoteTableName(streakSnapshotsTable, hs.backend), strings.Join(placeholders(hs.backend, 11), ", "))
	args := []any{
		s.RunID, s.Login, formatTime(s.SnapshotTime, hs.backend), s.TotalContributions, s.FirstContribution,
		s.CurrentLength, s.CurrentStart, s.CurrentEnd,
		s.LongestLength, s.LongestStart, s.LongestEnd,
	}
	if _, err := hs.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to insert streak snapshot: %w", err)
	}
	return nil
}

// snapshotColumns is the column list shared by snapshot queries.
const snapshotColumns = `run_id, login, snapshot_time, total_contributions, first_contribution,
	current_length, current_start, current_end, longest_length, longest_start, longest_end`

// GetSnapshots returns the latest snapshots of a login, newest first.
func (hs *HistoryStoreImpl) GetSnapshots(login string, limit int) ([]schema.StreakSnapshotRecord, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}
	p := placeholders(hs.backend, 2)
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE login = %s ORDER BY snapshot_time DESC LIMIT %s`,
		snapshotColumns, quoteTableName(streakSnapshotsTable, hs.backend), p[0], p[1])
	return hs.querySnapshots(query, login, limit)
}

// GetAllSnapshots retrieves all streak snapshots from the store.
func (hs *HistoryStoreImpl) GetAllSnapshots() ([]schema.StreakSnapshotRecord, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY snapshot_time, login`,
		snapshotColumns, quoteTableName(streakSnapshotsTable, hs.backend))
	return hs.querySnapshots(query)
}

func (hs *HistoryStoreImpl) querySnapshots(query string, args ...any) ([]schema.StreakSnapshotRecord, error) {
	rows, err := hs.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query streak snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.StreakSnapshotRecord
	for rows.Next() {
		var r schema.StreakSnapshotRecord
		at := newTimeScanner(hs.backend)
		if err := rows.Scan(&r.RunID, &r.Login, at.dest(), &r.TotalContributions, &r.FirstContribution,
			&r.CurrentLength, &r.CurrentStart, &r.CurrentEnd,
			&r.LongestLength, &r.LongestStart, &r.LongestEnd); err != nil {
			return nil, fmt.Errorf("failed to scan streak snapshot: %w", err)
		}
		snapshotTime, err := at.value()
		if err != nil {
			return nil, err
		}
		if snapshotTime != nil {
			r.SnapshotTime = *snapshotTime
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating streak snapshots: %w", err)
	}
	return results, nil
}

// GetAllRuns retrieves all refresh runs from the store.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.RefreshRunRecord, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, login, start_time, end_time, run_duration_ms, status, days_fetched, config_params
		FROM %s ORDER BY start_time`, quoteTableName(refreshRunsTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query refresh runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RefreshRunRecord
	for rows.Next() {
		var r schema.RefreshRunRecord
		start, end := newTimeScanner(hs.backend), newTimeScanner(hs.backend)
		if err := rows.Scan(&r.RunID, &r.Login, start.dest(), end.dest(), &r.RunDurationMs, &r.Status, &r.DaysFetched, &r.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan refresh run: %w", err)
		}
		startTime, err := start.value()
		if err != nil {
			return nil, err
		}
		if startTime != nil {
			r.StartTime = *startTime
		}
		if r.EndTime, err = end.value(); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating refresh runs: %w", err)
	}
	return results, nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if hs.backend == schema.NoneBackend || hs.db == nil {
		return status, nil
	}

	runsTable := quoteTableName(refreshRunsTable, hs.backend)
	if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runsTable)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		last := newTimeScanner(hs.backend)
		lastQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY start_time DESC LIMIT 1", runsTable)
		if err := hs.db.QueryRow(lastQuery).Scan(&status.LastRunID, last.dest()); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		lastTime, err := last.value()
		if err != nil {
			return status, err
		}
		if lastTime != nil {
			status.LastRunTime = *lastTime
		}

		oldest := newTimeScanner(hs.backend)
		oldestQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY start_time ASC LIMIT 1", runsTable)
		if err := hs.db.QueryRow(oldestQuery).Scan(oldest.dest()); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		oldestTime, err := oldest.value()
		if err != nil {
			return status, err
		}
		if oldestTime != nil {
			status.OldestRunTime = *oldestTime
		}
	}

	for _, table := range historyTables {
		var count int64
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend))
		if err := hs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalSnapshots = int(status.TableSizes[streakSnapshotsTable])

	return status, nil
}
