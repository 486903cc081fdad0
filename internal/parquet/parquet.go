// Package parquet provides data structures and functions for exporting streak
// history and activity logs to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/gitstreak/schema"
	"github.com/parquet-go/parquet-go"
)

// RefreshRun represents a single refresh of one account.
// This struct maps to the gitstreak_refresh_runs database table.
type RefreshRun struct {
	// RunID is the UUID of this refresh run
	RunID string `parquet:"run_id,snappy"`

	// Login is the GitHub account that was refreshed
	Login string `parquet:"login,snappy"`

	// StartTime is when the refresh began
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the refresh completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// Status is running, succeeded, failed or throttled
	Status string `parquet:"status,snappy"`

	// DaysFetched is the number of days returned by the API in this run
	DaysFetched int32 `parquet:"days_fetched,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// StreakSnapshot is the streak summary recorded by a refresh run.
// This struct maps to the gitstreak_streak_snapshots database table.
type StreakSnapshot struct {
	RunID              string    `parquet:"run_id,snappy"`
	Login              string    `parquet:"login,snappy"`
	SnapshotTime       time.Time `parquet:"snapshot_time,snappy"`
	TotalContributions int32     `parquet:"total_contributions,snappy"`
	FirstContribution  string    `parquet:"first_contribution,snappy"`
	CurrentLength      int32     `parquet:"current_length,snappy"`
	CurrentStart       string    `parquet:"current_start,snappy"`
	CurrentEnd         string    `parquet:"current_end,snappy"`
	LongestLength      int32     `parquet:"longest_length,snappy"`
	LongestStart       string    `parquet:"longest_start,snappy"`
	LongestEnd         string    `parquet:"longest_end,snappy"`
}

// DailyContribution is one day of an activity log.
type DailyContribution struct {
	Login    string `parquet:"login,snappy"`
	Date     string `parquet:"date,snappy"`
	Weekday  string `parquet:"weekday,snappy"`
	Count    int32  `parquet:"count,snappy"`
	Excluded bool   `parquet:"excluded"`
}

// writeRows writes rows to w with a schema inferred from the struct tags of T.
func writeRows[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// writeFile creates outputPath and writes rows to it.
func writeFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()
	return writeRows(file, rows)
}

// WriteRefreshRunsParquet writes refresh runs to a Parquet file.
func WriteRefreshRunsParquet(data []RefreshRun, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteStreakSnapshotsParquet writes streak snapshots to a Parquet file.
func WriteStreakSnapshotsParquet(data []StreakSnapshot, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteDailyContributions writes activity log rows to w.
func WriteDailyContributions(w io.Writer, data []DailyContribution) error {
	return writeRows(w, data)
}

// ConvertRefreshRunRecords converts schema.RefreshRunRecord to RefreshRun for Parquet export.
func ConvertRefreshRunRecords(records []schema.RefreshRunRecord) []RefreshRun {
	result := make([]RefreshRun, len(records))
	for i, record := range records {
		result[i] = RefreshRun{
			RunID:         record.RunID,
			Login:         record.Login,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			Status:        record.Status,
			DaysFetched:   record.DaysFetched,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertStreakSnapshotRecords converts schema.StreakSnapshotRecord to StreakSnapshot for Parquet export.
func ConvertStreakSnapshotRecords(records []schema.StreakSnapshotRecord) []StreakSnapshot {
	result := make([]StreakSnapshot, len(records))
	for i, r := range records {
		result[i] = StreakSnapshot(r)
	}
	return result
}

// ConvertDailyEntries converts log rows of a login for Parquet output.
func ConvertDailyEntries(login string, entries []schema.DailyEntry) []DailyContribution {
	result := make([]DailyContribution, len(entries))
	for i, e := range entries {
		result[i] = DailyContribution{
			Login:    login,
			Date:     e.Date,
			Weekday:  e.Weekday,
			Count:    int32(e.Count),
			Excluded: e.Excluded,
		}
	}
	return result
}
