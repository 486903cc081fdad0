package iocache

import (
	"errors"
	"fmt"

	"github.com/huangsam/gitstreak/internal/parquet"
)

// ExecuteHistoryExport writes every refresh run and streak snapshot to Parquet files
// named after outputFile.
func ExecuteHistoryExport(outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := Manager.GetHistoryStore()
	if store == nil {
		return errors.New("history store is not configured")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no refresh history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total refresh runs: %d\n", status.TotalRuns)
	fmt.Printf("Total streak snapshots: %d\n", status.TotalSnapshots)

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve refresh runs: %w", err)
	}
	snapshots, err := store.GetAllSnapshots()
	if err != nil {
		return fmt.Errorf("failed to retrieve streak snapshots: %w", err)
	}

	parquetRuns := parquet.ConvertRefreshRunRecords(runs)
	runsFile := outputFile + ".refresh_runs.parquet"
	if err := parquet.WriteRefreshRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write refresh runs: %w", err)
	}
	fmt.Printf("Exported %d refresh runs to: %s\n", len(parquetRuns), runsFile)

	parquetSnapshots := parquet.ConvertStreakSnapshotRecords(snapshots)
	snapshotsFile := outputFile + ".streak_snapshots.parquet"
	if err := parquet.WriteStreakSnapshotsParquet(parquetSnapshots, snapshotsFile); err != nil {
		return fmt.Errorf("failed to write streak snapshots: %w", err)
	}
	fmt.Printf("Exported %d streak snapshots to: %s\n", len(parquetSnapshots), snapshotsFile)

	fmt.Println("\nExport complete! The Parquet files can be read with DuckDB, Pandas or Spark.")
	return nil
}
