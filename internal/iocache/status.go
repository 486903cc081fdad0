package iocache

import (
	"fmt"
	"maps"
	"slices"

	"github.com/huangsam/gitstreak/schema"
)

const statusTimeLayout = "2006-01-02 15:04:05"

// PrintCacheStatus prints activity log store status information.
func PrintCacheStatus(status schema.CacheStatus) {
	fmt.Printf("Log Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Stored Accounts: %d\n", status.TotalEntries)
	if status.TotalEntries > 0 {
		fmt.Printf("Last Update: %s\n", status.LastEntryTime.Format(statusTimeLayout))
		fmt.Printf("Oldest Update: %s\n", status.OldestEntryTime.Format(statusTimeLayout))
	}
	fmt.Printf("Table Size: %d bytes\n", status.TableSizeBytes)
}

// PrintHistoryStatus prints refresh history status information.
func PrintHistoryStatus(status schema.HistoryStatus) {
	fmt.Printf("History Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns > 0 {
		fmt.Printf("Last Run ID: %s\n", status.LastRunID)
		fmt.Printf("Last Run: %s\n", status.LastRunTime.Format(statusTimeLayout))
		fmt.Printf("Oldest Run: %s\n", status.OldestRunTime.Format(statusTimeLayout))
		fmt.Printf("Total Snapshots: %d\n", status.TotalSnapshots)
	}
	fmt.Println("Table Sizes:")
	for _, table := range slices.Sorted(maps.Keys(status.TableSizes)) {
		fmt.Printf("  %s: %d rows\n", table, status.TableSizes[table])
	}
}
