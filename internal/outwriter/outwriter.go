// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/huangsam/gitstreak/internal/contract"
	"github.com/huangsam/gitstreak/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteStats prints the streak summary of an account using the configured output format.
func (ow *OutWriter) WriteStats(result schema.StreakResult, cfg *contract.Config, duration time.Duration) error {
	return PrintStatsResult(result, cfg, duration)
}

// WriteLog prints the daily activity log of an account using the configured output format.
func (ow *OutWriter) WriteLog(login string, entries []schema.DailyEntry, cfg *contract.Config) error {
	return PrintActivityLog(login, entries, cfg)
}

// WriteHistory prints the recorded streak snapshots of an account using the configured output format.
func (ow *OutWriter) WriteHistory(login string, snapshots []schema.StreakSnapshotRecord, cfg *contract.Config) error {
	return PrintSnapshotHistory(login, snapshots, cfg)
}
