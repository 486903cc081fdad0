// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/gitstreak/schema"
)

// GraphClient defines the operations needed from the GitHub API.
// This allows the refresh logic to be tested without network access.
type GraphClient interface {
	// FetchUser returns the public profile of a login.
	FetchUser(ctx context.Context, login string) (schema.UserDetails, error)

	// FetchContributionGraph returns the contribution calendar between from and to.
	// GitHub rejects windows longer than one year.
	FetchContributionGraph(ctx context.Context, login string, from, to time.Time) (schema.ActivityGraph, error)

	// FetchNotifications returns the participating notifications of the token
	// owner updated after since.
	FetchNotifications(ctx context.Context, since time.Time) ([]schema.Notification, error)
}

// CacheManager defines the interface for managing persistence stores.
// This allows the persistence layer to be mocked for testing.
type CacheManager interface {
	GetLogStore() LogStore
	GetHistoryStore() HistoryStore
}

// LogStore defines the interface for persisted activity logs, keyed by login.
type LogStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for tracking refresh runs and streak snapshots.
type HistoryStore interface {
	// BeginRun creates a new refresh run and returns its unique ID
	BeginRun(login string, startTime time.Time, configParams map[string]any) (string, error)

	// EndRun updates the refresh run with completion data
	EndRun(runID string, endTime time.Time, status schema.RunStatus, daysFetched int) error

	// RecordSnapshot stores the streak summary computed by a run
	RecordSnapshot(snapshot schema.StreakSnapshotRecord) error

	// GetSnapshots returns the latest snapshots of a login, newest first
	GetSnapshots(login string, limit int) ([]schema.StreakSnapshotRecord, error)

	// GetAllRuns returns every refresh run, oldest first
	GetAllRuns() ([]schema.RefreshRunRecord, error)

	// GetAllSnapshots returns every streak snapshot, oldest first
	GetAllSnapshots() ([]schema.StreakSnapshotRecord, error)

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// Close closes the underlying connection
	Close() error
}
