package schema

import "time"

// StoredLog is the persisted form of an account's merged ActivityLog.
type StoredLog struct {
	Login     string      `json:"login"`
	User      UserDetails `json:"user"`
	Log       ActivityLog `json:"log"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// RefreshRunRecord represents a row from the gitstreak_refresh_runs table.
type RefreshRunRecord struct {
	RunID         string
	Login         string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	Status        string
	DaysFetched   int32
	ConfigParams  *string
}

// StreakSnapshotRecord represents a row from the gitstreak_streak_snapshots table.
type StreakSnapshotRecord struct {
	RunID              string
	Login              string
	SnapshotTime       time.Time
	TotalContributions int32
	FirstContribution  string
	CurrentLength      int32
	CurrentStart       string
	CurrentEnd         string
	LongestLength      int32
	LongestStart       string
	LongestEnd         string
}

// NewStreakSnapshot flattens stats into a snapshot row.
func NewStreakSnapshot(runID, login string, at time.Time, stats StreakStats) StreakSnapshotRecord {
	return StreakSnapshotRecord{
		RunID:              runID,
		Login:              login,
		SnapshotTime:       at,
		TotalContributions: int32(stats.TotalContributions),
		FirstContribution:  stats.FirstContribution,
		CurrentLength:      int32(stats.CurrentStreak.Length),
		CurrentStart:       stats.CurrentStreak.Start,
		CurrentEnd:         stats.CurrentStreak.End,
		LongestLength:      int32(stats.LongestStreak.Length),
		LongestStart:       stats.LongestStreak.Start,
		LongestEnd:         stats.LongestStreak.End,
	}
}
