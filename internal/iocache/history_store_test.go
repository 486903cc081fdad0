package iocache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/gitstreak/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileHistoryStore(t *testing.T) (*HistoryStoreImpl, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "history.db")
	store, err := NewHistoryStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store.(*HistoryStoreImpl), dbPath
}

func sampleStats() schema.StreakStats {
	return schema.StreakStats{
		Mode:               schema.DailyMode,
		TotalContributions: 57,
		FirstContribution:  "2024-01-02",
		CurrentStreak:      schema.StreakSpan{Start: "2024-06-10", End: "2024-06-15", Length: 6},
		LongestStreak:      schema.StreakSpan{Start: "2024-02-01", End: "2024-02-21", Length: 21},
	}
}

func TestHistoryStoreRunLifecycle(t *testing.T) {
	store, _ := newFileHistoryStore(t)
	start := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	runID, err := store.BeginRun("octocat", start, map[string]any{"force": true})
	require.NoError(t, err)
	require.NotEmpty(t, runID)

	require.NoError(t, store.EndRun(runID, start.Add(1500*time.Millisecond), schema.RunSucceeded, 366))

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, runID, run.RunID)
	assert.Equal(t, "octocat", run.Login)
	assert.True(t, start.Equal(run.StartTime))
	require.NotNil(t, run.EndTime)
	require.NotNil(t, run.RunDurationMs)
	assert.Equal(t, int32(1500), *run.RunDurationMs)
	assert.Equal(t, string(schema.RunSucceeded), run.Status)
	assert.Equal(t, int32(366), run.DaysFetched)
	require.NotNil(t, run.ConfigParams)
	assert.JSONEq(t, `{"force":true}`, *run.ConfigParams)
}

func TestHistoryStoreRunningRun(t *testing.T) {
	store, _ := newFileHistoryStore(t)

	_, err := store.BeginRun("octocat", time.Now(), nil)
	require.NoError(t, err)

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, string(schema.RunRunning), runs[0].Status)
	assert.Nil(t, runs[0].EndTime)
	assert.Nil(t, runs[0].RunDurationMs)
}

func TestHistoryStoreEndUnknownRun(t *testing.T) {
	store, _ := newFileHistoryStore(t)

	err := store.EndRun("does-not-exist", time.Now(), schema.RunFailed, 0)
	assert.ErrorContains(t, err, "failed to get start_time")
}

func TestHistoryStoreSnapshots(t *testing.T) {
	store, _ := newFileHistoryStore(t)
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	for i := range 3 {
		at := base.Add(time.Duration(i) * time.Hour)
		runID, err := store.BeginRun("octocat", at, nil)
		require.NoError(t, err)
		stats := sampleStats()
		stats.CurrentStreak.Length = i
		require.NoError(t, store.RecordSnapshot(schema.NewStreakSnapshot(runID, "octocat", at, stats)))
	}
	otherID, err := store.BeginRun("hubot", base, nil)
	require.NoError(t, err)
	require.NoError(t, store.RecordSnapshot(schema.NewStreakSnapshot(otherID, "hubot", base, sampleStats())))

	latest, err := store.GetSnapshots("octocat", 2)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, int32(2), latest[0].CurrentLength, "newest first")
	assert.Equal(t, int32(1), latest[1].CurrentLength)
	assert.Equal(t, int32(21), latest[0].LongestLength)
	assert.Equal(t, "2024-02-21", latest[0].LongestEnd)

	all, err := store.GetAllSnapshots()
	require.NoError(t, err)
	assert.Len(t, all, 4)

	none, err := store.GetSnapshots("ghost", 10)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestHistoryStoreGetStatus(t *testing.T) {
	store, _ := newFileHistoryStore(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Zero(t, status.TotalRuns)
	assert.Contains(t, status.TableSizes, refreshRunsTable)

	older := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.Add(48 * time.Hour)
	_, err = store.BeginRun("octocat", older, nil)
	require.NoError(t, err)
	lastID, err := store.BeginRun("octocat", newer, nil)
	require.NoError(t, err)
	require.NoError(t, store.RecordSnapshot(schema.NewStreakSnapshot(lastID, "octocat", newer, sampleStats())))

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 2, status.TotalRuns)
	assert.Equal(t, lastID, status.LastRunID)
	assert.True(t, newer.Equal(status.LastRunTime))
	assert.True(t, older.Equal(status.OldestRunTime))
	assert.Equal(t, 1, status.TotalSnapshots)
	assert.Equal(t, int64(2), status.TableSizes[refreshRunsTable])
}

func TestHistoryStoreNoneBackend(t *testing.T) {
	store, err := NewHistoryStore(schema.NoneBackend, "")
	require.NoError(t, err)

	runID, err := store.BeginRun("octocat", time.Now(), nil)
	assert.NoError(t, err)
	assert.Empty(t, runID)
	assert.NoError(t, store.EndRun(runID, time.Now(), schema.RunSucceeded, 1))
	assert.NoError(t, store.RecordSnapshot(schema.StreakSnapshotRecord{}))

	runs, err := store.GetAllRuns()
	assert.NoError(t, err)
	assert.Empty(t, runs)

	status, err := store.GetStatus()
	assert.NoError(t, err)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestSQLiteTimesSortLexically(t *testing.T) {
	early := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	late := early.Add(500 * time.Millisecond)
	a := formatTime(early, schema.SQLiteBackend).(string)
	b := formatTime(late, schema.SQLiteBackend).(string)
	assert.Less(t, a, b)
	assert.Len(t, a, len(b))

	native := formatTime(early, schema.PostgreSQLBackend)
	assert.Equal(t, early, native)
}

func TestMigrateHistory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	version, dirty, err := HistoryVersion(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	assert.Zero(t, version)
	assert.False(t, dirty)

	require.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, -1))
	version, _, err = HistoryVersion(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)

	// Already at latest
	require.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, -1))

	require.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, 1))
	version, _, err = HistoryVersion(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	require.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, 0))
	version, _, err = HistoryVersion(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	assert.Zero(t, version)
}

func TestMigrateHistoryOnExistingStore(t *testing.T) {
	store, dbPath := newFileHistoryStore(t)
	runID, err := store.BeginRun("octocat", time.Now(), nil)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, -1))

	reopened, err := NewHistoryStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	runs, err := reopened.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, runID, runs[0].RunID)
}

func TestMigrateHistoryNoneBackend(t *testing.T) {
	assert.Error(t, MigrateHistory(schema.NoneBackend, "", -1))
}

func TestExecuteHistoryExport(t *testing.T) {
	t.Run("requires output file", func(t *testing.T) {
		assert.ErrorContains(t, ExecuteHistoryExport(""), "--output-file")
	})

	t.Run("empty history", func(t *testing.T) {
		resetGlobals(t)
		store, _ := newFileHistoryStore(t)
		Manager.history = store

		err := ExecuteHistoryExport(filepath.Join(t.TempDir(), "out"))
		assert.ErrorContains(t, err, "no refresh history")
	})

	t.Run("writes parquet files", func(t *testing.T) {
		resetGlobals(t)
		store, _ := newFileHistoryStore(t)
		Manager.history = store

		now := time.Now()
		runID, err := store.BeginRun("octocat", now, nil)
		require.NoError(t, err)
		require.NoError(t, store.EndRun(runID, now.Add(time.Second), schema.RunSucceeded, 10))
		require.NoError(t, store.RecordSnapshot(schema.NewStreakSnapshot(runID, "octocat", now, sampleStats())))

		out := filepath.Join(t.TempDir(), "export")
		require.NoError(t, ExecuteHistoryExport(out))
		assert.FileExists(t, out+".refresh_runs.parquet")
		assert.FileExists(t, out+".streak_snapshots.parquet")
	})
}
