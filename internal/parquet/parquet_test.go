package parquet

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/gitstreak/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRuns() []RefreshRun {
	now := time.Now().UTC()
	end := now.Add(2 * time.Second)
	duration := int32(2000)
	params := `{"login":"octocat","force":false}`
	return []RefreshRun{
		{
			RunID:         "2f1c7f4e-7a55-4b8e-9d7b-0e2c1f6c9a01",
			Login:         "octocat",
			StartTime:     now,
			EndTime:       &end,
			RunDurationMs: &duration,
			Status:        string(schema.RunSucceeded),
			DaysFetched:   366,
			ConfigParams:  &params,
		},
		{
			RunID:     "5d0e3b7a-1c2d-4e5f-8a9b-0c1d2e3f4a5b",
			Login:     "hubot",
			StartTime: now.Add(-time.Hour),
			Status:    string(schema.RunRunning), // nullable fields left empty
		},
	}
}

func readAll[T any](t *testing.T, r io.ReaderAt) []T {
	t.Helper()
	reader := parquet.NewGenericReader[T](r)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	return rows[:n]
}

func TestRefreshRunStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(RefreshRun))
	for _, col := range []string{"run_id", "login", "start_time", "end_time", "run_duration_ms", "status", "days_fetched", "config_params"} {
		_, ok := s.Lookup(col)
		assert.True(t, ok, "column %s should exist in schema", col)
	}
}

func TestStreakSnapshotStructTags(t *testing.T) {
	s := parquet.SchemaOf(new(StreakSnapshot))
	for _, col := range []string{
		"run_id", "login", "snapshot_time", "total_contributions", "first_contribution",
		"current_length", "current_start", "current_end", "longest_length", "longest_start", "longest_end",
	} {
		_, ok := s.Lookup(col)
		assert.True(t, ok, "column %s should exist in schema", col)
	}
}

func TestWriteRefreshRunsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "runs.parquet")
	data := sampleRuns()
	require.NoError(t, WriteRefreshRunsParquet(data, outputPath))

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	got := readAll[RefreshRun](t, file)
	require.Len(t, got, len(data))
	for i := range data {
		assert.Equal(t, data[i].RunID, got[i].RunID)
		assert.Equal(t, data[i].Status, got[i].Status)
		assert.Equal(t, data[i].DaysFetched, got[i].DaysFetched)
		if data[i].EndTime == nil {
			assert.Nil(t, got[i].EndTime)
			assert.Nil(t, got[i].RunDurationMs)
			assert.Nil(t, got[i].ConfigParams)
		} else {
			require.NotNil(t, got[i].EndTime)
			assert.WithinDuration(t, *data[i].EndTime, *got[i].EndTime, time.Microsecond)
			assert.Equal(t, *data[i].RunDurationMs, *got[i].RunDurationMs)
		}
	}
}

func TestWriteStreakSnapshotsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "snapshots.parquet")
	stats := schema.StreakStats{
		TotalContributions: 42,
		FirstContribution:  "2024-01-01",
		CurrentStreak:      schema.StreakSpan{Start: "2024-03-01", End: "2024-03-05", Length: 5},
		LongestStreak:      schema.StreakSpan{Start: "2024-01-01", End: "2024-01-20", Length: 20},
	}
	records := []schema.StreakSnapshotRecord{schema.NewStreakSnapshot("run-1", "octocat", time.Now(), stats)}
	data := ConvertStreakSnapshotRecords(records)
	require.NoError(t, WriteStreakSnapshotsParquet(data, outputPath))

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	got := readAll[StreakSnapshot](t, file)
	require.Len(t, got, 1)
	assert.Equal(t, int32(5), got[0].CurrentLength)
	assert.Equal(t, int32(20), got[0].LongestLength)
	assert.Equal(t, "2024-01-20", got[0].LongestEnd)
}

func TestWriteDailyContributions(t *testing.T) {
	entries := []schema.DailyEntry{
		{Date: "2024-01-06", Weekday: "Sat", Count: 2, Excluded: true},
		{Date: "2024-01-07", Weekday: "Sun", Count: 0, Excluded: true},
		{Date: "2024-01-08", Weekday: "Mon", Count: 5},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteDailyContributions(&buf, ConvertDailyEntries("octocat", entries)))

	got := readAll[DailyContribution](t, bytes.NewReader(buf.Bytes()))
	require.Len(t, got, 3)
	assert.Equal(t, DailyContribution{Login: "octocat", Date: "2024-01-08", Weekday: "Mon", Count: 5}, got[2])
	assert.True(t, got[0].Excluded)
}

func TestConvertRefreshRunRecords(t *testing.T) {
	end := time.Now()
	duration := int32(15)
	records := []schema.RefreshRunRecord{
		{RunID: "a", Login: "octocat", StartTime: end.Add(-time.Second), EndTime: &end, RunDurationMs: &duration, Status: "succeeded", DaysFetched: 3},
	}
	got := ConvertRefreshRunRecords(records)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].RunID)
	assert.Equal(t, &end, got[0].EndTime)
	assert.Equal(t, int32(3), got[0].DaysFetched)

	assert.Empty(t, ConvertRefreshRunRecords(nil))
}
