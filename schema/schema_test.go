package schema

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityLogHelpers(t *testing.T) {
	log := ActivityLog{"2024-01-03": 2, "2024-01-01": 1, "2024-01-02": 0}

	assert.Equal(t, []string{"2024-01-01", "2024-01-02", "2024-01-03"}, log.Dates())
	assert.Equal(t, 3, log.Total())
	assert.Equal(t, "2024-01-01", log.First())
	assert.Equal(t, "2024-01-03", log.Last())

	clone := log.Clone()
	clone["2024-01-04"] = 9
	assert.Len(t, log, 3)
	assert.Len(t, clone, 4)
}

func TestActivityLogEmpty(t *testing.T) {
	var log ActivityLog
	assert.Empty(t, log.Dates())
	assert.Equal(t, 0, log.Total())
	assert.Equal(t, "", log.First())
	assert.Equal(t, "", log.Last())
}

func TestActivityGraphAccessors(t *testing.T) {
	t.Run("well formed", func(t *testing.T) {
		g := NewActivityGraph("2015-06-01T00:00:00Z", ContributionWeek{
			ContributionDays: []ContributionDay{{Date: "2024-01-01", ContributionCount: 1}},
		})
		require.Len(t, g.Weeks(), 1)
		assert.Equal(t, "2015-06-01T00:00:00Z", g.CreatedAt())
		assert.Nil(t, g.ContributionYears())
	})

	t.Run("missing levels", func(t *testing.T) {
		graphs := []ActivityGraph{
			{},
			{Data: &GraphData{}},
			{Data: &GraphData{User: &GraphUser{}}},
			{Data: &GraphData{User: &GraphUser{ContributionsCollection: &ContributionsCollection{}}}},
		}
		for _, g := range graphs {
			assert.Nil(t, g.Weeks())
		}
		assert.Equal(t, "", graphs[0].CreatedAt())
	})

	t.Run("decodes graphql payload", func(t *testing.T) {
		payload := `{"data":{"user":{"createdAt":"2019-02-03T10:00:00Z","contributionsCollection":{
			"contributionYears":[2024,2023],
			"contributionCalendar":{"weeks":[{"contributionDays":[{"contributionCount":4,"date":"2024-05-06"}]}]}}}}}`
		var g ActivityGraph
		require.NoError(t, json.Unmarshal([]byte(payload), &g))
		assert.Equal(t, []int{2024, 2023}, g.ContributionYears())
		require.Len(t, g.Weeks(), 1)
		assert.Equal(t, ContributionDay{ContributionCount: 4, Date: "2024-05-06"}, g.Weeks()[0].ContributionDays[0])
	})
}

func TestWeekdaySetNames(t *testing.T) {
	set := NewWeekdaySet("Sat", "Sun", "Wed")
	assert.Equal(t, []string{"Sun", "Wed", "Sat"}, set.Names())
	assert.True(t, set.Contains("Wed"))
	assert.False(t, set.Contains("Mon"))
	assert.Empty(t, WeekdaySet{}.Names())
}

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		length   int
		expected string
	}{
		{0, ColdValue},
		{1, WarmValue},
		{6, WarmValue},
		{7, HotValue},
		{29, HotValue},
		{30, BlazingValue},
		{365, BlazingValue},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, GetPlainLabel(tt.length), "length %d", tt.length)
	}
}

func TestEnrichStats(t *testing.T) {
	stats := StreakStats{
		Mode:          DailyMode,
		CurrentStreak: StreakSpan{Start: "2024-01-01", End: "2024-01-08", Length: 8},
		LongestStreak: StreakSpan{Start: "2023-01-01", End: "2023-02-10", Length: 41},
	}
	enriched := EnrichStats(UserDetails{Login: "octocat"}, stats)
	assert.Equal(t, HotValue, enriched.CurrentLabel)
	assert.Equal(t, BlazingValue, enriched.LongestLabel)
	assert.Equal(t, "octocat", enriched.User.DisplayName())
}

func TestNewStreakSnapshot(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	stats := StreakStats{
		TotalContributions: 120,
		FirstContribution:  "2020-01-01",
		CurrentStreak:      StreakSpan{Start: "2024-02-20", End: "2024-03-01", Length: 11},
		LongestStreak:      StreakSpan{Start: "2022-01-01", End: "2022-03-01", Length: 60},
	}
	snap := NewStreakSnapshot("run-1", "octocat", at, stats)
	assert.Equal(t, int32(120), snap.TotalContributions)
	assert.Equal(t, int32(11), snap.CurrentLength)
	assert.Equal(t, "2022-03-01", snap.LongestEnd)
	assert.Equal(t, at, snap.SnapshotTime)
}

func TestNewestNotification(t *testing.T) {
	_, ok := NewestNotification(nil)
	assert.False(t, ok)

	base := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	newest, ok := NewestNotification([]Notification{
		{ID: "1", UpdatedAt: base},
		{ID: "2", UpdatedAt: base.Add(time.Hour)},
		{ID: "3", UpdatedAt: base.Add(time.Minute)},
	})
	require.True(t, ok)
	assert.Equal(t, "2", newest.ID)
}

func TestNotificationDecodesGitHubPayload(t *testing.T) {
	var n Notification
	require.NoError(t, json.Unmarshal([]byte(`{"id":"42","unread":true,"reason":"review_requested",
		"updated_at":"2024-06-15T10:00:00Z","subject":{"title":"Bump deps","type":"PullRequest"},
		"repository":{"full_name":"octo/hello"}}`), &n))
	assert.Equal(t, "42", n.ID)
	assert.Equal(t, "review_requested", n.Reason)
	assert.Equal(t, "PullRequest", n.Subject.Type)
	assert.Equal(t, "octo/hello", n.Repository.FullName)
}
