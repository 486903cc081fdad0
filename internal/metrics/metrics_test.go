package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/huangsam/gitstreak/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, c *Collector) string {
	t.Helper()
	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	return rr.Body.String()
}

func TestCollectorRecordsStats(t *testing.T) {
	collector, err := NewCollector()
	require.NoError(t, err)

	collector.ObserveStats("octocat", schema.StreakStats{
		TotalContributions: 321,
		CurrentStreak:      schema.StreakSpan{Length: 4},
		LongestStreak:      schema.StreakSpan{Length: 40},
	})

	body := scrape(t, collector)
	assert.Contains(t, body, `gitstreak_current_streak_days{login="octocat"} 4`)
	assert.Contains(t, body, `gitstreak_longest_streak_days{login="octocat"} 40`)
	assert.Contains(t, body, `gitstreak_total_contributions{login="octocat"} 321`)
}

func TestCollectorLatestStatsWin(t *testing.T) {
	collector, err := NewCollector()
	require.NoError(t, err)

	collector.ObserveStats("octocat", schema.StreakStats{CurrentStreak: schema.StreakSpan{Length: 4}})
	collector.ObserveStats("octocat", schema.StreakStats{CurrentStreak: schema.StreakSpan{Length: 0}})

	assert.Contains(t, scrape(t, collector), `gitstreak_current_streak_days{login="octocat"} 0`)
}

func TestCollectorCountsRefreshes(t *testing.T) {
	collector, err := NewCollector()
	require.NoError(t, err)

	collector.ObserveRefresh(schema.RunSucceeded, 0.2)
	collector.ObserveRefresh(schema.RunSucceeded, 0.3)
	collector.ObserveRefresh(schema.RunFailed, 1.5)

	body := scrape(t, collector)
	assert.Contains(t, body, `gitstreak_refresh_total{status="succeeded"} 2`)
	assert.Contains(t, body, `gitstreak_refresh_total{status="failed"} 1`)
	assert.Contains(t, body, `gitstreak_refresh_duration_seconds_count 3`)
}

func TestCollectorRecordsUnreadNotifications(t *testing.T) {
	collector, err := NewCollector()
	require.NoError(t, err)

	collector.ObserveNotifications("octocat", 5)
	collector.ObserveNotifications("octocat", 2)

	assert.Contains(t, scrape(t, collector), `gitstreak_unread_notifications{login="octocat"} 2`)
}
