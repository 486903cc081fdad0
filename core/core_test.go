package core

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/gitstreak/internal/contract"
	"github.com/huangsam/gitstreak/internal/ghclient"
	"github.com/huangsam/gitstreak/internal/iocache"
	"github.com/huangsam/gitstreak/internal/metrics"
	"github.com/huangsam/gitstreak/internal/notify"
	"github.com/huangsam/gitstreak/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func storedJune(t *testing.T, updatedAt time.Time) contract.LogStore {
	t.Helper()
	store := newMemoryLogStore(t)
	log := make(schema.ActivityLog)
	for d := 1; d <= 15; d++ {
		date := time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC).Format(schema.ISODate)
		log[date] = juneStreak(date)
	}
	require.NoError(t, storeLog(store, schema.StoredLog{
		Login:     "octocat",
		User:      schema.UserDetails{Login: "octocat", Name: "The Octocat"},
		Log:       log,
		UpdatedAt: updatedAt,
	}))
	return store
}

func TestExecuteStats(t *testing.T) {
	setNow(t, fixedNow)
	store := storedJune(t, fixedNow.Add(-time.Minute))

	cfg := testConfig()
	cfg.Output = schema.JSONOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "stats.json")

	err := ExecuteStats(WithSuppressHeader(context.Background()), cfg, &ghclient.MockGraphClient{}, newManager(store, nil))
	require.NoError(t, err)

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.EqualValues(t, 15, doc["days_recorded"])
	assert.Equal(t, false, doc["refreshed"])
}

func TestExecuteLog(t *testing.T) {
	setNow(t, fixedNow)
	store := storedJune(t, fixedNow.Add(-time.Minute))

	cfg := testConfig()
	cfg.Output = schema.CSVOut
	cfg.Since = "2024-06-14"
	cfg.ExcludeDays = schema.NewWeekdaySet("Sat")
	cfg.OutputFile = filepath.Join(t.TempDir(), "log.csv")

	err := ExecuteLog(WithSuppressHeader(context.Background()), cfg, &ghclient.MockGraphClient{}, newManager(store, nil))
	require.NoError(t, err)

	data, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "2024-06-14")
	assert.Contains(t, string(data), "2024-06-15")
	assert.NotContains(t, string(data), "2024-06-13")
}

func TestGetActivityLog(t *testing.T) {
	setNow(t, fixedNow)
	store := storedJune(t, fixedNow.Add(-time.Minute))

	cfg := testConfig()
	cfg.Since = "2024-06-14"
	cfg.ExcludeDays = schema.NewWeekdaySet("Sat")
	entries, err := GetActivityLog(WithSuppressHeader(context.Background()), cfg, &ghclient.MockGraphClient{}, newManager(store, nil))
	require.NoError(t, err)

	assert.Equal(t, []schema.DailyEntry{
		{Date: "2024-06-14", Weekday: "Fri", Count: 1},
		{Date: "2024-06-15", Weekday: "Sat", Count: 1, Excluded: true},
	}, entries)
}

func TestExecuteHistory(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		err := ExecuteHistory(testConfig(), newManager(nil, nil), 10)
		assert.ErrorIs(t, err, ErrHistoryDisabled)
	})

	t.Run("prints snapshots", func(t *testing.T) {
		history := &iocache.MockHistoryStore{}
		history.On("GetSnapshots", "octocat", 5).Return([]schema.StreakSnapshotRecord{
			schema.NewStreakSnapshot("run-9", "octocat", fixedNow, schema.StreakStats{TotalContributions: 4}),
		}, nil)

		cfg := testConfig()
		cfg.Output = schema.CSVOut
		cfg.OutputFile = filepath.Join(t.TempDir(), "history.csv")
		require.NoError(t, ExecuteHistory(cfg, newManager(nil, history), 5))

		data, err := os.ReadFile(cfg.OutputFile)
		require.NoError(t, err)
		assert.Contains(t, string(data), "run-9")
		history.AssertExpectations(t)
	})

	t.Run("store error", func(t *testing.T) {
		history := &iocache.MockHistoryStore{}
		history.On("GetSnapshots", "octocat", 5).Return(nil, errors.New("locked"))
		assert.ErrorContains(t, ExecuteHistory(testConfig(), newManager(nil, history), 5), "locked")
	})
}

func TestLoadStoredLog(t *testing.T) {
	t.Run("nil store", func(t *testing.T) {
		assert.Nil(t, loadStoredLog(nil, "octocat"))
	})

	t.Run("version mismatch", func(t *testing.T) {
		store := &iocache.MockLogStore{}
		store.On("Get", "log:octocat").Return([]byte(`{"login":"octocat"}`), currentLogVersion+1, int64(0), nil)
		assert.Nil(t, loadStoredLog(store, "octocat"))
	})

	t.Run("corrupt entry", func(t *testing.T) {
		store := &iocache.MockLogStore{}
		store.On("Get", "log:octocat").Return([]byte(`{`), currentLogVersion, int64(0), nil)
		assert.Nil(t, loadStoredLog(store, "octocat"))
	})

	t.Run("missing log map", func(t *testing.T) {
		store := &iocache.MockLogStore{}
		store.On("Get", "log:octocat").Return([]byte(`{"login":"octocat"}`), currentLogVersion, int64(0), nil)
		stored := loadStoredLog(store, "octocat")
		require.NotNil(t, stored)
		assert.NotNil(t, stored.Log)
	})
}

func TestIsFresh(t *testing.T) {
	assert.False(t, isFresh(nil, time.Hour, fixedNow))
	assert.True(t, isFresh(&schema.StoredLog{UpdatedAt: fixedNow.Add(-time.Minute)}, 5*time.Minute, fixedNow))
	assert.False(t, isFresh(&schema.StoredLog{UpdatedAt: fixedNow.Add(-5 * time.Minute)}, 5*time.Minute, fixedNow))
}

// recordingNotifier captures reminders.
type recordingNotifier struct {
	messages []notify.Message
}

func (r *recordingNotifier) Notify(_ context.Context, msg notify.Message) error {
	r.messages = append(r.messages, msg)
	return nil
}

func scrape(t *testing.T, collector *metrics.Collector) string {
	t.Helper()
	srv := httptest.NewServer(collector.Handler())
	defer srv.Close()
	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestWatcherTick(t *testing.T) {
	setNow(t, fixedNow)

	store := newMemoryLogStore(t)
	require.NoError(t, storeLog(store, schema.StoredLog{
		Login:     "octocat",
		Log:       schema.ActivityLog{"2024-06-13": 1, "2024-06-14": 3, "2024-06-15": 0},
		UpdatedAt: fixedNow.Add(-time.Minute),
	}))

	collector, err := metrics.NewCollector()
	require.NoError(t, err)
	notifier := &recordingNotifier{}
	w := &watcher{
		cfg:       testConfig(),
		client:    &ghclient.MockGraphClient{},
		mgr:       newManager(store, nil),
		collector: collector,
		reminder:  notify.NewReminder(notifier, 18),
	}

	ctx := WithSuppressHeader(context.Background())
	w.tick(ctx)
	w.tick(ctx)

	require.Len(t, notifier.messages, 1, "one reminder per day")
	assert.Equal(t, notify.ReminderTitle, notifier.messages[0].Title)
	assert.Contains(t, notifier.messages[0].Body, "Keep your 2 day streak going.")

	body := scrape(t, collector)
	assert.Contains(t, body, `gitstreak_current_streak_days{login="octocat"} 2`)
	assert.Contains(t, body, `gitstreak_total_contributions{login="octocat"} 4`)
	assert.Contains(t, body, `gitstreak_refresh_total{status="throttled"} 2`)
}

func TestWatcherTickFailure(t *testing.T) {
	setNow(t, fixedNow)

	client := &ghclient.MockGraphClient{}
	client.On("FetchUser", mock.Anything, "octocat").Return(schema.UserDetails{}, ghclient.ErrBadCredentials)

	collector, err := metrics.NewCollector()
	require.NoError(t, err)
	notifier := &recordingNotifier{}
	w := &watcher{
		cfg:       testConfig(),
		client:    client,
		mgr:       newManager(nil, nil),
		collector: collector,
		reminder:  notify.NewReminder(notifier, 0),
	}
	w.tick(WithSuppressHeader(context.Background()))

	assert.Empty(t, notifier.messages)
	assert.Contains(t, scrape(t, collector), `gitstreak_refresh_total{status="failed"} 1`)
}

func TestExecuteWatch(t *testing.T) {
	setNow(t, fixedNow)

	t.Run("stops when cancelled", func(t *testing.T) {
		cfg := testConfig()
		cfg.Schedule = contract.DefaultSchedule
		cfg.Reminder = schema.NoNotifier

		ctx, cancel := context.WithCancel(WithSuppressHeader(context.Background()))
		cancel()
		err := ExecuteWatch(ctx, cfg, &ghclient.MockGraphClient{}, newManager(storedJune(t, fixedNow.Add(-time.Minute)), nil))
		assert.NoError(t, err)
	})

	t.Run("polls the inbox when enabled", func(t *testing.T) {
		cfg := testConfig()
		cfg.Schedule = contract.DefaultSchedule
		cfg.Reminder = schema.NoNotifier
		cfg.Notifications = true
		cfg.NotificationSchedule = contract.DefaultNotificationSchedule

		client := &ghclient.MockGraphClient{}
		client.On("FetchNotifications", mock.Anything, time.Time{}).Return([]schema.Notification{}, nil).Once()

		ctx, cancel := context.WithCancel(WithSuppressHeader(context.Background()))
		cancel()
		err := ExecuteWatch(ctx, cfg, client, newManager(storedJune(t, fixedNow.Add(-time.Minute)), nil))
		assert.NoError(t, err)
		client.AssertExpectations(t)
	})

	t.Run("invalid notifications schedule", func(t *testing.T) {
		cfg := testConfig()
		cfg.Schedule = contract.DefaultSchedule
		cfg.Reminder = schema.NoNotifier
		cfg.Notifications = true
		cfg.NotificationSchedule = "whenever"
		err := ExecuteWatch(WithSuppressHeader(context.Background()), cfg, &ghclient.MockGraphClient{}, newManager(nil, nil))
		assert.ErrorContains(t, err, "invalid notifications schedule")
	})

	t.Run("invalid schedule", func(t *testing.T) {
		cfg := testConfig()
		cfg.Schedule = "every now and then"
		cfg.Reminder = schema.NoNotifier
		err := ExecuteWatch(WithSuppressHeader(context.Background()), cfg, &ghclient.MockGraphClient{}, newManager(nil, nil))
		assert.ErrorContains(t, err, "invalid schedule")
	})

	t.Run("invalid notifier", func(t *testing.T) {
		cfg := testConfig()
		cfg.Schedule = contract.DefaultSchedule
		cfg.Reminder = schema.TelegramNotifier
		err := ExecuteWatch(WithSuppressHeader(context.Background()), cfg, &ghclient.MockGraphClient{}, newManager(nil, nil))
		assert.Error(t, err)
	})
}

func TestNewMetricsServer(t *testing.T) {
	collector, err := metrics.NewCollector()
	require.NoError(t, err)
	collector.ObserveStats("octocat", schema.StreakStats{CurrentStreak: schema.StreakSpan{Length: 3}})

	srv := newMetricsServer(":0", collector)
	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `gitstreak_current_streak_days{login="octocat"} 3`)
}
