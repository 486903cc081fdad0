package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/huangsam/gitstreak/internal/contract"
	"github.com/huangsam/gitstreak/internal/metrics"
	"github.com/huangsam/gitstreak/internal/notify"
	"github.com/huangsam/gitstreak/schema"
)

// watcher refreshes one account on every scheduler tick.
type watcher struct {
	cfg       *contract.Config
	client    contract.GraphClient
	mgr       contract.CacheManager
	collector *metrics.Collector
	reminder  *notify.Reminder
	notifier  notify.Notifier
}

// tick refreshes the account, updates metrics and sends a reminder when one is due.
func (w *watcher) tick(ctx context.Context) {
	start := timeNow()
	result, err := GetStreakResults(WithSuppressHeader(ctx), w.cfg, w.client, w.mgr)
	elapsed := timeNow().Sub(start)

	switch {
	case err != nil:
		w.collector.ObserveRefresh(schema.RunFailed, elapsed.Seconds())
		contract.LogWarn(fmt.Sprintf("Refresh of %s failed", w.cfg.Login), err)
		return
	case result.Refreshed:
		w.collector.ObserveRefresh(schema.RunSucceeded, elapsed.Seconds())
	default:
		w.collector.ObserveRefresh(schema.RunThrottled, elapsed.Seconds())
	}
	w.collector.ObserveStats(w.cfg.Login, result.Stats)

	if !shouldSuppressHeader(ctx) {
		fmt.Fprintf(os.Stderr, "🔥 %s %s: current streak %d days, longest %d days\n",
			timeNow().Format(contract.DateTimeFormat), w.cfg.Login,
			result.Stats.CurrentStreak.Length, result.Stats.LongestStreak.Length)
	}

	if _, err := w.reminder.Check(ctx, timeNow(), result.Stats); err != nil {
		contract.LogWarn("Failed to send streak reminder", err)
	}
}

// pollInbox checks the notifications inbox and publishes the unread count.
func (w *watcher) pollInbox(ctx context.Context) {
	fresh, unread, err := pollNotifications(ctx, w.cfg.Login, w.client, w.mgr.GetLogStore(), w.notifier)
	if err != nil {
		contract.LogWarn("Notification poll failed", err)
		return
	}
	w.collector.ObserveNotifications(w.cfg.Login, unread)
	if len(fresh) > 0 && !shouldSuppressHeader(ctx) {
		fmt.Fprintf(os.Stderr, "📬 %s %s: %d new notifications, %d unread\n",
			timeNow().Format(contract.DateTimeFormat), w.cfg.Login, len(fresh), unread)
	}
}

// ExecuteWatch refreshes an account on cfg.Schedule until ctx is cancelled.
// It refreshes once immediately, serves Prometheus metrics on cfg.MetricsAddr
// when set, and sends at most one streak reminder per day. With
// cfg.Notifications it also polls the notifications inbox on
// cfg.NotificationSchedule.
func ExecuteWatch(ctx context.Context, cfg *contract.Config, client contract.GraphClient, mgr contract.CacheManager) error {
	if err := contract.ValidateLogin(cfg.Login); err != nil {
		return err
	}

	collector, err := metrics.NewCollector()
	if err != nil {
		return err
	}
	notifier, err := notify.New(cfg)
	if err != nil {
		return err
	}

	w := &watcher{
		cfg:       cfg,
		client:    client,
		mgr:       mgr,
		collector: collector,
		reminder:  notify.NewReminder(notifier, cfg.ReminderHour),
		notifier:  notifier,
	}

	if cfg.MetricsAddr != "" {
		srv := newMetricsServer(cfg.MetricsAddr, collector)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				contract.LogWarn("Metrics server stopped", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		if !shouldSuppressHeader(ctx) {
			fmt.Fprintf(os.Stderr, "📈 Serving metrics on %s/metrics\n", cfg.MetricsAddr)
		}
	}

	scheduler := contract.NewScheduler()
	if _, err := scheduler.AddFunc(cfg.Schedule, func() { w.tick(ctx) }); err != nil {
		return fmt.Errorf("invalid schedule '%s': %w", cfg.Schedule, err)
	}
	if !shouldSuppressHeader(ctx) {
		fmt.Fprintf(os.Stderr, "👀 Watching %s on schedule %q\n", cfg.Login, cfg.Schedule)
	}

	if cfg.Notifications {
		if _, err := scheduler.AddFunc(cfg.NotificationSchedule, func() { w.pollInbox(ctx) }); err != nil {
			return fmt.Errorf("invalid notifications schedule '%s': %w", cfg.NotificationSchedule, err)
		}
		if !shouldSuppressHeader(ctx) {
			fmt.Fprintf(os.Stderr, "📬 Polling notifications on schedule %q\n", cfg.NotificationSchedule)
		}
	}

	w.tick(ctx)
	if cfg.Notifications {
		w.pollInbox(ctx)
	}
	scheduler.Start()
	<-ctx.Done()
	<-scheduler.Stop().Done()
	return nil
}

// newMetricsServer exposes the collector under /metrics.
func newMetricsServer(addr string, collector *metrics.Collector) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
