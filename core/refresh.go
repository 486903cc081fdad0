package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"sync"
	"time"

	"github.com/huangsam/gitstreak/core/streak"
	"github.com/huangsam/gitstreak/internal/contract"
	"github.com/huangsam/gitstreak/internal/ghclient"
	"github.com/huangsam/gitstreak/schema"
)

// timeNow is swapped in tests.
var timeNow = time.Now

// yearWindow is one contribution query. GitHub rejects windows over a year.
type yearWindow struct {
	Year     int
	From, To time.Time
}

// yearGraph is the outcome of fetching one window.
type yearGraph struct {
	year  int
	graph schema.ActivityGraph
	err   error
}

// refreshOutcome is the log a refresh settled on.
type refreshOutcome struct {
	stored      schema.StoredLog
	refreshed   bool
	daysFetched int
	runID       string
}

// refreshLog loads the persisted log of cfg.Login and brings it up to date.
//
// A log younger than cfg.RefreshInterval is returned as is unless cfg.Force
// is set. Without a persisted log every contribution year is fetched;
// otherwise only the days since the last persisted date are. When GitHub
// cannot be reached the persisted log is served instead, except for
// credential and unknown-user errors which are returned.
func refreshLog(ctx context.Context, cfg *contract.Config, client contract.GraphClient, mgr contract.CacheManager) (*refreshOutcome, error) {
	if err := contract.ValidateLogin(cfg.Login); err != nil {
		return nil, err
	}

	now := timeNow()
	history := mgr.GetHistoryStore()
	stored := loadStoredLog(mgr.GetLogStore(), cfg.Login)

	if !cfg.Force && isFresh(stored, cfg.RefreshInterval, now) {
		if !shouldSuppressHeader(ctx) {
			fmt.Fprintf(os.Stderr, "⏳ Using stored log of %s, refreshed %s ago\n",
				cfg.Login, now.Sub(stored.UpdatedAt).Round(time.Second))
		}
		if runID := beginRun(history, cfg, now); runID != "" {
			endRun(history, runID, schema.RunThrottled, 0)
		}
		return &refreshOutcome{stored: *stored}, nil
	}

	runID := beginRun(history, cfg, now)
	fresh, user, err := fetchLog(ctx, cfg, client, stored, now)
	if err != nil {
		endRun(history, runID, schema.RunFailed, 0)
		if stored == nil || isFatalFetchError(err) {
			return nil, err
		}
		contract.LogWarn(fmt.Sprintf("Serving stored log of %s", cfg.Login), err)
		return &refreshOutcome{stored: *stored}, nil
	}

	merged := fresh
	if stored != nil {
		merged = streak.MergeLogs(stored.Log, fresh)
	}
	outcome := &refreshOutcome{
		stored: schema.StoredLog{
			Login:     cfg.Login,
			User:      user,
			Log:       merged,
			UpdatedAt: now,
		},
		refreshed:   true,
		daysFetched: len(fresh),
		runID:       runID,
	}
	if err := storeLog(mgr.GetLogStore(), outcome.stored); err != nil {
		contract.LogWarn("Failed to persist activity log", err)
	}
	endRun(history, runID, schema.RunSucceeded, len(fresh))
	return outcome, nil
}

// fetchLog retrieves the profile and the missing part of the contribution log.
func fetchLog(ctx context.Context, cfg *contract.Config, client contract.GraphClient, stored *schema.StoredLog, now time.Time) (schema.ActivityLog, schema.UserDetails, error) {
	user, err := client.FetchUser(ctx, cfg.Login)
	if err != nil {
		return nil, schema.UserDetails{}, err
	}

	if stored != nil && len(stored.Log) > 0 {
		windows := incrementalWindows(stored.Log.Last(), now)
		if !shouldSuppressHeader(ctx) {
			fmt.Fprintf(os.Stderr, "🔄 Refreshing %s since %s\n", cfg.Login, stored.Log.Last())
		}
		graphs, err := fetchWindows(ctx, cfg, client, windows)
		if err != nil {
			return nil, schema.UserDetails{}, err
		}
		return streak.MergeGraphs(graphs, now), user, nil
	}

	// The current year comes first since it carries the account creation date.
	current := yearWindowFor(now.Year(), now)
	currentGraph, err := client.FetchContributionGraph(ctx, cfg.Login, current.From, current.To)
	if err != nil {
		return nil, schema.UserDetails{}, err
	}

	years := planFullYears(currentGraph, now)
	if !shouldSuppressHeader(ctx) {
		fmt.Fprintf(os.Stderr, "🔎 Fetching %d years of contributions for %s\n", len(years)+1, cfg.Login)
	}
	windows := make([]yearWindow, 0, len(years))
	for _, y := range years {
		windows = append(windows, yearWindowFor(y, now))
	}
	graphs, err := fetchWindows(ctx, cfg, client, windows)
	if err != nil {
		return nil, schema.UserDetails{}, err
	}
	graphs[now.Year()] = currentGraph
	return streak.MergeGraphs(graphs, now), user, nil
}

// planFullYears lists the past years to fetch for an account with no stored log.
// It covers the creation year (no earlier than 2005) through last year, plus
// the first contribution year when it predates 2005.
func planFullYears(current schema.ActivityGraph, now time.Time) []int {
	startYear := now.Year()
	if created, err := time.Parse(time.RFC3339, current.CreatedAt()); err == nil {
		startYear = created.Year()
	}
	startYear = max(startYear, contract.FirstContributionYear)

	var years []int
	if contributed := current.ContributionYears(); len(contributed) > 0 {
		if first := slices.Min(contributed); first < contract.FirstContributionYear {
			years = append(years, first)
		}
	}
	for y := startYear; y < now.Year(); y++ {
		years = append(years, y)
	}
	return years
}

// yearWindowFor spans a calendar year in UTC, ending no later than now.
func yearWindowFor(year int, now time.Time) yearWindow {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 23, 59, 59, 0, time.UTC)
	if now.Before(to) {
		to = now.UTC()
	}
	return yearWindow{Year: year, From: from, To: to}
}

// incrementalWindows covers the days from lastDate through now, split at year boundaries.
// The last persisted date is fetched again since its count may have grown.
func incrementalWindows(lastDate string, now time.Time) []yearWindow {
	now = now.UTC()
	from, err := time.Parse(schema.ISODate, lastDate)
	if err != nil || from.After(now) {
		from = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}

	var windows []yearWindow
	for y := from.Year(); y <= now.Year(); y++ {
		w := yearWindowFor(y, now)
		if y == from.Year() {
			w.From = from
		}
		windows = append(windows, w)
	}
	return windows
}

// fetchWindows fetches every window in parallel using a worker pool of cfg.Workers.
// All failures are joined; the graphs of successful windows are returned keyed by year.
func fetchWindows(ctx context.Context, cfg *contract.Config, client contract.GraphClient, windows []yearWindow) (map[int]schema.ActivityGraph, error) {
	windowCh := make(chan yearWindow, len(windows))
	graphCh := make(chan yearGraph, len(windows))
	var wg sync.WaitGroup

	for range max(cfg.Workers, 1) {
		wg.Go(func() {
			for w := range windowCh {
				graph, err := client.FetchContributionGraph(ctx, cfg.Login, w.From, w.To)
				graphCh <- yearGraph{year: w.Year, graph: graph, err: err}
			}
		})
	}

	for _, w := range windows {
		windowCh <- w
	}
	close(windowCh)

	wg.Wait()
	close(graphCh)

	graphs := make(map[int]schema.ActivityGraph, len(windows))
	var errs []error
	for r := range graphCh {
		if r.err != nil {
			errs = append(errs, fmt.Errorf("year %d: %w", r.year, r.err))
			continue
		}
		graphs[r.year] = r.graph
	}
	return graphs, errors.Join(errs...)
}

// isFatalFetchError reports errors that a stored log must not mask.
func isFatalFetchError(err error) bool {
	return errors.Is(err, ghclient.ErrBadCredentials) ||
		errors.Is(err, ghclient.ErrUserNotFound) ||
		errors.Is(err, ghclient.ErrMissingToken)
}

// beginRun records the start of a refresh. It returns "" when history is disabled or failing.
func beginRun(history contract.HistoryStore, cfg *contract.Config, now time.Time) string {
	if history == nil {
		return ""
	}
	runID, err := history.BeginRun(cfg.Login, now, map[string]any{
		"force":            cfg.Force,
		"workers":          cfg.Workers,
		"exclude_days":     cfg.ExcludeDays.Names(),
		"refresh_interval": cfg.RefreshInterval.String(),
	})
	if err != nil {
		contract.LogWarn("Failed to begin refresh run", err)
		return ""
	}
	return runID
}

func endRun(history contract.HistoryStore, runID string, status schema.RunStatus, daysFetched int) {
	if history == nil || runID == "" {
		return
	}
	if err := history.EndRun(runID, timeNow(), status, daysFetched); err != nil {
		contract.LogWarn("Failed to end refresh run", err)
	}
}
