// Package core has core logic for refreshing, analyzing and reporting contribution streaks.
package core

import (
	"context"
	"errors"
	"time"

	"github.com/huangsam/gitstreak/core/streak"
	"github.com/huangsam/gitstreak/internal/contract"
	"github.com/huangsam/gitstreak/internal/outwriter"
	"github.com/huangsam/gitstreak/schema"
)

// ExecutorFunc defines the function signature for commands that refresh an account.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, client contract.GraphClient, mgr contract.CacheManager) error

// ErrHistoryDisabled is returned by history operations when no history store is configured.
var ErrHistoryDisabled = errors.New("history store is disabled (set --history-backend)")

// GetStreakResults refreshes the log of cfg.Login and analyzes it.
// An account with no recorded days yields zero-length streaks rather than an error.
func GetStreakResults(ctx context.Context, cfg *contract.Config, client contract.GraphClient, mgr contract.CacheManager) (schema.StreakResult, error) {
	outcome, err := refreshLog(ctx, cfg, client, mgr)
	if err != nil {
		return schema.StreakResult{}, err
	}

	stats := streak.AnalyzeOrZero(outcome.stored.Log, cfg.ExcludeDays)
	recordSnapshot(withRunID(ctx, outcome.runID), mgr.GetHistoryStore(), cfg.Login, stats)

	user := outcome.stored.User
	if user.Login == "" {
		user.Login = cfg.Login
	}
	return schema.StreakResult{
		User:        user,
		Stats:       stats,
		Days:        len(outcome.stored.Log),
		LastUpdated: outcome.stored.UpdatedAt,
		Refreshed:   outcome.refreshed,
	}, nil
}

// GetActivityLog refreshes the log of cfg.Login and expands it into daily rows from cfg.Since.
func GetActivityLog(ctx context.Context, cfg *contract.Config, client contract.GraphClient, mgr contract.CacheManager) ([]schema.DailyEntry, error) {
	outcome, err := refreshLog(ctx, cfg, client, mgr)
	if err != nil {
		return nil, err
	}
	return streak.DailyEntries(streak.Since(outcome.stored.Log, cfg.Since), cfg.ExcludeDays), nil
}

// recordSnapshot stores stats under the run that produced them.
func recordSnapshot(ctx context.Context, history contract.HistoryStore, login string, stats schema.StreakStats) {
	runID, ok := getRunID(ctx)
	if !ok || history == nil {
		return
	}
	if err := history.RecordSnapshot(schema.NewStreakSnapshot(runID, login, timeNow(), stats)); err != nil {
		contract.LogWarn("Failed to record streak snapshot", err)
	}
}

// ExecuteStats refreshes an account and prints its streak summary.
// It serves as the main entry point for the 'stats' command.
func ExecuteStats(ctx context.Context, cfg *contract.Config, client contract.GraphClient, mgr contract.CacheManager) error {
	start := time.Now()
	result, err := GetStreakResults(ctx, cfg, client, mgr)
	if err != nil {
		return err
	}
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteStats(result, cfg, duration)
}

// ExecuteLog refreshes an account and prints its daily contributions.
// It serves as the main entry point for the 'log' command.
func ExecuteLog(ctx context.Context, cfg *contract.Config, client contract.GraphClient, mgr contract.CacheManager) error {
	entries, err := GetActivityLog(ctx, cfg, client, mgr)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteLog(cfg.Login, entries, cfg)
}

// ExecuteHistory prints the latest recorded snapshots of an account without refreshing it.
func ExecuteHistory(cfg *contract.Config, mgr contract.CacheManager, limit int) error {
	if err := contract.ValidateLogin(cfg.Login); err != nil {
		return err
	}
	history := mgr.GetHistoryStore()
	if history == nil {
		return ErrHistoryDisabled
	}
	snapshots, err := history.GetSnapshots(cfg.Login, limit)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteHistory(cfg.Login, snapshots, cfg)
}
