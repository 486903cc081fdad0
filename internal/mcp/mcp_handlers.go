package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/gitstreak/core"
	"github.com/huangsam/gitstreak/internal/contract"
	"github.com/huangsam/gitstreak/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// defaultHistoryLimit is the number of snapshots returned when no limit is given.
const defaultHistoryLimit = 30

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	client  contract.GraphClient
	mgr     contract.CacheManager
}

// streakStatsResponse is the JSON payload of get_streak_stats.
type streakStatsResponse struct {
	schema.EnrichedStreakStats
	DaysRecorded int       `json:"days_recorded"`
	LastUpdated  time.Time `json:"last_updated"`
	Refreshed    bool      `json:"refreshed"`
}

func (h *toolHandler) handleGetStreakStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	login := request.GetString("login", "")
	exclude := request.GetString("exclude", "")
	cfg.Force = request.GetBool("force", false)

	if err := contract.RevalidateOverrides(cfg, login, exclude, "", time.Now()); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	result, err := core.GetStreakResults(core.WithSuppressHeader(ctx), cfg, h.client, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("streak analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(streakStatsResponse{
		EnrichedStreakStats: schema.EnrichStats(result.User, result.Stats),
		DaysRecorded:        result.Days,
		LastUpdated:         result.LastUpdated,
		Refreshed:           result.Refreshed,
	}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetActivityLog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	login := request.GetString("login", "")
	since := request.GetString("since", "")
	exclude := request.GetString("exclude", "")

	if err := contract.RevalidateOverrides(cfg, login, exclude, since, time.Now()); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	entries, err := core.GetActivityLog(core.WithSuppressHeader(ctx), cfg, h.client, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("activity log failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(entries, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetStreakHistory(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	login := request.GetString("login", "")
	limit := request.GetInt("limit", defaultHistoryLimit)
	if limit < 1 {
		return mcp.NewToolResultError("limit must be at least 1"), nil
	}

	if err := contract.RevalidateOverrides(cfg, login, "", "", time.Now()); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	history := h.mgr.GetHistoryStore()
	if history == nil {
		return mcp.NewToolResultError(core.ErrHistoryDisabled.Error()), nil
	}
	snapshots, err := history.GetSnapshots(cfg.Login, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history lookup failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(snapshots, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
