// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/gitstreak/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the gitstreak MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, client contract.GraphClient, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"GitHub Streak Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		client:  client,
		mgr:     mgr,
	}

	// --- 1. Tool: get_streak_stats ---
	s.AddTool(mcp.NewTool("get_streak_stats",
		mcp.WithDescription("Compute the current and longest daily contribution streaks of a GitHub user."),
		mcp.WithString("login", mcp.Description("GitHub login to analyze. Defaults to the configured login.")),
		mcp.WithString("exclude", mcp.Description("Comma-separated weekdays that never break a streak (e.g. 'Sat,Sun').")),
		mcp.WithBoolean("force", mcp.Description("Refresh from GitHub even if the stored log is recent.")),
	), h.handleGetStreakStats)

	// --- 2. Tool: get_activity_log ---
	s.AddTool(mcp.NewTool("get_activity_log",
		mcp.WithDescription("List the daily contribution counts of a GitHub user."),
		mcp.WithString("login", mcp.Description("GitHub login to list. Defaults to the configured login.")),
		mcp.WithString("since", mcp.Description("Earliest day to include (YYYY-MM-DD or e.g. '3 months ago').")),
		mcp.WithString("exclude", mcp.Description("Comma-separated weekdays to flag as excluded.")),
	), h.handleGetActivityLog)

	// --- 3. Tool: get_streak_history ---
	s.AddTool(mcp.NewTool("get_streak_history",
		mcp.WithDescription("List the streak snapshots recorded by previous refreshes of a GitHub user."),
		mcp.WithString("login", mcp.Description("GitHub login to list. Defaults to the configured login.")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of snapshots, newest first. Defaults to 30.")),
	), h.handleGetStreakHistory)

	return s
}

// StartMCPServer starts the gitstreak MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, client contract.GraphClient, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, client, mgr)
	return server.ServeStdio(s)
}
