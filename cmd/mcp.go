package cmd

import (
	"github.com/huangsam/gitstreak/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the gitstreak MCP server",
	Long:  `Launch an MCP server that allows AI agents to query contribution streaks via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Tool handlers suppress progress headers since stdio carries the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, newGraphClient(), cacheManager)
	},
}
