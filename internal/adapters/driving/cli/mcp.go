package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ikeepcalm/ad/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

Tools: queens_solve, tsp_solve, user_get, user_page, sort_file
Resources: ad://users, ad://history, ad://history/{id}

By default, the server communicates over stdio using JSON-RPC. Use --port
to serve over HTTP instead, e.g. for the MCP Inspector.

Examples:
  # Stdio mode (default)
  ad mcp serve

  # HTTP mode
  ad mcp serve --port 8080

  # HTTP mode on the first free port from 8080
  ad mcp serve --port -1`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio, -1 = first free port)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ports := &mcp.Ports{
		Users:   userService,
		Queens:  queensService,
		TSP:     tspService,
		Sort:    sortService,
		History: historyService,
		Version: version,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port < 0 {
		port, err = mcp.FindAvailablePort(mcp.AutoPortStart, mcp.AutoPortEnd)
		if err != nil {
			return err
		}
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
