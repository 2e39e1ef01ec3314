package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/varsearch-cli/internal/adapters/driving/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the engine over MCP",
	Long: `Runs the engine as an MCP server for a host application.

By default the server communicates over stdio using JSON-RPC. The host
drives dataset loading through the load tool, so the process starts
without one; match and search tools query the loaded dataset, and
long-running calls report progress notifications.

Use --port to start an HTTP server instead.

Examples:
  # Stdio mode (default)
  varsearch serve

  # HTTP mode
  varsearch serve --port 8080`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	if engineService == nil {
		return errors.New("engine service not configured")
	}

	server, err := mcp.NewServer(engineService)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "Engine server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
