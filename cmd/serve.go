package cmd

import (
	"fmt"
	"time"

	"github.com/mj1618/a11y-audit/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an MCP server exposing live scans",
	Long: `Start a Model Context Protocol (MCP) server with two tools: scan, which
audits an HTML string or URL, and rules, which lists the rule catalog.

Supported transports:
  stdio             Standard I/O (default, for MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  a11y-audit serve
  a11y-audit serve --transport streamable-http --port 8080
  a11y-audit serve --cache-ttl 0`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addScanOptionFlags(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
	serveCmd.Flags().Int("cache-ttl", 30000, "Scan result cache TTL in milliseconds (0 to disable)")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	cacheTTLMs, _ := cmd.Flags().GetInt("cache-ttl")

	defaults, _, err := scanOptions(cmd)
	if err != nil {
		return err
	}

	srv := server.New(server.Config{
		Transport: transport,
		Port:      port,
		CacheTTL:  time.Duration(cacheTTLMs) * time.Millisecond,
		Defaults:  defaults,
	})
	if err := srv.Serve(); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
