// Package server exposes live accessibility scans as MCP tools.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/mj1618/a11y-audit/internal/dom"
	"github.com/mj1618/a11y-audit/internal/rules"
	"github.com/mj1618/a11y-audit/internal/scan"
	"github.com/mj1618/a11y-audit/internal/source"
	"github.com/mj1618/a11y-audit/internal/version"
)

// Config holds MCP server configuration.
type Config struct {
	Transport string
	Port      int
	CacheTTL  time.Duration
	// Defaults seeds every scan; tool arguments override it.
	Defaults scan.Options
	Logger   *slog.Logger
}

// LoadFunc loads a document from a location.
type LoadFunc func(ctx context.Context, location string, opts source.Options) (*dom.HTMLDocument, error)

// Server wraps the MCP server with the rule registry and result cache.
type Server struct {
	cfg      Config
	registry *rules.Registry
	cache    *ResultCache
	load     LoadFunc
	logger   *slog.Logger
	mcp      *mcpserver.MCPServer
}

// New creates and configures an MCP server with the scan and rules tools.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:      cfg,
		registry: rules.Default(),
		cache:    NewResultCache(cfg.CacheTTL),
		load:     source.Load,
		logger:   logger,
	}
	s.mcp = mcpserver.NewMCPServer(
		"a11y-audit",
		version.Version,
		mcpserver.WithToolCapabilities(false),
	)
	s.registerTools()
	return s
}

// Serve starts the MCP server with the configured transport.
func (s *Server) Serve() error {
	switch s.cfg.Transport {
	case "", "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		s.logger.Info("serving MCP over streamable-http", "port", s.cfg.Port)
		return httpServer.Start(fmt.Sprintf(":%d", s.cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", s.cfg.Transport)
	}
}

func (s *Server) registerTools() {
	// scan
	s.mcp.AddTool(
		mcp.NewTool("scan",
			mcp.WithDescription("Scan an HTML document for WCAG accessibility issues. Pass either html or url. Returns issues with stable ids, rule, severity, WCAG reference and a markup snippet."),
			mcp.WithString("html", mcp.Description("HTML document to scan")),
			mcp.WithString("url", mcp.Description("URL or file path of the document to scan")),
			mcp.WithString("base_url", mcp.Description("Base URL for relative references in html")),
			mcp.WithBoolean("fetch_styles", mcp.Description("Fetch same-origin linked stylesheets")),
			mcp.WithNumber("alt_max_length", mcp.Description("Maximum alt text length (default 300)")),
			mcp.WithNumber("small_text_px", mcp.Description("Text below this pixel size is reported (default 10)")),
			mcp.WithNumber("subheading_words", mcp.Description("Word count above which content needs headings (default 400)")),
			mcp.WithArray("ignored_ids", mcp.Description("Issue ids to mark ignored"), mcp.WithStringItems()),
			mcp.WithArray("disabled_rules", mcp.Description("Rule slugs to skip"), mcp.WithStringItems()),
			mcp.WithString("format", mcp.Description("Result format: yaml (default) or json"), mcp.Enum("yaml", "json")),
		),
		s.handleScan,
	)

	// rules
	s.mcp.AddTool(
		mcp.NewTool("rules",
			mcp.WithDescription("List the accessibility rules the scanner checks, with severity, WCAG reference and combined checks"),
			mcp.WithString("type", mcp.Description("Filter by rule type: error or warning")),
		),
		s.handleRules,
	)
}
