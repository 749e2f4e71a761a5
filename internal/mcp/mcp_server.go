// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/cadence/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Cadence MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Cadence Analysis Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_release_stats ---
	s.AddTool(mcp.NewTool("get_release_stats",
		mcp.WithDescription("Mine git tags to list releases with their rc counts, commit counts, and business-day spans."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository (defaults to the configured repository if not specified).")),
		mcp.WithNumber("since_year", mcp.Description("Only include releases tagged in or after this year.")),
	), h.handleGetReleaseStats)

	// --- 2. Tool: get_directory_changes ---
	s.AddTool(mcp.NewTool("get_directory_changes",
		mcp.WithDescription("Aggregate file changes per top-level directory across releases."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository.")),
		mcp.WithNumber("since_year", mcp.Description("Only include releases tagged in or after this year.")),
		mcp.WithBoolean("per_release", mcp.Description("Break counts out per release instead of repo-wide totals.")),
	), h.handleGetDirectoryChanges)

	// --- 3. Tool: get_release_timing ---
	s.AddTool(mcp.NewTool("get_release_timing",
		mcp.WithDescription("Measure business days from first release candidate to final release, with the commit-count correlation."),
		mcp.WithString("repo_path", mcp.Description("Path to the Git repository.")),
		mcp.WithNumber("since_year", mcp.Description("Only include releases tagged in or after this year.")),
	), h.handleGetReleaseTiming)

	return s
}

// StartMCPServer starts the Cadence MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
