package mcp_test

import (
	"context"
	"testing"

	"github.com/huangsam/cadence/internal/contract"
	mcp_internal "github.com/huangsam/cadence/internal/mcp"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPServerTools(t *testing.T) {
	baseCfg := &contract.Config{
		RepoPath:  ".",
		SinceYear: contract.DefaultSinceYear,
	}

	var mgr contract.CacheManager
	s := mcp_internal.NewMCPServer(baseCfg, mgr)

	for _, name := range []string{"get_release_stats", "get_directory_changes", "get_release_timing"} {
		tool := s.GetTool(name)
		require.NotNil(t, tool, "Tool %s should exist", name)
	}
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	baseCfg := &contract.Config{
		RepoPath:  ".",
		SinceYear: contract.DefaultSinceYear,
	}

	// Validation fails before any scan, so no manager is needed
	var mgr contract.CacheManager
	s := mcp_internal.NewMCPServer(baseCfg, mgr)

	ctx := context.Background()

	t.Run("get_release_stats bad since_year", func(t *testing.T) {
		tool := s.GetTool("get_release_stats")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "get_release_stats",
				Arguments: map[string]any{
					"since_year": 12345.0, // Out of range
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "out of range")
	})

	t.Run("get_release_timing missing repo", func(t *testing.T) {
		tool := s.GetTool("get_release_timing")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "get_release_timing",
				Arguments: map[string]any{
					"repo_path": "/nonexistent/repo/path",
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError, "The response should indicate an error state")
	})
}
