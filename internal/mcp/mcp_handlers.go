package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/cadence/core"
	"github.com/huangsam/cadence/internal/contract"
	"github.com/huangsam/cadence/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// scanConfig clones the base config and applies the request overrides shared
// by every tool.
func (h *toolHandler) scanConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("repo_path", ""); p != "" {
		cfg.RepoPath = p
	}
	if y := request.GetInt("since_year", 0); y != 0 {
		if y < 1970 || y > 9999 {
			return nil, fmt.Errorf("since_year %d is out of range", y)
		}
		cfg.SinceYear = y
	}
	return cfg, nil
}

func (h *toolHandler) handleGetReleaseStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.scanConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid scan parameters: %v", err)), nil
	}

	result, err := core.GetScanResult(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scan failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(core.BuildReleaseRecords(result), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetDirectoryChanges(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.scanConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid scan parameters: %v", err)), nil
	}
	perRelease := request.GetBool("per_release", false)

	result, err := core.GetScanResult(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scan failed: %v", err)), nil
	}

	var jsonData []byte
	if perRelease {
		jsonData, _ = json.MarshalIndent(result.DirCounts, "", "  ")
	} else {
		type dirTotal struct {
			Dir   string `json:"dir"`
			Count int    `json:"count"`
		}
		totals := make([]dirTotal, len(result.DirTotals))
		for i, t := range result.DirTotals {
			totals[i] = dirTotal{Dir: t.Dir, Count: t.Count}
		}
		jsonData, _ = json.MarshalIndent(totals, "", "  ")
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetReleaseTiming(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.scanConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid scan parameters: %v", err)), nil
	}

	result, err := core.GetScanResult(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scan failed: %v", err)), nil
	}

	type timingPayload struct {
		Timings   []schema.ReleaseTiming `json:"timings"`
		PearsonR  float64                `json:"pearson_r"`
		PearsonOK bool                   `json:"pearson_ok"`
	}
	jsonData, _ := json.MarshalIndent(timingPayload{
		Timings:   result.Timings,
		PearsonR:  result.PearsonR,
		PearsonOK: result.PearsonOK,
	}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
