package core

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"time"

	"github.com/huangsam/cadence/internal/chart"
	"github.com/huangsam/cadence/internal/contract"
	"github.com/huangsam/cadence/internal/outwriter"
	"github.com/huangsam/cadence/internal/parquet"
	"github.com/huangsam/cadence/schema"
)

// ExecutorFunc defines the function signature for executing subcommands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// ExecuteReleases scans the repository and prints one row per release.
// It serves as the main entry point for the 'releases' subcommand.
func ExecuteReleases(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	client := contract.NewLocalGitClient()
	result, err := scanWithCache(ctx, cfg, client, mgr)
	if err != nil {
		return err
	}
	recordHistory(cfg, mgr, result)
	records := BuildReleaseRecords(result)
	return outwriter.PrintReleases(records, cfg, time.Since(start))
}

// ExecuteDirs scans the repository and prints directory change counts,
// either aggregated across releases or broken out per release.
func ExecuteDirs(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	client := contract.NewLocalGitClient()
	result, err := scanWithCache(ctx, cfg, client, mgr)
	if err != nil {
		return err
	}
	recordHistory(cfg, mgr, result)
	if cfg.PerRelease {
		return outwriter.PrintDirChanges(result, cfg, time.Since(start))
	}
	return outwriter.PrintDirTotals(result.DirTotals, cfg, time.Since(start))
}

// ExecuteTiming scans the repository and prints business-day spans per
// release, with the commit-count correlation as a footer.
func ExecuteTiming(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	client := contract.NewLocalGitClient()
	result, err := scanWithCache(ctx, cfg, client, mgr)
	if err != nil {
		return err
	}
	recordHistory(cfg, mgr, result)
	return outwriter.PrintTimings(result, cfg, time.Since(start))
}

// ExecuteCharts scans the repository and renders the HTML chart set into
// cfg.OutputDir.
func ExecuteCharts(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	client := contract.NewLocalGitClient()
	result, err := scanWithCache(ctx, cfg, client, mgr)
	if err != nil {
		return err
	}
	recordHistory(cfg, mgr, result)
	paths, err := chart.RenderAll(result, cfg)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Printf("Wrote %s\n", p)
	}
	return nil
}

// ExecuteExport scans the repository and writes release records and directory
// totals as parquet files under cfg.OutputDir.
func ExecuteExport(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	client := contract.NewLocalGitClient()
	result, err := scanWithCache(ctx, cfg, client, mgr)
	if err != nil {
		return err
	}
	recordHistory(cfg, mgr, result)

	releasePath := filepath.Join(cfg.OutputDir, "releases.parquet")
	dirPath := filepath.Join(cfg.OutputDir, "dir-totals.parquet")
	if cfg.OutputFile != "" {
		releasePath = cfg.OutputFile
		dirPath = ""
	}

	if err := parquet.WriteReleaseRecords(releasePath, BuildReleaseRecords(result)); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", releasePath)
	if dirPath != "" {
		if err := parquet.WriteDirTotals(dirPath, result.DirTotals); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", dirPath)
	}
	return nil
}

// GetScanResult runs the scan pipeline and returns the raw result instead of
// printing it. MCP tool handlers build their own payloads from it.
func GetScanResult(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*schema.ScanResult, error) {
	client := contract.NewLocalGitClient()
	result, err := scanWithCache(ctx, cfg, client, mgr)
	if err != nil {
		return nil, err
	}
	recordHistory(cfg, mgr, result)
	return result, nil
}

// runScan performs the full scan pipeline against a repository.
func runScan(ctx context.Context, cfg *contract.Config, client contract.GitClient) (*schema.ScanResult, error) {
	if cfg.Fetch {
		if err := client.FetchTags(ctx, cfg.RepoPath); err != nil {
			return nil, fmt.Errorf("cannot fetch tags: %w", err)
		}
	}

	tags, err := client.ListTags(ctx, cfg.RepoPath)
	if err != nil {
		return nil, fmt.Errorf("cannot list tags: %w", err)
	}

	groups := classifyTags(tags, cfg.ExcludeTags)
	groups, err = filterGroupsByYear(ctx, cfg, client, groups)
	if err != nil {
		return nil, err
	}

	commits := make(map[string][]schema.Commit, len(groups))
	for _, group := range groups {
		cs, err := extractCommits(ctx, cfg, client, group)
		if err != nil {
			return nil, err
		}
		commits[group.Version] = cs
	}

	dirCounts := aggregateDirs(commits)
	timings, err := computeTimings(ctx, cfg, client, groups, commits)
	if err != nil {
		return nil, err
	}

	result := &schema.ScanResult{
		Groups:    groups,
		Commits:   commits,
		DirCounts: dirCounts,
		DirTotals: sumDirTotals(dirCounts),
		Timings:   timings,
	}
	if r := timingCorrelation(timings); !math.IsNaN(r) {
		result.PearsonR = r
		result.PearsonOK = true
	}
	return result, nil
}

// BuildReleaseRecords flattens a scan result into one row per release.
func BuildReleaseRecords(result *schema.ScanResult) []schema.ReleaseRecord {
	timingByVersion := make(map[string]schema.ReleaseTiming, len(result.Timings))
	for _, timing := range result.Timings {
		timingByVersion[timing.Version] = timing
	}

	records := make([]schema.ReleaseRecord, 0, len(result.Groups))
	for _, group := range result.Groups {
		timing := timingByVersion[group.Version]
		records = append(records, schema.ReleaseRecord{
			Version:      group.Version,
			RCCount:      len(group.RCTags),
			FirstRC:      group.RCTags[0],
			LastRC:       group.RCTags[len(group.RCTags)-1],
			CommitCount:  len(result.Commits[group.Version]),
			ReleaseDate:  timing.ReleaseDate,
			BusinessDays: timing.BusinessDays,
		})
	}
	return records
}

// recordHistory appends the scan outcome to the history store, when one is
// configured. History failures are warnings, not errors.
func recordHistory(cfg *contract.Config, mgr contract.CacheManager, result *schema.ScanResult) {
	if mgr == nil {
		return
	}
	history := mgr.GetHistoryStore()
	if history == nil {
		return
	}

	params := map[string]any{
		"repo_path":  cfg.RepoPath,
		"since_year": cfg.SinceYear,
	}
	runID, err := history.BeginRun(time.Now(), params)
	if err != nil {
		contract.LogWarn("history begin", err)
		return
	}
	for _, record := range BuildReleaseRecords(result) {
		if err := history.RecordRelease(runID, record); err != nil {
			contract.LogWarn("history record", err)
		}
	}
	if err := history.EndRun(runID, time.Now(), len(result.Groups)); err != nil {
		contract.LogWarn("history end", err)
	}
}
