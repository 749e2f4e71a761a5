package core

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/huangsam/cadence/internal/contract"
	"github.com/huangsam/cadence/internal/iocache"
	"github.com/huangsam/cadence/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func skipWithoutGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

// nilStoreManager returns a manager whose stores are both disabled.
func nilStoreManager() *iocache.MockCacheManager {
	mgr := new(iocache.MockCacheManager)
	mgr.On("GetScanStore").Return(nil).Maybe()
	mgr.On("GetHistoryStore").Return(nil).Maybe()
	return mgr
}

func TestExecutorsFailOnMissingRepo(t *testing.T) {
	skipWithoutGit(t)
	ctx := context.Background()
	cfg := &contract.Config{
		RepoPath:  "/nonexistent/repo/path",
		SinceYear: contract.DefaultSinceYear,
		Output:    schema.TextOut,
		OutputDir: t.TempDir(),
	}

	executors := map[string]ExecutorFunc{
		"releases": ExecuteReleases,
		"dirs":     ExecuteDirs,
		"timing":   ExecuteTiming,
		"charts":   ExecuteCharts,
		"export":   ExecuteExport,
	}

	for name, executor := range executors {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, executor(ctx, cfg, nilStoreManager()))
		})
	}
}

func TestBuildReleaseRecords(t *testing.T) {
	release := time.Date(2023, 1, 9, 0, 0, 0, 0, time.UTC)
	result := &schema.ScanResult{
		Groups: []schema.ReleaseGroup{
			{Version: "0.19.0", RCTags: []string{"0.19.0rc1", "0.19.0rc2", "0.19.0rc3"}},
		},
		Commits: map[string][]schema.Commit{
			"0.19.0": {{Hash: "a1b2c3d4"}, {Hash: "deadbeef"}},
		},
		Timings: []schema.ReleaseTiming{
			{Version: "0.19.0", ReleaseDate: release, BusinessDays: 5},
		},
	}

	records := BuildReleaseRecords(result)
	assert.Equal(t, []schema.ReleaseRecord{
		{
			Version:      "0.19.0",
			RCCount:      3,
			FirstRC:      "0.19.0rc1",
			LastRC:       "0.19.0rc3",
			CommitCount:  2,
			ReleaseDate:  release,
			BusinessDays: 5,
		},
	}, records)
}

func TestRecordHistory(t *testing.T) {
	cfg := &contract.Config{RepoPath: "/repo", SinceYear: 2022}
	result := &schema.ScanResult{
		Groups: []schema.ReleaseGroup{
			{Version: "0.19.0", RCTags: []string{"0.19.0rc1", "0.19.0rc2"}},
		},
		Timings: []schema.ReleaseTiming{{Version: "0.19.0", BusinessDays: 3}},
	}

	history := new(iocache.MockHistoryStore)
	history.On("BeginRun", mock.AnythingOfType("time.Time"), mock.Anything).Return(int64(7), nil)
	history.On("RecordRelease", int64(7), mock.AnythingOfType("schema.ReleaseRecord")).Return(nil)
	history.On("EndRun", int64(7), mock.AnythingOfType("time.Time"), 1).Return(nil)

	mgr := new(iocache.MockCacheManager)
	mgr.On("GetHistoryStore").Return(history)

	recordHistory(cfg, mgr, result)
	history.AssertExpectations(t)
}

func TestRecordHistoryDisabled(t *testing.T) {
	cfg := &contract.Config{RepoPath: "/repo"}
	result := &schema.ScanResult{}

	// Nil manager and nil store are both no-ops.
	recordHistory(cfg, nil, result)
	recordHistory(cfg, nilStoreManager(), result)
}
