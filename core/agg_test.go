package core

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/huangsam/cadence/internal/contract"
	"github.com/huangsam/cadence/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateDirs(t *testing.T) {
	commits := map[string][]schema.Commit{
		"0.19.0": {
			{Hash: "a1b2c3d4", Summary: "fix: one", Files: []string{"core/tags.go", "core/agg.go", "README.md"}},
			{Hash: "deadbeef", Summary: "fix: two", Files: []string{"core/tags.go", "cmd/root.go"}},
		},
		"0.20.0": {
			{Hash: "cafebabe", Summary: "fix: three", Files: []string{"schema/schema.go"}},
		},
	}

	got := aggregateDirs(commits)
	assert.Equal(t, map[string]int{"core": 3, "cmd": 1, "README.md": 1}, got["0.19.0"])
	assert.Equal(t, map[string]int{"schema": 1}, got["0.20.0"])
}

func TestSumDirTotals(t *testing.T) {
	dirCounts := map[string]map[string]int{
		"0.19.0": {"core": 3, "cmd": 1, "README.md": 1},
		"0.20.0": {"core": 2, "cmd": 2, "docs": 1},
	}

	got := sumDirTotals(dirCounts)
	// README.md and docs only appear once overall, so they are dropped.
	assert.Equal(t, []schema.DirTotal{
		{Dir: "core", Count: 5},
		{Dir: "cmd", Count: 3},
	}, got)
}

func TestSumDirTotalsTieBreak(t *testing.T) {
	dirCounts := map[string]map[string]int{
		"0.19.0": {"zeta": 2, "alpha": 2},
	}

	got := sumDirTotals(dirCounts)
	assert.Equal(t, []schema.DirTotal{
		{Dir: "alpha", Count: 2},
		{Dir: "zeta", Count: 2},
	}, got)
}

func TestTopLevelDir(t *testing.T) {
	assert.Equal(t, "core", topLevelDir("core/tags.go"))
	assert.Equal(t, "core", topLevelDir("core/sub/deep.go"))
	assert.Equal(t, "README.md", topLevelDir("README.md"))
}

func TestBusinessDays(t *testing.T) {
	day := func(value string) time.Time {
		d, err := time.Parse("2006-01-02", value)
		require.NoError(t, err)
		return d
	}

	tests := []struct {
		name     string
		begin    time.Time
		end      time.Time
		expected int
	}{
		{"identical dates", day("2023-01-02"), day("2023-01-02"), 0},
		{"monday to next monday", day("2023-01-02"), day("2023-01-09"), 5},
		{"monday to friday", day("2023-01-02"), day("2023-01-06"), 4},
		{"friday over weekend", day("2023-01-06"), day("2023-01-09"), 1},
		{"saturday to sunday", day("2023-01-07"), day("2023-01-08"), 0},
		{"reversed interval negates", day("2023-01-09"), day("2023-01-02"), -5},
		{"two full weeks", day("2023-01-02"), day("2023-01-16"), 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BusinessDays(tt.begin, tt.end))
		})
	}
}

func TestBusinessDaysIgnoresClockTime(t *testing.T) {
	begin := time.Date(2023, 1, 2, 23, 59, 0, 0, time.UTC)
	end := time.Date(2023, 1, 3, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 1, BusinessDays(begin, end))
}

func TestPearsonR(t *testing.T) {
	tests := []struct {
		name     string
		xs       []float64
		ys       []float64
		expected float64
	}{
		{"perfect positive", []float64{1, 2, 3, 4}, []float64{2, 4, 6, 8}, 1},
		{"perfect negative", []float64{1, 2, 3, 4}, []float64{8, 6, 4, 2}, -1},
		{"no correlation", []float64{1, 2, 3, 4}, []float64{1, -1, -1, 1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, PearsonR(tt.xs, tt.ys), 1e-9)
		})
	}
}

func TestPearsonRDegenerate(t *testing.T) {
	assert.True(t, math.IsNaN(PearsonR([]float64{1}, []float64{2})))
	assert.True(t, math.IsNaN(PearsonR([]float64{1, 2}, []float64{3})))
	assert.True(t, math.IsNaN(PearsonR([]float64{5, 5, 5}, []float64{1, 2, 3})))
}

func TestTimingCorrelation(t *testing.T) {
	timings := []schema.ReleaseTiming{
		{Version: "0.19.0", CommitCount: 2, BusinessDays: 4},
		{Version: "0.20.0", CommitCount: 4, BusinessDays: 8},
		{Version: "0.21.0", CommitCount: 6, BusinessDays: 12},
	}
	assert.InDelta(t, 1.0, timingCorrelation(timings), 1e-9)
}

func TestComputeTimings(t *testing.T) {
	ctx := context.Background()
	cfg := &contract.Config{RepoPath: "/repo"}
	groups := []schema.ReleaseGroup{
		{Version: "0.19.0", RCTags: []string{"0.19.0rc1", "0.19.0rc2"}},
	}
	commits := map[string][]schema.Commit{
		"0.19.0": {{Hash: "a1b2c3d4", Summary: "fix: one"}},
	}

	firstRC := time.Date(2023, 1, 2, 10, 0, 0, 0, time.UTC)
	release := time.Date(2023, 1, 9, 10, 0, 0, 0, time.UTC)

	mockClient := new(contract.MockGitClient)
	mockClient.On("TagDate", ctx, "/repo", "0.19.0rc1").Return(firstRC, nil)
	mockClient.On("TagDate", ctx, "/repo", "0.19.0").Return(release, nil)

	timings, err := computeTimings(ctx, cfg, mockClient, groups, commits)
	require.NoError(t, err)
	require.Len(t, timings, 1)
	assert.Equal(t, "0.19.0", timings[0].Version)
	assert.Equal(t, 5, timings[0].BusinessDays)
	assert.Equal(t, 1, timings[0].CommitCount)
	mockClient.AssertExpectations(t)
}

func TestComputeTimingsSortedByReleaseDate(t *testing.T) {
	ctx := context.Background()
	cfg := &contract.Config{RepoPath: "/repo"}
	groups := []schema.ReleaseGroup{
		{Version: "0.19.0", RCTags: []string{"0.19.0rc1", "0.19.0rc2"}},
		{Version: "0.20.0", RCTags: []string{"0.20.0rc1", "0.20.0rc2"}},
	}

	// 0.20.0 shipped before 0.19.0 did.
	mockClient := new(contract.MockGitClient)
	mockClient.On("TagDate", ctx, "/repo", "0.19.0rc1").Return(time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC), nil)
	mockClient.On("TagDate", ctx, "/repo", "0.19.0").Return(time.Date(2023, 5, 8, 0, 0, 0, 0, time.UTC), nil)
	mockClient.On("TagDate", ctx, "/repo", "0.20.0rc1").Return(time.Date(2023, 4, 3, 0, 0, 0, 0, time.UTC), nil)
	mockClient.On("TagDate", ctx, "/repo", "0.20.0").Return(time.Date(2023, 4, 10, 0, 0, 0, 0, time.UTC), nil)

	timings, err := computeTimings(ctx, cfg, mockClient, groups, map[string][]schema.Commit{})
	require.NoError(t, err)
	require.Len(t, timings, 2)
	assert.Equal(t, "0.20.0", timings[0].Version)
	assert.Equal(t, "0.19.0", timings[1].Version)
}
