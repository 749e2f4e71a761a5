package core

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/huangsam/cadence/internal/contract"
	"github.com/huangsam/cadence/schema"
)

// aggregateDirs counts changed files per top-level directory for each
// release. A path's directory is its first segment; bare files at the repo
// root count under their own name.
func aggregateDirs(commitsByRelease map[string][]schema.Commit) map[string]map[string]int {
	counts := make(map[string]map[string]int)
	for version, commits := range commitsByRelease {
		dirCounts := make(map[string]int)
		for _, commit := range commits {
			for _, file := range commit.Files {
				dirCounts[topLevelDir(file)]++
			}
		}
		counts[version] = dirCounts
	}
	return counts
}

// sumDirTotals folds per-release directory counts into repo-wide totals,
// sorted by count descending. Directories touched at most once across all
// releases are noise and get dropped.
func sumDirTotals(dirCounts map[string]map[string]int) []schema.DirTotal {
	sums := make(map[string]int)
	for _, counts := range dirCounts {
		for dir, n := range counts {
			sums[dir] += n
		}
	}

	totals := []schema.DirTotal{}
	for dir, n := range sums {
		if n <= 1 {
			continue
		}
		totals = append(totals, schema.DirTotal{Dir: dir, Count: n})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].Count != totals[j].Count {
			return totals[i].Count > totals[j].Count
		}
		return totals[i].Dir < totals[j].Dir
	})
	return totals
}

func topLevelDir(path string) string {
	if idx := strings.Index(path, "/"); idx >= 0 {
		return path[:idx]
	}
	return path
}

// computeTimings measures how long each release spent in candidate review:
// business days from the first rc tag to the final release tag.
func computeTimings(ctx context.Context, cfg *contract.Config, client contract.GitClient, groups []schema.ReleaseGroup, commitsByRelease map[string][]schema.Commit) ([]schema.ReleaseTiming, error) {
	timings := make([]schema.ReleaseTiming, 0, len(groups))
	for _, group := range groups {
		firstRCDate, err := client.TagDate(ctx, cfg.RepoPath, group.RCTags[0])
		if err != nil {
			return nil, fmt.Errorf("cannot date rc %s: %w", group.RCTags[0], err)
		}
		releaseDate, err := client.TagDate(ctx, cfg.RepoPath, group.Version)
		if err != nil {
			return nil, fmt.Errorf("cannot date release %s: %w", group.Version, err)
		}
		timings = append(timings, schema.ReleaseTiming{
			Version:      group.Version,
			ReleaseDate:  releaseDate,
			FirstRCDate:  firstRCDate,
			BusinessDays: BusinessDays(firstRCDate, releaseDate),
			CommitCount:  len(commitsByRelease[group.Version]),
		})
	}

	sort.Slice(timings, func(i, j int) bool {
		if !timings[i].ReleaseDate.Equal(timings[j].ReleaseDate) {
			return timings[i].ReleaseDate.Before(timings[j].ReleaseDate)
		}
		return timings[i].Version < timings[j].Version
	})
	return timings, nil
}

// BusinessDays counts weekdays in the half-open interval [begin, end).
// Identical dates yield zero, and a reversed interval yields the negated
// count of the forward interval.
func BusinessDays(begin, end time.Time) int {
	if end.Before(begin) {
		return -BusinessDays(end, begin)
	}

	begin = truncateToDay(begin)
	end = truncateToDay(end)

	count := 0
	for d := begin; d.Before(end); d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
		default:
			count++
		}
	}
	return count
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// PearsonR returns the Pearson correlation coefficient of two equal-length
// series. Degenerate inputs (short series, zero variance) return NaN.
func PearsonR(xs, ys []float64) float64 {
	n := len(xs)
	if n != len(ys) || n < 2 {
		return math.NaN()
	}

	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var cov, varX, varY float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return math.NaN()
	}
	return cov / math.Sqrt(varX*varY)
}

// timingCorrelation correlates commit count against business days across
// releases. It answers whether heavier releases take longer to stabilize.
func timingCorrelation(timings []schema.ReleaseTiming) float64 {
	xs := make([]float64, len(timings))
	ys := make([]float64, len(timings))
	for i, timing := range timings {
		xs[i] = float64(timing.CommitCount)
		ys[i] = float64(timing.BusinessDays)
	}
	return PearsonR(xs, ys)
}
