// Package core has core logic for tag classification, commit extraction
// and release aggregation.
package core

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/huangsam/cadence/internal/contract"
	"github.com/huangsam/cadence/schema"
)

var (
	// releasePattern matches final release tags like 0.12.3.
	releasePattern = regexp.MustCompile(`^0\.[0-9]+\.[0-9]+$`)

	// rcPattern matches release candidate tags like 0.12.3rc1 or 0.12.3-rc1.
	// Enterprise tags carry an "ee" marker and are skipped separately.
	rcPattern = regexp.MustCompile(`^0\.[0-9]+\.[0-9]+-*rc`)

	// rcNumberPattern pulls the trailing candidate number off an rc tag.
	rcNumberPattern = regexp.MustCompile(`rc(\d+)$`)
)

// classifyTags partitions raw tag names into release groups. A group pairs a
// final release version with its ordered rc tags. Groups with fewer than
// MinRCCount candidates have no measurable span and are dropped, as are tags
// on the exclusion list and enterprise ("ee") tags.
func classifyTags(tags []string, excludes []string) []schema.ReleaseGroup {
	releases := make(map[string]bool)
	rcsByVersion := make(map[string][]string)

	for _, tag := range tags {
		if slices.Contains(excludes, tag) {
			continue
		}
		if releasePattern.MatchString(tag) {
			releases[tag] = true
			continue
		}
		if rcPattern.MatchString(tag) && !strings.Contains(tag, "ee") {
			version := rcVersion(tag)
			rcsByVersion[version] = append(rcsByVersion[version], tag)
		}
	}

	var groups []schema.ReleaseGroup
	for version, rcs := range rcsByVersion {
		if !releases[version] {
			continue
		}
		if len(rcs) < contract.MinRCCount {
			continue
		}
		sortRCTags(rcs)
		groups = append(groups, schema.ReleaseGroup{Version: version, RCTags: rcs})
	}

	sort.Slice(groups, func(i, j int) bool {
		return versionLess(groups[i].Version, groups[j].Version)
	})
	return groups
}

// filterGroupsByYear drops release groups whose final release predates the
// cutoff year. The release tag's commit date is authoritative.
func filterGroupsByYear(ctx context.Context, cfg *contract.Config, client contract.GitClient, groups []schema.ReleaseGroup) ([]schema.ReleaseGroup, error) {
	var kept []schema.ReleaseGroup
	for _, group := range groups {
		date, err := client.TagDate(ctx, cfg.RepoPath, group.Version)
		if err != nil {
			return nil, fmt.Errorf("cannot date release %s: %w", group.Version, err)
		}
		if date.Year() >= cfg.SinceYear {
			kept = append(kept, group)
		}
	}
	return kept, nil
}

// rcVersion strips the rc suffix from a candidate tag, leaving the release
// version it belongs to (0.12.3rc2 and 0.12.3-rc2 both map to 0.12.3).
func rcVersion(tag string) string {
	idx := strings.Index(tag, "rc")
	if idx < 0 {
		return tag
	}
	return strings.TrimRight(tag[:idx], "-")
}

// sortRCTags orders candidate tags by their rc number so the first and last
// entries bound the release window.
func sortRCTags(rcs []string) {
	sort.Slice(rcs, func(i, j int) bool {
		return rcNumber(rcs[i]) < rcNumber(rcs[j])
	})
}

func rcNumber(tag string) int {
	m := rcNumberPattern.FindStringSubmatch(tag)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// versionLess compares dotted versions numerically, falling back to string
// order for malformed segments.
func versionLess(a, b string) bool {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) && i < len(bs); i++ {
		an, aerr := strconv.Atoi(as[i])
		bn, berr := strconv.Atoi(bs[i])
		if aerr != nil || berr != nil {
			if as[i] != bs[i] {
				return as[i] < bs[i]
			}
			continue
		}
		if an != bn {
			return an < bn
		}
	}
	return len(as) < len(bs)
}
