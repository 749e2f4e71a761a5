package core

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/huangsam/cadence/internal/contract"
	"github.com/huangsam/cadence/schema"
)

// commitHeaderPattern matches an abbreviated-SHA oneline header. Abbreviated
// hashes are 8 hex chars here; shorter prefixes collide with file paths.
var commitHeaderPattern = regexp.MustCompile(`^([a-f0-9]{8})\s+(.*)$`)

// extractCommits lists the commits landed between a release's first and last
// rc tags, with the files each commit touched. Version-bump commits carry no
// signal for cadence and are dropped via cfg.BumpMarker.
func extractCommits(ctx context.Context, cfg *contract.Config, client contract.GitClient, group schema.ReleaseGroup) ([]schema.Commit, error) {
	firstRC := group.RCTags[0]
	lastRC := group.RCTags[len(group.RCTags)-1]

	out, err := client.LogRange(ctx, cfg.RepoPath, firstRC, lastRC)
	if err != nil {
		return nil, fmt.Errorf("cannot log %s range %s...%s: %w", group.Version, firstRC, lastRC, err)
	}
	return parseNameOnlyLog(out, cfg.BumpMarker), nil
}

// parseNameOnlyLog parses `git log --oneline --name-only` output. Each commit
// is a header line followed by the paths it touched, separated by blank lines.
func parseNameOnlyLog(out []byte, bumpMarker string) []schema.Commit {
	commits := []schema.Commit{}
	var current *schema.Commit

	scanner := bufio.NewScanner(bytes.NewReader(out))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		if m := commitHeaderPattern.FindStringSubmatch(line); m != nil {
			if current != nil {
				commits = append(commits, *current)
			}
			current = &schema.Commit{Hash: m[1], Summary: m[2]}
			continue
		}

		if current != nil {
			current.Files = append(current.Files, line)
		}
	}
	if current != nil {
		commits = append(commits, *current)
	}

	if bumpMarker == "" {
		return commits
	}
	filtered := commits[:0]
	for _, c := range commits {
		if strings.Contains(c.Summary, bumpMarker) {
			continue
		}
		filtered = append(filtered, c)
	}
	return filtered
}
