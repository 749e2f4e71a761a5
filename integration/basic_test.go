//go:build basic

// Package integration contains integration tests for cadence.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
// Or use: make test-basic
package integration

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCadenceReleasesOnFixtureRepo builds a small git repo with rc tags and
// checks the CSV output end to end.
func TestCadenceReleasesOnFixtureRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	repoDir := t.TempDir()
	mustGit(t, repoDir, "init")
	mustGit(t, repoDir, "config", "user.email", "dev@example.com")
	mustGit(t, repoDir, "config", "user.name", "Dev")

	// Monday 2023-01-02: first rc
	commitFile(t, repoDir, "core/engine.go", "2023-01-02T12:00:00", "feat: engine")
	mustGit(t, repoDir, "tag", "0.1.0rc1")

	// Wednesday 2023-01-04: second rc with a change in between
	commitFile(t, repoDir, "core/planner.go", "2023-01-04T12:00:00", "feat: planner")
	mustGit(t, repoDir, "tag", "0.1.0rc2")

	// Monday 2023-01-09: final release
	commitFile(t, repoDir, "docs/notes.md", "2023-01-09T12:00:00", "docs: notes")
	mustGit(t, repoDir, "tag", "0.1.0")

	out := runCadenceOutput(t, "releases", repoDir, "--output", "csv")

	assert.Contains(t, out, "rank,version,rc_count,first_rc,last_rc,commit_count,release_date,business_days,label")
	assert.Contains(t, out, "1,0.1.0,2,0.1.0rc1,0.1.0rc2,1,2023-01-09,5,Fast")
}

// TestCadenceChartsOnFixtureRepo renders the chart set for the fixture repo.
func TestCadenceChartsOnFixtureRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	repoDir := t.TempDir()
	mustGit(t, repoDir, "init")
	mustGit(t, repoDir, "config", "user.email", "dev@example.com")
	mustGit(t, repoDir, "config", "user.name", "Dev")

	commitFile(t, repoDir, "core/engine.go", "2023-01-02T12:00:00", "feat: engine")
	mustGit(t, repoDir, "tag", "0.1.0rc1")
	commitFile(t, repoDir, "core/planner.go", "2023-01-04T12:00:00", "feat: planner")
	mustGit(t, repoDir, "tag", "0.1.0rc2")
	commitFile(t, repoDir, "docs/notes.md", "2023-01-09T12:00:00", "docs: notes")
	mustGit(t, repoDir, "tag", "0.1.0")

	chartDir := filepath.Join(t.TempDir(), "charts")
	_ = runCadenceOutput(t, "charts", repoDir, "--output-dir", chartDir)

	entries, err := os.ReadDir(chartDir)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func mustGit(t *testing.T, repoDir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = repoDir
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v failed: %s", args, string(output))
}

func commitFile(t *testing.T, repoDir, relPath, date, message string) {
	t.Helper()
	fullPath := filepath.Join(repoDir, relPath)
	require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
	require.NoError(t, os.WriteFile(fullPath, []byte(message+"\n"), 0o644))
	mustGit(t, repoDir, "add", ".")

	cmd := exec.Command("git", "commit", "-m", message, "--date", date)
	cmd.Dir = repoDir
	cmd.Env = append(os.Environ(), "GIT_COMMITTER_DATE="+date)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "git commit failed: %s", string(output))
}

func runCadenceOutput(t *testing.T, args ...string) string {
	t.Helper()
	cadencePath := getCadenceBinary()
	cmd := exec.Command(cadencePath, args...)
	cmd.Dir = "../"
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = os.Stderr
	require.NoError(t, cmd.Run(), "cadence %v failed", args)
	return stdout.String()
}
