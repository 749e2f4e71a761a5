package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// TagDateFormat is the short date layout produced by `git log --date=short`.
const TagDateFormat = "2006-01-02"

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes a git command and returns its stdout output.
func (c *LocalGitClient) Run(_ context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.Command("git", fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git command failed in %q: %s. If this is not a Git repository, verify the path or run 'git init'", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// ListTags implements the GitClient interface.
func (c *LocalGitClient) ListTags(ctx context.Context, repoPath string) ([]string, error) {
	out, err := c.Run(ctx, repoPath, "tag")
	if err != nil {
		return nil, err
	}
	tags := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(tags) == 1 && tags[0] == "" {
		return []string{}, nil
	}
	return tags, nil
}

// FetchTags implements the GitClient interface.
func (c *LocalGitClient) FetchTags(ctx context.Context, repoPath string) error {
	_, err := c.Run(ctx, repoPath, "fetch", "--tags")
	return err
}

// TagDate implements the GitClient interface. The date is taken from the
// single most recent commit reachable from the tag, in short date format.
func (c *LocalGitClient) TagDate(ctx context.Context, repoPath string, tag string) (time.Time, error) {
	args := []string{
		"log", "-1", tag,
		"--date=short",
		"--pretty=format:%h,%ad,%s",
	}
	out, err := c.Run(ctx, repoPath, args...)
	if err != nil {
		return time.Time{}, err
	}
	line := strings.TrimSpace(string(out))
	parts := strings.SplitN(line, ",", 3)
	if len(parts) < 2 {
		return time.Time{}, fmt.Errorf("unexpected log output for tag %q: %q", tag, line)
	}
	return time.Parse(TagDateFormat, parts[1])
}

// LogRange implements the GitClient interface. The three-dot range yields the
// commits reachable from either tag but not both, which for rc tags on the
// same release branch is the span from the first rc to the last.
func (c *LocalGitClient) LogRange(ctx context.Context, repoPath string, fromTag, toTag string) ([]byte, error) {
	args := []string{
		"log", fromTag + "..." + toTag,
		"--oneline",
		"--name-only",
	}
	return c.Run(ctx, repoPath, args...)
}

// GetRepoHash implements the GitClient interface.
func (c *LocalGitClient) GetRepoHash(ctx context.Context, repoPath string) (string, error) {
	out, err := c.Run(ctx, repoPath, "rev-parse", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// GetRepoRoot implements the GitClient interface.
func (c *LocalGitClient) GetRepoRoot(ctx context.Context, contextPath string) (string, error) {
	out, err := c.Run(ctx, contextPath, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
