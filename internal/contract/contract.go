// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/cadence/schema"
)

// GitClient defines the necessary operations for release history analysis.
// This allows the core scan logic to be tested without needing a real git executable.
type GitClient interface {
	// --- Generic / Low-Level ---

	// Run executes a git command and returns the combined output.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// --- Tags ---

	// ListTags returns every tag name in the repository, one per line of
	// `git tag` output, in git's default lexical order.
	ListTags(ctx context.Context, repoPath string) ([]string, error)

	// FetchTags refreshes tags from the default remote.
	FetchTags(ctx context.Context, repoPath string) error

	// TagDate returns the commit date of the single most recent commit
	// reachable from the given tag.
	TagDate(ctx context.Context, repoPath string, tag string) (time.Time, error)

	// --- Log spans ---

	// LogRange returns the raw oneline+name-only log output for the
	// symmetric-difference span between two tags.
	LogRange(ctx context.Context, repoPath string, fromTag, toTag string) ([]byte, error)

	// --- Repository state ---

	// GetRepoHash returns the current HEAD commit hash of the repository.
	GetRepoHash(ctx context.Context, repoPath string) (string, error)

	// GetRepoRoot returns the absolute path to the root of the Git repository
	// containing the given context path.
	GetRepoRoot(ctx context.Context, contextPath string) (string, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetScanStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for scan cache storage.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for tracking scan runs and their
// per-release records.
type HistoryStore interface {
	// BeginRun creates a new scan run and returns its unique ID.
	BeginRun(startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the scan run with completion data.
	EndRun(runID int64, endTime time.Time, totalReleases int) error

	// RecordRelease stores one release record produced by a run.
	RecordRelease(runID int64, record schema.ReleaseRecord) error

	// ListRuns returns all recorded runs, newest first.
	ListRuns() ([]RunRecord, error)

	// ListReleases returns all release records across runs.
	ListReleases() ([]ReleaseRow, error)

	// GetStatus returns status information about the history store.
	GetStatus() (schema.HistoryStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// RunRecord is one row of the run-history table.
type RunRecord struct {
	RunID         int64
	StartTime     time.Time
	EndTime       *time.Time
	TotalReleases int32
	ConfigParams  *string
}

// ReleaseRow is one per-release row recorded by a run.
type ReleaseRow struct {
	RunID        int64
	Version      string
	RCCount      int32
	CommitCount  int32
	ReleaseDate  time.Time
	BusinessDays int32
}
