// Package schema has configs, models and shared constants for all parts of cadence.
package schema

import "time"

// ReleaseGroup pairs a release version with its release-candidate tags.
// RCTags preserves the order in which the tags appeared in `git tag` output,
// so RCTags[0] is rc0 and RCTags[len-1] is the final candidate before release.
type ReleaseGroup struct {
	Version string   // Release version, e.g. "0.19.0"
	RCTags  []string // Ordered rc tags, e.g. ["0.19.0-rc0", "0.19.0-rc1"]
}

// Commit is a single commit parsed from a release's rc log span.
type Commit struct {
	Hash    string   // Fixed-length hexadecimal prefix, e.g. "a1b2c3d4"
	Summary string   // One-line commit summary
	Files   []string // Changed file paths, in log output order
}

// ReleaseCommits maps a release version to the commits between its first and
// last rc tags, after version-bump commits have been excluded.
type ReleaseCommits struct {
	Version string
	Commits []Commit
}

// DirChanges holds the per-directory file-change counts for one release.
// The directory key is the first path segment of each changed file.
type DirChanges struct {
	Version string
	Counts  map[string]int
}

// DirTotal is a directory with its aggregate change count across all releases.
type DirTotal struct {
	Dir   string
	Count int
}

// ReleaseTiming captures when a release shipped and how long it took.
type ReleaseTiming struct {
	Version      string
	ReleaseDate  time.Time // Commit date of the release tag
	FirstRCDate  time.Time // Commit date of the rc0 tag
	BusinessDays int       // Signed weekday count from rc0 date to release date
	CommitCount  int       // Commits between rc0 and the final rc, bump-excluded
}

// ReleaseRecord is the flattened per-release row used by table, CSV, JSON
// and parquet output.
type ReleaseRecord struct {
	Version      string    `json:"version"`
	RCCount      int       `json:"rc_count"`
	FirstRC      string    `json:"first_rc"`
	LastRC       string    `json:"last_rc"`
	CommitCount  int       `json:"commit_count"`
	ReleaseDate  time.Time `json:"release_date"`
	BusinessDays int       `json:"business_days"`
}

// ScanResult bundles everything one repository scan produces. It is the unit
// of caching and the input to every output surface.
type ScanResult struct {
	Groups    []ReleaseGroup            `json:"groups"`
	Commits   map[string][]Commit       `json:"commits"`    // version -> commits
	DirCounts map[string]map[string]int `json:"dir_counts"` // version -> dir -> count
	DirTotals []DirTotal                `json:"dir_totals"` // noise-filtered, descending
	Timings   []ReleaseTiming           `json:"timings"`    // sorted by release date
	PearsonR  float64                   `json:"pearson_r"`  // zero when PearsonOK is false
	PearsonOK bool                      `json:"pearson_ok"` // false when the correlation is undefined
}
