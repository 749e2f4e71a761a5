// Package parquet provides data structures and functions for exporting
// release cadence data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/cadence/internal/contract"
	"github.com/huangsam/cadence/schema"
	"github.com/parquet-go/parquet-go"
)

// Release represents one shipped release with its cadence measurements.
type Release struct {
	// Version is the final release tag, e.g. "0.19.0"
	Version string `parquet:"version,snappy"`

	// RCCount is the number of release candidate tags cut before shipping
	RCCount int32 `parquet:"rc_count,snappy"`

	// FirstRC is the earliest rc tag for this release
	FirstRC string `parquet:"first_rc,snappy"`

	// LastRC is the final rc tag before the release
	LastRC string `parquet:"last_rc,snappy"`

	// CommitCount is the number of commits between first and last rc,
	// after version-bump commits have been excluded
	CommitCount int32 `parquet:"commit_count,snappy"`

	// ReleaseDate is the commit date of the release tag
	ReleaseDate time.Time `parquet:"release_date,snappy"`

	// BusinessDays is the weekday count from first rc to release
	BusinessDays int32 `parquet:"business_days,snappy"`
}

// DirTotal represents a top-level directory with its aggregate change count.
type DirTotal struct {
	// Dir is the first path segment of the changed files
	Dir string `parquet:"dir,snappy"`

	// Count is the total number of file changes across all releases
	Count int32 `parquet:"count,snappy"`
}

// ScanRun represents a single scan run with metadata.
// This struct maps to the cadence_scan_runs database table.
type ScanRun struct {
	// RunID is the unique identifier for this scan run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the scan began
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the scan completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// TotalReleases is the number of releases found in this run
	TotalReleases int32 `parquet:"total_releases,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// RunRelease represents one release row recorded by a scan run.
// This struct maps to the cadence_run_releases database table.
type RunRelease struct {
	// RunID references the parent scan run
	RunID int64 `parquet:"run_id,snappy"`

	// Version is the final release tag
	Version string `parquet:"version,snappy"`

	// RCCount is the number of rc tags cut before shipping
	RCCount int32 `parquet:"rc_count,snappy"`

	// CommitCount is the bump-excluded commit count for the rc span
	CommitCount int32 `parquet:"commit_count,snappy"`

	// ReleaseDate is the commit date of the release tag
	ReleaseDate time.Time `parquet:"release_date,snappy"`

	// BusinessDays is the weekday count from first rc to release
	BusinessDays int32 `parquet:"business_days,snappy"`
}

// writeParquet writes any record slice to a Parquet file using struct schema inference.
func writeParquet[T any](data []T, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// The schema is automatically derived from the struct tags
	writer := parquet.NewGenericWriter[T](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteReleaseRecords writes per-release cadence rows to a Parquet file.
func WriteReleaseRecords(outputPath string, records []schema.ReleaseRecord) error {
	rows := make([]Release, len(records))
	for i, record := range records {
		rows[i] = Release{
			Version:      record.Version,
			RCCount:      int32(record.RCCount),
			FirstRC:      record.FirstRC,
			LastRC:       record.LastRC,
			CommitCount:  int32(record.CommitCount),
			ReleaseDate:  record.ReleaseDate,
			BusinessDays: int32(record.BusinessDays),
		}
	}
	return writeParquet(rows, outputPath)
}

// WriteDirTotals writes aggregated directory change counts to a Parquet file.
func WriteDirTotals(outputPath string, totals []schema.DirTotal) error {
	rows := make([]DirTotal, len(totals))
	for i, total := range totals {
		rows[i] = DirTotal{
			Dir:   total.Dir,
			Count: int32(total.Count),
		}
	}
	return writeParquet(rows, outputPath)
}

// WriteScanRuns writes scan run history to a Parquet file.
func WriteScanRuns(outputPath string, records []contract.RunRecord) error {
	rows := make([]ScanRun, len(records))
	for i, record := range records {
		rows[i] = ScanRun{
			RunID:         record.RunID,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			TotalReleases: record.TotalReleases,
			ConfigParams:  record.ConfigParams,
		}
	}
	return writeParquet(rows, outputPath)
}

// WriteRunReleases writes recorded per-run release rows to a Parquet file.
func WriteRunReleases(outputPath string, records []contract.ReleaseRow) error {
	rows := make([]RunRelease, len(records))
	for i, record := range records {
		rows[i] = RunRelease{
			RunID:        record.RunID,
			Version:      record.Version,
			RCCount:      record.RCCount,
			CommitCount:  record.CommitCount,
			ReleaseDate:  record.ReleaseDate,
			BusinessDays: record.BusinessDays,
		}
	}
	return writeParquet(rows, outputPath)
}
