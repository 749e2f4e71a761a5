package iocache

import (
	"errors"
	"fmt"

	"github.com/huangsam/cadence/internal/parquet"
)

// ExecuteHistoryExport performs the actual export of history data to Parquet files.
func ExecuteHistoryExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	// Get the history store
	store := Manager.GetHistoryStore()
	if store == nil {
		return errors.New("history tracking is not configured")
	}

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no scan history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total scan runs: %d\n", status.TotalRuns)
	fmt.Printf("Total release records: %d\n", status.TableSizes[runReleasesTable])

	// Retrieve all scan runs
	runs, err := store.ListRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve scan runs: %w", err)
	}

	// Retrieve all recorded releases
	releases, err := store.ListReleases()
	if err != nil {
		return fmt.Errorf("failed to retrieve release records: %w", err)
	}

	// Write scan runs to Parquet
	runsFile := outputFile + ".scan_runs.parquet"
	if err := parquet.WriteScanRuns(runsFile, runs); err != nil {
		return fmt.Errorf("failed to write scan runs: %w", err)
	}
	fmt.Printf("Exported %d scan runs to: %s\n", len(runs), runsFile)

	// Write release records to Parquet
	releasesFile := outputFile + ".run_releases.parquet"
	if err := parquet.WriteRunReleases(releasesFile, releases); err != nil {
		return fmt.Errorf("failed to write release records: %w", err)
	}
	fmt.Printf("Exported %d release records to: %s\n", len(releases), releasesFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
