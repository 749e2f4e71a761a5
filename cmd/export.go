package cmd

import (
	"github.com/huangsam/cadence/core"
	"github.com/huangsam/cadence/internal/contract"
	"github.com/spf13/cobra"
)

// exportCmd writes scan results as parquet files.
var exportCmd = &cobra.Command{
	Use:   "export [repo-path]",
	Short: "Export release records and directory totals to Parquet.",
	Long: `Export the scan results as Parquet files for analytics tools.

Writes two datasets into the output directory:
- releases.parquet - one row per release
- dir-totals.parquet - aggregate file changes per directory

With --output-file, only the release records are written, to that path.

Parquet format enables fast querying with DuckDB, Apache Spark, and pandas.

Examples:
  # Export both datasets into ./charts
  cadence export

  # Export release records to a single file
  cadence export --output-file releases.parquet

  # Query with DuckDB
  duckdb -c "SELECT * FROM read_parquet('charts/releases.parquet')"`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteExport(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot export scan results", err)
		}
	},
}
