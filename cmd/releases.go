package cmd

import (
	"github.com/huangsam/cadence/core"
	"github.com/huangsam/cadence/internal/contract"
	"github.com/spf13/cobra"
)

// releasesCmd lists per-release statistics.
var releasesCmd = &cobra.Command{
	Use:   "releases [repo-path]",
	Short: "Show one row per release with rc and commit counts.",
	Long: `Scan release and release-candidate tags and print one row per release.

Each row shows the rc count, the first and last rc tags, the number of commits
landed between them (version bumps excluded), the release date, and the
business days the release spent in candidate review.

Examples:
  # Scan the current repository
  cadence releases

  # Scan another repository since 2023
  cadence releases ~/src/product --since-year 2023

  # Export rows to CSV for tracking
  cadence releases --output csv --output-file releases.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteReleases(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot scan releases", err)
		}
	},
}
