package cmd

import (
	"github.com/huangsam/cadence/core"
	"github.com/huangsam/cadence/internal/contract"
	"github.com/spf13/cobra"
)

// dirsCmd aggregates file changes per top-level directory.
var dirsCmd = &cobra.Command{
	Use:   "dirs [repo-path]",
	Short: "Show file changes aggregated by top-level directory.",
	Long: `Count changed files per top-level directory across all scanned releases.

By default the counts are summed repo-wide and directories touched at most
once are dropped as noise. Use --per-release to see the breakdown release by
release instead.

Examples:
  # Repo-wide directory totals
  cadence dirs

  # Per-release breakdown
  cadence dirs --per-release

  # JSON output for scripting
  cadence dirs --output json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteDirs(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot scan directories", err)
		}
	},
}
