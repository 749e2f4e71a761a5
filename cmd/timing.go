package cmd

import (
	"github.com/huangsam/cadence/core"
	"github.com/huangsam/cadence/internal/contract"
	"github.com/spf13/cobra"
)

// timingCmd measures business days from first rc to release.
var timingCmd = &cobra.Command{
	Use:   "timing [repo-path]",
	Short: "Show business days from first rc to final release.",
	Long: `Measure how long each release spent in candidate review.

The span is counted in business days from the first rc tag's commit date to
the release tag's commit date. The footer reports the Pearson correlation
between commit count and review length, which answers whether heavier
releases take longer to stabilize.

Examples:
  # Timing for the current repository
  cadence timing

  # Fetch tags first, then measure
  cadence timing --fetch`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTiming(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot scan timing", err)
		}
	},
}
