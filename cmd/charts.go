package cmd

import (
	"github.com/huangsam/cadence/core"
	"github.com/huangsam/cadence/internal/contract"
	"github.com/spf13/cobra"
)

// chartsCmd renders the HTML chart set.
var chartsCmd = &cobra.Command{
	Use:   "charts [repo-path]",
	Short: "Render release cadence charts as standalone HTML files.",
	Long: `Render the full chart set into the output directory:

- Stacked bar of files changed per directory for each release
- Pie of aggregate changes by directory
- Bar of business days per release, ordered by release date
- Scatter of business days against commit count per release

Each chart is a standalone HTML file viewable in any browser.

Examples:
  # Render charts into ./charts
  cadence charts

  # Render into a custom directory
  cadence charts --output-dir reports/release-health`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCharts(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot render charts", err)
		}
	},
}
