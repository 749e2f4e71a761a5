// Package chart renders scan results as standalone HTML charts.
package chart

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/huangsam/cadence/internal/contract"
	"github.com/huangsam/cadence/schema"
)

const (
	chartWidth  = "1200px"
	chartHeight = "600px"
	pieRadius   = "60%"
	xAxisRotate = 45
)

// renderable is the common surface of every go-echarts chart type.
type renderable interface {
	Render(w io.Writer) error
}

// RenderAll writes the full chart set into cfg.OutputDir and returns the
// paths written, in render order.
func RenderAll(result *schema.ScanResult, cfg *contract.Config) ([]string, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create output dir %s: %w", cfg.OutputDir, err)
	}

	files := []struct {
		name  string
		chart renderable
	}{
		{fmt.Sprintf("files-changed-per-release-since-%d.html", cfg.SinceYear), newDirStackedBar(result)},
		{fmt.Sprintf("all-files-changed-since-%d-pie.html", cfg.SinceYear), newDirTotalsPie(result)},
		{fmt.Sprintf("days-to-release-since-%d.html", cfg.SinceYear), newTimingBar(result)},
		{fmt.Sprintf("days-to-release-by-fixes-since-%d.html", cfg.SinceYear), newFixesScatter(result)},
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(cfg.OutputDir, f.name)
		if err := renderToFile(f.chart, path); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func renderToFile(c renderable, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create chart file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	if err := c.Render(file); err != nil {
		return fmt.Errorf("cannot render chart %s: %w", path, err)
	}
	return nil
}

// newDirStackedBar builds a stacked bar chart of files changed per directory
// for each release. Only noise-filtered directories get their own series.
func newDirStackedBar(result *schema.ScanResult) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Files changed per release"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{Rotate: xAxisRotate, Interval: "0"},
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Files changed"}),
	)

	versions := make([]string, len(result.Groups))
	for i, group := range result.Groups {
		versions[i] = group.Version
	}
	bar.SetXAxis(versions)

	for _, total := range result.DirTotals {
		data := make([]opts.BarData, len(versions))
		for i, version := range versions {
			data[i] = opts.BarData{Value: result.DirCounts[version][total.Dir]}
		}
		bar.AddSeries(total.Dir, data, charts.WithBarChartOpts(opts.BarChart{Stack: "total"}))
	}
	return bar
}

// newDirTotalsPie builds a pie chart of aggregate changes per directory.
func newDirTotalsPie(result *schema.ScanResult) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "All files changed by directory"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	data := make([]opts.PieData, len(result.DirTotals))
	for i, total := range result.DirTotals {
		data[i] = opts.PieData{Name: total.Dir, Value: total.Count}
	}
	pie.AddSeries("Directories", data).
		SetSeriesOptions(
			charts.WithPieChartOpts(opts.PieChart{Radius: pieRadius}),
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {c} ({d}%)"}),
		)
	return pie
}

// newTimingBar builds a bar chart of business days per release, ordered by
// release date.
func newTimingBar(result *schema.ScanResult) *charts.Bar {
	timings := make([]schema.ReleaseTiming, len(result.Timings))
	copy(timings, result.Timings)
	sort.Slice(timings, func(i, j int) bool {
		if !timings[i].ReleaseDate.Equal(timings[j].ReleaseDate) {
			return timings[i].ReleaseDate.Before(timings[j].ReleaseDate)
		}
		return timings[i].Version < timings[j].Version
	})

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: "Days to release"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{Rotate: xAxisRotate, Interval: "0"},
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Business days"}),
	)

	versions := make([]string, len(timings))
	data := make([]opts.BarData, len(timings))
	for i, timing := range timings {
		versions[i] = timing.Version
		data[i] = opts.BarData{Value: timing.BusinessDays}
	}
	bar.SetXAxis(versions)
	bar.AddSeries("Business days", data)
	return bar
}

// newFixesScatter builds a scatter of business days against commit counts,
// one labelled point per release. The title carries the Pearson correlation
// when one is defined.
func newFixesScatter(result *schema.ScanResult) *charts.Scatter {
	title := "Days to release by fixes"
	if result.PearsonOK {
		title = fmt.Sprintf("Days to release by fixes (r=%.3f)", result.PearsonR)
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Business days", Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Commits"}),
	)

	seen := make(map[string]int)
	data := make([]opts.ScatterData, len(result.Timings))
	for i, timing := range result.Timings {
		point := fmt.Sprintf("%d/%d", timing.BusinessDays, timing.CommitCount)
		data[i] = opts.ScatterData{
			Name:       dedupeLabel(timing.Version, point, seen),
			Value:      []any{timing.BusinessDays, timing.CommitCount},
			SymbolSize: 12,
		}
	}
	scatter.AddSeries("Releases", data, charts.WithLabelOpts(opts.Label{
		Show:      opts.Bool(true),
		Position:  "right",
		Formatter: "{b}",
	}))
	return scatter
}

// dedupeLabel prefixes a label with spaces when its coordinate key repeats,
// keeping overlapping point labels tellable apart.
func dedupeLabel(label, key string, seen map[string]int) string {
	n := seen[key]
	seen[key] = n + 1
	return strings.Repeat(" ", n) + label
}
