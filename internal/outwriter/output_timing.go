package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/cadence/internal/contract"
	"github.com/huangsam/cadence/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintTimings outputs business-day spans per release with the commit-count
// correlation as a footer, dispatching based on the output format configured.
func PrintTimings(result *schema.ScanResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := printTimingJSON(result, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printTimingCSV(result, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return fmt.Errorf("parquet output does not support timing results, use the export subcommand")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeTimingTable(w, result, cfg, duration)
		}, "Wrote table")
	}
	return nil
}

// printTimingJSON handles opening the file and calling the JSON writer.
func printTimingJSON(result *schema.ScanResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForTimings(w, result)
	}, "Wrote JSON")
}

// printTimingCSV handles opening the file and calling the CSV writer.
func printTimingCSV(result *schema.ScanResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForTimings(csvWriter, result.Timings)
	}, "Wrote CSV")
}

// writeTimingTable generates and writes the human-readable table.
func writeTimingTable(w io.Writer, result *schema.ScanResult, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)

	table.Header([]string{"Rank", "Version", "First RC", "Released", "Days", "Commits", "Cadence"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, timing := range result.Timings {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			timing.Version,
			timing.FirstRCDate.Format(contract.DateFormat),
			timing.ReleaseDate.Format(contract.DateFormat),
			strconv.Itoa(timing.BusinessDays),
			strconv.Itoa(timing.CommitCount),
			contract.GetColorLabel(timing.BusinessDays),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if err := writeCorrelationFooter(w, result); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Scan completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeCorrelationFooter summarizes the commit-count correlation. Degenerate
// series (fewer than two releases, constant values) have no defined r.
func writeCorrelationFooter(w io.Writer, result *schema.ScanResult) error {
	if !result.PearsonOK {
		_, err := fmt.Fprintln(w, "Correlation between commits and business days: not enough data")
		return err
	}
	_, err := fmt.Fprintf(w, "Correlation between commits and business days: r=%.3f\n", result.PearsonR)
	return err
}

// writeJSONResultsForTimings marshals the timings to JSON and writes them.
func writeJSONResultsForTimings(w io.Writer, result *schema.ScanResult) error {
	type JSONTiming struct {
		Rank         int       `json:"rank"`
		Version      string    `json:"version"`
		FirstRCDate  time.Time `json:"first_rc_date"`
		ReleaseDate  time.Time `json:"release_date"`
		BusinessDays int       `json:"business_days"`
		CommitCount  int       `json:"commit_count"`
		Label        string    `json:"label"`
	}
	type JSONTimingResult struct {
		Timings   []JSONTiming `json:"timings"`
		PearsonR  float64      `json:"pearson_r"`
		PearsonOK bool         `json:"pearson_ok"`
	}

	timings := make([]JSONTiming, len(result.Timings))
	for i, timing := range result.Timings {
		timings[i] = JSONTiming{
			Rank:         i + 1,
			Version:      timing.Version,
			FirstRCDate:  timing.FirstRCDate,
			ReleaseDate:  timing.ReleaseDate,
			BusinessDays: timing.BusinessDays,
			CommitCount:  timing.CommitCount,
			Label:        contract.GetPlainLabel(timing.BusinessDays),
		}
	}
	return writeJSON(w, JSONTimingResult{
		Timings:   timings,
		PearsonR:  result.PearsonR,
		PearsonOK: result.PearsonOK,
	})
}

// writeCSVResultsForTimings writes the timings to a CSV writer.
func writeCSVResultsForTimings(w *csv.Writer, timings []schema.ReleaseTiming) error {
	header := []string{
		"rank",
		"version",
		"first_rc_date",
		"release_date",
		"business_days",
		"commit_count",
		"label",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, timing := range timings {
		row := []string{
			strconv.Itoa(i + 1),
			timing.Version,
			timing.FirstRCDate.Format(contract.DateFormat),
			timing.ReleaseDate.Format(contract.DateFormat),
			strconv.Itoa(timing.BusinessDays),
			strconv.Itoa(timing.CommitCount),
			contract.GetPlainLabel(timing.BusinessDays),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
