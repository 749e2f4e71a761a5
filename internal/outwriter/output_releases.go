package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/cadence/internal/contract"
	"github.com/huangsam/cadence/internal/parquet"
	"github.com/huangsam/cadence/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintReleases outputs one row per release, dispatching based on the output
// format configured.
func PrintReleases(records []schema.ReleaseRecord, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := printReleaseJSON(records, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printReleaseCSV(records, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		outputFile := cfg.OutputFile
		if outputFile == "" {
			outputFile = "releases.parquet"
		}
		if err := parquet.WriteReleaseRecords(outputFile, records); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
		fmt.Printf("Wrote %s\n", outputFile)
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReleaseTable(w, records, cfg, duration)
		}, "Wrote table")
	}
	return nil
}

// printReleaseJSON handles opening the file and calling the JSON writer.
func printReleaseJSON(records []schema.ReleaseRecord, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForReleases(w, records)
	}, "Wrote JSON")
}

// printReleaseCSV handles opening the file and calling the CSV writer.
func printReleaseCSV(records []schema.ReleaseRecord, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForReleases(csvWriter, records)
	}, "Wrote CSV")
}

// writeReleaseTable generates and writes the human-readable table.
func writeReleaseTable(w io.Writer, records []schema.ReleaseRecord, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)

	table.Header([]string{"Rank", "Version", "RCs", "First RC", "Last RC", "Commits", "Released", "Days", "Cadence"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, r := range records {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			r.Version,
			strconv.Itoa(r.RCCount),
			r.FirstRC,
			r.LastRC,
			strconv.Itoa(r.CommitCount),
			r.ReleaseDate.Format(contract.DateFormat),
			strconv.Itoa(r.BusinessDays),
			contract.GetColorLabel(r.BusinessDays),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	totalRCs := 0
	totalCommits := 0
	for _, r := range records {
		totalRCs += r.RCCount
		totalCommits += r.CommitCount
	}
	if _, err := fmt.Fprintf(w, "Showing %d releases (total rcs: %d, total commits: %d)\n", len(records), totalRCs, totalCommits); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Scan completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeJSONResultsForReleases marshals the release records to JSON and writes them.
func writeJSONResultsForReleases(w io.Writer, records []schema.ReleaseRecord) error {
	type JSONReleaseRecord struct {
		Rank  int    `json:"rank"`
		Label string `json:"label"`
		schema.ReleaseRecord
	}

	output := make([]JSONReleaseRecord, len(records))
	for i, r := range records {
		output[i] = JSONReleaseRecord{
			Rank:          i + 1,
			Label:         contract.GetPlainLabel(r.BusinessDays),
			ReleaseRecord: r,
		}
	}
	return writeJSON(w, output)
}

// writeCSVResultsForReleases writes the release records to a CSV writer.
func writeCSVResultsForReleases(w *csv.Writer, records []schema.ReleaseRecord) error {
	header := []string{
		"rank",
		"version",
		"rc_count",
		"first_rc",
		"last_rc",
		"commit_count",
		"release_date",
		"business_days",
		"label",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, r := range records {
		row := []string{
			strconv.Itoa(i + 1),
			r.Version,
			strconv.Itoa(r.RCCount),
			r.FirstRC,
			r.LastRC,
			strconv.Itoa(r.CommitCount),
			r.ReleaseDate.Format(contract.DateFormat),
			strconv.Itoa(r.BusinessDays),
			contract.GetPlainLabel(r.BusinessDays),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
