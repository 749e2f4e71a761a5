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

// PrintDirTotals outputs repo-wide directory change counts, dispatching based
// on the output format configured.
func PrintDirTotals(totals []schema.DirTotal, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := printDirTotalsJSON(totals, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printDirTotalsCSV(totals, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		outputFile := cfg.OutputFile
		if outputFile == "" {
			outputFile = "dir-totals.parquet"
		}
		if err := parquet.WriteDirTotals(outputFile, totals); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
		fmt.Printf("Wrote %s\n", outputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDirTotalsTable(w, totals, cfg, duration)
		}, "Wrote table")
	}
	return nil
}

// PrintDirChanges outputs directory change counts broken out per release.
// Parquet has no natural shape for the nested breakdown, so it is rejected.
func PrintDirChanges(result *schema.ScanResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := printDirChangesJSON(result, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printDirChangesCSV(result, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return fmt.Errorf("parquet output does not support per-release directory changes")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeDirChangesTables(w, result, cfg, duration)
		}, "Wrote table")
	}
	return nil
}

func printDirTotalsJSON(totals []schema.DirTotal, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForDirTotals(w, totals)
	}, "Wrote JSON")
}

func printDirTotalsCSV(totals []schema.DirTotal, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForDirTotals(csvWriter, totals)
	}, "Wrote CSV")
}

func printDirChangesJSON(result *schema.ScanResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForDirChanges(w, result)
	}, "Wrote JSON")
}

func printDirChangesCSV(result *schema.ScanResult, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForDirChanges(csvWriter, result)
	}, "Wrote CSV")
}

// writeDirTotalsTable generates and writes the human-readable totals table.
func writeDirTotalsTable(w io.Writer, totals []schema.DirTotal, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)

	table.Header([]string{"Rank", "Directory", "Files Changed"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, t := range totals {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(t.Dir, getMaxTableDirWidth(cfg)),
			strconv.Itoa(t.Count),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	totalChanges := 0
	for _, t := range totals {
		totalChanges += t.Count
	}
	if _, err := fmt.Fprintf(w, "Showing %d directories (total files changed: %d)\n", len(totals), totalChanges); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Scan completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeDirChangesTables writes one table per release. Releases keep the order
// of result.Groups, and directories within a release print by count descending.
func writeDirChangesTables(w io.Writer, result *schema.ScanResult, cfg *contract.Config, duration time.Duration) error {
	for _, group := range result.Groups {
		header := fmt.Sprintf("Release %s (%d commits)", group.Version, len(result.Commits[group.Version]))
		if _, err := contract.HeaderColor.Fprintln(w, header); err != nil {
			return err
		}

		table := tablewriter.NewWriter(w)
		table.Header([]string{"Directory", "Files Changed"})
		table.Configure(func(tcfg *tablewriter.Config) {
			tcfg.Row.Alignment.Global = tw.AlignRight
		})

		var data [][]string
		for _, entry := range sortDirCounts(result.DirCounts[group.Version]) {
			data = append(data, []string{
				contract.TruncatePath(entry.Dir, getMaxTableDirWidth(cfg)),
				strconv.Itoa(entry.Count),
			})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "Showing %d releases. Scan completed in %v. Cache backend: %s\n", len(result.Groups), duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// writeJSONResultsForDirTotals marshals directory totals to JSON and writes them.
func writeJSONResultsForDirTotals(w io.Writer, totals []schema.DirTotal) error {
	type JSONDirTotal struct {
		Rank  int    `json:"rank"`
		Dir   string `json:"dir"`
		Count int    `json:"count"`
	}

	output := make([]JSONDirTotal, len(totals))
	for i, t := range totals {
		output[i] = JSONDirTotal{Rank: i + 1, Dir: t.Dir, Count: t.Count}
	}
	return writeJSON(w, output)
}

// writeCSVResultsForDirTotals writes directory totals to a CSV writer.
func writeCSVResultsForDirTotals(w *csv.Writer, totals []schema.DirTotal) error {
	if err := w.Write([]string{"rank", "dir", "files_changed"}); err != nil {
		return err
	}
	for i, t := range totals {
		if err := w.Write([]string{strconv.Itoa(i + 1), t.Dir, strconv.Itoa(t.Count)}); err != nil {
			return err
		}
	}
	return nil
}

// writeJSONResultsForDirChanges marshals the per-release breakdown to JSON.
func writeJSONResultsForDirChanges(w io.Writer, result *schema.ScanResult) error {
	type JSONDirChanges struct {
		Version string         `json:"version"`
		Commits int            `json:"commits"`
		Counts  map[string]int `json:"counts"`
	}

	output := make([]JSONDirChanges, len(result.Groups))
	for i, group := range result.Groups {
		output[i] = JSONDirChanges{
			Version: group.Version,
			Commits: len(result.Commits[group.Version]),
			Counts:  result.DirCounts[group.Version],
		}
	}
	return writeJSON(w, output)
}

// writeCSVResultsForDirChanges flattens the per-release breakdown into rows.
func writeCSVResultsForDirChanges(w *csv.Writer, result *schema.ScanResult) error {
	if err := w.Write([]string{"version", "dir", "files_changed"}); err != nil {
		return err
	}
	for _, group := range result.Groups {
		for _, entry := range sortDirCounts(result.DirCounts[group.Version]) {
			row := []string{group.Version, entry.Dir, strconv.Itoa(entry.Count)}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}
