package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/gitstreak/internal/contract"
	"github.com/huangsam/gitstreak/internal/parquet"
	"github.com/huangsam/gitstreak/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintActivityLog outputs the daily activity of a login, dispatching based on the output format configured.
func PrintActivityLog(login string, entries []schema.DailyEntry, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, entries)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteLogCSV(w, login, entries)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.WriteDailyContributions(w, parquet.ConvertDailyEntries(login, entries))
		}, "Wrote Parquet"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteLogTable(w, entries, cfg)
		}, "Wrote table")
	}
	return nil
}

// WriteLogCSV writes one CSV record per day.
func WriteLogCSV(w io.Writer, login string, entries []schema.DailyEntry) error {
	header := []string{"login", "date", "weekday", "count", "excluded"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, e := range entries {
			row := []string{login, e.Date, e.Weekday, strconv.Itoa(e.Count), strconv.FormatBool(e.Excluded)}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteLogTable writes the human-readable log table with a bar per day.
func WriteLogTable(w io.Writer, entries []schema.DailyEntry, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Date", "Day", "Count", "Activity", "Excluded"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	barWidth := getMaxBarWidth(cfg)
	peak := 0
	total := 0
	for _, e := range entries {
		peak = max(peak, e.Count)
		total += e.Count
	}

	data := make([][]string, 0, len(entries))
	for _, e := range entries {
		excluded := ""
		if e.Excluded {
			excluded = "yes"
		}
		data = append(data, []string{
			e.Date,
			e.Weekday,
			strconv.Itoa(e.Count),
			activityBar(e.Count, peak, barWidth),
			excluded,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d days with %d contributions\n", len(entries), total)
	return err
}

// activityBar scales count against peak into at most width cells.
// Any non-zero count gets at least one cell.
func activityBar(count, peak, width int) string {
	if count <= 0 || peak <= 0 || width <= 0 {
		return ""
	}
	cells := count * width / peak
	return strings.Repeat("■", max(cells, 1))
}
