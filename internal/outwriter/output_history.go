package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/gitstreak/internal/contract"
	"github.com/huangsam/gitstreak/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintSnapshotHistory outputs the recorded snapshots of a login, dispatching based on the output format configured.
func PrintSnapshotHistory(login string, snapshots []schema.StreakSnapshotRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, snapshots)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteHistoryCSV(w, snapshots)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return fmt.Errorf("use 'history export' for Parquet output")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteHistoryTable(w, login, snapshots, cfg)
		}, "Wrote table")
	}
	return nil
}

// WriteHistoryCSV writes one CSV record per snapshot.
func WriteHistoryCSV(w io.Writer, snapshots []schema.StreakSnapshotRecord) error {
	header := []string{"run_id", "login", "snapshot_time", "total_contributions", "current_length", "longest_length"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, s := range snapshots {
			row := []string{
				s.RunID,
				s.Login,
				s.SnapshotTime.UTC().Format(time.RFC3339),
				strconv.Itoa(int(s.TotalContributions)),
				strconv.Itoa(int(s.CurrentLength)),
				strconv.Itoa(int(s.LongestLength)),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteHistoryTable writes the snapshots of a login as a table, newest first.
func WriteHistoryTable(w io.Writer, login string, snapshots []schema.StreakSnapshotRecord, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Recorded", "Total", "Current", "Longest", "Label", "Run"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(snapshots))
	for _, s := range snapshots {
		data = append(data, []string{
			s.SnapshotTime.Local().Format("2006-01-02 15:04"),
			strconv.Itoa(int(s.TotalContributions)),
			strconv.Itoa(int(s.CurrentLength)),
			strconv.Itoa(int(s.LongestLength)),
			streakLabel(int(s.CurrentLength), cfg.UseColors),
			contract.TruncateText(s.RunID, 11),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d snapshots recorded for %s\n", len(snapshots), login)
	return err
}
