package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/gitstreak/internal/contract"
	"github.com/huangsam/gitstreak/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// statsDocument is the JSON shape of a streak summary.
type statsDocument struct {
	schema.EnrichedStreakStats
	DaysRecorded int       `json:"days_recorded"`
	LastUpdated  time.Time `json:"last_updated"`
	Refreshed    bool      `json:"refreshed"`
}

// PrintStatsResult outputs a streak summary, dispatching based on the output format configured.
func PrintStatsResult(result schema.StreakResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteStatsJSON(w, result)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteStatsCSV(w, result)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return errors.New("parquet output is only available for the activity log")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return WriteStatsTable(w, result, cfg, duration)
		}, "Wrote table")
	}
	return nil
}

// WriteStatsJSON writes the enriched summary as indented JSON.
func WriteStatsJSON(w io.Writer, result schema.StreakResult) error {
	return writeJSON(w, statsDocument{
		EnrichedStreakStats: schema.EnrichStats(result.User, result.Stats),
		DaysRecorded:        result.Days,
		LastUpdated:         result.LastUpdated,
		Refreshed:           result.Refreshed,
	})
}

// WriteStatsCSV writes the summary as a single CSV record.
func WriteStatsCSV(w io.Writer, result schema.StreakResult) error {
	header := []string{
		"login", "mode", "total_contributions", "first_contribution",
		"current_length", "current_start", "current_end", "current_label",
		"longest_length", "longest_start", "longest_end", "longest_label",
		"excluded_days", "days_recorded", "last_updated",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		s := result.Stats
		lastUpdated := ""
		if !result.LastUpdated.IsZero() {
			lastUpdated = result.LastUpdated.UTC().Format(time.RFC3339)
		}
		return cw.Write([]string{
			result.User.Login,
			string(s.Mode),
			strconv.Itoa(s.TotalContributions),
			s.FirstContribution,
			strconv.Itoa(s.CurrentStreak.Length),
			s.CurrentStreak.Start,
			s.CurrentStreak.End,
			schema.GetPlainLabel(s.CurrentStreak.Length),
			strconv.Itoa(s.LongestStreak.Length),
			s.LongestStreak.Start,
			s.LongestStreak.End,
			schema.GetPlainLabel(s.LongestStreak.Length),
			strings.Join(s.ExcludedDays, "|"),
			strconv.Itoa(result.Days),
			lastUpdated,
		})
	})
}

// WriteStatsTable writes the human-readable summary table.
func WriteStatsTable(w io.Writer, result schema.StreakResult, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Value", "Label"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	s := result.Stats
	maxWidth := getMaxValueWidth(cfg)
	excluded := "none"
	if len(s.ExcludedDays) > 0 {
		excluded = strings.Join(s.ExcludedDays, ", ")
	}
	first := s.FirstContribution
	if first == "" {
		first = "-"
	}

	data := [][]string{
		{"Account", contract.TruncateText(fmt.Sprintf("%s (@%s)", result.User.DisplayName(), result.User.Login), maxWidth), ""},
		{"Total contributions", strconv.Itoa(s.TotalContributions), ""},
		{"First contribution", first, ""},
		{"Current streak", formatSpan(s.CurrentStreak), streakLabel(s.CurrentStreak.Length, cfg.UseColors)},
		{"Longest streak", formatSpan(s.LongestStreak), streakLabel(s.LongestStreak.Length, cfg.UseColors)},
		{"Excluded days", excluded, ""},
	}
	if result.User.Location != "" {
		data = slices.Insert(data, 1, []string{"Location", contract.TruncateText(result.User.Location, maxWidth), ""})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	source := "stored log"
	if result.Refreshed {
		source = "GitHub"
	}
	_, err := fmt.Fprintf(w, "Streak analysis of %d days completed in %v from %s. Log backend: %s\n",
		result.Days, duration, source, cfg.CacheBackend)
	return err
}
