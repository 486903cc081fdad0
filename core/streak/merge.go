package streak

import (
	"maps"
	"slices"
	"time"

	"github.com/huangsam/gitstreak/schema"
)

// MergeGraphs flattens per-year contribution graphs into one ActivityLog.
//
// Years are applied in ascending order so a date present in several graphs
// takes the value from the latest year. A day is kept when it falls on or
// before today (UTC), or on tomorrow with a positive count. Graphs with
// missing calendar levels and days with malformed dates contribute nothing.
func MergeGraphs(graphs map[int]schema.ActivityGraph, today time.Time) schema.ActivityLog {
	todayKey, tomorrowKey := cutoffKeys(today)
	log := make(schema.ActivityLog)

	for _, year := range slices.Sorted(maps.Keys(graphs)) {
		for _, week := range graphs[year].Weeks() {
			for _, day := range week.ContributionDays {
				if !isISODate(day.Date) {
					continue
				}
				if day.Date <= todayKey || (day.Date == tomorrowKey && day.ContributionCount > 0) {
					log[day.Date] = day.ContributionCount
				}
			}
		}
	}
	return log
}

// Merge is MergeGraphs anchored at the current wall-clock date.
func Merge(graphs map[int]schema.ActivityGraph) schema.ActivityLog {
	return MergeGraphs(graphs, time.Now())
}

// MergeLogs overlays a freshly merged log onto a persisted one. Dates in
// overlay replace those in base; neither input is modified.
func MergeLogs(base, overlay schema.ActivityLog) schema.ActivityLog {
	out := make(schema.ActivityLog, len(base)+len(overlay))
	maps.Copy(out, base)
	maps.Copy(out, overlay)
	return out
}

// cutoffKeys returns the ISO keys of today and tomorrow in UTC.
func cutoffKeys(now time.Time) (string, string) {
	day := now.UTC()
	return day.Format(schema.ISODate), day.AddDate(0, 0, 1).Format(schema.ISODate)
}

func isISODate(s string) bool {
	_, err := time.Parse(schema.ISODate, s)
	return err == nil
}
