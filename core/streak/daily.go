package streak

import "github.com/huangsam/gitstreak/schema"

// DailyEntries expands a log into per-day rows in ascending date order.
func DailyEntries(log schema.ActivityLog, excluded schema.WeekdaySet) []schema.DailyEntry {
	dates := log.Dates()
	entries := make([]schema.DailyEntry, 0, len(dates))
	for _, date := range dates {
		weekday, _ := WeekdayName(date)
		entries = append(entries, schema.DailyEntry{
			Date:     date,
			Weekday:  weekday,
			Count:    log[date],
			Excluded: IsExcludedDay(date, excluded),
		})
	}
	return entries
}

// Since returns the subset of the log dated on or after the given ISO date.
// An empty since returns a copy of the whole log.
func Since(log schema.ActivityLog, since string) schema.ActivityLog {
	out := make(schema.ActivityLog)
	for date, count := range log {
		if since == "" || date >= since {
			out[date] = count
		}
	}
	return out
}
