package streak

import "github.com/huangsam/gitstreak/schema"

// Analyze computes streak statistics over an activity log in one ascending pass.
//
// A day continues the current streak when it has contributions, or when it is
// an excluded weekday and a streak is already running. Any other day resets
// the current streak to a zero-length span anchored at the log's last date,
// except on that last date itself, where the previous span is left intact.
// The longest streak only changes when the current one strictly exceeds it.
func Analyze(log schema.ActivityLog, excluded schema.WeekdaySet) (schema.StreakStats, error) {
	if len(log) == 0 {
		return schema.StreakStats{}, ErrEmptyInput
	}

	dates := log.Dates()
	first, today := dates[0], dates[len(dates)-1]

	stats := schema.StreakStats{
		Mode:          schema.DailyMode,
		LongestStreak: schema.StreakSpan{Start: first, End: first},
		CurrentStreak: schema.StreakSpan{Start: first, End: first},
		ExcludedDays:  excluded.Names(),
	}

	for _, date := range dates {
		count := log[date]
		stats.TotalContributions += count

		current := &stats.CurrentStreak
		if count > 0 || (current.Length > 0 && IsExcludedDay(date, excluded)) {
			current.Length++
			current.End = date
			if current.Length == 1 {
				current.Start = date
			}
			if stats.FirstContribution == "" {
				stats.FirstContribution = date
			}
			if current.Length > stats.LongestStreak.Length {
				stats.LongestStreak = *current
			}
		} else if date != today {
			*current = schema.StreakSpan{Start: today, End: today}
		}
	}

	return stats, nil
}

// ZeroStats is the summary reported for an account with no recorded days.
func ZeroStats(excluded schema.WeekdaySet) schema.StreakStats {
	return schema.StreakStats{
		Mode:         schema.DailyMode,
		ExcludedDays: excluded.Names(),
	}
}

// AnalyzeOrZero analyzes the log, falling back to ZeroStats when it is empty.
func AnalyzeOrZero(log schema.ActivityLog, excluded schema.WeekdaySet) schema.StreakStats {
	stats, err := Analyze(log, excluded)
	if err != nil {
		return ZeroStats(excluded)
	}
	return stats
}
