package schema

import (
	"maps"
	"slices"
	"time"
)

// ActivityLog maps an ISO calendar date to the contribution count of that day.
// ISO dates sort lexicographically in chronological order.
type ActivityLog map[string]int

// Dates returns every recorded date in ascending order.
func (l ActivityLog) Dates() []string {
	return slices.Sorted(maps.Keys(l))
}

// Total sums the counts of every recorded day.
func (l ActivityLog) Total() int {
	total := 0
	for _, count := range l {
		total += count
	}
	return total
}

// First returns the earliest recorded date, or "" for an empty log.
func (l ActivityLog) First() string {
	if len(l) == 0 {
		return ""
	}
	return slices.Min(slices.Collect(maps.Keys(l)))
}

// Last returns the latest recorded date, or "" for an empty log.
func (l ActivityLog) Last() string {
	if len(l) == 0 {
		return ""
	}
	return slices.Max(slices.Collect(maps.Keys(l)))
}

// Clone returns an independent copy of the log.
func (l ActivityLog) Clone() ActivityLog {
	out := make(ActivityLog, len(l))
	maps.Copy(out, l)
	return out
}

// StreakSpan is a run of consecutive days. A zero-length span is anchored at a
// single date with Start == End.
type StreakSpan struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Length int    `json:"length"`
}

// StreakStats is the summary produced by analyzing an ActivityLog.
type StreakStats struct {
	Mode               StreakMode `json:"mode"`
	TotalContributions int        `json:"total_contributions"`
	FirstContribution  string     `json:"first_contribution"`
	LongestStreak      StreakSpan `json:"longest_streak"`
	CurrentStreak      StreakSpan `json:"current_streak"`
	ExcludedDays       []string   `json:"excluded_days"`
}

// WeekdaySet is a set of short weekday names (Sun..Sat).
type WeekdaySet map[string]struct{}

// NewWeekdaySet builds a set from already-normalized short names.
func NewWeekdaySet(names ...string) WeekdaySet {
	set := make(WeekdaySet, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// Contains reports whether name is in the set.
func (s WeekdaySet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the members in calendar order starting from Sunday.
func (s WeekdaySet) Names() []string {
	names := make([]string, 0, len(s))
	for _, n := range ShortWeekdays {
		if s.Contains(n) {
			names = append(names, n)
		}
	}
	return names
}

// StreakResult is everything a refresh produces for one account.
type StreakResult struct {
	User        UserDetails `json:"user"`
	Stats       StreakStats `json:"stats"`
	Days        int         `json:"days_recorded"`
	LastUpdated time.Time   `json:"last_updated"`
	Refreshed   bool        `json:"refreshed"`
}

// DailyEntry is a presentation row for one day of an ActivityLog.
type DailyEntry struct {
	Date     string `json:"date" parquet:"date"`
	Weekday  string `json:"weekday" parquet:"weekday"`
	Count    int    `json:"count" parquet:"count"`
	Excluded bool   `json:"excluded" parquet:"excluded"`
}
