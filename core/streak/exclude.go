package streak

import (
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/gitstreak/schema"
)

// IsExcludedDay reports whether date falls on one of the excluded weekdays.
// An empty set short-circuits without parsing the date.
func IsExcludedDay(date string, excluded schema.WeekdaySet) bool {
	if len(excluded) == 0 {
		return false
	}
	name, ok := WeekdayName(date)
	return ok && excluded.Contains(name)
}

// WeekdayName returns the short weekday name ("Mon") of an ISO date,
// computed in UTC so the result never depends on the host locale or zone.
func WeekdayName(date string) (string, bool) {
	t, err := time.Parse(schema.ISODate, date)
	if err != nil {
		return "", false
	}
	return schema.ShortWeekdays[t.Weekday()], true
}

// ParseWeekdays normalizes user supplied weekday names into a WeekdaySet.
// Any unambiguous prefix of at least three letters is accepted ("tue",
// "Tues", "TUESDAY"); blank entries are skipped.
func ParseWeekdays(values []string) (schema.WeekdaySet, error) {
	set := make(schema.WeekdaySet)
	for _, raw := range values {
		v := strings.ToLower(strings.TrimSpace(raw))
		if v == "" {
			continue
		}
		name, ok := matchWeekday(v)
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q (expected Sun, Mon, Tue, Wed, Thu, Fri or Sat)", raw)
		}
		set[name] = struct{}{}
	}
	return set, nil
}

func matchWeekday(v string) (string, bool) {
	if len(v) < 3 {
		return "", false
	}
	for i := time.Sunday; i <= time.Saturday; i++ {
		if strings.HasPrefix(strings.ToLower(i.String()), v) {
			return schema.ShortWeekdays[i], true
		}
	}
	return "", false
}
