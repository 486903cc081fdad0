package contract

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/gitstreak/schema"
)

// relativeTimeRe captures "N [units] ago", e.g. "2 years ago" or "10 days ago".
var relativeTimeRe = regexp.MustCompile(`^(\d+)\s+(year|month|week|day)s?\s+ago$`)

// durationRe captures "N [units]", e.g. "5 minutes" or "1 hour".
var durationRe = regexp.MustCompile(`^(\d+)\s+(day|hour|minute|second)s?$`)

// ParseRelativeTime converts strings like "2 weeks ago" into a time in the past.
func ParseRelativeTime(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	matches := relativeTimeRe.FindStringSubmatch(s)
	if len(matches) == 0 {
		return time.Time{}, fmt.Errorf("invalid relative time format: %s", s)
	}

	value, _ := strconv.Atoi(matches[1])
	switch matches[2] {
	case "year":
		return now.AddDate(-value, 0, 0), nil
	case "month":
		return now.AddDate(0, -value, 0), nil
	case "week":
		return now.AddDate(0, 0, -7*value), nil
	default:
		return now.AddDate(0, 0, -value), nil
	}
}

// ParseSince resolves a --since value into an ISO date. It accepts an ISO
// date, an RFC3339 timestamp or a relative "N units ago" expression.
// An empty input yields an empty date, meaning no lower bound.
func ParseSince(s string, now time.Time) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if t, err := time.Parse(schema.ISODate, s); err == nil {
		return t.Format(schema.ISODate), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC().Format(schema.ISODate), nil
	}
	t, err := ParseRelativeTime(s, now)
	if err != nil {
		return "", fmt.Errorf("invalid since value '%s'. Expected YYYY-MM-DD or 'N [units] ago'", s)
	}
	return t.UTC().Format(schema.ISODate), nil
}

// ParseInterval converts strings like "5m" or "5 minutes" into a duration.
// Go duration syntax is tried first.
func ParseInterval(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if d, err := time.ParseDuration(s); err == nil {
		if d < 0 {
			return 0, errors.New("negative interval is not allowed")
		}
		return d, nil
	}

	matches := durationRe.FindStringSubmatch(strings.ToLower(s))
	if len(matches) == 0 {
		return 0, fmt.Errorf("invalid interval format: %s", s)
	}

	value, _ := strconv.Atoi(matches[1])
	switch matches[2] {
	case "day":
		return time.Duration(value) * 24 * time.Hour, nil
	case "hour":
		return time.Duration(value) * time.Hour, nil
	case "minute":
		return time.Duration(value) * time.Minute, nil
	default:
		return time.Duration(value) * time.Second, nil
	}
}
