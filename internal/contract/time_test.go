package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, time.November, 3, 10, 0, 0, 0, time.UTC)

func TestParseRelativeTime(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    time.Time
		expectError bool
	}{
		{"plural months mixed case", "3 MoNtHs AgO", fixedNow.AddDate(0, -3, 0), false},
		{"singular week", "1 Week Ago", fixedNow.AddDate(0, 0, -7), false},
		{"ten days", "10 DAYS AGO", fixedNow.AddDate(0, 0, -10), false},
		{"one year", "1 year ago", fixedNow.AddDate(-1, 0, 0), false},
		{"missing ago", "2 years", time.Time{}, true},
		{"bad unit", "4 decades ago", time.Time{}, true},
		{"non numeric", "one year ago", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRelativeTime(tt.input, fixedNow)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseSince(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    string
		expectError bool
	}{
		{"empty", "", "", false},
		{"iso date", "2025-01-31", "2025-01-31", false},
		{"rfc3339", "2025-01-31T23:30:00-05:00", "2025-02-01", false},
		{"relative", "2 weeks ago", "2025-10-20", false},
		{"invalid date", "2025-02-30", "", true},
		{"garbage", "yesterday-ish", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSince(tt.input, fixedNow)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseInterval(t *testing.T) {
	tests := []struct {
		input       string
		expected    time.Duration
		expectError bool
	}{
		{"5m", 5 * time.Minute, false},
		{"0s", 0, false},
		{"90s", 90 * time.Second, false},
		{"5 minutes", 5 * time.Minute, false},
		{"1 hour", time.Hour, false},
		{"2 Days", 48 * time.Hour, false},
		{"30 seconds", 30 * time.Second, false},
		{"-5m", 0, true},
		{"5 fortnights", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseInterval(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
