package schema

// Streak label constants.
const (
	BlazingValue = "Blazing"
	HotValue     = "Hot"
	WarmValue    = "Warm"
	ColdValue    = "Cold"
)

// EnrichedStreakStats adds presentation data to StreakStats.
type EnrichedStreakStats struct {
	User         UserDetails `json:"user"`
	CurrentLabel string      `json:"current_label"`
	LongestLabel string      `json:"longest_label"`
	StreakStats
}

// GetPlainLabel returns a plain text label describing a streak length.
func GetPlainLabel(length int) string {
	switch {
	case length >= 30:
		return BlazingValue
	case length >= 7:
		return HotValue
	case length >= 1:
		return WarmValue
	default:
		return ColdValue
	}
}

// EnrichStats adds labels and the profile to a streak summary.
func EnrichStats(user UserDetails, stats StreakStats) EnrichedStreakStats {
	return EnrichedStreakStats{
		User:         user,
		CurrentLabel: GetPlainLabel(stats.CurrentStreak.Length),
		LongestLabel: GetPlainLabel(stats.LongestStreak.Length),
		StreakStats:  stats,
	}
}
