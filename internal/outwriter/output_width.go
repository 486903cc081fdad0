package outwriter

import (
	"os"

	"github.com/huangsam/gitstreak/internal/contract"
	"golang.org/x/term"
)

// getTerminalWidth returns the width override or the detected terminal width.
func getTerminalWidth(cfg *contract.Config) int {
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}

// getMaxValueWidth returns the room left for free text (names, locations) in the stats table.
func getMaxValueWidth(cfg *contract.Config) int {
	// Metric + Label columns with borders and padding
	available := getTerminalWidth(cfg) - 40
	return min(max(available, 20), 60)
}

// getMaxBarWidth returns the number of cells the activity bar of the log table may use.
func getMaxBarWidth(cfg *contract.Config) int {
	// Date + Day + Count + Excluded columns with borders and padding
	available := getTerminalWidth(cfg) - 45
	return min(max(available, 10), 50)
}
