package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/gitstreak/schema"
)

// Color variables for console output.
var (
	BlazingColor = color.New(color.FgRed, color.Bold)     // BlazingColor marks a month-long streak.
	HotColor     = color.New(color.FgMagenta, color.Bold) // HotColor marks a streak of a week or more.
	WarmColor    = color.New(color.FgYellow)              // WarmColor marks a running streak.
	ColdColor    = color.New(color.FgCyan)                // ColdColor marks no streak at all.
)

// GetColorLabel returns a colored streak label for console output (table).
// It uses schema.GetPlainLabel to determine the string, and then applies the color.
func GetColorLabel(length int) string {
	text := schema.GetPlainLabel(length)

	switch text {
	case schema.BlazingValue:
		return BlazingColor.Sprint(text)
	case schema.HotValue:
		return HotColor.Sprint(text)
	case schema.WarmValue:
		return WarmColor.Sprint(text)
	default:
		return ColdColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path means os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for activity logs.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".gitstreak_cache.db"
	}
	return filepath.Join(homeDir, ".gitstreak_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for refresh history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".gitstreak_history.db"
	}
	return filepath.Join(homeDir, ".gitstreak_history.db")
}

// TruncateText shortens text to maxWidth runes with an ellipsis suffix.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
