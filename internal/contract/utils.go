package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// DateFormat is the layout for tag dates in CSV and table output.
const DateFormat = "2006-01-02"

// Cadence label constants.
const (
	FastValue    = "Fast"    // Released within a week
	SteadyValue  = "Steady"  // Released within two weeks
	SlowValue    = "Slow"    // Released within a month
	StalledValue = "Stalled" // Anything longer
)

// Color variables for console output.
var (
	FastColor    = color.New(color.FgGreen)             // FastColor signals a healthy turnaround.
	SteadyColor  = color.New(color.FgCyan)              // SteadyColor represents the expected pace.
	SlowColor    = color.New(color.FgYellow)            // SlowColor represents standard caution, not bold.
	StalledColor = color.New(color.FgRed, color.Bold)   // StalledColor represents standard danger.
	HeaderColor  = color.New(color.FgWhite, color.Bold) // HeaderColor for emphasized headings.
)

// GetPlainLabel returns a plain text label indicating how quickly a release
// shipped, based on business days between first rc and release. This is the
// core logic used for CSV, JSON, and table printing.
func GetPlainLabel(businessDays int) string {
	switch {
	case businessDays <= 5:
		return FastValue
	case businessDays <= 10:
		return SteadyValue
	case businessDays <= 21:
		return SlowValue
	default:
		return StalledValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(businessDays int) string {
	text := GetPlainLabel(businessDays)

	switch text {
	case FastValue:
		return FastColor.Sprint(text)
	case SteadyValue:
		return SteadyColor.Sprint(text)
	case SlowValue:
		return SlowColor.Sprint(text)
	default: // "Stalled"
		return StalledColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path and format type. It falls back to os.Stdout on error.
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

// GetCacheDBFilePath returns the path to the SQLite DB file for scan cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".cadence_cache.db"
	}
	return filepath.Join(homeDir, ".cadence_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for history storage.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".cadence_history.db"
	}
	return filepath.Join(homeDir, ".cadence_history.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to ensure there's space for both the "..." prefix and at least one character of content.
// Without this check, small maxWidth values could cause slice bounds errors in the truncation calculation.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
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
