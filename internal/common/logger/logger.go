// Package logger provides the diagnostic slog setup and the per-run audit
// log written next to the other tool logs in the temp directory.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Logger appends one row per run to an audit file.
type Logger interface {
	// WriteHeader declares the column names. Call it once when
	// ShouldWriteHeader reports true.
	WriteHeader(columns []string) error
	WriteRow(row []string) error
	ShouldWriteHeader() (bool, error)
	Path() string
	Close() error
}

// LogFormat selects the audit file format.
type LogFormat string

const (
	FormatCSV  LogFormat = "csv"
	FormatJSON LogFormat = "json"
)

// ParseLogFormat accepts "csv" or "json", case-insensitively.
func ParseLogFormat(s string) (LogFormat, error) {
	switch LogFormat(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("invalid log format: %s (valid: csv, json)", s)
	}
}

// NewLogger opens the audit file for toolName and action in dir. An empty
// dir means os.TempDir().
func NewLogger(format LogFormat, dir, toolName, action string) (Logger, error) {
	switch format {
	case FormatCSV:
		return NewCSVLogger(dir, toolName, action)
	case FormatJSON:
		return NewJSONLogger(dir, toolName, action)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
}

// openLogFile opens (append mode) _{toolName}_{action}_{date}{ext} in dir.
func openLogFile(dir, toolName, action, ext string) (*os.File, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	dateStr := time.Now().Format("2006-01-02")
	filePath := filepath.Join(dir, fmt.Sprintf("_%s_%s_%s%s", toolName, action, dateStr, ext))

	file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("could not create log file: %w", err)
	}
	return file, nil
}

// isEmpty reports whether the file has no content yet.
func isEmpty(file *os.File) (bool, error) {
	info, err := file.Stat()
	if err != nil {
		return false, fmt.Errorf("could not stat log file: %w", err)
	}
	return info.Size() == 0, nil
}
