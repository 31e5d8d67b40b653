package logger

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"
)

// CSVLogger writes audit rows as CSV.
type CSVLogger struct {
	writer *csv.Writer
	file   *os.File
}

// NewCSVLogger opens _{toolName}_{action}_{date}.csv in dir.
//
// Example: _deprovtool_generate_2026-01-09.csv
func NewCSVLogger(dir, toolName, action string) (*CSVLogger, error) {
	file, err := openLogFile(dir, toolName, action, ".csv")
	if err != nil {
		return nil, err
	}
	return &CSVLogger{writer: csv.NewWriter(file), file: file}, nil
}

// WriteHeader writes the header row. The timestamp column is prepended.
func (l *CSVLogger) WriteHeader(columns []string) error {
	header := append([]string{"Timestamp"}, columns...)
	if err := l.writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	l.writer.Flush()
	return l.writer.Error()
}

// WriteRow writes and flushes one row. The timestamp is prepended.
func (l *CSVLogger) WriteRow(row []string) error {
	if l.writer == nil {
		return fmt.Errorf("CSV writer is not initialized")
	}
	fullRow := append([]string{time.Now().Format("2006-01-02 15:04:05")}, row...)
	if err := l.writer.Write(fullRow); err != nil {
		return fmt.Errorf("failed to write CSV row: %w", err)
	}
	l.writer.Flush()
	if err := l.writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// ShouldWriteHeader reports whether the file is new.
func (l *CSVLogger) ShouldWriteHeader() (bool, error) {
	return isEmpty(l.file)
}

// Path returns the file location.
func (l *CSVLogger) Path() string {
	return l.file.Name()
}

// Close flushes and closes the file.
func (l *CSVLogger) Close() error {
	if l.writer != nil {
		l.writer.Flush()
		if err := l.writer.Error(); err != nil {
			return fmt.Errorf("error flushing CSV on close: %w", err)
		}
	}
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
