package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// JSONLogger writes audit rows as JSON Lines, one object per row keyed by
// the declared columns.
type JSONLogger struct {
	file    *os.File
	enc     *json.Encoder
	columns []string
}

// NewJSONLogger opens _{toolName}_{action}_{date}.jsonl in dir.
func NewJSONLogger(dir, toolName, action string) (*JSONLogger, error) {
	file, err := openLogFile(dir, toolName, action, ".jsonl")
	if err != nil {
		return nil, err
	}
	return &JSONLogger{file: file, enc: json.NewEncoder(file)}, nil
}

// WriteHeader records the keys used for subsequent rows. Nothing is written
// to the file.
func (l *JSONLogger) WriteHeader(columns []string) error {
	l.columns = append([]string(nil), columns...)
	return nil
}

// WriteRow writes one JSON object with a "timestamp" key and one key per
// column.
func (l *JSONLogger) WriteRow(row []string) error {
	if l.columns == nil {
		return fmt.Errorf("JSON logger has no columns, call WriteHeader first")
	}
	if len(row) != len(l.columns) {
		return fmt.Errorf("row has %d values, header has %d columns", len(row), len(l.columns))
	}
	obj := make(map[string]string, len(row)+1)
	obj["timestamp"] = time.Now().Format(time.RFC3339)
	for i, c := range l.columns {
		obj[c] = row[i]
	}
	if err := l.enc.Encode(obj); err != nil {
		return fmt.Errorf("failed to write JSON row: %w", err)
	}
	return nil
}

// ShouldWriteHeader reports whether the columns are still unknown. Every
// JSON line carries its own keys, so this does not depend on the file.
func (l *JSONLogger) ShouldWriteHeader() (bool, error) {
	return l.columns == nil, nil
}

// Path returns the file location.
func (l *JSONLogger) Path() string {
	return l.file.Name()
}

// Close closes the file.
func (l *JSONLogger) Close() error {
	return l.file.Close()
}
