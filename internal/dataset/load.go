package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadError reports a file that could not be parsed as a spreadsheet.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ErrNoHeader is returned for files with no non-blank row.
var ErrNoHeader = errors.New("no header row found")

// LoadFile reads path into a Dataset labelled name. The format is chosen by
// extension: .xlsx/.xlsm/.xltx/.xltm are read from the first sheet, .csv and
// .txt are read as delimited text. Every failure is a *LoadError.
func LoadFile(name, path string) (*Dataset, error) {
	ext := strings.ToLower(filepath.Ext(path))
	var (
		d   *Dataset
		err error
	)
	switch ext {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		var f *os.File
		if f, err = os.Open(path); err == nil {
			d, err = ReadXLSX(name, f)
			f.Close()
		}
	case ".csv", ".txt":
		var f *os.File
		if f, err = os.Open(path); err == nil {
			d, err = ReadCSV(name, f)
			f.Close()
		}
	default:
		err = fmt.Errorf("unsupported file type %q (expected .xlsx or .csv)", ext)
	}
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return d, nil
}

// ReadXLSX reads the first worksheet of an Excel workbook.
func ReadXLSX(name string, r io.Reader) (*Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return fromRows(name, rows)
}

// ReadCSV reads delimited text. The delimiter is sniffed from the header
// line, since Italian Excel exports use ';' rather than ','.
func ReadCSV(name string, r io.Reader) (*Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = sniffDelimiter(data)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return fromRows(name, rows)
}

// fromRows uses the first non-blank row as header.
func fromRows(name string, rows [][]string) (*Dataset, error) {
	for i, r := range rows {
		if isBlankRow(r) {
			continue
		}
		return New(name, r, rows[i+1:]), nil
	}
	return nil, ErrNoHeader
}

// sniffDelimiter picks the most frequent of ';', ',' and tab on the first
// non-blank line, ignoring quoted text. Ties and empty input default to ','.
func sniffDelimiter(data []byte) rune {
	var line []byte
	for _, l := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(l)) > 0 {
			line = l
			break
		}
	}
	counts := map[rune]int{}
	quoted := false
	for _, c := range string(line) {
		switch {
		case c == '"':
			quoted = !quoted
		case quoted:
		case c == ';' || c == ',' || c == '\t':
			counts[c]++
		}
	}
	best := ','
	for _, c := range []rune{';', '\t'} {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return best
}
