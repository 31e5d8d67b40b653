// Package dataset provides a read-only, loosely-typed table built from a
// spreadsheet export, together with case-insensitive column resolution over
// header synonyms.
//
// Every cell is read as text. Empty or whitespace-only cells are reported as
// absent values, never as empty strings, so callers can tell "no data" apart
// from a real value.
package dataset

import (
	"strings"

	"golang.org/x/text/cases"
)

// Value is an optional text cell value.
type Value struct {
	text  string
	valid bool
}

// Some returns a present Value holding s with surrounding whitespace trimmed
// and inner whitespace runs, including line breaks typed inside a cell,
// collapsed to one space. A blank s yields an absent Value.
func Some(s string) Value {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return Value{}
	}
	return Value{text: s, valid: true}
}

// None returns an absent Value.
func None() Value {
	return Value{}
}

// Valid reports whether the value is present.
func (v Value) Valid() bool {
	return v.valid
}

// Get returns the text and whether it is present.
func (v Value) Get() (string, bool) {
	return v.text, v.valid
}

// Or returns the text if present, otherwise def.
func (v Value) Or(def string) string {
	if !v.valid {
		return def
	}
	return v.text
}

// String implements fmt.Stringer. Absent values render as "<none>".
func (v Value) String() string {
	return v.Or("<none>")
}

// Dataset is one uploaded table. It is immutable after New.
type Dataset struct {
	name    string
	headers []string
	rows    [][]string
	index   map[string]int
}

// foldHeader normalizes a header for case-insensitive comparison. A Caser
// keeps state, so one is created per call.
func foldHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return cases.Fold().String(strings.TrimSpace(h))
}

// New builds a Dataset from a header row and data rows. Rows shorter than
// the header are allowed; missing trailing cells read as absent. Rows made
// entirely of blank cells are dropped. When two headers fold to the same key
// the leftmost one wins.
func New(name string, headers []string, rows [][]string) *Dataset {
	d := &Dataset{
		name:    name,
		headers: make([]string, len(headers)),
		index:   make(map[string]int, len(headers)),
	}
	for i, h := range headers {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		d.headers[i] = h
		key := foldHeader(h)
		if key == "" {
			continue
		}
		if _, dup := d.index[key]; !dup {
			d.index[key] = i
		}
	}
	for _, r := range rows {
		if isBlankRow(r) {
			continue
		}
		d.rows = append(d.rows, append([]string(nil), r...))
	}
	return d
}

func isBlankRow(r []string) bool {
	for _, c := range r {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Name returns the dataset label used in diagnostics.
func (d *Dataset) Name() string {
	return d.name
}

// Headers returns a copy of the trimmed header row.
func (d *Dataset) Headers() []string {
	return append([]string(nil), d.headers...)
}

// Len returns the number of data rows.
func (d *Dataset) Len() int {
	return len(d.rows)
}

// Cell returns the value at row, col. Out-of-range positions are absent.
func (d *Dataset) Cell(row, col int) Value {
	if row < 0 || row >= len(d.rows) || col < 0 {
		return None()
	}
	r := d.rows[row]
	if col >= len(r) {
		return None()
	}
	return Some(r[col])
}

// lookup returns the column index of a folded header key.
func (d *Dataset) lookup(header string) (int, bool) {
	i, ok := d.index[foldHeader(header)]
	return i, ok
}
