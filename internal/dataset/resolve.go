package dataset

import (
	"fmt"
	"strings"
)

// Field is a logical column name with the literal headers that may carry it,
// in order of preference.
type Field struct {
	Name     string
	Synonyms []string
}

// NewField returns a Field accepting the given synonyms.
func NewField(name string, synonyms ...string) Field {
	return Field{Name: name, Synonyms: synonyms}
}

// With returns a copy of f with extra synonyms appended after the existing
// ones. Synonyms already accepted (case-insensitively) are skipped.
func (f Field) With(extra ...string) Field {
	out := Field{Name: f.Name, Synonyms: append([]string(nil), f.Synonyms...)}
	seen := make(map[string]bool, len(out.Synonyms))
	for _, s := range out.Synonyms {
		seen[foldHeader(s)] = true
	}
	for _, s := range extra {
		key := foldHeader(s)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out.Synonyms = append(out.Synonyms, strings.TrimSpace(s))
	}
	return out
}

// Column is a resolved field: the synonym that matched and its position.
type Column struct {
	Field   string
	Synonym string
	Index   int
}

// Resolve returns the first synonym of f present in the dataset headers,
// compared case-insensitively after trimming.
func Resolve(d *Dataset, f Field) (Column, bool) {
	if d == nil {
		return Column{}, false
	}
	for _, s := range f.Synonyms {
		if i, ok := d.lookup(s); ok {
			return Column{Field: f.Name, Synonym: s, Index: i}, true
		}
	}
	return Column{}, false
}

// MissingFieldsError reports every required logical field a dataset lacks.
type MissingFieldsError struct {
	Dataset string
	Fields  []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("%s: missing required columns: %s", e.Dataset, strings.Join(e.Fields, ", "))
}

// ResolveAll resolves every field and returns the columns keyed by logical
// name. If any field is missing, it returns a *MissingFieldsError naming all
// of them in the order given.
func ResolveAll(d *Dataset, fields ...Field) (map[string]Column, error) {
	cols := make(map[string]Column, len(fields))
	var missing []string
	for _, f := range fields {
		c, ok := Resolve(d, f)
		if !ok {
			missing = append(missing, f.Name)
			continue
		}
		cols[f.Name] = c
	}
	if len(missing) > 0 {
		name := ""
		if d != nil {
			name = d.Name()
		}
		return nil, &MissingFieldsError{Dataset: name, Fields: missing}
	}
	return cols, nil
}
