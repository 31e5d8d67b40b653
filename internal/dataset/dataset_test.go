package dataset

import (
	"testing"
)

func TestValue(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantValid bool
		wantText  string
	}{
		{"plain", "A B", true, "A B"},
		{"trimmed", "  M N \t", true, "M N"},
		{"empty", "", false, ""},
		{"whitespace only", "   ", false, ""},
		{"line feed in cell", "Team\nSales", true, "Team Sales"},
		{"crlf in cell", " A\r\n B ", true, "A B"},
		{"inner run", "Mario   De\tRossi", true, "Mario De Rossi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Some(tt.in)
			got, ok := v.Get()
			if ok != tt.wantValid || got != tt.wantText {
				t.Errorf("Some(%q).Get() = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.wantText, tt.wantValid)
			}
			if v.Valid() != tt.wantValid {
				t.Errorf("Valid() = %v, want %v", v.Valid(), tt.wantValid)
			}
		})
	}

	if got := None().Or("-"); got != "-" {
		t.Errorf("None().Or() = %q, want -", got)
	}
	if got := None().String(); got != "<none>" {
		t.Errorf("None().String() = %q", got)
	}
}

func TestDataset_Cell(t *testing.T) {
	d := New("t", []string{"A", "B", "C"}, [][]string{
		{"1", "", "3"},
		{"", "", ""},
		{"x"},
	})

	if d.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (blank rows dropped)", d.Len())
	}

	tests := []struct {
		row, col  int
		wantValid bool
		wantText  string
	}{
		{0, 0, true, "1"},
		{0, 1, false, ""},
		{0, 2, true, "3"},
		{1, 0, true, "x"},
		{1, 2, false, ""},
		{5, 0, false, ""},
		{0, -1, false, ""},
	}
	for _, tt := range tests {
		got, ok := d.Cell(tt.row, tt.col).Get()
		if ok != tt.wantValid || got != tt.wantText {
			t.Errorf("Cell(%d,%d) = (%q, %v), want (%q, %v)", tt.row, tt.col, got, ok, tt.wantText, tt.wantValid)
		}
	}
}

func TestDataset_DuplicateHeadersLeftmostWins(t *testing.T) {
	d := New("t", []string{"Member", "MEMBER"}, [][]string{{"left", "right"}})
	col, ok := Resolve(d, NewField("member", "member"))
	if !ok || col.Index != 0 {
		t.Errorf("Resolve() = %+v, %v, want index 0", col, ok)
	}
}
