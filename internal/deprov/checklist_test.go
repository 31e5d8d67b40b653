package deprov

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"deprovtool/internal/dataset"
)

func TestBuildChecklist_NoTicketNoData(t *testing.T) {
	c := BuildChecklist(ChecklistInput{Identity: NormalizeKey("a.b.ext@x.it")})

	if c.Title != "Consip – SR Deprovisioning - a.b.ext@x.it" {
		t.Errorf("Title = %q", c.Title)
	}
	want := []string{
		"Ciao,",
		"per a.b.ext@x.it:",
		"1. Disabilitare l’account di Azure",
		"2. Impostazione Manager con: -",
		"3. Impostare Hide dalla Rubrica",
		"4. Rimuovere le appartenenze dall’utenza Azure",
		"5. Rimuovere le applicazioni dall’utenza Azure",
		"6. Rimozione ruoli",
		"7. Rimozione licenze",
	}
	if diff := cmp.Diff(want, c.Body); diff != "" {
		t.Errorf("Body mismatch (-want +got):\n%s", diff)
	}
	if c.Steps() != 7 {
		t.Errorf("Steps() = %d, want 7", c.Steps())
	}
}

func TestBuildChecklist_TicketAndDirectory(t *testing.T) {
	c := BuildChecklist(ChecklistInput{
		Identity:    NormalizeKey("a.b.ext@x.it"),
		Ticket:      "  TT123 ",
		DisplayName: dataset.Some("A B"),
		Manager:     dataset.Some("M N"),
	})

	if c.Title != "[Consip – SR][TT123] Deprovisioning - A B" {
		t.Errorf("Title = %q", c.Title)
	}
	if c.Body[3] != "2. Impostazione Manager con: M N" {
		t.Errorf("manager step = %q", c.Body[3])
	}
}

func TestBuildChecklist_BlankTicketIsTicketless(t *testing.T) {
	c := BuildChecklist(ChecklistInput{Identity: "x@y.it", Ticket: "   ", DisplayName: dataset.Some("X Y")})
	if c.Title != "Consip – SR Deprovisioning - X Y" {
		t.Errorf("Title = %q", c.Title)
	}
}

func TestBuildChecklist_PSTStepPosition(t *testing.T) {
	c := BuildChecklist(ChecklistInput{Identity: "a.b.ext@x.it", HasMailbox: true})

	want := []string{
		"3. Impostare Hide dalla Rubrica",
		`4. Estrarre la casella in PST: \\fileserver\PST\a.b.ext@x.it.pst`,
		"5. Rimuovere le appartenenze dall’utenza Azure",
	}
	if diff := cmp.Diff(want, c.Body[4:7]); diff != "" {
		t.Errorf("PST placement mismatch (-want +got):\n%s", diff)
	}
	if c.Steps() != 8 {
		t.Errorf("Steps() = %d, want 8", c.Steps())
	}
}

func TestBuildChecklist_CustomPSTPath(t *testing.T) {
	c := BuildChecklist(ChecklistInput{Identity: "u@x.it", HasMailbox: true, PSTPath: `D:\Archivio\{upn}\mail.pst`})
	if !strings.HasSuffix(c.Body[5], `D:\Archivio\u@x.it\mail.pst`) {
		t.Errorf("PST step = %q", c.Body[5])
	}
}

func TestBuildChecklist_Sections(t *testing.T) {
	c := BuildChecklist(ChecklistInput{
		Identity:        "u@x.it",
		SharedMailboxes: []string{"a@x.it", "b@x.it"},
		Groups:          []string{"G1"},
	})

	want := []string{
		"6. Rimozione ruoli",
		"7. Rimozione abilitazione da SM:",
		"   - a@x.it",
		"   - b@x.it",
		"8. Rimozione appartenenze ai gruppi Azure:",
		"   - G1",
		"9. Rimozione licenze",
	}
	if diff := cmp.Diff(want, c.Body[7:]); diff != "" {
		t.Errorf("sections mismatch (-want +got):\n%s", diff)
	}
}

var numbered = regexp.MustCompile(`^(\d+)\. `)

func TestBuildChecklist_NumberingContiguous(t *testing.T) {
	for mask := 0; mask < 8; mask++ {
		in := ChecklistInput{Identity: "u@x.it", HasMailbox: mask&1 != 0}
		if mask&2 != 0 {
			in.SharedMailboxes = []string{"sm@x.it"}
		}
		if mask&4 != 0 {
			in.Groups = []string{"G1", "G2"}
		}
		c := BuildChecklist(in)

		next := 1
		for _, line := range c.Body {
			m := numbered.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if n, _ := strconv.Atoi(m[1]); n != next {
				t.Fatalf("mask %d: item %q, want number %d", mask, line, next)
			}
			next++
		}
		if last := c.Body[len(c.Body)-1]; !strings.HasSuffix(last, "Rimozione licenze") {
			t.Errorf("mask %d: last line = %q", mask, last)
		}
	}
}

func TestChecklist_TextRoundTrip(t *testing.T) {
	c := BuildChecklist(ChecklistInput{
		Identity:        "u@x.it",
		Ticket:          "T1",
		DisplayName:     dataset.Some("U X"),
		SharedMailboxes: []string{"sm@x.it"},
		Groups:          []string{"G1"},
		HasMailbox:      true,
	})

	got := strings.Split(c.Text(), "\n")
	want := append([]string{c.Title, ""}, c.Body...)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(append([]string{c.Title}, c.Body...), c.Lines()); diff != "" {
		t.Errorf("Lines() mismatch (-want +got):\n%s", diff)
	}
}

func TestExportFileName(t *testing.T) {
	tests := []struct {
		name    string
		display dataset.Value
		key     Key
		want    string
	}{
		{"display name", dataset.Some("Mario De Rossi"), "m@x.it", "Deprovisioning_Mario_De_Rossi.txt"},
		{"identity fallback", dataset.None(), "a.b.ext@x.it", "Deprovisioning_a.b.ext@x.it.txt"},
		{"path separators", dataset.Some("A/B C"), "k", "Deprovisioning_A_B_C.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExportFileName(tt.display, tt.key); got != tt.want {
				t.Errorf("ExportFileName() = %q, want %q", got, tt.want)
			}
		})
	}
}
