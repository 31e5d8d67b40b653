package deprov

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"deprovtool/internal/dataset"
)

func noticesFor(r *Report, label string) []Notice {
	var out []Notice
	for _, n := range r.Notices {
		if n.Dataset == label {
			out = append(out, n)
		}
	}
	return out
}

func TestGenerate_MissingIdentity(t *testing.T) {
	for _, id := range []string{"", "   "} {
		if _, err := Generate(Request{Identity: id}, Inputs{}, DefaultSchema()); !errors.Is(err, ErrMissingIdentity) {
			t.Errorf("Generate(%q) error = %v, want ErrMissingIdentity", id, err)
		}
	}
}

func TestGenerate_NoFiles(t *testing.T) {
	r, err := Generate(Request{Identity: "a.b.ext@x.it"}, Inputs{}, DefaultSchema())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if r.Checklist.Title != "Consip – SR Deprovisioning - a.b.ext@x.it" {
		t.Errorf("Title = %q", r.Checklist.Title)
	}
	if r.Checklist.Steps() != 7 {
		t.Errorf("Steps() = %d, want 7", r.Checklist.Steps())
	}
	if last := r.Checklist.Body[len(r.Checklist.Body)-1]; last != "7. Rimozione licenze" {
		t.Errorf("last line = %q", last)
	}
	if len(r.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", r.Warnings)
	}
	if len(r.Notices) != 5 {
		t.Fatalf("Notices = %v, want one per absent dataset", r.Notices)
	}
	for _, n := range r.Notices {
		if n.Severity != SeverityInfo || !strings.HasPrefix(n.Message, "file not supplied") {
			t.Errorf("notice %v, want info 'file not supplied'", n)
		}
	}
}

func TestGenerate_FullCorrelation(t *testing.T) {
	in := Inputs{
		Directory: dataset.New(LabelDirectory,
			[]string{"UserPrincipalName", "DisplayName", "ManagerDisplayName"},
			[][]string{{"a.b.ext@x.it", "A B", "M N"}}),
		SharedMailboxes: dataset.New(LabelSharedMailboxes,
			[]string{"EmailAddress", "Member"},
			[][]string{{"sm@x.it", "a.b.ext@x.it"}, {"team@x.it", "a.b.ext@x.it"}, {"team@x.it", "c@x.it"}}),
		GroupMembers: dataset.New(LabelGroupMembers,
			[]string{"NomeGruppo", "UPNMembro"},
			[][]string{{"G1", "a.b.ext@x.it"}}),
		Mailboxes: dataset.New(LabelMailboxes,
			[]string{"ObjectKey"},
			[][]string{{"A.B.EXT@X.IT"}}),
		GroupOwners: dataset.New(LabelGroupOwners,
			[]string{"OwnerEmail", "GroupName"},
			[][]string{{"a.b.ext@x.it", "G1"}}),
	}

	r, err := Generate(Request{Identity: " A.B.Ext@x.it ", Ticket: "TT123"}, in, DefaultSchema())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	wantLines := []string{
		"[Consip – SR][TT123] Deprovisioning - A B",
		"Ciao,",
		"per a.b.ext@x.it:",
		"1. Disabilitare l’account di Azure",
		"2. Impostazione Manager con: M N",
		"3. Impostare Hide dalla Rubrica",
		`4. Estrarre la casella in PST: \\fileserver\PST\a.b.ext@x.it.pst`,
		"5. Rimuovere le appartenenze dall’utenza Azure",
		"6. Rimuovere le applicazioni dall’utenza Azure",
		"7. Rimozione ruoli",
		"8. Rimozione abilitazione da SM:",
		"   - sm@x.it",
		"   - team@x.it",
		"9. Rimozione appartenenze ai gruppi Azure:",
		"   - G1",
		"10. Rimozione licenze",
	}
	if diff := cmp.Diff(wantLines, r.Checklist.Lines()); diff != "" {
		t.Errorf("checklist mismatch (-want +got):\n%s", diff)
	}

	wantWarnings := []string{
		"L'utente è owner dei seguenti gruppi: G1",
		"Gruppo G1: l'utente è l'unico utente registrato, assegnare un nuovo owner",
		"Casella condivisa sm@x.it: l'utente è l'ultimo utente rimasto con accesso",
	}
	if diff := cmp.Diff(wantWarnings, r.Warnings); diff != "" {
		t.Errorf("warnings mismatch (-want +got):\n%s", diff)
	}
	if len(r.Notices) != 0 {
		t.Errorf("Notices = %v, want none", r.Notices)
	}
	if diff := cmp.Diff([]string{LabelDirectory, LabelSharedMailboxes, LabelGroupMembers, LabelMailboxes, LabelGroupOwners}, in.Supplied()); diff != "" {
		t.Errorf("Supplied() mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_DeficientAndUnmatchedDatasets(t *testing.T) {
	in := Inputs{
		Directory: dataset.New(LabelDirectory,
			[]string{"UserPrincipalName", "DisplayName", "ManagerDisplayName"},
			[][]string{{"someone@x.it", "S", "M"}}),
		SharedMailboxes: dataset.New(LabelSharedMailboxes, []string{"Mailbox"}, [][]string{{"sm@x.it"}}),
		GroupMembers: dataset.New(LabelGroupMembers,
			[]string{"GroupName", "MemberUserPrincipalName"},
			[][]string{{"G1", "other@x.it"}}),
		Mailboxes: dataset.New(LabelMailboxes, []string{"ObjectKey"}, [][]string{{"other@x.it"}}),
	}

	r, err := Generate(Request{Identity: "a.b.ext@x.it"}, in, DefaultSchema())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	tests := []struct {
		label    string
		severity Severity
		contains string
	}{
		{LabelDirectory, SeverityWarning, "no row found for a.b.ext@x.it"},
		{LabelSharedMailboxes, SeverityError, "missing required columns: member, email_address"},
		{LabelGroupMembers, SeverityInfo, "no rows found"},
		{LabelMailboxes, SeverityInfo, "PST extraction step omitted"},
		{LabelGroupOwners, SeverityInfo, "file not supplied"},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			got := noticesFor(r, tt.label)
			if len(got) != 1 {
				t.Fatalf("notices for %s = %v, want exactly one", tt.label, got)
			}
			if got[0].Severity != tt.severity || !strings.Contains(got[0].Message, tt.contains) {
				t.Errorf("notice = %v, want %v containing %q", got[0], tt.severity, tt.contains)
			}
		})
	}

	if r.Checklist.Steps() != 7 {
		t.Errorf("Steps() = %d, want 7", r.Checklist.Steps())
	}
	if !strings.HasSuffix(r.Checklist.Title, "- a.b.ext@x.it") {
		t.Errorf("Title = %q, want identity fallback", r.Checklist.Title)
	}
}

func TestReport_PrependNotices(t *testing.T) {
	r, err := Generate(Request{Identity: "u@x.it"}, Inputs{}, DefaultSchema())
	if err != nil {
		t.Fatal(err)
	}
	n := UnreadableNotice(LabelDirectory, errors.New("boom"))
	r.PrependNotices(n)
	if r.Notices[0] != n {
		t.Errorf("first notice = %v, want %v", r.Notices[0], n)
	}
	if got := n.String(); got != "[ERROR] Directory: file could not be read, ignoring it: boom" {
		t.Errorf("String() = %q", got)
	}
	if len(r.Notices) != 6 {
		t.Errorf("len(Notices) = %d, want 6", len(r.Notices))
	}
}

func TestGenerate_MultiLineCellsKeepTextRoundTrip(t *testing.T) {
	in := Inputs{
		Directory: dataset.New(LabelDirectory,
			[]string{"UserPrincipalName", "DisplayName", "ManagerDisplayName"},
			[][]string{{"a.b.ext@x.it", "A\r\nB", "M\nN"}}),
		GroupMembers: dataset.New(LabelGroupMembers,
			[]string{"GroupName", "MemberUserPrincipalName"},
			[][]string{{"Team\nSales", "a.b.ext@x.it"}}),
	}

	r, err := Generate(Request{Identity: "a.b.ext@x.it", Ticket: "TT\n1"}, in, DefaultSchema())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if r.Checklist.Title != "[Consip – SR][TT 1] Deprovisioning - A B" {
		t.Errorf("Title = %q", r.Checklist.Title)
	}
	got := strings.Split(r.Checklist.Text(), "\n")
	want := append([]string{r.Checklist.Title, ""}, r.Checklist.Body...)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	for _, line := range []string{"2. Impostazione Manager con: M N", "   - Team Sales"} {
		found := false
		for _, l := range r.Checklist.Body {
			found = found || l == line
		}
		if !found {
			t.Errorf("body missing %q:\n%s", line, strings.Join(r.Checklist.Body, "\n"))
		}
	}
	if name := ExportFileName(r.Directory.DisplayName, r.Identity); name != "Deprovisioning_A_B.txt" {
		t.Errorf("ExportFileName() = %q", name)
	}
}
