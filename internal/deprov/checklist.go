package deprov

import (
	"fmt"
	"strings"

	"deprovtool/internal/dataset"
)

// DefaultPSTPath is the archive path template. {upn} is replaced with the
// identity key.
const DefaultPSTPath = `\\fileserver\PST\{upn}.pst`

// ChecklistInput carries everything the checklist depends on.
type ChecklistInput struct {
	Identity        Key
	Ticket          string
	DisplayName     dataset.Value
	Manager         dataset.Value
	SharedMailboxes []string
	Groups          []string
	HasMailbox      bool
	// PSTPath overrides DefaultPSTPath when non-empty.
	PSTPath string
}

// Checklist is the title plus the ordered body lines.
type Checklist struct {
	Title string
	Body  []string
}

// Lines returns the title followed by the body.
func (c Checklist) Lines() []string {
	return append([]string{c.Title}, c.Body...)
}

// Text renders the export: title, blank line, body lines joined by "\n".
// There is no trailing newline, so splitting on "\n" gives back the title,
// an empty line and the body.
func (c Checklist) Text() string {
	return c.Title + "\n\n" + strings.Join(c.Body, "\n")
}

// Steps returns the number of numbered items in the body.
func (c Checklist) Steps() int {
	n := 0
	for _, l := range c.Body {
		if len(l) > 0 && l[0] >= '0' && l[0] <= '9' {
			n++
		}
	}
	return n
}

// numberer emits contiguously numbered items.
type numberer struct {
	lines []string
	next  int
}

func (n *numberer) item(format string, args ...any) {
	n.next++
	n.lines = append(n.lines, fmt.Sprintf("%d. ", n.next)+fmt.Sprintf(format, args...))
}

func (n *numberer) bullet(s string) {
	n.lines = append(n.lines, "   - "+s)
}

// BuildChecklist assembles the checklist.
func BuildChecklist(in ChecklistInput) Checklist {
	subject := in.DisplayName.Or(in.Identity.String())
	var title string
	if ticket := strings.Join(strings.Fields(in.Ticket), " "); ticket != "" {
		title = fmt.Sprintf("[Consip – SR][%s] Deprovisioning - %s", ticket, subject)
	} else {
		title = fmt.Sprintf("Consip – SR Deprovisioning - %s", subject)
	}

	n := &numberer{lines: []string{"Ciao,", fmt.Sprintf("per %s:", in.Identity)}}
	n.item("Disabilitare l’account di Azure")
	n.item("Impostazione Manager con: %s", in.Manager.Or("-"))
	n.item("Impostare Hide dalla Rubrica")
	if in.HasMailbox {
		n.item("Estrarre la casella in PST: %s", PSTPath(in.PSTPath, in.Identity))
	}
	n.item("Rimuovere le appartenenze dall’utenza Azure")
	n.item("Rimuovere le applicazioni dall’utenza Azure")
	n.item("Rimozione ruoli")

	if len(in.SharedMailboxes) > 0 {
		n.item("Rimozione abilitazione da SM:")
		for _, sm := range in.SharedMailboxes {
			n.bullet(sm)
		}
	}
	if len(in.Groups) > 0 {
		n.item("Rimozione appartenenze ai gruppi Azure:")
		for _, g := range in.Groups {
			n.bullet(g)
		}
	}
	n.item("Rimozione licenze")

	return Checklist{Title: title, Body: n.lines}
}

// PSTPath expands template for key. An empty template uses DefaultPSTPath.
func PSTPath(template string, key Key) string {
	if strings.TrimSpace(template) == "" {
		template = DefaultPSTPath
	}
	return strings.ReplaceAll(template, "{upn}", key.String())
}

// ExportFileName names the text export after the display name, or the key
// when the display name is absent. Spaces and path separators become
// underscores.
func ExportFileName(display dataset.Value, key Key) string {
	name := display.Or(key.String())
	return "Deprovisioning_" + fileNameReplacer.Replace(name) + ".txt"
}

var fileNameReplacer = strings.NewReplacer(" ", "_", "/", "_", `\`, "_")
