package deprov

import (
	"errors"
	"fmt"
	"strings"

	"deprovtool/internal/dataset"
)

// ErrMissingIdentity is the only condition that blocks generation.
var ErrMissingIdentity = errors.New("identity key is required")

// Severity of a Notice.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARN"
	case SeverityError:
		return "ERROR"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Notice is a per-dataset diagnostic for the operator. Notices never end up
// in the checklist.
type Notice struct {
	Severity Severity
	Dataset  string
	Message  string
}

func (n Notice) String() string {
	return fmt.Sprintf("[%s] %s: %s", n.Severity, n.Dataset, n.Message)
}

// UnreadableNotice reports a file that could not be parsed. The caller
// treats the dataset as absent.
func UnreadableNotice(label string, err error) Notice {
	return Notice{Severity: SeverityError, Dataset: label, Message: fmt.Sprintf("file could not be read, ignoring it: %v", err)}
}

// Inputs are the optional exports. A nil field means "not supplied".
type Inputs struct {
	Directory       *dataset.Dataset
	SharedMailboxes *dataset.Dataset
	GroupMembers    *dataset.Dataset
	Mailboxes       *dataset.Dataset
	GroupOwners     *dataset.Dataset
}

// Supplied returns the labels of the exports that were supplied.
func (in Inputs) Supplied() []string {
	var labels []string
	for _, t := range []struct {
		label string
		d     *dataset.Dataset
	}{
		{LabelDirectory, in.Directory},
		{LabelSharedMailboxes, in.SharedMailboxes},
		{LabelGroupMembers, in.GroupMembers},
		{LabelMailboxes, in.Mailboxes},
		{LabelGroupOwners, in.GroupOwners},
	} {
		if t.d != nil {
			labels = append(labels, t.label)
		}
	}
	return labels
}

// Request identifies the account and ticket.
type Request struct {
	Identity string
	Ticket   string
	PSTPath  string
}

// Report is the result of one generation.
type Report struct {
	Identity        Key
	Directory       DirectoryEntry
	SharedMailboxes []string
	Groups          []string
	OwnedGroups     []string
	HasMailbox      bool

	Checklist Checklist
	Warnings  []string
	Notices   []Notice
}

// PrependNotices puts notices raised before generation, such as unreadable
// files, ahead of the generated ones.
func (r *Report) PrependNotices(n ...Notice) {
	r.Notices = append(append([]Notice(nil), n...), r.Notices...)
}

// Generate runs every accessor, assembles the checklist and derives the
// warnings. Schema deficiencies and missing matches become notices; only an
// empty identity returns an error.
func Generate(req Request, in Inputs, schema Schema) (*Report, error) {
	key := NormalizeKey(req.Identity)
	if key == "" {
		return nil, ErrMissingIdentity
	}
	r := &Report{Identity: key}

	entry, err := schema.LookupDirectory(key, in.Directory)
	switch {
	case in.Directory == nil:
		r.absent(LabelDirectory, "display name and manager will be left blank")
	case errors.Is(err, ErrNoMatch):
		r.notice(SeverityWarning, LabelDirectory, fmt.Sprintf("no row found for %s, display name and manager will be left blank", key))
	case err != nil:
		r.deficient(LabelDirectory, err)
	}
	r.Directory = entry

	r.SharedMailboxes, err = schema.SharedMailboxes(key, in.SharedMailboxes)
	r.checkList(LabelSharedMailboxes, in.SharedMailboxes, r.SharedMailboxes, err, "shared-mailbox section omitted")

	r.Groups, err = schema.GroupMemberships(key, in.GroupMembers)
	r.checkList(LabelGroupMembers, in.GroupMembers, r.Groups, err, "group section omitted")

	r.HasMailbox, err = schema.HasMailbox(key, in.Mailboxes)
	switch {
	case in.Mailboxes == nil:
		r.absent(LabelMailboxes, "PST extraction step omitted")
	case err != nil:
		r.deficient(LabelMailboxes, err)
	case !r.HasMailbox:
		r.notice(SeverityInfo, LabelMailboxes, fmt.Sprintf("no mailbox found for %s, PST extraction step omitted", key))
	}

	r.OwnedGroups, err = schema.OwnedGroups(key, in.GroupOwners)
	r.checkList(LabelGroupOwners, in.GroupOwners, r.OwnedGroups, err, "group ownership check skipped")

	r.Checklist = BuildChecklist(ChecklistInput{
		Identity:        key,
		Ticket:          req.Ticket,
		DisplayName:     entry.DisplayName,
		Manager:         entry.Manager,
		SharedMailboxes: r.SharedMailboxes,
		Groups:          r.Groups,
		HasMailbox:      r.HasMailbox,
		PSTPath:         req.PSTPath,
	})

	r.Warnings = append(r.Warnings, schema.OwnerWarnings(key, r.OwnedGroups, in.GroupMembers)...)
	r.Warnings = append(r.Warnings, schema.SharedMailboxWarnings(key, r.SharedMailboxes, in.SharedMailboxes)...)
	return r, nil
}

func (r *Report) notice(sev Severity, label, msg string) {
	r.Notices = append(r.Notices, Notice{Severity: sev, Dataset: label, Message: msg})
}

func (r *Report) absent(label, omitted string) {
	r.notice(SeverityInfo, label, "file not supplied, "+omitted)
}

func (r *Report) deficient(label string, err error) {
	var missing *dataset.MissingFieldsError
	if errors.As(err, &missing) {
		r.notice(SeverityError, label, "missing required columns: "+strings.Join(missing.Fields, ", "))
		return
	}
	r.notice(SeverityError, label, err.Error())
}

func (r *Report) checkList(label string, d *dataset.Dataset, values []string, err error, omitted string) {
	switch {
	case d == nil:
		r.absent(label, omitted)
	case err != nil:
		r.deficient(label, err)
	case len(values) == 0:
		r.notice(SeverityInfo, label, fmt.Sprintf("no rows found for %s", r.Identity))
	}
}
