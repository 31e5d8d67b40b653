package deprov

import (
	"fmt"
	"sort"
	"strings"

	"deprovtool/internal/dataset"
)

// OutcomeKind classifies the membership of a group the account owns.
type OutcomeKind int

const (
	// OutcomeDatasetAbsent: no group membership export was supplied.
	OutcomeDatasetAbsent OutcomeKind = iota
	// OutcomeFieldMissing: the export lacks the group or member column.
	OutcomeFieldMissing
	// OutcomeNoMembers: no row lists the group.
	OutcomeNoMembers
	// OutcomeSoleMember: the account is the only member.
	OutcomeSoleMember
	// OutcomeOthersFound: at least one other member exists.
	OutcomeOthersFound
	// OutcomeInconsistent: members exist but, once the account is excluded,
	// none remain. This happens with case variants of the account's own
	// address.
	OutcomeInconsistent
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeDatasetAbsent:
		return "dataset-absent"
	case OutcomeFieldMissing:
		return "field-missing"
	case OutcomeNoMembers:
		return "no-members"
	case OutcomeSoleMember:
		return "sole-member"
	case OutcomeOthersFound:
		return "others-found"
	case OutcomeInconsistent:
		return "inconsistent"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// GroupOutcome is the classified membership of one owned group.
type GroupOutcome struct {
	Group string
	Kind  OutcomeKind
	// Missing names the logical fields the export lacks (OutcomeFieldMissing).
	Missing []string
	// Members are the distinct trimmed member values listed for the group.
	Members []string
	// Others are the members that are not the account.
	Others []string
}

// Message renders the advisory line for the outcome.
func (o GroupOutcome) Message() string {
	switch o.Kind {
	case OutcomeDatasetAbsent:
		return fmt.Sprintf("Gruppo %s: impossibile verificare gli altri membri, file delle appartenenze ai gruppi non caricato", o.Group)
	case OutcomeFieldMissing:
		return fmt.Sprintf("Gruppo %s: impossibile verificare gli altri membri, colonna mancante nel file delle appartenenze: %s", o.Group, strings.Join(o.Missing, ", "))
	case OutcomeNoMembers:
		return fmt.Sprintf("Gruppo %s: nessun membro trovato nel file delle appartenenze", o.Group)
	case OutcomeSoleMember:
		return fmt.Sprintf("Gruppo %s: l'utente è l'unico utente registrato, assegnare un nuovo owner", o.Group)
	case OutcomeOthersFound:
		return fmt.Sprintf("Gruppo %s: altri membri presenti: %s", o.Group, strings.Join(o.Others, ", "))
	default:
		return fmt.Sprintf("Gruppo %s: non sono emersi altri utenti", o.Group)
	}
}

// ClassifyOwnedGroup inspects the membership export for group. Members are
// read from the member email column when present, otherwise from the member
// principal name column.
func (s Schema) ClassifyOwnedGroup(key Key, group string, members *dataset.Dataset) GroupOutcome {
	out := GroupOutcome{Group: group}
	if members == nil {
		out.Kind = OutcomeDatasetAbsent
		return out
	}

	groupCol, groupOK := dataset.Resolve(members, s.GroupName)
	memberCol, memberOK := dataset.Resolve(members, s.MemberEmail)
	if !memberOK {
		memberCol, memberOK = dataset.Resolve(members, s.MemberPrincipalName)
	}
	if !groupOK {
		out.Missing = append(out.Missing, s.GroupName.Name)
	}
	if !memberOK {
		out.Missing = append(out.Missing, s.MemberEmail.Name+" / "+s.MemberPrincipalName.Name)
	}
	if len(out.Missing) > 0 {
		out.Kind = OutcomeFieldMissing
		return out
	}

	target := strings.TrimSpace(group)
	seen := map[string]bool{}
	for row := 0; row < members.Len(); row++ {
		g, ok := members.Cell(row, groupCol.Index).Get()
		if !ok || !strings.EqualFold(g, target) {
			continue
		}
		m, ok := members.Cell(row, memberCol.Index).Get()
		if !ok || seen[m] {
			continue
		}
		seen[m] = true
		out.Members = append(out.Members, m)
		if NormalizeKey(m) != key {
			out.Others = append(out.Others, m)
		}
	}
	sort.Strings(out.Members)
	out.Others = uniqueSorted(out.Others)

	switch {
	case len(out.Members) == 0:
		out.Kind = OutcomeNoMembers
	case len(out.Members) == 1 && NormalizeKey(out.Members[0]) == key:
		out.Kind = OutcomeSoleMember
	case len(out.Others) > 0:
		out.Kind = OutcomeOthersFound
	default:
		out.Kind = OutcomeInconsistent
	}
	return out
}

// OwnerWarnings returns the owned-groups summary followed by one advisory
// per owned group. It returns nil when owned is empty.
func (s Schema) OwnerWarnings(key Key, owned []string, members *dataset.Dataset) []string {
	if len(owned) == 0 {
		return nil
	}
	lines := []string{fmt.Sprintf("L'utente è owner dei seguenti gruppi: %s", strings.Join(owned, ", "))}
	for _, g := range owned {
		lines = append(lines, s.ClassifyOwnedGroup(key, g, members).Message())
	}
	return lines
}

// SharedMailboxWarnings flags every mailbox whose only member is key.
// Mailboxes absent from the export are skipped.
func (s Schema) SharedMailboxWarnings(key Key, mailboxes []string, d *dataset.Dataset) []string {
	if d == nil || len(mailboxes) == 0 {
		return nil
	}
	cols, err := dataset.ResolveAll(d, s.Member, s.EmailAddress)
	if err != nil {
		return nil
	}
	memberIdx, addrIdx := cols[FieldMember].Index, cols[FieldEmailAddress].Index

	var lines []string
	for _, mb := range mailboxes {
		members := map[Key]bool{}
		for row := 0; row < d.Len(); row++ {
			addr, ok := d.Cell(row, addrIdx).Get()
			if !ok || !strings.EqualFold(addr, mb) {
				continue
			}
			if m, ok := d.Cell(row, memberIdx).Get(); ok {
				members[NormalizeKey(m)] = true
			}
		}
		if len(members) == 1 && members[key] {
			lines = append(lines, fmt.Sprintf("Casella condivisa %s: l'utente è l'ultimo utente rimasto con accesso", mb))
		}
	}
	return lines
}
