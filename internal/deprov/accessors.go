package deprov

import (
	"errors"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"deprovtool/internal/dataset"
)

// Dataset labels used in diagnostics and notices.
const (
	LabelDirectory       = "Directory"
	LabelSharedMailboxes = "Shared mailboxes"
	LabelGroupMembers    = "Group members"
	LabelMailboxes       = "Mailboxes"
	LabelGroupOwners     = "Group owners"
)

// ErrNoMatch is returned by LookupDirectory when no row carries the key.
var ErrNoMatch = errors.New("no row matches the identity key")

// Key is a normalized principal name.
type Key string

// NormalizeKey lowercases and trims s.
func NormalizeKey(s string) Key {
	return Key(strings.ToLower(strings.TrimSpace(s)))
}

// Matches reports whether v holds the same principal name as k.
func (k Key) Matches(v dataset.Value) bool {
	s, ok := v.Get()
	return ok && NormalizeKey(s) == k
}

func (k Key) String() string {
	return string(k)
}

// DirectoryEntry is the directory row of the account.
type DirectoryEntry struct {
	DisplayName dataset.Value
	Manager     dataset.Value
	Found       bool
}

// LookupDirectory returns display name and manager from the first row whose
// principal name equals key. A nil dataset returns an empty entry and no
// error. Zero matches return an empty entry and ErrNoMatch.
func (s Schema) LookupDirectory(key Key, d *dataset.Dataset) (DirectoryEntry, error) {
	if d == nil {
		return DirectoryEntry{}, nil
	}
	cols, err := dataset.ResolveAll(d, s.PrincipalName, s.DisplayName, s.ManagerDisplayName)
	if err != nil {
		return DirectoryEntry{}, err
	}
	upn := cols[FieldPrincipalName].Index
	for row := 0; row < d.Len(); row++ {
		if !key.Matches(d.Cell(row, upn)) {
			continue
		}
		return DirectoryEntry{
			DisplayName: d.Cell(row, cols[FieldDisplayName].Index),
			Manager:     d.Cell(row, cols[FieldManagerDisplayName].Index),
			Found:       true,
		}, nil
	}
	return DirectoryEntry{}, ErrNoMatch
}

// SharedMailboxes returns the addresses of the shared mailboxes key is a
// member of.
func (s Schema) SharedMailboxes(key Key, d *dataset.Dataset) ([]string, error) {
	return s.project(key, d, s.Member, s.EmailAddress)
}

// GroupMemberships returns the groups key is a member of.
func (s Schema) GroupMemberships(key Key, d *dataset.Dataset) ([]string, error) {
	return s.project(key, d, s.MemberPrincipalName, s.GroupName)
}

// OwnedGroups returns the groups key owns.
func (s Schema) OwnedGroups(key Key, d *dataset.Dataset) ([]string, error) {
	return s.project(key, d, s.OwnerEmail, s.GroupName)
}

// HasMailbox reports whether the mailbox inventory lists key.
func (s Schema) HasMailbox(key Key, d *dataset.Dataset) (bool, error) {
	if d == nil {
		return false, nil
	}
	cols, err := dataset.ResolveAll(d, s.ObjectKey)
	if err != nil {
		return false, err
	}
	col := cols[FieldObjectKey].Index
	for row := 0; row < d.Len(); row++ {
		if key.Matches(d.Cell(row, col)) {
			return true, nil
		}
	}
	return false, nil
}

// project filters rows whose match column equals key and collects the out
// column as a sorted set.
func (s Schema) project(key Key, d *dataset.Dataset, match, out dataset.Field) ([]string, error) {
	if d == nil {
		return nil, nil
	}
	cols, err := dataset.ResolveAll(d, match, out)
	if err != nil {
		return nil, err
	}
	m, o := cols[match.Name].Index, cols[out.Name].Index
	var values []string
	for row := 0; row < d.Len(); row++ {
		if !key.Matches(d.Cell(row, m)) {
			continue
		}
		if v, ok := d.Cell(row, o).Get(); ok {
			values = append(values, v)
		}
	}
	return uniqueSorted(values), nil
}

// uniqueSorted deduplicates values case-insensitively and sorts them. Of
// several spellings of one value the lexicographically smallest is kept, so
// the result does not depend on row order.
func uniqueSorted(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	byKey := make(map[string]string, len(values))
	for _, v := range values {
		k := cases.Fold().String(v)
		if cur, ok := byKey[k]; !ok || v < cur {
			byKey[k] = v
		}
	}
	out := make([]string, 0, len(byKey))
	for _, v := range byKey {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
