// Package deprov builds the deprovisioning checklist for one account by
// joining spreadsheet exports on the account's principal name.
//
// The exports are: the user directory, shared-mailbox memberships, group
// memberships, the mailbox inventory and group ownership. Each one is
// optional. A missing export only removes the sections that depend on it.
package deprov

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"deprovtool/internal/dataset"
)

// Logical field names.
const (
	FieldPrincipalName       = "principal_name"
	FieldDisplayName         = "display_name"
	FieldManagerDisplayName  = "manager_display_name"
	FieldMember              = "member"
	FieldEmailAddress        = "email_address"
	FieldMemberPrincipalName = "member_principal_name"
	FieldMemberEmail         = "member_email"
	FieldGroupName           = "group_name"
	FieldObjectKey           = "object_key"
	FieldOwnerEmail          = "owner_email"
)

// Schema holds the accepted header synonyms for every logical field.
type Schema struct {
	// Directory export
	PrincipalName      dataset.Field
	DisplayName        dataset.Field
	ManagerDisplayName dataset.Field

	// Shared-mailbox export
	Member       dataset.Field
	EmailAddress dataset.Field

	// Group membership export; GroupName is also used by the ownership export
	MemberPrincipalName dataset.Field
	MemberEmail         dataset.Field
	GroupName           dataset.Field

	// Mailbox inventory export
	ObjectKey dataset.Field

	// Group ownership export
	OwnerEmail dataset.Field
}

// DefaultSchema returns the headers produced by the Azure AD and Exchange
// Online exports, in English and in the Italian localization.
func DefaultSchema() Schema {
	return Schema{
		PrincipalName:      dataset.NewField(FieldPrincipalName, "UserPrincipalName"),
		DisplayName:        dataset.NewField(FieldDisplayName, "DisplayName"),
		ManagerDisplayName: dataset.NewField(FieldManagerDisplayName, "ManagerDisplayName"),

		Member:       dataset.NewField(FieldMember, "Member"),
		EmailAddress: dataset.NewField(FieldEmailAddress, "EmailAddress"),

		MemberPrincipalName: dataset.NewField(FieldMemberPrincipalName, "MemberUserPrincipalName", "UPNMembro"),
		MemberEmail:         dataset.NewField(FieldMemberEmail, "MemberEmail", "EmailMembro"),
		GroupName:           dataset.NewField(FieldGroupName, "GroupName", "NomeGruppo"),

		ObjectKey: dataset.NewField(FieldObjectKey, "ObjectKey"),

		OwnerEmail: dataset.NewField(FieldOwnerEmail, "OwnerEmail"),
	}
}

// fields maps logical names to the schema entries, for overrides.
func (s *Schema) fields() map[string]*dataset.Field {
	return map[string]*dataset.Field{
		FieldPrincipalName:       &s.PrincipalName,
		FieldDisplayName:         &s.DisplayName,
		FieldManagerDisplayName:  &s.ManagerDisplayName,
		FieldMember:              &s.Member,
		FieldEmailAddress:        &s.EmailAddress,
		FieldMemberPrincipalName: &s.MemberPrincipalName,
		FieldMemberEmail:         &s.MemberEmail,
		FieldGroupName:           &s.GroupName,
		FieldObjectKey:           &s.ObjectKey,
		FieldOwnerEmail:          &s.OwnerEmail,
	}
}

// schemaFile is the YAML layout of a synonym override file:
//
//	synonyms:
//	  group_name: [Gruppo, "Group Display Name"]
type schemaFile struct {
	Synonyms map[string][]string `yaml:"synonyms"`
}

// ParseSchema returns DefaultSchema extended with the synonyms in data.
// Extra synonyms are tried after the built-in ones.
func ParseSchema(data []byte) (Schema, error) {
	s := DefaultSchema()

	var f schemaFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return s, fmt.Errorf("failed to parse schema: %w", err)
	}

	fields := s.fields()
	var unknown []string
	for name, extra := range f.Synonyms {
		field, ok := fields[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		*field = field.With(extra...)
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return s, fmt.Errorf("unknown logical fields in schema: %s (known: %s)",
			strings.Join(unknown, ", "), strings.Join(FieldNames(), ", "))
	}
	return s, nil
}

// LoadSchema reads a synonym override file. An empty path returns the
// default schema.
func LoadSchema(path string) (Schema, error) {
	if path == "" {
		return DefaultSchema(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultSchema(), fmt.Errorf("failed to read schema: %w", err)
	}
	return ParseSchema(data)
}

// FieldNames returns the logical field names known to the schema, sorted.
func FieldNames() []string {
	s := DefaultSchema()
	names := make([]string, 0, len(s.fields()))
	for name := range s.fields() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Table describes one export kind and the fields it requires.
type Table struct {
	Label    string
	Required []dataset.Field
	// Optional fields are reported by the columns command but never block
	// the accessor.
	Optional []dataset.Field
}

// Tables returns the five export kinds in checklist order.
func (s Schema) Tables() []Table {
	return []Table{
		{Label: LabelDirectory, Required: []dataset.Field{s.PrincipalName, s.DisplayName, s.ManagerDisplayName}},
		{Label: LabelSharedMailboxes, Required: []dataset.Field{s.Member, s.EmailAddress}},
		{Label: LabelGroupMembers, Required: []dataset.Field{s.MemberPrincipalName, s.GroupName}, Optional: []dataset.Field{s.MemberEmail}},
		{Label: LabelMailboxes, Required: []dataset.Field{s.ObjectKey}},
		{Label: LabelGroupOwners, Required: []dataset.Field{s.OwnerEmail, s.GroupName}},
	}
}
