package models

import "strings"

// Member is a person taking part in shared expenses.
type Member struct {
	// ID is the unique identifier for the member (UUID format).
	ID string

	// Name is the display name. Names are unique case-insensitively.
	Name string

	// CreatedAt is the Unix timestamp when the member was added.
	CreatedAt int64
}

// Ref returns the member as a reference suitable for embedding in an expense.
func (m *Member) Ref() MemberRef {
	return MemberRef{ID: m.ID, Name: m.Name}
}

// MemberRef is a member ID resolved to its display name.
type MemberRef struct {
	ID   string
	Name string
}

// NormalizeName trims surrounding whitespace from a member or type name.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}
