// Package allowlist implements the fixed registration gate: a case-insensitive
// set of permitted display names with exactly one reserved administrator name.
package allowlist

import "strings"

// List is an immutable set of allowed display names. Membership and the
// reserved-name check are case-insensitive.
type List struct {
	names     map[string]struct{}
	adminName string
}

// Normalize returns the canonical form of a display name used for all
// uniqueness and membership checks.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// New builds a List from allowed names and the reserved administrator name.
// The reserved name is always a member of the list.
func New(names []string, adminName string) *List {
	set := make(map[string]struct{}, len(names)+1)
	for _, n := range names {
		set[Normalize(n)] = struct{}{}
	}
	admin := Normalize(adminName)
	set[admin] = struct{}{}
	return &List{names: set, adminName: admin}
}

// Allowed reports whether the name may be registered.
func (l *List) Allowed(name string) bool {
	_, ok := l.names[Normalize(name)]
	return ok
}

// IsAdmin reports whether the name is the reserved administrator name.
func (l *List) IsAdmin(name string) bool {
	return Normalize(name) == l.adminName
}
