package gate

import (
	"fmt"
	"sort"
	"strings"
)

// Permission grants an action on a resource type, written "resource:action"
// (e.g. "product:create", "order:assign").
type Permission string

// Wildcards.
const (
	Wildcard             = "*"
	PermissionSuperAdmin Permission = "*:*"
)

// NewPermission builds resource:action.
func NewPermission(resourceType string, action Action) Permission {
	return Permission(resourceType + ":" + string(action))
}

// ParsePermission validates s and returns it as a Permission.
func ParsePermission(s string) (Permission, error) {
	s = strings.TrimSpace(s)
	res, act, ok := strings.Cut(s, ":")
	if !ok || res == "" || act == "" {
		return "", fmt.Errorf("invalid permission %q: want resource:action", s)
	}
	return Permission(strings.ToLower(res) + ":" + strings.ToLower(act)), nil
}

// Split returns the resource and action parts; both are empty when p is
// malformed.
func (p Permission) Split() (resourceType string, action Action) {
	res, act, ok := strings.Cut(string(p), ":")
	if !ok {
		return "", ""
	}
	return res, Action(act)
}

// Matches reports whether p grants requested. "*:*" grants everything,
// "order:*" grants every order action and "*:list" grants list everywhere.
func (p Permission) Matches(requested Permission) bool {
	if p == PermissionSuperAdmin || p == requested {
		return true
	}
	res, act := p.Split()
	reqRes, reqAct := requested.Split()
	if res == "" || reqRes == "" {
		return false
	}
	return (res == Wildcard || res == reqRes) && (string(act) == Wildcard || act == reqAct)
}

// PermissionSet is an unordered set of granted permissions.
type PermissionSet map[Permission]struct{}

// NewPermissionSet builds a set from perms.
func NewPermissionSet(perms ...Permission) PermissionSet {
	s := make(PermissionSet, len(perms))
	for _, p := range perms {
		s[p] = struct{}{}
	}
	return s
}

// Grants reports whether any permission in the set matches requested.
func (s PermissionSet) Grants(requested Permission) bool {
	if _, ok := s[requested]; ok {
		return true
	}
	for p := range s {
		if p.Matches(requested) {
			return true
		}
	}
	return false
}

// Sorted returns the permissions in lexical order.
func (s PermissionSet) Sorted() []Permission {
	out := make([]Permission, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
