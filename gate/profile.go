package gate

import (
	"context"
	"sync"
)

// Profile is a named set of permissions (a role).
type Profile interface {
	Name() string
	HasPermission(permission Permission) bool
	Permissions() []Permission
}

// ProfileResolver resolves a subject to its profile. A nil profile with a nil
// error means the subject has no profile.
type ProfileResolver[U any] interface {
	Resolve(ctx context.Context, user U) (Profile, error)
}

// ResolverFunc adapts a plain function to ProfileResolver.
type ResolverFunc[U any] func(ctx context.Context, user U) (Profile, error)

// Resolve calls f.
func (f ResolverFunc[U]) Resolve(ctx context.Context, user U) (Profile, error) {
	return f(ctx, user)
}

// StaticProfile is an in-memory profile.
type StaticProfile struct {
	name  string
	perms PermissionSet
}

// NewStaticProfile creates a profile granting permissions.
func NewStaticProfile(name string, permissions ...Permission) *StaticProfile {
	return &StaticProfile{name: name, perms: NewPermissionSet(permissions...)}
}

func (p *StaticProfile) Name() string { return p.name }

// Permissions returns the granted permissions, sorted.
func (p *StaticProfile) Permissions() []Permission { return p.perms.Sorted() }

// HasPermission reports whether the profile grants requested, wildcards
// included.
func (p *StaticProfile) HasPermission(requested Permission) bool {
	return p.perms.Grants(requested)
}

// StaticResolver maps subjects to profiles in memory. Tests and fixed role
// tables use it.
type StaticResolver[U comparable] struct {
	mu       sync.RWMutex
	profiles map[U]Profile
}

// NewStaticResolver creates an empty resolver.
func NewStaticResolver[U comparable]() *StaticResolver[U] {
	return &StaticResolver[U]{profiles: make(map[U]Profile)}
}

// Set assigns profile to user.
func (r *StaticResolver[U]) Set(user U, profile Profile) {
	r.mu.Lock()
	r.profiles[user] = profile
	r.mu.Unlock()
}

// Resolve returns the profile of user or nil.
func (r *StaticResolver[U]) Resolve(_ context.Context, user U) (Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.profiles[user], nil
}
