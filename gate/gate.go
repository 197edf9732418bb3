// Package gate provides profile based authorization with optional per-resource
// policies. A subject is resolved to a Profile (a named set of
// "resource:action" permissions); once the profile grants the permission, a
// resource policy registered for that resource type gets the final word on a
// concrete, loaded resource.
//
// The package has no dependency on the dashboard's models:
//   - Gate[string] authorizes backend user ids
//   - Gate[*Claims] would authorize decoded token claims
package gate

import (
	"context"
	"sync"
)

// Gate combines profile permissions with resource policies.
type Gate[U comparable] struct {
	resolver ProfileResolver[U]

	mu       sync.RWMutex
	policies map[string]Policy[U]
}

// New creates a gate resolving subjects with resolver.
func New[U comparable](resolver ProfileResolver[U]) *Gate[U] {
	return &Gate[U]{
		resolver: resolver,
		policies: make(map[string]Policy[U]),
	}
}

// Register adds the policy consulted for resourceType once the profile check
// passed. Overwrites any existing policy for that type.
func (g *Gate[U]) Register(resourceType string, p Policy[U]) {
	g.mu.Lock()
	g.policies[resourceType] = p
	g.mu.Unlock()
}

// Policy returns the policy registered for resourceType, if any.
func (g *Gate[U]) Policy(resourceType string) (Policy[U], bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	p, ok := g.policies[resourceType]
	return p, ok
}

// Authorize checks, in order:
//  1. user is non-zero
//  2. the user's profile has resourceType:action
//  3. when resource is non-nil and a policy is registered, the policy allows it
func (g *Gate[U]) Authorize(ctx context.Context, user U, action Action, resourceType string, resource any) error {
	if !g.CanProfile(ctx, user, action, resourceType) {
		return ErrUnauthorized
	}
	if resource == nil {
		return nil
	}
	if p, ok := g.Policy(resourceType); ok && !p.Can(ctx, user, action, resource) {
		return ErrUnauthorized
	}
	return nil
}

// Can is Authorize returning a bool.
func (g *Gate[U]) Can(ctx context.Context, user U, action Action, resourceType string, resource any) bool {
	return g.Authorize(ctx, user, action, resourceType, resource) == nil
}

// CanProfile checks only the profile permission. Templates use it to show or
// hide buttons before a resource is loaded.
func (g *Gate[U]) CanProfile(ctx context.Context, user U, action Action, resourceType string) bool {
	profile, err := g.Profile(ctx, user)
	if err != nil || profile == nil {
		return false
	}
	return profile.HasPermission(NewPermission(resourceType, action))
}

// Profile resolves the profile of user. A zero user yields ErrUnauthorized.
func (g *Gate[U]) Profile(ctx context.Context, user U) (Profile, error) {
	var zero U
	if user == zero {
		return nil, ErrUnauthorized
	}
	return g.resolver.Resolve(ctx, user)
}
