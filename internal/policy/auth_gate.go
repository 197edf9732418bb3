package policy

import (
	"context"
	"net/http"
	"time"

	"github.com/diewo77/stock-admin/auth"
	"github.com/diewo77/stock-admin/gate"
	"github.com/diewo77/stock-admin/httpx"
)

// AuthGate is the central authorization point: role profiles resolved
// through the backend and cached, plus company scoping on loaded records.
type AuthGate struct {
	Gate          *gate.Gate[string]
	CacheResolver *gate.CachedResolver[string]
	Roles         *Roles

	// Forbidden renders the 403 answer. Defaults to a JSON or plain text
	// error.
	Forbidden http.HandlerFunc
}

// NewAuthGate creates a gate resolving users through users, caching
// profiles for cacheTTL, with the company scope registered on every
// company-owned resource type.
func NewAuthGate(users UserFetcher, roles *Roles, cacheTTL time.Duration) *AuthGate {
	cachedResolver := gate.NewCachedResolver[string](NewBackendProfileResolver(users, roles), cacheTTL)
	ag := &AuthGate{
		Gate:          gate.New[string](cachedResolver),
		CacheResolver: cachedResolver,
		Roles:         roles,
		Forbidden:     defaultForbidden,
	}
	scope := NewAdminBypassPolicy(NewCompanyScopePolicy(), ag.IsAdmin)
	for _, rt := range []string{ResourceProduct, ResourceStock, ResourceOrder, ResourceTruck, ResourceDriver, ResourceUser, ResourceCompany} {
		ag.RegisterPolicy(rt, scope)
	}
	return ag
}

func defaultForbidden(w http.ResponseWriter, r *http.Request) {
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
		return
	}
	http.Error(w, "Forbidden", http.StatusForbidden)
}

// RegisterPolicy adds a resource policy.
func (ag *AuthGate) RegisterPolicy(resourceType string, p gate.Policy[string]) {
	ag.Gate.Register(resourceType, p)
}

// Authorize checks if the current user can perform an action on a resource.
// Returns nil if authorized, gate.ErrUnauthorized otherwise.
func (ag *AuthGate) Authorize(ctx context.Context, action gate.Action, resourceType string, resource any) error {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return gate.ErrUnauthorized
	}
	return ag.Gate.Authorize(ctx, userID, action, resourceType, resource)
}

// Can is Authorize returning a bool.
func (ag *AuthGate) Can(ctx context.Context, action gate.Action, resourceType string, resource any) bool {
	return ag.Authorize(ctx, action, resourceType, resource) == nil
}

// CanProfile checks only the role permission, for menus and buttons.
func (ag *AuthGate) CanProfile(ctx context.Context, action gate.Action, resourceType string) bool {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return false
	}
	return ag.Gate.CanProfile(ctx, userID, action, resourceType)
}

// IsAdmin reports whether userID holds the superadmin permission.
func (ag *AuthGate) IsAdmin(ctx context.Context, userID string) bool {
	profile, err := ag.Gate.Profile(ctx, userID)
	if err != nil || profile == nil {
		return false
	}
	return profile.HasPermission(gate.PermissionSuperAdmin)
}

// InvalidateUser drops the cached profile of a user after a role change.
func (ag *AuthGate) InvalidateUser(userID string) {
	ag.CacheResolver.Invalidate(userID)
}

// InvalidateAll clears the entire profile cache.
func (ag *AuthGate) InvalidateAll() {
	ag.CacheResolver.InvalidateAll()
}

// RequirePermission returns middleware that checks the role permission.
func (ag *AuthGate) RequirePermission(resourceType string, action gate.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := auth.UserIDFromContext(r.Context()); !ok {
				auth.Unauthorized(w, r)
				return
			}
			if !ag.CanProfile(r.Context(), action, resourceType) {
				ag.Forbidden(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin returns middleware that only lets admins through.
func (ag *AuthGate) RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := auth.UserIDFromContext(r.Context())
			if !ok {
				auth.Unauthorized(w, r)
				return
			}
			if !ag.IsAdmin(r.Context(), userID) {
				ag.Forbidden(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
