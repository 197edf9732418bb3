package policy

import (
	"context"

	"github.com/diewo77/stock-admin/auth"
	"github.com/diewo77/stock-admin/gate"
	"github.com/diewo77/stock-admin/internal/models"
)

// UserFetcher loads a user from the backend.
type UserFetcher interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// BackendProfileResolver resolves a backend user id to its role profile.
// Roles other than admin usually cannot read /users/{id}; for the signed-in
// user the role recorded in the session is used instead.
type BackendProfileResolver struct {
	Users UserFetcher
	Roles *Roles
}

// NewBackendProfileResolver creates a resolver.
func NewBackendProfileResolver(users UserFetcher, roles *Roles) *BackendProfileResolver {
	return &BackendProfileResolver{Users: users, Roles: roles}
}

// Resolve implements gate.ProfileResolver. It returns a nil profile for
// users without a known role.
func (r *BackendProfileResolver) Resolve(ctx context.Context, userID string) (gate.Profile, error) {
	u, err := r.Users.GetUser(ctx, userID)
	if err == nil && u.Role != "" {
		return r.Roles.Profile(u.Role), nil
	}
	if s, ok := auth.SessionFromContext(ctx); ok && s.UserID == userID && s.Role != "" {
		return r.Roles.Profile(s.Role), nil
	}
	if err != nil {
		return nil, err
	}
	return nil, nil
}
