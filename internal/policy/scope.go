package policy

import (
	"context"

	"github.com/diewo77/stock-admin/auth"
	"github.com/diewo77/stock-admin/gate"
	"github.com/diewo77/stock-admin/internal/models"
)

// CompanyScopePolicy lets a user touch only records of their own company.
// Records without a company are shared.
type CompanyScopePolicy struct{}

// NewCompanyScopePolicy creates the policy.
func NewCompanyScopePolicy() *CompanyScopePolicy {
	return &CompanyScopePolicy{}
}

// Can compares the record's company with the session company of userID.
// Resources that are not company scoped are denied.
func (p *CompanyScopePolicy) Can(ctx context.Context, userID string, _ gate.Action, resource any) bool {
	scoped, ok := resource.(models.CompanyScoped)
	if !ok {
		return false
	}
	cid := scoped.GetCompanyID()
	if cid == "" {
		return true
	}
	s, ok := auth.SessionFromContext(ctx)
	if !ok || s.UserID != userID {
		return false
	}
	return s.CompanyID == cid
}

// AdminBypassPolicy wraps another policy and always allows admins.
type AdminBypassPolicy struct {
	inner       gate.Policy[string]
	isAdminFunc func(ctx context.Context, userID string) bool
}

// NewAdminBypassPolicy creates a policy that skips inner for admins.
func NewAdminBypassPolicy(inner gate.Policy[string], isAdminFunc func(ctx context.Context, userID string) bool) *AdminBypassPolicy {
	return &AdminBypassPolicy{
		inner:       inner,
		isAdminFunc: isAdminFunc,
	}
}

// Can checks if user is admin (bypass) or falls back to inner policy.
func (p *AdminBypassPolicy) Can(ctx context.Context, userID string, action gate.Action, resource any) bool {
	if p.isAdminFunc(ctx, userID) {
		return true
	}
	return p.inner.Can(ctx, userID, action, resource)
}
