package handlers

import (
	"net/http"
	"slices"

	"github.com/diewo77/stock-admin/gate"
	"github.com/diewo77/stock-admin/httpx"
	"github.com/diewo77/stock-admin/internal/models"
)

// RoleCatalog lists the configured roles and their profiles.
type RoleCatalog interface {
	Names() []string
	Profile(role string) gate.Profile
}

// CacheInvalidator drops cached role profiles.
type CacheInvalidator interface {
	InvalidateAll()
}

// AdminRoleHandler shows the role table and assigns roles to users.
// Roles are stored on the backend user, the permission table is local.
type AdminRoleHandler struct {
	Base
	Roles   RoleCatalog
	Cache   CacheInvalidator
	Revoker UserSessionRevoker
}

func NewAdminRoleHandler(b Base, roles RoleCatalog, cache CacheInvalidator, revoker UserSessionRevoker) *AdminRoleHandler {
	return &AdminRoleHandler{Base: b, Roles: roles, Cache: cache, Revoker: revoker}
}

type roleRow struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
	Users       int      `json:"users"`
}

// List displays every role with its permissions and the users holding it.
func (h *AdminRoleHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.API.ListUsers(r.Context())
	if err != nil {
		h.backendFailed(w, r, err)
		return
	}
	perRole := make(map[string]int)
	for _, u := range users {
		perRole[u.Role]++
	}
	roles := make([]roleRow, 0)
	for _, name := range h.Roles.Names() {
		row := roleRow{Name: name, Users: perRole[name]}
		if p := h.Roles.Profile(name); p != nil {
			for _, perm := range p.Permissions() {
				row.Permissions = append(row.Permissions, string(perm))
			}
		}
		roles = append(roles, row)
	}

	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"roles": roles, "users": users})
		return
	}
	render(w, r, "admin/roles.html", map[string]any{
		"Roles": roles,
		"Users": users,
	})
}

// Assign sets the role of one user on the backend.
func (h *AdminRoleHandler) Assign(w http.ResponseWriter, r *http.Request) {
	userID, role := formString(r, "user_id"), formString(r, "role")
	if userID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_user_id", nil)
		return
	}
	if !slices.Contains(h.Roles.Names(), role) {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_role", nil)
		return
	}
	u, err := h.API.GetUser(r.Context(), userID)
	if err != nil {
		h.backendFailed(w, r, err)
		return
	}
	if u.Role != role {
		_, err = h.API.UpdateUser(r.Context(), u.ID, models.UserInput{
			Name:      u.Name,
			Email:     u.Email,
			Phone:     u.Phone,
			Role:      role,
			CompanyID: u.CompanyID,
			Active:    u.Active,
		})
		if err != nil {
			h.actionFailed(w, r, err, "/admin/roles", "flash.update_failed")
			return
		}
		h.Gate.InvalidateUser(u.ID)
		if h.Revoker != nil {
			if _, err := h.Revoker.DeleteByUser(r.Context(), u.ID); err != nil {
				logFor(r).Warn().Err(err).Str("user_id", u.ID).Msg("revoke sessions")
			}
		}
		logFor(r).Info().Str("user_id", u.ID).Str("from", u.Role).Str("to", role).Msg("role assigned")
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"user_id": u.ID, "role": role})
		return
	}
	redirectFlash(w, r, "/admin/roles", "success", "flash.role_assigned")
}

// ClearCache forgets every cached profile so role changes made directly on
// the backend apply at once.
func (h *AdminRoleHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.Cache.InvalidateAll()
	redirectFlash(w, r, "/admin/roles", "success", "flash.cache_cleared")
}
