package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/diewo77/stock-admin/gate"
	"github.com/diewo77/stock-admin/httpx"
	"github.com/diewo77/stock-admin/internal/listing"
	"github.com/diewo77/stock-admin/internal/models"
	"github.com/diewo77/stock-admin/internal/policy"
	"github.com/diewo77/stock-admin/validation"
)

// UserSessionRevoker ends every dashboard session of a user.
type UserSessionRevoker interface {
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

type UserHandler struct {
	Base
	Revoker UserSessionRevoker
}

func NewUserHandler(b Base, revoker UserSessionRevoker) *UserHandler {
	return &UserHandler{Base: b, Revoker: revoker}
}

var userTabs = listing.NewTabs(models.Roles...)

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := listing.ParseQuery(r.URL.Query())
	users, err := h.API.ListUsers(ctx)
	if err != nil {
		h.backendFailed(w, r, err)
		return
	}
	users = visible(ctx, h.Gate, policy.ResourceUser, users)
	rows := listing.Filter(users, q, func(u models.User) []string {
		return []string{u.Name, u.Email, u.Phone}
	}, func(u models.User) time.Time { return u.CreatedAt })
	tab := userTabs.Resolve(q.Tab)
	counts := listing.Count(rows, userTabs, func(u models.User) string { return u.Role })
	rows = listing.Where(rows, func(u models.User) bool { return tab.Matches(u.Role) })
	page := listing.Paginate(rows, q)

	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{"items": page.Items, "total": page.Total, "page": page.Page, "pages": page.Pages})
		return
	}
	render(w, r, "users/index.html", map[string]any{
		"Page":   page,
		"Query":  q,
		"Tabs":   userTabs,
		"Tab":    tab,
		"Counts": counts,
	})
}

func (h *UserHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, id string, in models.UserInput, v validation.Violations, msg string) {
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, status, "validation_failed", v)
		return
	}
	companies, err := h.API.ListCompanies(r.Context())
	if err != nil {
		logFor(r).Warn().Err(err).Msg("companies for user form")
	}
	data := map[string]any{
		"ID":        id,
		"User":      in,
		"Roles":     models.Roles,
		"Companies": visible(r.Context(), h.Gate, policy.ResourceCompany, companies),
		"Errors":    v,
	}
	if msg != "" {
		data["Error"] = msg
	}
	renderStatus(w, r, status, "users/form.html", data)
}

func userFromForm(r *http.Request) models.UserInput {
	return models.UserInput{
		Name:      formString(r, "name"),
		Email:     formString(r, "email"),
		Phone:     formString(r, "phone"),
		Role:      formString(r, "role"),
		CompanyID: formString(r, "company_id"),
		Active:    formBool(r, "active"),
		Password:  r.FormValue("password"),
	}
}

func validateUser(in models.UserInput, creating bool) validation.Violations {
	v := validation.Struct(in)
	if creating {
		validation.Required("password", in.Password, v)
	}
	if in.Password != "" && len(in.Password) < 8 {
		v.Add("password", "too_short")
	}
	return v
}

func (h *UserHandler) New(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, "", models.UserInput{
		Role:      models.RoleCashier,
		CompanyID: sessionCompany(r),
		Active:    true,
	}, nil, "")
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	in := userFromForm(r)
	if in.CompanyID == "" {
		in.CompanyID = sessionCompany(r)
	}
	if !h.allowed(w, r, gate.ActionCreate, policy.ResourceUser, &models.User{CompanyID: in.CompanyID}) {
		return
	}
	v := validateUser(in, true)
	if !v.Empty() {
		in.Password = ""
		h.renderForm(w, r, http.StatusUnprocessableEntity, "", in, v, "")
		return
	}
	u, err := h.API.CreateUser(r.Context(), in)
	if err != nil {
		in.Password = ""
		if msg, ok := h.mutationFailed(w, r, err, v); ok {
			h.renderForm(w, r, http.StatusUnprocessableEntity, "", in, v, msg)
		}
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusCreated, u)
		return
	}
	redirectFlash(w, r, "/users", "success", "flash.created")
}

func (h *UserHandler) load(w http.ResponseWriter, r *http.Request, action gate.Action) (*models.User, bool) {
	u, err := h.API.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		h.backendFailed(w, r, err)
		return nil, false
	}
	if !h.allowed(w, r, action, policy.ResourceUser, u) {
		return nil, false
	}
	return u, true
}

func (h *UserHandler) Edit(w http.ResponseWriter, r *http.Request) {
	u, ok := h.load(w, r, gate.ActionUpdate)
	if !ok {
		return
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, u)
		return
	}
	h.renderForm(w, r, http.StatusOK, u.ID, models.UserInput{
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		CompanyID: u.CompanyID,
		Active:    u.Active,
	}, nil, "")
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	u, ok := h.load(w, r, gate.ActionUpdate)
	if !ok {
		return
	}
	in := userFromForm(r)
	if in.CompanyID == "" {
		in.CompanyID = u.CompanyID
	}
	if in.CompanyID != u.CompanyID && !h.allowed(w, r, gate.ActionUpdate, policy.ResourceUser, &models.User{CompanyID: in.CompanyID}) {
		return
	}
	v := validateUser(in, false)
	if !v.Empty() {
		in.Password = ""
		h.renderForm(w, r, http.StatusUnprocessableEntity, u.ID, in, v, "")
		return
	}
	updated, err := h.API.UpdateUser(r.Context(), u.ID, in)
	if err != nil {
		in.Password = ""
		if msg, ok := h.mutationFailed(w, r, err, v); ok {
			h.renderForm(w, r, http.StatusUnprocessableEntity, u.ID, in, v, msg)
		}
		return
	}
	h.Gate.InvalidateUser(u.ID)
	if in.Role != u.Role || !in.Active {
		h.revoke(r, u.ID)
	}
	if httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, updated)
		return
	}
	redirectFlash(w, r, "/users", "success", "flash.updated")
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	u, ok := h.load(w, r, gate.ActionDelete)
	if !ok {
		return
	}
	if err := h.API.DeleteUser(r.Context(), u.ID); err != nil {
		h.deleteFailed(w, r, err, "/users")
		return
	}
	h.Gate.InvalidateUser(u.ID)
	h.revoke(r, u.ID)
	redirectFlash(w, r, "/users", "success", "flash.deleted")
}

// revoke signs a user out everywhere after a role change or removal.
func (h *UserHandler) revoke(r *http.Request, userID string) {
	if h.Revoker == nil {
		return
	}
	n, err := h.Revoker.DeleteByUser(r.Context(), userID)
	if err != nil {
		logFor(r).Warn().Err(err).Str("user_id", userID).Msg("revoke sessions")
		return
	}
	if n > 0 {
		logFor(r).Info().Str("user_id", userID).Int64("sessions", n).Msg("sessions revoked")
	}
}
