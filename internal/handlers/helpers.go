// Package handlers holds one handler per dashboard screen. Handlers fetch
// from the backend, render HTML (or JSON when the client asks for it) and
// post mutations back.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/diewo77/stock-admin/auth"
	"github.com/diewo77/stock-admin/gate"
	"github.com/diewo77/stock-admin/httpx"
	"github.com/diewo77/stock-admin/i18n"
	"github.com/diewo77/stock-admin/internal/backend"
	"github.com/diewo77/stock-admin/internal/middleware"
	"github.com/diewo77/stock-admin/validation"
	"github.com/diewo77/stock-admin/view"
)

// Authorizer is the part of the auth gate handlers rely on.
type Authorizer interface {
	Authorize(ctx context.Context, action gate.Action, resourceType string, resource any) error
	CanProfile(ctx context.Context, action gate.Action, resourceType string) bool
	InvalidateUser(userID string)
}

// SessionEnder deletes a dashboard session.
type SessionEnder interface {
	Delete(ctx context.Context, id string) error
}

// Base carries what every screen needs.
type Base struct {
	API      *backend.Client
	Gate     Authorizer
	Sessions SessionEnder
}

func logFor(r *http.Request) *zerolog.Logger {
	return zerolog.Ctx(r.Context())
}

func tr(r *http.Request, code string) string {
	return i18n.T(i18n.LangFromContext(r.Context()), code)
}

// render writes a page; template failures become a 500.
func render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	renderStatus(w, r, http.StatusOK, name, data)
}

func renderStatus(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) {
	if err := view.RenderStatus(w, r, status, name, data); err != nil {
		logFor(r).Error().Err(err).Str("template", name).Msg("render failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// renderError shows the error page, or a JSON error for API clients.
func renderError(w http.ResponseWriter, r *http.Request, status int, code string) {
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, status, code, nil)
		return
	}
	renderStatus(w, r, status, "error.html", map[string]any{
		"Status":  status,
		"Message": tr(r, code),
	})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	renderError(w, r, http.StatusNotFound, "error.not_found")
}

func forbidden(w http.ResponseWriter, r *http.Request) {
	renderError(w, r, http.StatusForbidden, "error.forbidden")
}

// Forbidden is exported for the auth gate's 403 answers.
func Forbidden(w http.ResponseWriter, r *http.Request) { forbidden(w, r) }

// NotFound renders the 404 page for unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) { notFound(w, r) }

// backendFailed handles an error from a backend read. A rejected token ends
// the session.
func (b *Base) backendFailed(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case backend.IsUnauthorized(err):
		b.endSession(r)
		auth.Unauthorized(w, r)
	case backend.IsNotFound(err):
		notFound(w, r)
	case backend.IsForbidden(err), errors.Is(err, gate.ErrUnauthorized):
		forbidden(w, r)
	default:
		logFor(r).Error().Err(err).Str("path", r.URL.Path).Msg("backend call failed")
		if httpx.WantsJSON(r) {
			httpx.JSONError(w, http.StatusBadGateway, backend.Message(err), nil)
			return
		}
		renderStatus(w, r, http.StatusBadGateway, "error.html", map[string]any{
			"Status":  http.StatusBadGateway,
			"Message": tr(r, "error.backend"),
			"Detail":  backend.Message(err),
		})
	}
}

// mutationFailed sorts a backend write error into form feedback. It returns
// false when the response was already written (401 / 403 / 404).
func (b *Base) mutationFailed(w http.ResponseWriter, r *http.Request, err error, v validation.Violations) (string, bool) {
	switch {
	case backend.IsUnauthorized(err), backend.IsNotFound(err), backend.IsForbidden(err):
		b.backendFailed(w, r, err)
		return "", false
	case backend.IsValidation(err):
		v.Merge(backend.FieldErrors(err))
		return backend.Message(err), true
	default:
		logFor(r).Error().Err(err).Str("path", r.URL.Path).Msg("backend write failed")
		return tr(r, "error.backend") + ": " + backend.Message(err), true
	}
}

func (b *Base) endSession(r *http.Request) {
	if s, ok := auth.SessionFromContext(r.Context()); ok && b.Sessions != nil {
		if err := b.Sessions.Delete(r.Context(), s.ID); err != nil {
			logFor(r).Warn().Err(err).Msg("delete session")
		}
	}
}

// allowed checks the gate for a loaded resource and answers 403 if denied.
func (b *Base) allowed(w http.ResponseWriter, r *http.Request, action gate.Action, resourceType string, resource any) bool {
	if err := b.Gate.Authorize(r.Context(), action, resourceType, resource); err != nil {
		forbidden(w, r)
		return false
	}
	return true
}

// visible is the company-scope filter for list pages.
func visible[T any](ctx context.Context, g Authorizer, resourceType string, items []T) []T {
	out := make([]T, 0, len(items))
	for i := range items {
		if g.Authorize(ctx, gate.ActionView, resourceType, &items[i]) == nil {
			out = append(out, items[i])
		}
	}
	return out
}

// sessionCompany is the company of the signed-in user, used as the default
// company of new records created by non-admins.
func sessionCompany(r *http.Request) string {
	if s, ok := auth.SessionFromContext(r.Context()); ok && !s.IsAdmin() {
		return s.CompanyID
	}
	return ""
}

func redirectFlash(w http.ResponseWriter, r *http.Request, to, kind, code string) {
	if httpx.WantsJSON(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	middleware.Flash(w, r, kind, code)
	http.Redirect(w, r, to, http.StatusSeeOther)
}

func formString(r *http.Request, key string) string {
	return strings.TrimSpace(r.FormValue(key))
}

func formFloat(r *http.Request, key string) float64 {
	f, _ := strconv.ParseFloat(strings.ReplaceAll(formString(r, key), ",", "."), 64)
	return f
}

func formInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(formString(r, key))
	return n
}

func formBool(r *http.Request, key string) bool {
	switch r.FormValue(key) {
	case "on", "true", "1":
		return true
	}
	return false
}

// percentRate accepts 19 as well as 0.19.
func percentRate(v float64) float64 {
	if v > 1 {
		return v / 100
	}
	return v
}

// deleteFailed reports a refused delete on the page it came from.
func (b *Base) deleteFailed(w http.ResponseWriter, r *http.Request, err error, back string) {
	b.actionFailed(w, r, err, back, "flash.delete_failed")
}

// actionFailed reports a refused form-less action (delete, assign, ...) as
// a flash on back.
func (b *Base) actionFailed(w http.ResponseWriter, r *http.Request, err error, back, code string) {
	if backendAuthFailure(err) {
		b.backendFailed(w, r, err)
		return
	}
	logFor(r).Error().Err(err).Str("path", r.URL.Path).Msg("backend action failed")
	if httpx.WantsJSON(r) {
		httpx.JSONError(w, http.StatusBadGateway, backend.Message(err), nil)
		return
	}
	flashError(w, tr(r, code)+": "+backend.Message(err))
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// backendAuthFailure reports backend answers that end in the generic
// 401 / 403 / 404 handling rather than an inline message.
func backendAuthFailure(err error) bool {
	return backend.IsUnauthorized(err) || backend.IsNotFound(err) || backend.IsForbidden(err)
}

func flashError(w http.ResponseWriter, msg string) {
	middleware.FlashText(w, "error", msg)
}
