package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/diewo77/stock-admin/auth"
	"github.com/diewo77/stock-admin/httpx"
	"github.com/diewo77/stock-admin/internal/backend"
	"github.com/diewo77/stock-admin/validation"
)

// SessionKeeper creates and deletes dashboard sessions.
type SessionKeeper interface {
	Create(ctx context.Context, s *auth.Session) error
	Delete(ctx context.Context, id string) error
}

// CartDropper forgets the POS cart of a session.
type CartDropper interface {
	Delete(ctx context.Context, sessionID string) error
}

// AuthHandler signs users in against the backend.
type AuthHandler struct {
	API      *backend.Client
	Sessions SessionKeeper
	Carts    CartDropper
	Gate     Authorizer
	TTL      time.Duration
	now      func() time.Time
}

func NewAuthHandler(api *backend.Client, sessions SessionKeeper, carts CartDropper, g Authorizer, ttl time.Duration) *AuthHandler {
	return &AuthHandler{API: api, Sessions: sessions, Carts: carts, Gate: g, TTL: ttl, now: time.Now}
}

type loginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// safeNext only follows local paths.
func safeNext(next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.HasPrefix(next, "/\\") {
		return next
	}
	return "/dashboard"
}

func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.UserIDFromContext(r.Context()); ok {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	render(w, r, "login.html", map[string]any{
		"Email": "",
		"Next":  r.URL.Query().Get("next"),
	})
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, req loginRequest, v validation.Violations, code string) {
	if httpx.WantsJSON(r) || httpx.SendsJSON(r) {
		httpx.JSONError(w, status, code, v)
		return
	}
	data := map[string]any{
		"Email":  req.Email,
		"Next":   r.FormValue("next"),
		"Errors": v,
	}
	if code != "" {
		data["Error"] = tr(r, code)
	}
	renderStatus(w, r, status, "login.html", data)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if httpx.SendsJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
	} else {
		req.Email = formString(r, "email")
		req.Password = r.FormValue("password")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if v := validation.Struct(req); !v.Empty() {
		h.renderLogin(w, r, http.StatusUnprocessableEntity, req, v, "")
		return
	}

	res, err := h.API.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if backend.IsUnauthorized(err) || backend.IsValidation(err) || backend.IsForbidden(err) {
			h.renderLogin(w, r, http.StatusUnauthorized, req, nil, "auth.invalid_credentials")
			return
		}
		logFor(r).Error().Err(err).Msg("login failed")
		h.renderLogin(w, r, http.StatusBadGateway, req, nil, "error.backend")
		return
	}

	now := h.now()
	expires := now.Add(h.TTL)
	role := res.User.Role
	if claims, err := backend.ParseTokenClaims(res.Token); err == nil {
		if !claims.ExpiresAt.IsZero() && claims.ExpiresAt.Before(expires) {
			expires = claims.ExpiresAt
		}
		if role == "" {
			role = claims.Role
		}
	}
	s := &auth.Session{
		UserID:    res.User.ID,
		Name:      res.User.Name,
		Email:     res.User.Email,
		Role:      role,
		CompanyID: res.User.CompanyID,
		Token:     res.Token,
		ExpiresAt: expires,
	}
	if err := h.Sessions.Create(r.Context(), s); err != nil {
		logFor(r).Error().Err(err).Msg("create session")
		h.renderLogin(w, r, http.StatusInternalServerError, req, nil, "error.internal")
		return
	}
	if h.Gate != nil {
		h.Gate.InvalidateUser(s.UserID)
	}
	auth.SetSessionCookie(w, s.ID, s.ExpiresAt)
	logFor(r).Info().Str("user_id", s.UserID).Str("role", s.Role).Msg("signed in")

	if httpx.SendsJSON(r) || httpx.WantsJSON(r) {
		httpx.JSON(w, http.StatusOK, map[string]any{
			"user":       res.User,
			"expires_at": s.ExpiresAt,
		})
		return
	}
	http.Redirect(w, r, safeNext(r.FormValue("next")), http.StatusSeeOther)
}

// LoginThrottled answers a rate-limited login attempt.
func (h *AuthHandler) LoginThrottled(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, r, http.StatusTooManyRequests, loginRequest{Email: formString(r, "email")}, nil, "auth.too_many_attempts")
}

// Logout revokes the backend token (best effort) and forgets the session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if s, ok := auth.SessionFromContext(r.Context()); ok {
		if err := h.API.Logout(r.Context()); err != nil {
			logFor(r).Warn().Err(err).Msg("backend logout")
		}
		if err := h.Sessions.Delete(r.Context(), s.ID); err != nil {
			logFor(r).Warn().Err(err).Msg("delete session")
		}
		if h.Carts != nil {
			if err := h.Carts.Delete(r.Context(), s.ID); err != nil {
				logFor(r).Warn().Err(err).Msg("delete cart")
			}
		}
		if h.Gate != nil {
			h.Gate.InvalidateUser(s.UserID)
		}
	}
	auth.ClearSession(w)
	if httpx.WantsJSON(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

