// Package auth binds the browser to a server-side session through a signed
// cookie and exposes the session (and its backend bearer token) on the
// request context.
package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/diewo77/stock-admin/httpx"
)

type ctxKey string

const (
	sessionCookieName = "session"
	sessionCtxKey     = ctxKey("session")
)

// Session is what the dashboard remembers about a logged-in user. The
// backend owns the user; Token is the bearer token it issued at login.
type Session struct {
	ID        string
	UserID    string
	Name      string
	Email     string
	Role      string
	CompanyID string
	Token     string
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// IsAdmin reports whether the session belongs to an administrator.
func (s *Session) IsAdmin() bool { return s != nil && s.Role == "admin" }

// SessionLoader fetches a session by id. Set it during bootstrap via
// SetSessionLoader; without one no request is ever authenticated.
type SessionLoader func(ctx context.Context, id string) (*Session, error)

var loader SessionLoader

// SetSessionLoader configures the loader used by Middleware.
func SetSessionLoader(l SessionLoader) { loader = l }

var secret = func() string {
	if s := os.Getenv("SESSION_SECRET"); s != "" {
		return s
	}
	return "devsessionsecret"
}()

// SetSecret overrides the cookie signing secret (config or tests).
func SetSecret(s string) {
	if s != "" {
		secret = s
	}
}

// Secret returns the cookie signing secret.
func Secret() string { return secret }

func sign(value string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// SetSessionCookie writes the signed cookie for session id, expiring at
// expires.
func SetSessionCookie(w http.ResponseWriter, id string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id + "." + sign(id),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  expires,
	})
}

// ClearSession deletes the session cookie.
func ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookieName, Value: "", Path: "/", Expires: time.Unix(0, 0), MaxAge: -1, HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

// ParseSessionID validates the cookie signature and returns the session id.
func ParseSessionID(r *http.Request) (string, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	id, sig, ok := strings.Cut(c.Value, ".")
	if !ok || id == "" {
		return "", false
	}
	if !hmac.Equal([]byte(sig), []byte(sign(id))) {
		return "", false
	}
	return id, true
}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey, s)
}

// SessionFromContext returns the session stored by Middleware.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionCtxKey).(*Session)
	return s, ok && s != nil
}

// UserIDFromContext returns the backend user id of the current session.
func UserIDFromContext(ctx context.Context) (string, bool) {
	s, ok := SessionFromContext(ctx)
	if !ok || s.UserID == "" {
		return "", false
	}
	return s.UserID, true
}

// TokenFromContext returns the backend bearer token of the current session,
// or "" when the request is anonymous.
func TokenFromContext(ctx context.Context) string {
	if s, ok := SessionFromContext(ctx); ok {
		return s.Token
	}
	return ""
}

// Middleware attaches the session to the request context when the cookie is
// valid and the session is still alive.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := ParseSessionID(r); ok && loader != nil {
			if s, err := loader(r.Context(), id); err == nil && s != nil && !s.Expired(time.Now()) {
				r = r.WithContext(WithSession(r.Context(), s))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth redirects anonymous HTML requests to /login and answers 401 to
// JSON clients.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserIDFromContext(r.Context()); !ok {
			Unauthorized(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Unauthorized clears the cookie and sends the client to the login page (HTML)
// or a 401 (JSON).
func Unauthorized(w http.ResponseWriter, r *http.Request) {
	ClearSession(w)
	if httpx.WantsJSON(r) || strings.HasPrefix(r.URL.Path, "/api/") {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
