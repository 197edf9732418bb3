package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cookieFrom(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookieName {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestSessionCookieRoundTrip(t *testing.T) {
	w := httptest.NewRecorder()
	SetSessionCookie(w, "sess-1", time.Now().Add(time.Hour))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookieFrom(t, w))
	id, ok := ParseSessionID(r)
	require.True(t, ok)
	assert.Equal(t, "sess-1", id)
}

func TestTamperedCookieRejected(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "sess-1.forged"})
	_, ok := ParseSessionID(r)
	assert.False(t, ok)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "nodot"})
	_, ok = ParseSessionID(r)
	assert.False(t, ok)
}

func TestMiddlewareLoadsSession(t *testing.T) {
	sessions := map[string]*Session{
		"live":    {ID: "live", UserID: "u1", Token: "tok", ExpiresAt: time.Now().Add(time.Hour)},
		"expired": {ID: "expired", UserID: "u2", ExpiresAt: time.Now().Add(-time.Minute)},
	}
	SetSessionLoader(func(_ context.Context, id string) (*Session, error) {
		if s, ok := sessions[id]; ok {
			return s, nil
		}
		return nil, errors.New("not found")
	})
	defer SetSessionLoader(nil)

	var gotUser, gotToken string
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = UserIDFromContext(r.Context())
		gotToken = TokenFromContext(r.Context())
	}))

	for id, wantUser := range map[string]string{"live": "u1", "expired": "", "missing": ""} {
		gotUser, gotToken = "", ""
		w := httptest.NewRecorder()
		SetSessionCookie(w, id, time.Now().Add(time.Hour))
		r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		r.AddCookie(cookieFrom(t, w))
		h.ServeHTTP(httptest.NewRecorder(), r)
		assert.Equal(t, wantUser, gotUser, id)
	}

	w := httptest.NewRecorder()
	SetSessionCookie(w, "live", time.Now().Add(time.Hour))
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookieFrom(t, w))
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, "tok", gotToken)
}

func TestRequireAuth(t *testing.T) {
	h := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products", nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	r := httptest.NewRequest(http.MethodGet, "/products", nil)
	r.Header.Set("Accept", "application/json")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	r = httptest.NewRequest(http.MethodGet, "/products", nil)
	r = r.WithContext(WithSession(r.Context(), &Session{UserID: "u1"}))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestSessionHelpers(t *testing.T) {
	s := &Session{Role: "admin", ExpiresAt: time.Now().Add(-time.Second)}
	assert.True(t, s.IsAdmin())
	assert.True(t, s.Expired(time.Now()))
	assert.False(t, (&Session{}).Expired(time.Now()))
	var nilSession *Session
	assert.False(t, nilSession.IsAdmin())
}
