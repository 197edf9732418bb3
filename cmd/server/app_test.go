package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/diewo77/stock-admin/auth"
	"github.com/diewo77/stock-admin/internal/backend"
	"github.com/diewo77/stock-admin/internal/config"
	"github.com/diewo77/stock-admin/internal/policy"
	"github.com/diewo77/stock-admin/internal/store"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// fakeBackend answers the few backend routes the tests go through.
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "secret123" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"bad credentials"}`)
			return
		}
		_, _ = io.WriteString(w, `{"token":"tok-1","user":{"id":"u1","name":"Amina","email":"amina@example.dz","role":"manager","company_id":"c1"}}`)
	})
	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /api/users/u1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":"u1","name":"Amina","role":"manager","company_id":"c1"}`)
	})
	mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = io.WriteString(w, `{"items":[
			{"id":"p1","name":"Huile 5L","price":900,"company_id":"c1"},
			{"id":"p2","name":"Sucre","price":120,"company_id":"c2"}
		],"total":2}`)
	})
	mux.HandleFunc("GET /api/ping-target", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"auth":"`+r.Header.Get("Authorization")+`","cookie":"`+r.Header.Get("Cookie")+`"}`)
	})
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"ok"}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	srv := fakeBackend(t)

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	cfg := config.Load()
	cfg.Session.Secret = testSecret
	cfg.Session.TTL = time.Hour
	cfg.Server.LoginRatePerMinute = 100

	auth.SetSecret(testSecret)
	sessions := store.NewSessionStore(db, testSecret)
	carts := store.NewCartStore(db)
	auth.SetSessionLoader(sessions.Loader())

	api := backend.NewClient(srv.URL+"/api", 5*time.Second, backend.WithTokenSource(auth.TokenFromContext))
	rc, err := NewRouterConfig(Deps{
		Config:   cfg,
		API:      api,
		DB:       db,
		Sessions: sessions,
		Carts:    carts,
		Roles:    policy.DefaultRoles(),
	})
	require.NoError(t, err)
	return NewApp(rc, zerolog.Nop(), false)
}

func login(t *testing.T, app *App) *http.Cookie {
	t.Helper()
	form := url.Values{"email": {"amina@example.dz"}, "password": {"secret123"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session" {
			return c
		}
	}
	t.Fatal("no session cookie")
	return nil
}

func TestApp_Health(t *testing.T) {
	app := newTestApp(t)

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"backend":"ok"`)
	assert.Contains(t, rec.Body.String(), `"store":"ok"`)
}

func TestApp_AnonymousIsSentToLogin(t *testing.T) {
	app := newTestApp(t)

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/products", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Accept", "application/json")
	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestApp_LoginPageRenders(t *testing.T) {
	app := newTestApp(t)

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login?lang=en", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/login"`)
	assert.Contains(t, rec.Body.String(), "Sign in")
}

func TestApp_LoginRejectsBadPassword(t *testing.T) {
	app := newTestApp(t)

	form := url.Values{"email": {"amina@example.dz"}, "password": {"nope"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	for _, c := range rec.Result().Cookies() {
		assert.NotEqual(t, "session", c.Name)
	}
}

func TestApp_ProductsScopedToSessionCompany(t *testing.T) {
	app := newTestApp(t)
	cookie := login(t, app)

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("Accept", "application/json")
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, "p1", body.Items[0].ID)
}

func TestApp_AdminRoutesNeedAdmin(t *testing.T) {
	app := newTestApp(t)
	cookie := login(t, app)

	req := httptest.NewRequest(http.MethodGet, "/admin/roles", nil)
	req.Header.Set("Accept", "application/json")
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestApp_ProxyForwardsBearer(t *testing.T) {
	app := newTestApp(t)

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/backend/ping-target", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	cookie := login(t, app)
	req := httptest.NewRequest(http.MethodGet, "/api/backend/ping-target", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"auth":"Bearer tok-1","cookie":""}`, rec.Body.String())
}

func TestApp_LogoutEndsSession(t *testing.T) {
	app := newTestApp(t)
	cookie := login(t, app)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/products", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestApp_MetricsExposed(t *testing.T) {
	app := newTestApp(t)

	app.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `http_requests_total{method="GET",route="GET /health",status="200"}`)
}
