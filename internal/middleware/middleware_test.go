package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func prefsOf(t *testing.T, req *http.Request) (lang, theme string, rec *httptest.ResponseRecorder) {
	t.Helper()
	rec = httptest.NewRecorder()
	Prefs(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang, theme = LangFrom(r), ThemeFrom(r)
	})).ServeHTTP(rec, req)
	return lang, theme, rec
}

func TestPrefs_Precedence(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	lang, theme, _ := prefsOf(t, req)
	assert.Equal(t, "fr", lang)
	assert.Equal(t, "system", theme)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en-GB,en;q=0.9")
	lang, _, _ = prefsOf(t, req)
	assert.Equal(t, "en", lang)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en-GB")
	req.AddCookie(&http.Cookie{Name: "lang", Value: "fr"})
	lang, _, _ = prefsOf(t, req)
	assert.Equal(t, "fr", lang)

	req = httptest.NewRequest(http.MethodGet, "/?lang=EN&theme=dark", nil)
	req.AddCookie(&http.Cookie{Name: "lang", Value: "fr"})
	lang, theme, rec := prefsOf(t, req)
	assert.Equal(t, "en", lang)
	assert.Equal(t, "dark", theme)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)

	req = httptest.NewRequest(http.MethodGet, "/?lang=de&theme=neon", nil)
	lang, theme, rec = prefsOf(t, req)
	assert.Equal(t, "fr", lang)
	assert.Equal(t, "system", theme)
	assert.Empty(t, rec.Result().Cookies())
}

func TestFlash_RoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/?lang=en", nil)
	Prefs(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		Flash(w, r, "success", "required")
	})).ServeHTTP(rec, req)

	var flash *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "flash" {
			flash = c
		}
	}
	require.NotNil(t, flash)

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(flash)
	rec = httptest.NewRecorder()
	msg, ok := PopFlash(rec, next)
	require.True(t, ok)
	assert.Equal(t, FlashMessage{Kind: "success", Message: "Required"}, msg)
	assert.Equal(t, -1, rec.Result().Cookies()[0].MaxAge)

	_, ok = PopFlash(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	h := chimw.RequestID(RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		zerolog.Ctx(r.Context()).Info().Msg("inside")
		w.WriteHeader(http.StatusTeapot)
	})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/brew", nil))

	out := buf.String()
	assert.Contains(t, out, `"message":"inside"`)
	assert.Contains(t, out, `"status":418`)
	assert.Contains(t, out, `"path":"/brew"`)
	assert.Equal(t, 2, strings.Count(out, `"request_id"`))
}

func TestMetrics_LabelsRoutePattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.Handle("GET /widgets/{id}", Routed(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})))
	h := Metrics(mux)

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "GET /widgets/{id}", "202"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/widgets/42", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/widgets/43", nil))
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "GET /widgets/{id}", "202"))
	assert.Equal(t, before+2, after)

	miss := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unmatched", "404"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, miss+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2)
	h := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusOK, do("10.0.0.1:1111"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1:2222"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:3333"))
	assert.Equal(t, http.StatusOK, do("10.0.0.2:1111"))

	assert.Equal(t, 0, rl.Cleanup(time.Hour))
	assert.Equal(t, 2, rl.Cleanup(-time.Second))
}
