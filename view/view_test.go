package view

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diewo77/stock-admin/i18n"
)

func testFS() (fstest.MapFS, fstest.MapFS) {
	templates := fstest.MapFS{
		"layout.html":         {Data: []byte(`{{define "layout"}}<title>{{template "title" .}}</title>{{template "flash" .}}{{template "content" .}}{{end}}`)},
		"partials/flash.html": {Data: []byte(`{{define "flash"}}{{with .Flash}}[{{.}}]{{end}}{{end}}`)},
		"page.html":           {Data: []byte(`{{define "title"}}{{t "nav.dashboard"}}{{end}}{{define "content"}}{{.Path}}|{{money .Total}}|{{asset "app.css"}}|{{if isAdmin}}admin{{end}}{{end}}`)},
		"broken.html":         {Data: []byte(`{{define "title"}}x{{end}}{{define "content"}}{{template "missing" .}}{{end}}`)},
	}
	static := fstest.MapFS{"app.css": {Data: []byte("body{}")}}
	return templates, static
}

func TestRenderStatus(t *testing.T) {
	tpl, static := testFS()
	Configure(tpl, static, false)
	SetCurrency("DZD")
	SetHooks(Hooks{Flash: func(http.ResponseWriter, *http.Request) any { return "saved" }})
	t.Cleanup(func() { SetHooks(Hooks{}) })

	r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	r = r.WithContext(i18n.WithLang(context.Background(), "en"))
	rec := httptest.NewRecorder()
	require.NoError(t, RenderStatus(rec, r, http.StatusAccepted, "page.html", map[string]any{"Total": decimal.RequireFromString("1234.5")}))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "<title>Dashboard</title>")
	assert.Contains(t, body, "[saved]")
	assert.Contains(t, body, "/dashboard|1234.50 DZD|/static/app.css?v=")
	assert.NotContains(t, body, "admin")
}

func TestRender_TemplateErrorWritesNothing(t *testing.T) {
	tpl, static := testFS()
	Configure(tpl, static, false)

	rec := httptest.NewRecorder()
	err := Render(rec, httptest.NewRequest(http.MethodGet, "/", nil), "broken.html", nil)
	require.Error(t, err)
	assert.Empty(t, rec.Body.String())
	assert.Empty(t, rec.Header().Get("Content-Type"))
}

func TestResolveAsset(t *testing.T) {
	tpl, static := testFS()
	Configure(tpl, static, false)

	assert.Equal(t, "https://cdn.example.com/x.js", resolveAsset("https://cdn.example.com/x.js"))
	assert.Equal(t, "/static/none.js", resolveAsset("none.js"))
	v := resolveAsset("app.css")
	assert.Regexp(t, `^/static/app\.css\?v=[0-9a-f]{16}$`, v)
	assert.Equal(t, v, resolveAsset("app.css"))
}

func TestNumberHelpers(t *testing.T) {
	f := baseFuncs()
	num := f["num"].(func(any) string)
	percent := f["percent"].(func(any) string)

	assert.Equal(t, "2.5", num(2.5))
	assert.Equal(t, "3", num(3))
	assert.Equal(t, "0", num("abc"))
	assert.Equal(t, "19 %", percent(0.19))
	assert.Equal(t, "7.5 %", percent(decimal.RequireFromString("0.075")))
	assert.Equal(t, "", formatTime((*time.Time)(nil), time.DateOnly))
}
