// Package view renders the dashboard's html/template pages. Pages are parsed
// once together with the layout and partials, then cloned per request so
// request-scoped helpers (language, permissions) can be bound.
package view

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/diewo77/stock-admin/auth"
	"github.com/diewo77/stock-admin/i18n"
	"github.com/diewo77/stock-admin/internal/listing"
)

// Hooks are the per-request answers templates need from the host app. Nil
// fields keep their defaults.
type Hooks struct {
	Lang    func(*http.Request) string
	Theme   func(*http.Request) string
	Can     func(r *http.Request, resource, action string) bool
	IsAdmin func(*http.Request) bool
	// Flash returns the pending flash message, consuming it.
	Flash func(http.ResponseWriter, *http.Request) any
}

func defaultHooks() Hooks {
	return Hooks{
		Lang:    func(r *http.Request) string { return i18n.LangFromContext(r.Context()) },
		Theme:   func(*http.Request) string { return "system" },
		Can:     func(*http.Request, string, string) bool { return false },
		IsAdmin: func(*http.Request) bool { return false },
		Flash:   func(http.ResponseWriter, *http.Request) any { return nil },
	}
}

var (
	mu       sync.RWMutex
	tplFS    fs.FS
	staticFS fs.FS
	dev      bool
	tplCache = map[string]*template.Template{}
	assetVer = map[string]string{}
	currency = "DZD"
	hooks    = defaultHooks()
)

// Configure sets the template and static file systems. dev reparses
// templates on every render.
func Configure(templates, static fs.FS, devMode bool) {
	mu.Lock()
	defer mu.Unlock()
	tplFS, staticFS, dev = templates, static, devMode
	tplCache = map[string]*template.Template{}
	assetVer = map[string]string{}
}

// SetHooks installs the request resolvers.
func SetHooks(h Hooks) {
	d := defaultHooks()
	if h.Lang == nil {
		h.Lang = d.Lang
	}
	if h.Theme == nil {
		h.Theme = d.Theme
	}
	if h.Can == nil {
		h.Can = d.Can
	}
	if h.IsAdmin == nil {
		h.IsAdmin = d.IsAdmin
	}
	if h.Flash == nil {
		h.Flash = d.Flash
	}
	mu.Lock()
	hooks = h
	mu.Unlock()
}

func currentHooks() Hooks {
	mu.RLock()
	defer mu.RUnlock()
	return hooks
}

// SetCurrency sets the suffix used by the money helper.
func SetCurrency(c string) {
	if c == "" {
		return
	}
	mu.Lock()
	currency = c
	mu.Unlock()
}

// baseFuncs declares every helper so templates parse before a request is
// known. Request-bound helpers are replaced in requestFuncs.
func baseFuncs() template.FuncMap {
	return template.FuncMap{
		"t":       func(code string) string { return i18n.T(i18n.Default, code) },
		"tf":      func(code string, args ...any) string { return i18n.Tf(i18n.Default, code, args...) },
		"lang":    func() string { return i18n.Default },
		"theme":   func() string { return "system" },
		"can":     func(string, string) bool { return false },
		"isAdmin": func() bool { return false },
		"asset":   func(p string) string { return "/static/" + p },
		"mul":     func(a, b any) decimal.Decimal { return toDecimal(a).Mul(toDecimal(b)) },
		"add":     func(a, b any) decimal.Decimal { return toDecimal(a).Add(toDecimal(b)) },
		"money":   money,
		"num":     func(v any) string { return toDecimal(v).Round(2).String() },
		"percent": func(v any) string {
			return toDecimal(v).Shift(2).Round(2).String() + " %"
		},
		"date":     func(t any) string { return formatTime(t, "02/01/2006") },
		"datetime": func(t any) string { return formatTime(t, "02/01/2006 15:04") },
		"isoDate":  func(t any) string { return formatTime(t, time.DateOnly) },
		"year":     func() int { return time.Now().Year() },
		"upper":    strings.ToUpper,
		"query": func(q listing.Query, p string, kv ...string) string {
			over := make(map[string]string, len(kv)/2)
			for i := 0; i+1 < len(kv); i += 2 {
				over[kv[i]] = kv[i+1]
			}
			return q.URL(p, over)
		},
		"pageURL": func(q listing.Query, p string, page int) string {
			return q.URL(p, map[string]string{"page": fmt.Sprint(page)})
		},
		// {{template "field-text" (dict "Name" "price" "Value" .Price)}}
		"dict": dict,
		"list": func(values ...any) []any { return values },
		"str":  func(v any) string { return fmt.Sprint(v) },
	}
}

func dict(kv ...any) map[string]any {
	if len(kv)%2 != 0 {
		return nil
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			m[k] = kv[i+1]
		}
	}
	return m
}

// requestFuncs binds the language, theme and permission helpers to r.
func requestFuncs(r *http.Request, h Hooks) template.FuncMap {
	lang, theme := h.Lang(r), h.Theme(r)
	return template.FuncMap{
		"t":       func(code string) string { return i18n.T(lang, code) },
		"tf":      func(code string, args ...any) string { return i18n.Tf(lang, code, args...) },
		"lang":    func() string { return lang },
		"theme":   func() string { return theme },
		"can":     func(resource, action string) bool { return h.Can(r, resource, action) },
		"isAdmin": func() bool { return h.IsAdmin(r) },
		"asset":   resolveAsset,
	}
}

func money(v any) string {
	mu.RLock()
	cur := currency
	mu.RUnlock()
	return toDecimal(v).StringFixed(2) + " " + cur
}

func formatTime(v any, layout string) string {
	var t time.Time
	switch x := v.(type) {
	case time.Time:
		t = x
	case *time.Time:
		if x != nil {
			t = *x
		}
	}
	if t.IsZero() {
		return ""
	}
	return t.Format(layout)
}

// toDecimal converts the numeric kinds found in page data. Anything else is
// zero.
func toDecimal(v any) decimal.Decimal {
	switch n := v.(type) {
	case decimal.Decimal:
		return n
	case *decimal.Decimal:
		if n != nil {
			return *n
		}
	case float64:
		return decimal.NewFromFloat(n)
	case *float64:
		if n != nil {
			return decimal.NewFromFloat(*n)
		}
	case float32:
		return decimal.NewFromFloat32(n)
	case int:
		return decimal.NewFromInt(int64(n))
	case int64:
		return decimal.NewFromInt(n)
	case int32:
		return decimal.NewFromInt32(n)
	case uint:
		return decimal.NewFromInt(int64(n))
	case string:
		if d, err := decimal.NewFromString(n); err == nil {
			return d
		}
	}
	return decimal.Zero
}

// resolveAsset returns /static/<name>?v=<hash> so browsers refetch changed
// files. Absolute URLs pass through.
func resolveAsset(rel string) string {
	for _, p := range []string{"http://", "https://", "//"} {
		if strings.HasPrefix(rel, p) {
			return rel
		}
	}
	mu.RLock()
	v, ok := assetVer[rel]
	sfs := staticFS
	mu.RUnlock()
	if ok {
		return v
	}
	out := "/static/" + rel
	if sfs != nil {
		if b, err := fs.ReadFile(sfs, rel); err == nil {
			sum := sha1.Sum(b)
			out += fmt.Sprintf("?v=%x", sum[:8])
		}
	}
	mu.Lock()
	assetVer[rel] = out
	mu.Unlock()
	return out
}

// load parses name with the layout and every partial.
func load(name string) (*template.Template, error) {
	mu.RLock()
	t, ok := tplCache[name]
	fsys, devMode := tplFS, dev
	mu.RUnlock()
	if ok && !devMode {
		return t, nil
	}
	if fsys == nil {
		return nil, fmt.Errorf("view: templates not configured")
	}
	t, err := template.New(path.Base(name)).Funcs(baseFuncs()).ParseFS(fsys, "layout.html", "partials/*.html", name)
	if err != nil {
		return nil, fmt.Errorf("view: parse %s: %w", name, err)
	}
	if !devMode {
		mu.Lock()
		tplCache[name] = t
		mu.Unlock()
	}
	return t, nil
}

// Render executes a page inside the layout with status 200.
// name is the template path (e.g. "products/index.html").
func Render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) error {
	return RenderStatus(w, r, http.StatusOK, name, data)
}

// RenderStatus is Render with an explicit status code. The page is rendered
// to a buffer first so a template error never yields half a page.
func RenderStatus(w http.ResponseWriter, r *http.Request, status int, name string, data map[string]any) error {
	base, err := load(name)
	if err != nil {
		return err
	}
	t, err := base.Clone()
	if err != nil {
		return err
	}
	h := currentHooks()
	t.Funcs(requestFuncs(r, h))

	if data == nil {
		data = map[string]any{}
	}
	s, loggedIn := auth.SessionFromContext(r.Context())
	defaults := map[string]func() any{
		"Year":       func() any { return time.Now().Year() },
		"IsLoggedIn": func() any { return loggedIn },
		"Path":       func() any { return r.URL.Path },
		"Flash":      func() any { return h.Flash(w, r) },
	}
	if loggedIn {
		defaults["Session"] = func() any { return s }
	}
	for k, fn := range defaults {
		if _, ok := data[k]; !ok {
			data[k] = fn()
		}
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("view: execute %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}
