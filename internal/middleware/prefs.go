// Package middleware holds the HTTP middleware of the dashboard.
package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/diewo77/stock-admin/i18n"
)

type ctxKey string

const (
	ctxTheme ctxKey = "pref_theme"

	prefMaxAge = 86400 * 30
)

var themes = map[string]bool{"light": true, "dark": true, "system": true}

// DefaultLang is the language used when nothing else matches. Set from
// configuration at startup.
var DefaultLang = i18n.Default

// Prefs extracts language and theme preferences (query > cookie > header)
// and stores them in the context. Query-provided values are persisted in
// cookies for 30 days.
func Prefs(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := ""
		if c, err := r.Cookie("lang"); err == nil && i18n.IsSupported(c.Value) {
			lang = c.Value
		}
		if ql := strings.ToLower(r.URL.Query().Get("lang")); i18n.IsSupported(ql) {
			lang = ql
			http.SetCookie(w, &http.Cookie{Name: "lang", Value: lang, Path: "/", MaxAge: prefMaxAge, SameSite: http.SameSiteLaxMode})
		}
		if lang == "" && r.Header.Get("Accept-Language") != "" {
			lang = i18n.DetectLanguage(r.Header.Get("Accept-Language"))
		}
		if !i18n.IsSupported(lang) {
			lang = DefaultLang
		}

		theme := "system"
		if c, err := r.Cookie("theme"); err == nil && themes[c.Value] {
			theme = c.Value
		}
		if qt := r.URL.Query().Get("theme"); themes[qt] {
			theme = qt
			http.SetCookie(w, &http.Cookie{Name: "theme", Value: theme, Path: "/", MaxAge: prefMaxAge, SameSite: http.SameSiteLaxMode})
		}
		ctx := i18n.WithLang(r.Context(), lang)
		ctx = context.WithValue(ctx, ctxTheme, theme)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LangFrom returns the language preference of the request.
func LangFrom(r *http.Request) string {
	return i18n.LangFromContext(r.Context())
}

// ThemeFrom returns theme preference from context or fallback.
func ThemeFrom(r *http.Request) string {
	if v, ok := r.Context().Value(ctxTheme).(string); ok && v != "" {
		return v
	}
	return "system"
}

// FlashMessage is a one-shot notice shown on the next page.
type FlashMessage struct {
	Kind    string // success, error, info
	Message string
}

const flashCookie = "flash"

// Flash sets a translated flash message cookie using translation code (or
// literal if missing).
func Flash(w http.ResponseWriter, r *http.Request, kind, code string) {
	FlashText(w, kind, i18n.T(LangFrom(r), code))
}

// FlashText sets an already translated flash message.
func FlashText(w http.ResponseWriter, kind, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(kind + "|" + msg),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlash returns the pending flash message and clears it.
func PopFlash(w http.ResponseWriter, r *http.Request) (FlashMessage, bool) {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return FlashMessage{}, false
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})
	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return FlashMessage{}, false
	}
	kind, msg, ok := strings.Cut(raw, "|")
	if !ok {
		return FlashMessage{Kind: "info", Message: raw}, true
	}
	return FlashMessage{Kind: kind, Message: msg}, true
}
