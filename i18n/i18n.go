// Package i18n holds the dashboard's translated strings and language
// negotiation.
package i18n

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Default is the fallback language.
const Default = "fr"

// Supported lists the languages that have a message table, default first.
var Supported = []string{"fr", "en"}

var matcher = language.NewMatcher([]language.Tag{language.French, language.English})

type langKey struct{}

// WithLang stores the negotiated language in ctx.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

// LangFromContext returns the language stored by WithLang or Default.
func LangFromContext(ctx context.Context) string {
	if l, ok := ctx.Value(langKey{}).(string); ok && l != "" {
		return l
	}
	return Default
}

// IsSupported reports whether lang has a message table.
func IsSupported(lang string) bool {
	_, ok := catalog[lang]
	return ok
}

// DetectLanguage picks the best supported language for an Accept-Language
// header value, falling back to Default.
func DetectLanguage(acceptLanguage string) string {
	if strings.TrimSpace(acceptLanguage) == "" {
		return Default
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	return Supported[idx]
}

// T translates code into lang. Unknown languages fall back to Default and
// unknown codes are returned unchanged.
func T(lang, code string) string {
	if msgs, ok := catalog[lang]; ok {
		if s, ok := msgs[code]; ok {
			return s
		}
	}
	if s, ok := catalog[Default][code]; ok {
		return s
	}
	return code
}

// Tf translates code and formats it with args.
func Tf(lang, code string, args ...any) string {
	return fmt.Sprintf(T(lang, code), args...)
}
