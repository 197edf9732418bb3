// Package listing filters, tabs and paginates rows already fetched from the
// backend. The query lives in the URL so filtered views can be shared.
package listing

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
	dateLayout   = "2006-01-02"
)

// Query is the list state carried in the URL.
type Query struct {
	Q     string
	From  string // YYYY-MM-DD, as typed
	To    string
	Tab   string
	Page  int
	Limit int
	// Extra holds screen-specific parameters such as category.
	Extra url.Values
}

// reserved keys are either Query fields or read by the preferences
// middleware (lang, theme), so they never land in Extra.
var reserved = map[string]bool{
	"q": true, "from": true, "to": true, "tab": true, "page": true, "limit": true,
	"lang": true, "theme": true,
}

var (
	zoneMu sync.RWMutex
	zone   = time.UTC
)

// SetLocation sets the zone From and To days are counted in.
func SetLocation(loc *time.Location) {
	if loc == nil {
		return
	}
	zoneMu.Lock()
	zone = loc
	zoneMu.Unlock()
}

func location() *time.Location {
	zoneMu.RLock()
	defer zoneMu.RUnlock()
	return zone
}

// ParseQuery reads a Query from URL values. Out-of-range page and limit
// values are clamped.
func ParseQuery(v url.Values) Query {
	q := Query{
		Q:     strings.TrimSpace(v.Get("q")),
		From:  strings.TrimSpace(v.Get("from")),
		To:    strings.TrimSpace(v.Get("to")),
		Tab:   strings.TrimSpace(v.Get("tab")),
		Page:  atoi(v.Get("page"), 1),
		Limit: atoi(v.Get("limit"), DefaultLimit),
		Extra: url.Values{},
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	for k, vals := range v {
		if !reserved[k] && len(vals) > 0 && vals[0] != "" {
			q.Extra.Set(k, vals[0])
		}
	}
	return q
}

func atoi(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}

// Get returns a screen-specific parameter.
func (q Query) Get(key string) string { return q.Extra.Get(key) }

// FromTime is the start of the From day in the configured zone, or zero
// when unset or invalid.
func (q Query) FromTime() time.Time { return parseDay(q.From) }

// ToTime is the start of the To day, or zero when unset or invalid.
func (q Query) ToTime() time.Time { return parseDay(q.To) }

func parseDay(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation(dateLayout, s, location())
	if err != nil {
		return time.Time{}
	}
	return t
}

// Active reports whether any filter narrows the rows.
func (q Query) Active() bool {
	return q.Q != "" || !q.FromTime().IsZero() || !q.ToTime().IsZero() || len(q.Extra) > 0
}

// Values encodes the query, dropping empty and default values.
func (q Query) Values() url.Values {
	v := url.Values{}
	for k := range q.Extra {
		if s := q.Extra.Get(k); s != "" {
			v.Set(k, s)
		}
	}
	set := func(k, s string) {
		if s != "" {
			v.Set(k, s)
		}
	}
	set("q", q.Q)
	set("from", q.From)
	set("to", q.To)
	set("tab", q.Tab)
	if q.Page > 1 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 && q.Limit != DefaultLimit {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}

// URL rebuilds path with the query, applying overrides. An empty override
// removes the parameter. Changing anything but the page resets the page.
func (q Query) URL(path string, overrides map[string]string) string {
	v := q.Values()
	if _, ok := overrides["page"]; !ok && len(overrides) > 0 {
		v.Del("page")
	}
	for k, s := range overrides {
		if s == "" {
			v.Del(k)
			continue
		}
		v.Set(k, s)
	}
	if k := v.Get("page"); k == "1" {
		v.Del("page")
	}
	if len(v) == 0 {
		return path
	}
	// url.Values.Encode sorts keys, which keeps URLs stable.
	return path + "?" + v.Encode()
}

// Keys lists Extra keys in order, for hidden form fields.
func (q Query) Keys() []string {
	keys := make([]string, 0, len(q.Extra))
	for k := range q.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
