package listing

import (
	"strings"
	"time"
)

// Filter keeps the items matching every non-empty criterion of q:
//   - q.Q must be a case-insensitive substring of one of fields(item)
//   - the item date must fall within [From, To], whole days inclusive,
//     counted in the zone given to SetLocation (UTC by default)
//
// date may be nil when the rows have no date; date filters are then
// ignored. A To before From matches nothing.
func Filter[T any](items []T, q Query, fields func(T) []string, date func(T) time.Time) []T {
	needle := strings.ToLower(strings.TrimSpace(q.Q))
	from, to := q.FromTime(), q.ToTime()
	if date != nil && !from.IsZero() && !to.IsZero() && to.Before(from) {
		return []T{}
	}
	var end time.Time
	if !to.IsZero() {
		end = to.AddDate(0, 0, 1)
	}

	out := make([]T, 0, len(items))
	for _, it := range items {
		if needle != "" && fields != nil && !containsAny(fields(it), needle) {
			continue
		}
		if date != nil && (!from.IsZero() || !end.IsZero()) {
			d := date(it)
			if d.IsZero() {
				continue
			}
			if !from.IsZero() && d.Before(from) {
				continue
			}
			if !end.IsZero() && !d.Before(end) {
				continue
			}
		}
		out = append(out, it)
	}
	return out
}

func containsAny(fields []string, needle string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// Where keeps the items for which keep returns true.
func Where[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
