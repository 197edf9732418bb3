package listing

import "slices"

// All is the catch-all tab.
const All = "all"

// Tabs is the set of tabs offered on a list page.
type Tabs struct {
	Values  []string
	Default string
}

// NewTabs returns tabs with "all" first followed by values. The default is
// "all".
func NewTabs(values ...string) Tabs {
	return Tabs{Values: append([]string{All}, values...), Default: All}
}

// Resolve maps a requested tab to a known one.
func (t Tabs) Resolve(requested string) Tab {
	if slices.Contains(t.Values, requested) {
		return Tab(requested)
	}
	return Tab(t.Default)
}

// Tab is the selected tab.
type Tab string

// Matches reports whether a row with the given status belongs to the tab.
func (t Tab) Matches(status string) bool {
	return t == All || string(t) == status
}

// Count returns the number of items per tab value, including "all".
func Count[T any](items []T, tabs Tabs, status func(T) string) map[string]int {
	out := make(map[string]int, len(tabs.Values))
	for _, v := range tabs.Values {
		out[v] = 0
	}
	for _, it := range items {
		out[All]++
		s := status(it)
		if _, ok := out[s]; ok && s != All {
			out[s]++
		}
	}
	return out
}
