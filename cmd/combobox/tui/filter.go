package tui

import (
	"strings"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/cases"
)

// MatchMode selects how a local query is matched against option labels.
type MatchMode int

const (
	MatchSubstring MatchMode = iota // case-insensitive substring (default)
	MatchFuzzy                      // fuzzy subsequence, ranked by score
)

// String returns the config name of the mode.
func (m MatchMode) String() string {
	switch m {
	case MatchFuzzy:
		return "fuzzy"
	default:
		return "substring"
	}
}

// ParseMatchMode maps a config name to a MatchMode. Unknown names fall back
// to MatchSubstring.
func ParseMatchMode(s string) MatchMode {
	if strings.EqualFold(s, "fuzzy") {
		return MatchFuzzy
	}
	return MatchSubstring
}

// FilterOptions returns the options whose labels match query. An empty query
// returns the full list.
func FilterOptions[V comparable](opts []Option[V], query string, mode MatchMode) []Option[V] {
	if query == "" {
		return opts
	}
	if mode == MatchFuzzy {
		return fuzzyFilter(opts, query)
	}

	fold := cases.Fold()
	needle := fold.String(query)
	out := make([]Option[V], 0, len(opts))
	for _, o := range opts {
		if strings.Contains(fold.String(o.Label), needle) {
			out = append(out, o)
		}
	}
	return out
}

func fuzzyFilter[V comparable](opts []Option[V], query string) []Option[V] {
	labels := make([]string, len(opts))
	for i, o := range opts {
		labels[i] = o.Label
	}
	matches := fuzzy.Find(query, labels)
	out := make([]Option[V], 0, len(matches))
	for _, m := range matches {
		out = append(out, opts[m.Index])
	}
	return out
}
