package stats

import (
	"fmt"
	"sort"
	"strings"
)

// Accuracy thresholds for filters and bands.
const (
	WeakBelow     = 60
	StrongAtLeast = 80
	FairAtLeast   = 50
)

// Filter selects which symbols a listing shows.
type Filter string

// Supported filters.
const (
	FilterAll    Filter = "all"
	FilterPlayed Filter = "played"
	FilterWeak   Filter = "weak"
	FilterStrong Filter = "strong"
)

// Filters lists every filter in display order.
var Filters = []Filter{FilterAll, FilterPlayed, FilterWeak, FilterStrong}

// ParseFilter maps a filter name to a Filter.
func ParseFilter(name string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(name)))
	if f == "" {
		return FilterAll, nil
	}
	for _, known := range Filters {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown filter %q (want all, played, weak or strong)", name)
}

// Label returns the filter's display name.
func (f Filter) Label() string {
	switch f {
	case FilterPlayed:
		return "Played Only"
	case FilterWeak:
		return "Needs Practice"
	case FilterStrong:
		return "Mastered"
	default:
		return "All Letters"
	}
}

// Match reports whether st passes the filter.
func (f Filter) Match(st SymbolStats) bool {
	switch f {
	case FilterPlayed:
		return st.Attempts > 0
	case FilterWeak:
		return st.Attempts > 0 && st.Accuracy < WeakBelow
	case FilterStrong:
		return st.Attempts > 0 && st.Accuracy >= StrongAtLeast
	default:
		return true
	}
}

// FilterSymbols returns the snapshot's symbols that pass f, in catalog order.
func FilterSymbols(snap Snapshot, f Filter) []SymbolStats {
	var out []SymbolStats
	for _, st := range snap.List() {
		if f.Match(st) {
			out = append(out, st)
		}
	}
	return out
}

// Band classifies a symbol's accuracy for display.
type Band int

// Accuracy bands.
const (
	BandUntried Band = iota
	BandPoor
	BandFair
	BandGood
)

// BandFor classifies st.
func BandFor(st SymbolStats) Band {
	switch {
	case st.Attempts == 0:
		return BandUntried
	case st.Accuracy >= StrongAtLeast:
		return BandGood
	case st.Accuracy >= FairAtLeast:
		return BandFair
	default:
		return BandPoor
	}
}

// SelectWeakSymbols selects the lowest-accuracy practiced symbols.
func SelectWeakSymbols(snap Snapshot, top int) map[string]struct{} {
	weakSet := map[string]struct{}{}
	candidates := FilterSymbols(snap, FilterPlayed)
	if len(candidates) == 0 {
		return weakSet
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Accuracy < candidates[j].Accuracy
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	for i := 0; i < top; i++ {
		if candidates[i].Accuracy >= StrongAtLeast {
			break
		}
		weakSet[candidates[i].Symbol.ID] = struct{}{}
	}
	return weakSet
}
