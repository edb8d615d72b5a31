package stats

import (
	"sort"

	"github.com/verte-zerg/lettersound/internal/catalog"
)

// TopConfusions ranks the confusions of one symbol in snap.
func TopConfusions(cat *catalog.Catalog, snap Snapshot, symbolID string, limit int) []Confusion {
	st, ok := snap.Symbol(symbolID)
	if !ok || limit <= 0 || len(st.Confusions) == 0 {
		return nil
	}
	out := make([]Confusion, 0, len(st.Confusions))
	for id, count := range st.Confusions {
		out = append(out, Confusion{
			SymbolID:          id,
			Count:             count,
			PercentOfFailures: percent(count, st.Failures),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		pi, pj := cat.Position(out[i].SymbolID), cat.Position(out[j].SymbolID)
		switch {
		case pi >= 0 && pj >= 0:
			return pi < pj
		case pi >= 0:
			return true
		case pj >= 0:
			return false
		default:
			return out[i].SymbolID < out[j].SymbolID
		}
	})
	if limit < len(out) {
		out = out[:limit]
	}
	return out
}

// MostPracticed returns up to n symbol ids by attempt count, ties in catalog order.
func MostPracticed(snap Snapshot, n int) []string {
	if n <= 0 {
		return nil
	}
	played := FilterSymbols(snap, FilterPlayed)
	sort.SliceStable(played, func(i, j int) bool {
		return played[i].Attempts > played[j].Attempts
	})
	if n > len(played) {
		n = len(played)
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, played[i].Symbol.ID)
	}
	return out
}
