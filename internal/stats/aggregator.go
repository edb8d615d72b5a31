package stats

import (
	"math"
	"time"

	"github.com/verte-zerg/lettersound/internal/catalog"
	"github.com/verte-zerg/lettersound/internal/model"
)

// Attempt is one logged answer for a target symbol.
type Attempt struct {
	Correct    bool
	SelectedID string
	Timestamp  time.Time
}

// SymbolStats aggregates the outcomes where a symbol was the target.
// Accuracy is a whole percentage.
type SymbolStats struct {
	Symbol     model.Symbol
	Attempts   int
	Successes  int
	Failures   int
	Accuracy   int
	Confusions map[string]int
	History    []Attempt
}

// Snapshot is derived from the outcome log on demand.
type Snapshot struct {
	Symbols map[string]SymbolStats
	// Order lists symbol ids in catalog order.
	Order          []string
	TotalAttempts  int
	TotalSuccesses int
	GlobalAccuracy int
}

// HasData reports whether any outcome has been logged.
func (s Snapshot) HasData() bool {
	return s.TotalAttempts > 0
}

// Symbol returns the stats for id.
func (s Snapshot) Symbol(id string) (SymbolStats, bool) {
	st, ok := s.Symbols[id]
	return st, ok
}

// List returns per-symbol stats in catalog order.
func (s Snapshot) List() []SymbolStats {
	out := make([]SymbolStats, 0, len(s.Order))
	for _, id := range s.Order {
		out = append(out, s.Symbols[id])
	}
	return out
}

// Confusion is a symbol picked instead of the target.
type Confusion struct {
	SymbolID          string
	Count             int
	PercentOfFailures int
}

// Aggregator keeps the append-only outcome log and derives statistics from it.
// It is not safe for concurrent use.
type Aggregator struct {
	catalog *catalog.Catalog
	events  []model.OutcomeEvent
}

// NewAggregator returns an Aggregator seeded with previously logged events.
func NewAggregator(cat *catalog.Catalog, events ...model.OutcomeEvent) *Aggregator {
	a := &Aggregator{catalog: cat}
	for _, ev := range events {
		a.RecordOutcome(ev)
	}
	return a
}

// RecordOutcome appends an event to the log. Events naming unknown symbols are kept.
func (a *Aggregator) RecordOutcome(ev model.OutcomeEvent) {
	ev.DistractorIDs = append([]string(nil), ev.DistractorIDs...)
	a.events = append(a.events, ev)
}

// Events returns a copy of the log in append order.
func (a *Aggregator) Events() []model.OutcomeEvent {
	return append([]model.OutcomeEvent(nil), a.events...)
}

// Len returns the number of logged events.
func (a *Aggregator) Len() int {
	return len(a.events)
}

// Clear empties the log.
func (a *Aggregator) Clear() {
	a.events = nil
}

// Snapshot recomputes all statistics from the full log.
func (a *Aggregator) Snapshot() Snapshot {
	symbols := a.catalog.ListAll()
	snap := Snapshot{
		Symbols: make(map[string]SymbolStats, len(symbols)),
		Order:   make([]string, 0, len(symbols)),
	}
	for _, s := range symbols {
		snap.Symbols[s.ID] = SymbolStats{Symbol: s, Confusions: map[string]int{}}
		snap.Order = append(snap.Order, s.ID)
	}

	for _, ev := range a.events {
		snap.TotalAttempts++
		if ev.Correct {
			snap.TotalSuccesses++
		}
		st, ok := snap.Symbols[ev.TargetID]
		if !ok {
			continue
		}
		st.Attempts++
		st.History = append(st.History, Attempt{Correct: ev.Correct, SelectedID: ev.SelectedID, Timestamp: ev.Timestamp})
		if ev.Correct {
			st.Successes++
		} else {
			st.Failures++
			if ev.SelectedID != "" {
				st.Confusions[ev.SelectedID]++
			}
		}
		snap.Symbols[ev.TargetID] = st
	}

	for id, st := range snap.Symbols {
		st.Accuracy = percent(st.Successes, st.Attempts)
		snap.Symbols[id] = st
	}
	snap.GlobalAccuracy = percent(snap.TotalSuccesses, snap.TotalAttempts)
	return snap
}

// TopConfusions returns up to limit confusions for a symbol, highest count first.
// Ties follow catalog order; ids outside the catalog come last, ordered by id.
func (a *Aggregator) TopConfusions(symbolID string, limit int) []Confusion {
	return TopConfusions(a.catalog, a.Snapshot(), symbolID, limit)
}

// RecentHistory returns the last n attempts of a symbol, oldest first.
func RecentHistory(st SymbolStats, n int) []Attempt {
	if n <= 0 || len(st.History) <= n {
		return append([]Attempt(nil), st.History...)
	}
	return append([]Attempt(nil), st.History[len(st.History)-n:]...)
}

func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}
