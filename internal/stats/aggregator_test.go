package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/lettersound/internal/catalog"
	"github.com/verte-zerg/lettersound/internal/model"
)

func abcdCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New([]model.Symbol{
		{ID: "a", Glyph: "A", Tier: model.TierEasy},
		{ID: "b", Glyph: "B", Tier: model.TierEasy},
		{ID: "c", Glyph: "C", Tier: model.TierEasy},
		{ID: "d", Glyph: "D", Tier: model.TierEasy},
	})
	require.NoError(t, err)
	return c
}

func outcome(target, selected string) model.OutcomeEvent {
	return model.OutcomeEvent{
		ID:         target + "->" + selected,
		Timestamp:  time.Unix(0, 0),
		TargetID:   target,
		SelectedID: selected,
		Correct:    target == selected,
	}
}

func TestSnapshot_SingleConfusion(t *testing.T) {
	agg := NewAggregator(abcdCatalog(t), outcome("a", "b"), outcome("a", "a"))

	snap := agg.Snapshot()
	a, ok := snap.Symbol("a")
	require.True(t, ok)
	assert.Equal(t, 2, a.Attempts)
	assert.Equal(t, 1, a.Successes)
	assert.Equal(t, 1, a.Failures)
	assert.Equal(t, 50, a.Accuracy)
	assert.Equal(t, map[string]int{"b": 1}, a.Confusions)

	assert.Equal(t, []Confusion{{SymbolID: "b", Count: 1, PercentOfFailures: 100}}, agg.TopConfusions("a", 3))
	assert.Equal(t, 2, snap.TotalAttempts)
	assert.Equal(t, 50, snap.GlobalAccuracy)
}

func TestSnapshot_IsPure(t *testing.T) {
	agg := NewAggregator(abcdCatalog(t), outcome("a", "b"), outcome("c", "c"), outcome("a", "d"))
	first := agg.Snapshot()
	second := agg.Snapshot()
	assert.Equal(t, first, second)
	assert.Equal(t, 3, agg.Len())
}

func TestSnapshot_UnknownSymbolsKeptButUnmatched(t *testing.T) {
	agg := NewAggregator(abcdCatalog(t), outcome("zz", "a"), outcome("a", "a"))
	snap := agg.Snapshot()

	_, ok := snap.Symbol("zz")
	assert.False(t, ok)
	assert.Equal(t, 2, snap.TotalAttempts)
	assert.Equal(t, 1, snap.Symbols["a"].Attempts)
	assert.Equal(t, 0, snap.Symbols["b"].Attempts)
	assert.Equal(t, []string{"a", "b", "c", "d"}, snap.Order)
	assert.Len(t, agg.Events(), 2)
}

func TestSnapshot_ZeroAttemptsAccuracy(t *testing.T) {
	snap := NewAggregator(abcdCatalog(t)).Snapshot()
	assert.False(t, snap.HasData())
	assert.Equal(t, 0, snap.GlobalAccuracy)
	for _, st := range snap.List() {
		assert.Equal(t, 0, st.Accuracy)
	}
}

func TestClear(t *testing.T) {
	agg := NewAggregator(abcdCatalog(t), outcome("a", "b"), outcome("b", "b"))
	agg.Clear()
	snap := agg.Snapshot()
	assert.Equal(t, 0, snap.TotalAttempts)
	for _, st := range snap.List() {
		assert.Equal(t, 0, st.Attempts)
	}
	assert.Empty(t, agg.TopConfusions("a", 3))
}

func TestTopConfusions_OrderAndTies(t *testing.T) {
	agg := NewAggregator(abcdCatalog(t),
		outcome("a", "d"),
		outcome("a", "c"),
		outcome("a", "zz"),
		outcome("a", "b"),
		outcome("a", "b"),
		outcome("a", "a"),
	)

	got := agg.TopConfusions("a", 3)
	require.Len(t, got, 3)
	assert.Equal(t, Confusion{SymbolID: "b", Count: 2, PercentOfFailures: 40}, got[0])
	assert.Equal(t, "c", got[1].SymbolID, "ties follow catalog order")
	assert.Equal(t, "d", got[2].SymbolID)
	assert.Equal(t, 20, got[1].PercentOfFailures)

	all := agg.TopConfusions("a", 10)
	require.Len(t, all, 4)
	assert.Equal(t, "zz", all[3].SymbolID, "unknown ids rank after catalog ids")

	assert.Nil(t, agg.TopConfusions("a", 0))
	assert.Nil(t, agg.TopConfusions("missing", 3))
}

func TestRecordOutcomeCopiesDistractors(t *testing.T) {
	agg := NewAggregator(abcdCatalog(t))
	ev := outcome("a", "b")
	ev.DistractorIDs = []string{"b", "c"}
	agg.RecordOutcome(ev)
	ev.DistractorIDs[0] = "mutated"
	assert.Equal(t, []string{"b", "c"}, agg.Events()[0].DistractorIDs)
}

func TestFiltersAndBands(t *testing.T) {
	events := []model.OutcomeEvent{
		outcome("a", "a"), outcome("a", "a"), outcome("a", "a"), outcome("a", "a"), outcome("a", "b"),
		outcome("b", "a"), outcome("b", "b"),
		outcome("c", "a"), outcome("c", "a"), outcome("c", "c"),
	}
	snap := NewAggregator(abcdCatalog(t), events...).Snapshot()

	ids := func(list []SymbolStats) []string {
		var out []string
		for _, st := range list {
			out = append(out, st.Symbol.ID)
		}
		return out
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(FilterSymbols(snap, FilterAll)))
	assert.Equal(t, []string{"a", "b", "c"}, ids(FilterSymbols(snap, FilterPlayed)))
	assert.Equal(t, []string{"b", "c"}, ids(FilterSymbols(snap, FilterWeak)))
	assert.Equal(t, []string{"a"}, ids(FilterSymbols(snap, FilterStrong)))

	assert.Equal(t, BandGood, BandFor(snap.Symbols["a"]))
	assert.Equal(t, BandFair, BandFor(snap.Symbols["b"]))
	assert.Equal(t, BandPoor, BandFor(snap.Symbols["c"]))
	assert.Equal(t, BandUntried, BandFor(snap.Symbols["d"]))

	weak := SelectWeakSymbols(snap, 1)
	assert.Equal(t, map[string]struct{}{"c": {}}, weak)
	assert.Len(t, SelectWeakSymbols(snap, 0), 2, "strong symbols are never weak")

	assert.Equal(t, []string{"a", "c"}, MostPracticed(snap, 2))
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("Weak")
	require.NoError(t, err)
	assert.Equal(t, FilterWeak, f)
	f, err = ParseFilter("")
	require.NoError(t, err)
	assert.Equal(t, FilterAll, f)
	_, err = ParseFilter("best")
	require.Error(t, err)
}

func TestRecentHistory(t *testing.T) {
	st := SymbolStats{History: []Attempt{{Correct: true}, {Correct: false}, {Correct: true}}}
	assert.Len(t, RecentHistory(st, 2), 2)
	assert.False(t, RecentHistory(st, 2)[0].Correct)
	assert.Equal(t, "✓✗✓", HistoryStrip(RecentHistory(st, 20)))
}

func TestAccuracyTrend(t *testing.T) {
	trend := AccuracyTrend([]model.OutcomeEvent{outcome("a", "a"), outcome("a", "b"), outcome("a", "a")}, 2)
	assert.Equal(t, []float64{100, 50, 50}, trend)
	assert.Equal(t, 3, len(Sparkline(trend)))
}

func TestRenderOutputs(t *testing.T) {
	cat := abcdCatalog(t)
	agg := NewAggregator(cat, outcome("a", "b"), outcome("a", "a"))
	snap := agg.Snapshot()

	var buf bytes.Buffer
	require.NoError(t, RenderSummary(&buf, snap, AccuracyTrend(agg.Events(), 2)))
	assert.Contains(t, buf.String(), "Attempts: 2")
	assert.Contains(t, buf.String(), "Accuracy: 50%")

	buf.Reset()
	require.NoError(t, RenderSymbolTable(&buf, snap, FilterPlayed))
	out := buf.String()
	assert.Contains(t, out, "Per-Letter (Played Only)")
	assert.Equal(t, 3, len(strings.Split(strings.TrimSpace(out), "\n")), "title, header, one row")

	buf.Reset()
	require.NoError(t, RenderSymbolDetail(&buf, snap, agg.TopConfusions("a", 3), "a"))
	assert.Contains(t, buf.String(), "B  1 times (100%)")

	buf.Reset()
	require.NoError(t, RenderSummary(&buf, NewAggregator(cat).Snapshot(), nil))
	assert.Contains(t, buf.String(), "No games played yet!")
}
