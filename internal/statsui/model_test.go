package statsui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/lettersound/internal/catalog"
	"github.com/verte-zerg/lettersound/internal/model"
	"github.com/verte-zerg/lettersound/internal/stats"
	"github.com/verte-zerg/lettersound/internal/store"
)

func newTestStore(t *testing.T, events ...model.OutcomeEvent) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "stats.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if cerr := st.Close(); cerr != nil {
			t.Fatalf("close store: %v", cerr)
		}
	})
	if err := st.InsertOutcomes(context.Background(), events); err != nil {
		t.Fatalf("insert: %v", err)
	}
	return st
}

func event(id, target, selected string) model.OutcomeEvent {
	return model.OutcomeEvent{
		ID:            id,
		Timestamp:     time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		TargetID:      target,
		SelectedID:    selected,
		Correct:       target == selected,
		DistractorIDs: []string{"b"},
	}
}

func sized(m *Model) *Model {
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func TestOverviewShowsTotals(t *testing.T) {
	st := newTestStore(t, event("1", "p", "b"), event("2", "p", "p"))
	m := sized(NewModel(st, catalog.Default(), stats.ReportConfig{}, stats.FilterAll, ""))

	view := m.View()
	for _, want := range []string{"Overview", "Answers", "50%", "Practiced"} {
		if !strings.Contains(view, want) {
			t.Fatalf("overview missing %q:\n%s", want, view)
		}
	}
	if m.detailID != "p" {
		t.Fatalf("expected most practiced letter as default detail, got %q", m.detailID)
	}
}

func TestEmptyHistory(t *testing.T) {
	m := sized(NewModel(newTestStore(t), catalog.Default(), stats.ReportConfig{}, stats.FilterAll, ""))
	if !strings.Contains(m.View(), "No games played yet!") {
		t.Fatalf("expected empty-state message")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	if m.confirmClear {
		t.Fatalf("clear must not be offered without history")
	}
}

func TestFilterCycleUpdatesRows(t *testing.T) {
	st := newTestStore(t, event("1", "p", "p"), event("2", "b", "p"))
	m := sized(NewModel(st, catalog.Default(), stats.ReportConfig{}, stats.FilterAll, ""))
	all := len(m.rowIDs)
	if all != catalog.Default().Len() {
		t.Fatalf("expected every letter, got %d", all)
	}

	m.moveTab(1)
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})
	if m.filter != stats.FilterPlayed || len(m.rowIDs) != 2 {
		t.Fatalf("expected played filter with 2 rows, got %s/%d", m.filter, len(m.rowIDs))
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}})
	if m.filter != stats.FilterWeak || len(m.rowIDs) != 1 || m.rowIDs[0] != "b" {
		t.Fatalf("expected weak filter with b, got %v", m.rowIDs)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.activeTab != tabDetail || m.detailID != "b" {
		t.Fatalf("expected detail for b, got tab %d id %q", m.activeTab, m.detailID)
	}
	if !strings.Contains(m.View(), "Often confused with:") {
		t.Fatalf("expected confusions in detail view:\n%s", m.View())
	}
}

func TestClearRequiresConfirmation(t *testing.T) {
	st := newTestStore(t, event("1", "p", "b"))
	m := sized(NewModel(st, catalog.Default(), stats.ReportConfig{}, stats.FilterAll, ""))

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	if !m.confirmClear {
		t.Fatalf("expected confirmation prompt")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	n, err := st.CountOutcomes(context.Background())
	if err != nil || n != 1 {
		t.Fatalf("expected history kept, got %d (%v)", n, err)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	n, err = st.CountOutcomes(context.Background())
	if err != nil || n != 0 {
		t.Fatalf("expected history cleared, got %d (%v)", n, err)
	}
	if m.report.Snapshot.TotalAttempts != 0 {
		t.Fatalf("expected refreshed report")
	}
}

func TestApplyFilterValidates(t *testing.T) {
	m := NewModel(newTestStore(t), catalog.Default(), stats.ReportConfig{}, stats.FilterAll, "")
	m.filterInputs[1].SetValue("abc")
	if err := m.applyFilter(); err == nil {
		t.Fatalf("expected error for invalid last")
	}
	m.filterInputs[1].SetValue("5")
	m.filterInputs[2].SetValue("3")
	if err := m.applyFilter(); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if m.cfg.Last != 5 || m.cfg.TrendWindow != 3 {
		t.Fatalf("unexpected config %+v", m.cfg)
	}
}

func TestFitLinesPadsAndTruncates(t *testing.T) {
	out := fitLines("ab\ncd\nef", 4, 2)
	if out != "ab  \ncd  " {
		t.Fatalf("unexpected fit: %q", out)
	}
	if got := truncateLine("abcdefgh", 6); got != "abc..." {
		t.Fatalf("unexpected truncate: %q", got)
	}
}
