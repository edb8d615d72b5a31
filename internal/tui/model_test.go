package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/lettersound/internal/audio"
	"github.com/verte-zerg/lettersound/internal/catalog"
	"github.com/verte-zerg/lettersound/internal/generator"
	"github.com/verte-zerg/lettersound/internal/model"
	"github.com/verte-zerg/lettersound/internal/session"
	statsPkg "github.com/verte-zerg/lettersound/internal/stats"
)

func newTestModel(t *testing.T, threshold int) (*Model, *session.Engine, *statsPkg.Aggregator) {
	t.Helper()
	cat := catalog.Default()
	settings := model.DefaultSettings()
	settings.VictoryThreshold = threshold
	agg := statsPkg.NewAggregator(cat)
	engine, err := session.New(cat, settings,
		session.WithGenerator(generator.NewWithSeed(7)),
		session.WithRecorder(agg),
	)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if err := engine.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	return NewModel(engine, agg, audio.NewGate(audio.NopPlayer{}, nil), nil), engine, agg
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func targetIndex(t *testing.T, e *session.Engine) int {
	t.Helper()
	st := e.State()
	for i, c := range st.Round.Candidates {
		if c.ID == st.Round.Target.ID {
			return i
		}
	}
	t.Fatalf("target %q not among candidates", st.Round.Target.ID)
	return -1
}

func TestCorrectAnswerCelebratesThenAdvances(t *testing.T) {
	m, e, agg := newTestModel(t, 5)
	idx := targetIndex(t, e)

	_, cmd := m.Update(runeKey(rune('1' + idx)))
	if cmd == nil {
		t.Fatalf("expected a feedback tick")
	}
	if !e.State().Locked() || m.feedback != feedbackCelebrate {
		t.Fatalf("expected locked round with celebration")
	}
	if _, cmd := m.Update(runeKey('1')); cmd != nil {
		t.Fatalf("expected locked submission to be ignored")
	}
	if agg.Len() != 1 {
		t.Fatalf("expected 1 logged outcome, got %d", agg.Len())
	}

	m.Update(feedbackDoneMsg{seq: m.seq})
	st := e.State()
	if st.Locked() {
		t.Fatalf("expected round to unlock after celebration")
	}
	if st.Progress != 1 {
		t.Fatalf("expected progress 1, got %d", st.Progress)
	}
	if m.feedback != feedbackNone {
		t.Fatalf("expected feedback cleared")
	}
}

func TestWrongAnswerShakesAndIgnoresStaleTicks(t *testing.T) {
	m, e, _ := newTestModel(t, 5)
	wrong := (targetIndex(t, e) + 1) % len(e.State().Round.Candidates)

	m.Update(runeKey(rune('1' + wrong)))
	if m.feedback != feedbackShake {
		t.Fatalf("expected shake feedback")
	}
	if e.State().Progress != 0 {
		t.Fatalf("expected progress to stay at 0")
	}

	m.Update(feedbackDoneMsg{seq: m.seq - 1})
	if !e.State().Locked() {
		t.Fatalf("stale tick must not unlock the round")
	}
	m.Update(feedbackDoneMsg{seq: m.seq})
	if e.State().Locked() {
		t.Fatalf("expected round to unlock after shake")
	}
}

func TestVictoryAndPlayAgain(t *testing.T) {
	m, e, _ := newTestModel(t, 1)
	m.Update(runeKey(rune('1' + targetIndex(t, e))))
	m.Update(feedbackDoneMsg{seq: m.seq})

	if e.State().Phase != session.PhaseVictory {
		t.Fatalf("expected victory, got %s", e.State().Phase)
	}
	if !strings.Contains(m.View(), "You did it!") {
		t.Fatalf("expected victory screen: %s", m.View())
	}

	_, cmd := m.Update(runeKey('r'))
	if cmd == nil {
		t.Fatalf("expected a cue for the new round")
	}
	st := e.State()
	if st.Phase != session.PhaseActive || st.Progress != 0 {
		t.Fatalf("expected fresh active session, got %s progress %d", st.Phase, st.Progress)
	}
}

func TestEnterSubmitsCursorCandidate(t *testing.T) {
	m, e, agg := newTestModel(t, 5)
	candidates := e.State().Round.Candidates

	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	events := agg.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 outcome, got %d", len(events))
	}
	if events[0].SelectedID != candidates[1].ID {
		t.Fatalf("expected %q selected, got %q", candidates[1].ID, events[0].SelectedID)
	}
}

func TestRenderFooterFormats(t *testing.T) {
	m, e, _ := newTestModel(t, 5)
	m.allAttempts = 4
	m.allCorrect = 3

	out := m.renderFooter(e.State())
	if !containsAll(out, []string{"Stars 0/5", "All-time 75% of 4 answers", "1-3 pick"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestRenderStars(t *testing.T) {
	out := renderStars(2, 5)
	if strings.Count(out, "★") != 2 || strings.Count(out, "☆") != 3 {
		t.Fatalf("unexpected stars: %s", out)
	}
	if strings.Count(renderStars(9, 3), "★") != 3 {
		t.Fatalf("expected stars to clamp at threshold")
	}
}

func TestPadGlyph(t *testing.T) {
	if got := padGlyph("A", 3); got != " A " {
		t.Fatalf("unexpected padding %q", got)
	}
	if glyphWidth("あ") != 2 {
		t.Fatalf("expected wide glyph width 2")
	}
	if got := padGlyph("あ", 3); got != "あ " {
		t.Fatalf("unexpected wide padding %q", got)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
