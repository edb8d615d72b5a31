// Package tui provides the Bubble Tea quiz interface.
package tui

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/lettersound/internal/audio"
	"github.com/verte-zerg/lettersound/internal/model"
	"github.com/verte-zerg/lettersound/internal/session"
	statsPkg "github.com/verte-zerg/lettersound/internal/stats"
)

// Feedback presentation lengths.
const (
	CelebrateDuration = 5 * time.Second
	ShakeDuration     = 600 * time.Millisecond
)

type feedback int

const (
	feedbackNone feedback = iota
	feedbackCelebrate
	feedbackShake
)

// feedbackDoneMsg ends the presentation started for answer seq.
type feedbackDoneMsg struct {
	seq int
}

// Model implements the Bubble Tea quiz UI.
type Model struct {
	engine *session.Engine
	agg    *statsPkg.Aggregator
	gate   *audio.Gate
	logger *slog.Logger

	width  int
	height int

	cursor     int
	feedback   feedback
	selectedID string
	seq        int
	err        error

	allAttempts int
	allCorrect  int
}

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	starStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F5C542"))
	emptyStarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5A5A5A"))
	cellStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5A5A5A")).
			Padding(0, 2).
			Bold(true)
	cursorCellStyle  = cellStyle.Copy().BorderForeground(lipgloss.Color("#C89A3A"))
	correctCellStyle = cellStyle.Copy().BorderForeground(lipgloss.Color("#52C41A"))
	wrongCellStyle   = cellStyle.Copy().BorderForeground(lipgloss.Color("#FF4D4F"))
	labelStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	warningStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#D4B106"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs a quiz TUI model around a started engine.
func NewModel(engine *session.Engine, agg *statsPkg.Aggregator, gate *audio.Gate, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if gate == nil {
		gate = audio.NewGate(nil, logger)
	}
	m := &Model{
		engine: engine,
		agg:    agg,
		gate:   gate,
		logger: logger,
	}
	m.loadFooterStats()
	m.refreshWeakSet()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.cueCmd()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case feedbackDoneMsg:
		return m, m.finishFeedback(msg.seq)
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return tea.Quit
	case tea.KeySpace:
		return m.cueCmd()
	case tea.KeyLeft:
		m.moveCursor(-1)
		return nil
	case tea.KeyRight, tea.KeyTab:
		m.moveCursor(1)
		return nil
	case tea.KeyEnter:
		candidates := m.engine.State().Round.Candidates
		if m.cursor < len(candidates) {
			return m.submit(candidates[m.cursor].ID)
		}
		return nil
	case tea.KeyRunes:
		if len(msg.Runes) != 1 {
			return nil
		}
		return m.handleRune(msg.Runes[0])
	default:
		return nil
	}
}

func (m *Model) handleRune(r rune) tea.Cmd {
	st := m.engine.State()
	switch {
	case r == 'q':
		return tea.Quit
	case r == 'r' && st.Phase == session.PhaseVictory:
		return m.playAgain()
	case r == 'h':
		m.moveCursor(-1)
	case r == 'l':
		m.moveCursor(1)
	case r >= '1' && r <= '9':
		idx := int(r - '1')
		if idx < len(st.Round.Candidates) {
			return m.submit(st.Round.Candidates[idx].ID)
		}
	}
	return nil
}

func (m *Model) moveCursor(delta int) {
	n := len(m.engine.State().Round.Candidates)
	if n == 0 {
		return
	}
	m.cursor = (m.cursor + delta + n) % n
}

func (m *Model) submit(id string) tea.Cmd {
	verdict := m.engine.SubmitAnswer(id)
	if verdict == session.VerdictIgnored {
		return nil
	}
	m.allAttempts++
	m.selectedID = id
	m.seq++
	seq := m.seq
	delay := ShakeDuration
	m.feedback = feedbackShake
	if verdict == session.VerdictCorrect {
		m.allCorrect++
		m.feedback = feedbackCelebrate
		delay = CelebrateDuration
	}
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return feedbackDoneMsg{seq: seq}
	})
}

func (m *Model) finishFeedback(seq int) tea.Cmd {
	if seq != m.seq || m.feedback == feedbackNone {
		return nil
	}
	m.feedback = feedbackNone
	m.selectedID = ""
	if m.engine.FinalizeVictoryIfReady() {
		return nil
	}
	m.refreshWeakSet()
	if err := m.engine.Unlock(); err != nil {
		m.err = err
		m.logger.Error("failed to advance round", "err", err)
		return nil
	}
	m.cursor = 0
	return m.cueCmd()
}

func (m *Model) playAgain() tea.Cmd {
	m.refreshWeakSet()
	if err := m.engine.Reset(); err != nil {
		m.err = err
		m.logger.Error("failed to restart", "err", err)
		return nil
	}
	m.err = nil
	m.cursor = 0
	return m.cueCmd()
}

// cueCmd plays the current target's sound off the update loop.
func (m *Model) cueCmd() tea.Cmd {
	st := m.engine.State()
	if st.Phase != session.PhaseActive {
		return nil
	}
	target := st.Round.Target
	settings := st.Settings
	gate := m.gate
	return func() tea.Msg {
		gate.Cue(context.Background(), target, settings)
		return nil
	}
}

func (m *Model) refreshWeakSet() {
	settings := m.engine.Settings()
	if !settings.FocusWeak || m.agg == nil {
		return
	}
	m.engine.SetWeakSymbols(statsPkg.SelectWeakSymbols(m.agg.Snapshot(), settings.WeakTop))
}

func (m *Model) loadFooterStats() {
	if m.agg == nil {
		return
	}
	snap := m.agg.Snapshot()
	m.allAttempts = snap.TotalAttempts
	m.allCorrect = snap.TotalSuccesses
}

// View implements tea.Model.
func (m *Model) View() string {
	st := m.engine.State()
	var content string
	switch st.Phase {
	case session.PhaseVictory:
		content = m.renderVictory(st)
	case session.PhaseActive:
		content = m.renderRound(st)
	default:
		content = "Starting..."
	}
	if m.err != nil {
		content += "\n\n" + incorrectStyle.Render(m.err.Error())
	}
	if m.width == 0 || m.height == 0 {
		return content + "\n" + m.renderFooter(st)
	}
	footer := m.renderFooter(st)
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderRound(st session.State) string {
	lines := []string{
		renderStars(st.Progress, st.Settings.VictoryThreshold),
		"",
		titleStyle.Render("Which letter makes this sound?"),
		"",
		m.renderCandidates(st.Round),
	}
	switch m.feedback {
	case feedbackCelebrate:
		lines = append(lines, "", correctStyle.Render("★ Correct! ★"))
	case feedbackShake:
		lines = append(lines, "", incorrectStyle.Render("Not quite, listen again next round"))
	default:
		lines = append(lines, "", labelStyle.Render("space to hear the sound again"))
	}
	if st.Warning != nil {
		lines = append(lines, "", warningStyle.Render(fmt.Sprintf(
			"Only %d letters enabled; rounds show fewer than %d choices.",
			len(st.Round.Candidates), st.Settings.RoundSize)))
	}
	return lipgloss.JoinVertical(lipgloss.Center, lines...)
}

func (m *Model) renderCandidates(round model.Round) string {
	width := 1
	for _, c := range round.Candidates {
		width = max(width, glyphWidth(c.Glyph))
	}
	cells := make([]string, 0, len(round.Candidates))
	for i, c := range round.Candidates {
		style := cellStyle
		switch {
		case m.feedback == feedbackCelebrate && c.ID == round.Target.ID:
			style = correctCellStyle
		case m.feedback == feedbackShake && c.ID == m.selectedID:
			style = wrongCellStyle
		case m.feedback == feedbackNone && i == m.cursor:
			style = cursorCellStyle
		}
		glyph := padGlyph(c.Glyph, width)
		if c.Color != "" {
			glyph = lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render(glyph)
		}
		cell := lipgloss.JoinVertical(lipgloss.Center,
			style.Render(glyph),
			labelStyle.Render(fmt.Sprintf("%d", i+1)),
		)
		cells = append(cells, cell, " ")
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	if m.feedback == feedbackShake {
		row = lipgloss.NewStyle().MarginLeft(2).Render(row)
	}
	return row
}

func (m *Model) renderVictory(st session.State) string {
	return lipgloss.JoinVertical(lipgloss.Center,
		correctStyle.Render("You did it!"),
		"",
		renderStars(st.Progress, st.Settings.VictoryThreshold),
		"",
		labelStyle.Render("r play again · q quit"),
	)
}

func renderStars(progress, threshold int) string {
	progress = min(max(progress, 0), threshold)
	return starStyle.Render(strings.Repeat("★", progress)) +
		emptyStarStyle.Render(strings.Repeat("☆", threshold-progress))
}

func (m *Model) renderFooter(st session.State) string {
	segments := []string{fmt.Sprintf("Stars %d/%d", st.Progress, st.Settings.VictoryThreshold)}
	if m.allAttempts > 0 {
		acc := float64(m.allCorrect) / float64(m.allAttempts) * 100
		segments = append(segments, fmt.Sprintf("All-time %.0f%% of %d answers", acc, m.allAttempts))
	}
	n := len(st.Round.Candidates)
	if st.Phase == session.PhaseActive && n > 0 {
		segments = append(segments, fmt.Sprintf("1-%d pick · ←/→ enter · space replay · q quit", n))
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}
