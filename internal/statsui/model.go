// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/lettersound/internal/catalog"
	"github.com/verte-zerg/lettersound/internal/stats"
	"github.com/verte-zerg/lettersound/internal/store"
)

const (
	tabOverview = iota
	tabLetters
	tabDetail
)

const (
	recentStripLen = 10
	topConfusions  = 3
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	modalStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)

	bandStyles = map[stats.Band]lipgloss.Style{
		stats.BandUntried: lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")),
		stats.BandPoor:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")),
		stats.BandFair:    lipgloss.NewStyle().Foreground(lipgloss.Color("#D4B106")),
		stats.BandGood:    lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")),
	}
)

// Model implements the Bubble Tea stats UI.
type Model struct {
	store   *store.Store
	catalog *catalog.Catalog
	cfg     stats.ReportConfig

	report stats.Report
	errMsg string

	tabs        []string
	activeTab   int
	viewports   []viewport.Model
	letterTable table.Model
	rowIDs      []string
	layout      tableLayout

	width  int
	height int

	filter   stats.Filter
	detailID string

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string

	confirmClear bool
}

type tableLayout struct {
	width    int
	height   int
	rowCount int
}

// NewModel constructs a stats UI model.
func NewModel(st *store.Store, cat *catalog.Catalog, cfg stats.ReportConfig, filter stats.Filter, detailID string) *Model {
	if filter == "" {
		filter = stats.FilterAll
	}
	m := &Model{
		store:    st,
		catalog:  cat,
		cfg:      cfg,
		tabs:     []string{"Overview", "Letters", "Detail"},
		filter:   filter,
		detailID: detailID,
	}
	if detailID != "" {
		m.activeTab = tabDetail
	}
	m.initInputs()
	m.letterTable = buildLetterTable(nil, 0, 1)
	m.initViewports()
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.confirmClear {
			return m.updateConfirm(msg)
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		if m.activeTab == tabLetters {
			m.letterTable.Focus()
		} else {
			m.letterTable.Blur()
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "f":
			m.cycleFilter()
			return m, nil
		case "/":
			return m.startFilter()
		case "c":
			if m.report.Snapshot.HasData() {
				m.confirmClear = true
			}
			return m, nil
		case "enter":
			if m.activeTab == tabLetters {
				m.openSelectedDetail()
			}
			return m, nil
		case "g", "home":
			if m.activeTab == tabLetters {
				m.letterTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabLetters {
				m.letterTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabLetters {
				var cmd tea.Cmd
				m.letterTable, cmd = m.letterTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.confirmClear {
		return fitLines(m.renderConfirm(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Since (YYYY-MM-DD): "),
		newFilterInput("Last: "),
		newFilterInput("Trend window: "),
	}
	m.setInputsFromConfig()
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromConfig() {
	if m.cfg.Since != nil {
		m.filterInputs[0].SetValue(m.cfg.Since.Format("2006-01-02"))
	} else {
		m.filterInputs[0].SetValue("")
	}
	if m.cfg.Last > 0 {
		m.filterInputs[1].SetValue(strconv.Itoa(m.cfg.Last))
	} else {
		m.filterInputs[1].SetValue("")
	}
	m.filterInputs[2].SetValue(strconv.Itoa(m.trendWindow()))
}

func (m *Model) trendWindow() int {
	if m.cfg.TrendWindow > 0 {
		return m.cfg.TrendWindow
	}
	return stats.DefaultTrendWindow
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(1, lipgloss.Height(activeNavStyle.Render("X")))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.setTableSize(m.width, vpHeight)
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = max(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabLetters {
		m.letterTable.Focus()
	} else {
		m.letterTable.Blur()
	}
}

func (m *Model) cycleFilter() {
	idx := 0
	for i, f := range stats.Filters {
		if f == m.filter {
			idx = i
			break
		}
	}
	m.filter = stats.Filters[(idx+1)%len(stats.Filters)]
	m.applyLetterTable(true)
}

func (m *Model) openSelectedDetail() {
	row := m.letterTable.Cursor()
	if row < 0 || row >= len(m.rowIDs) {
		return
	}
	m.detailID = m.rowIDs[row]
	m.activeTab = tabDetail
	m.letterTable.Blur()
	m.renderTabContents()
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	filters := padLines(m.renderFilterSummary(), m.width)
	return tabs + "\n" + filters
}

func (m *Model) renderFilterSummary() string {
	since := "any"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format("2006-01-02")
	}
	last := "all"
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	summary := fmt.Sprintf("Settings: since=%s  last=%s  window=%d  letters=%s", since, last, m.trendWindow(), m.filter.Label())
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderHelp() string {
	help := "Nav: left/right  Scroll: up/down  Settings: /  Clear: c  Quit: q"
	if m.activeTab == tabLetters {
		help = "Nav: left/right  Scroll: up/down  Details: enter  Filter: f  Settings: /  Clear: c  Quit: q"
	}
	return headerStyle.Render(help)
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Settings (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderConfirm() string {
	body := fmt.Sprintf("Clear all %d logged answers?\nThis cannot be undone.\n\ny: clear  n/esc: keep", m.report.Snapshot.TotalAttempts)
	box := modalStyle.Width(modalWidth(m.width)).Render(body)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	if m.activeTab == tabLetters {
		if len(m.rowIDs) == 0 {
			return fitLines("No letters match this filter.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.letterTable.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) refreshReport() {
	report, err := stats.BuildReport(context.Background(), m.store, m.catalog, m.cfg)
	if err != nil {
		m.errMsg = err.Error()
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	m.errMsg = ""
	m.report = report
	if m.detailID == "" {
		if top := stats.MostPracticed(report.Snapshot, 1); len(top) > 0 {
			m.detailID = top[0]
		}
	}
	m.applyLetterTable(true)
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	if m.errMsg != "" {
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load stats.")
		}
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report, width))
	m.viewports[tabDetail].SetContent(renderDetail(m.report, m.detailID))
}

func renderOverview(report stats.Report, width int) string {
	snap := report.Snapshot
	if !snap.HasData() {
		return "No games played yet!\nPlay some rounds to see your progress here."
	}
	cards := []string{
		metricCard("Answers", fmt.Sprintf("%d", snap.TotalAttempts)),
		metricCard("Accuracy", fmt.Sprintf("%d%%", snap.GlobalAccuracy)),
		metricCard("Practiced", fmt.Sprintf("%d/%d", len(stats.FilterSymbols(snap, stats.FilterPlayed)), len(snap.Order))),
		metricCard("Mastered", fmt.Sprintf("%d", len(stats.FilterSymbols(snap, stats.FilterStrong)))),
		metricCard("Needs practice", fmt.Sprintf("%d", len(stats.FilterSymbols(snap, stats.FilterWeak)))),
	}
	var summary string
	if width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
		row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
		summary = lipgloss.JoinVertical(lipgloss.Left, row1, row2)
	}
	lines := []string{summary, ""}
	if len(report.Trend) > 1 {
		trend := stats.Tail(report.Trend, max(1, width-10))
		lines = append(lines, headerStyle.Render("Accuracy trend"), "["+stats.Sparkline(trend)+"]", "")
	}
	if top := stats.MostPracticed(snap, 5); len(top) > 0 {
		glyphs := make([]string, 0, len(top))
		for _, id := range top {
			glyphs = append(glyphs, snap.Symbols[id].Symbol.Glyph)
		}
		lines = append(lines, fmt.Sprintf("Most practiced: %s", strings.Join(glyphs, " ")))
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

func renderDetail(report stats.Report, id string) string {
	if id == "" {
		return "No letter selected. Pick one on the Letters tab."
	}
	confusions := report.Aggregator.TopConfusions(id, topConfusions)
	var buf bytes.Buffer
	if err := stats.RenderSymbolDetail(&buf, report.Snapshot, confusions, id); err != nil {
		return fmt.Sprintf("Failed to render letter: %v", err)
	}
	st, _ := report.Snapshot.Symbol(id)
	band := bandStyles[stats.BandFor(st)].Render("●")
	return band + " " + strings.TrimRight(buf.String(), "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func letterColumns() []table.Column {
	return []table.Column{
		{Title: "Letter", Width: 6},
		{Title: "Tier", Width: 6},
		{Title: "Accuracy", Width: 9},
		{Title: "Attempts", Width: 8},
		{Title: "Correct", Width: 7},
		{Title: "Wrong", Width: 6},
		{Title: "Recent", Width: recentStripLen + 1},
	}
}

func buildLetterRows(list []stats.SymbolStats) ([]table.Row, []string) {
	rows := make([]table.Row, 0, len(list))
	ids := make([]string, 0, len(list))
	for _, st := range list {
		acc := "-"
		if st.Attempts > 0 {
			acc = fmt.Sprintf("%d%%", st.Accuracy)
		}
		rows = append(rows, table.Row{
			st.Symbol.Glyph,
			st.Symbol.Tier.String(),
			acc,
			fmt.Sprintf("%d", st.Attempts),
			fmt.Sprintf("%d", st.Successes),
			fmt.Sprintf("%d", st.Failures),
			stats.HistoryStrip(stats.RecentHistory(st, recentStripLen)),
		})
		ids = append(ids, st.Symbol.ID)
	}
	return rows, ids
}

func buildLetterTable(rows []table.Row, width, height int) table.Model {
	t := table.New(
		table.WithColumns(letterColumns()),
		table.WithRows(rows),
		table.WithHeight(max(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(letterTableStyles())
	return t
}

func (m *Model) applyLetterTable(force bool) {
	rows, ids := buildLetterRows(stats.FilterSymbols(m.report.Snapshot, m.filter))
	if !force && m.layout.rowCount == len(rows) {
		return
	}
	m.rowIDs = ids
	m.letterTable.SetRows(rows)
	if len(rows) > 0 {
		m.letterTable.SetCursor(0)
	}
	m.layout.rowCount = len(rows)
}

func (m *Model) setTableSize(width, height int) {
	viewportHeight := max(1, height-1)
	if m.layout.width == width && m.layout.height == viewportHeight {
		return
	}
	m.layout.width = width
	m.layout.height = viewportHeight
	m.letterTable.SetWidth(width)
	m.letterTable.SetHeight(viewportHeight)
	if diff := height - lipgloss.Height(m.letterTable.View()); diff != 0 {
		m.letterTable.SetHeight(max(1, viewportHeight+diff))
	}
}

func letterTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromConfig()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case "tab", "down":
		return m, m.setFilterIndex((m.filterIndex + 1) % len(m.filterInputs))
	case "shift+tab", "up":
		return m, m.setFilterIndex((m.filterIndex - 1 + len(m.filterInputs)) % len(m.filterInputs))
	case "enter":
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.filterError = ""
		m.refreshReport()
		m.updateLayout()
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	m.filterIndex = idx
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == idx {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyFilter() error {
	sinceRaw := strings.TrimSpace(m.filterInputs[0].Value())
	lastRaw := strings.TrimSpace(m.filterInputs[1].Value())
	windowRaw := strings.TrimSpace(m.filterInputs[2].Value())

	var since *time.Time
	if sinceRaw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", sinceRaw, time.Local)
		if err != nil {
			return fmt.Errorf("invalid since date: %w", err)
		}
		since = &parsed
	}
	last := 0
	if lastRaw != "" {
		n, err := strconv.Atoi(lastRaw)
		if err != nil || n < 0 {
			return fmt.Errorf("last must be a non-negative integer")
		}
		last = n
	}
	window := stats.DefaultTrendWindow
	if windowRaw != "" {
		n, err := strconv.Atoi(windowRaw)
		if err != nil || n < 1 {
			return fmt.Errorf("trend window must be a positive integer")
		}
		window = n
	}
	m.cfg = stats.ReportConfig{Since: since, Last: last, TrendWindow: window}
	return nil
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.confirmClear = false
		if err := m.store.ClearOutcomes(context.Background()); err != nil {
			m.errMsg = fmt.Sprintf("failed to clear history: %v", err)
			return m, nil
		}
		m.detailID = ""
		m.refreshReport()
		return m, tea.ClearScreen
	case "n", "N", "esc", "q":
		m.confirmClear = false
		return m, tea.ClearScreen
	}
	return m, nil
}

func modalWidth(width int) int {
	return min(max(20, width-4), 60)
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
