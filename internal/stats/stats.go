// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/lettersound/internal/model"
)

const sparkChars = " .:-=+*#%@"

// RecentHistoryLen is how many attempts a detail view shows.
const RecentHistoryLen = 20

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// AccuracyTrend returns the rolling accuracy (0-100) after each logged answer.
func AccuracyTrend(events []model.OutcomeEvent, window int) []float64 {
	values := make([]float64, len(events))
	for i, ev := range events {
		if ev.Correct {
			values[i] = 100
		}
	}
	return MovingAverage(values, window)
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// HistoryStrip renders attempts as a row of marks, oldest first.
func HistoryStrip(attempts []Attempt) string {
	var b strings.Builder
	for _, a := range attempts {
		if a.Correct {
			b.WriteString("✓")
		} else {
			b.WriteString("✗")
		}
	}
	return b.String()
}

// Tail returns at most the last n values.
func Tail(values []float64, n int) []float64 {
	if n <= 0 || len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}

// RenderSummary prints the global totals and the accuracy trend.
func RenderSummary(w io.Writer, snap Snapshot, trend []float64) error {
	if !snap.HasData() {
		if _, err := fmt.Fprintln(w, "No games played yet!"); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w, "Play some rounds to see your progress here.")
		return err
	}
	played := len(FilterSymbols(snap, FilterPlayed))
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Attempts: %d\n", snap.TotalAttempts); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Accuracy: %d%%\n", snap.GlobalAccuracy); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Letters practiced: %d/%d\n", played, len(snap.Order)); err != nil {
		return err
	}
	if len(trend) > 1 {
		if _, err := fmt.Fprintf(w, "Trend: [%s]\n", Sparkline(trend)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderSymbolTable prints per-symbol aggregates for the symbols passing f.
func RenderSymbolTable(w io.Writer, snap Snapshot, f Filter) error {
	rows := FilterSymbols(snap, f)
	if _, err := fmt.Fprintf(w, "Per-Letter (%s)\n", f.Label()); err != nil {
		return err
	}
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No letters match this filter.")
		return err
	}

	tableRows := make([][]string, 0, len(rows))
	for _, st := range rows {
		tableRows = append(tableRows, letterRow(st))
	}
	lines := layoutColumns(letterTableColumns, tableRows)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderSymbolDetail prints one symbol's performance, recent history and top confusions.
func RenderSymbolDetail(w io.Writer, snap Snapshot, confusions []Confusion, id string) error {
	st, ok := snap.Symbol(id)
	if !ok {
		return fmt.Errorf("unknown letter %q", id)
	}
	if _, err := fmt.Fprintf(w, "Letter %s Performance\n", st.Symbol.Glyph); err != nil {
		return err
	}
	if st.Attempts == 0 {
		_, err := fmt.Fprintln(w, "Not practiced yet.")
		return err
	}
	if _, err := fmt.Fprintf(w, "Attempts: %d  Success: %d  Accuracy: %d%%\n", st.Attempts, st.Successes, st.Accuracy); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Recent: %s\n", HistoryStrip(RecentHistory(st, RecentHistoryLen))); err != nil {
		return err
	}
	if st.Failures == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Often confused with:"); err != nil {
		return err
	}
	for _, c := range confusions {
		label := c.SymbolID
		if other, ok := snap.Symbol(c.SymbolID); ok {
			label = other.Symbol.Glyph
		}
		if _, err := fmt.Fprintf(w, "  %s  %d times (%d%%)\n", label, c.Count, c.PercentOfFailures); err != nil {
			return err
		}
	}
	return nil
}
