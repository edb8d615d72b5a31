package stats

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// column describes one column of a plain-text letter table.
type column struct {
	title   string
	numeric bool
}

var letterTableColumns = []column{
	{title: "Letter"},
	{title: "Tier"},
	{title: "Accuracy", numeric: true},
	{title: "Attempts", numeric: true},
	{title: "Correct", numeric: true},
	{title: "Wrong", numeric: true},
}

// letterRow renders one SymbolStats as cells matching letterTableColumns.
func letterRow(st SymbolStats) []string {
	acc := "-"
	if st.Attempts > 0 {
		acc = fmt.Sprintf("%d%%", st.Accuracy)
	}
	return []string{
		st.Symbol.Glyph,
		st.Symbol.Tier.String(),
		acc,
		fmt.Sprint(st.Attempts),
		fmt.Sprint(st.Successes),
		fmt.Sprint(st.Failures),
	}
}

// layoutColumns aligns cells by terminal width. Numeric columns are right-aligned,
// and glyphs that take two cells keep the grid straight. Missing cells render blank.
func layoutColumns(cols []column, rows [][]string) []string {
	if len(cols) == 0 {
		return nil
	}
	widths := make([]int, len(cols))
	for i, c := range cols {
		widths[i] = runewidth.StringWidth(c.title)
	}
	for _, row := range rows {
		for i := range cols {
			if i < len(row) {
				widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
			}
		}
	}

	titles := make([]string, len(cols))
	for i, c := range cols {
		titles[i] = c.title
	}
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, joinCells(cols, widths, titles))
	for _, row := range rows {
		lines = append(lines, joinCells(cols, widths, row))
	}
	return lines
}

func joinCells(cols []column, widths []int, row []string) string {
	cells := make([]string, len(cols))
	for i, c := range cols {
		var cell string
		if i < len(row) {
			cell = row[i]
		}
		if c.numeric {
			cells[i] = runewidth.FillLeft(cell, widths[i])
		} else {
			cells[i] = runewidth.FillRight(cell, widths[i])
		}
	}
	return strings.Join(cells, " ")
}
