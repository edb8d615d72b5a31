package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// glyphWidth returns the terminal cell width of a glyph.
func glyphWidth(glyph string) int {
	return runewidth.StringWidth(glyph)
}

// padGlyph centers glyph in width cells so candidate boxes line up
// even when catalogs mix narrow and wide glyphs.
func padGlyph(glyph string, width int) string {
	w := glyphWidth(glyph)
	if w >= width {
		return glyph
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + glyph + strings.Repeat(" ", width-w-left)
}
