package catalog

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/lettersound/internal/model"
)

// FileCatalog represents a TOML catalog file.
type FileCatalog struct {
	Symbols []FileSymbol `toml:"symbol"`
}

// FileSymbol maps one [[symbol]] table.
type FileSymbol struct {
	ID       string `toml:"id"`
	Glyph    string `toml:"glyph"`
	Sound    string `toml:"sound"`
	Tier     string `toml:"tier"`
	Category string `toml:"category"`
	Color    string `toml:"color"`
}

// Load reads a catalog from a TOML file. An empty path returns the built-in catalog.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to stat catalog: %w", err)
	}
	var fc FileCatalog
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	symbols := make([]model.Symbol, 0, len(fc.Symbols))
	for i, fs := range fc.Symbols {
		tier, ok := model.ParseTier(fs.Tier)
		if !ok {
			return nil, fmt.Errorf("symbol #%d (%q): tier %q: %w", i+1, fs.ID, fs.Tier, ErrInvalidTier)
		}
		glyph := fs.Glyph
		if glyph == "" {
			glyph = strings.ToUpper(fs.ID)
		}
		symbols = append(symbols, model.Symbol{
			ID:       fs.ID,
			Glyph:    glyph,
			SoundRef: fs.Sound,
			Tier:     tier,
			Category: fs.Category,
			Color:    fs.Color,
		})
	}
	return New(symbols)
}
