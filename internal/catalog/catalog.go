// Package catalog provides the registry of practice symbols.
package catalog

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/verte-zerg/lettersound/internal/model"
)

// ErrInvalidTier is returned when a query names a tier that is not defined.
var ErrInvalidTier = errors.New("invalid tier")

// Catalog is an ordered, read-only set of symbols.
type Catalog struct {
	symbols []model.Symbol
	index   map[string]int
}

// New builds a catalog from symbols in the given order. Ids must be unique.
func New(symbols []model.Symbol) (*Catalog, error) {
	c := &Catalog{
		symbols: make([]model.Symbol, 0, len(symbols)),
		index:   make(map[string]int, len(symbols)),
	}
	for _, s := range symbols {
		if s.ID == "" {
			return nil, fmt.Errorf("symbol %q has an empty id", s.Glyph)
		}
		if _, dup := c.index[s.ID]; dup {
			return nil, fmt.Errorf("duplicate symbol id %q", s.ID)
		}
		if !s.Tier.Valid() {
			return nil, fmt.Errorf("symbol %q: %w", s.ID, ErrInvalidTier)
		}
		c.index[s.ID] = len(c.symbols)
		c.symbols = append(c.symbols, s)
	}
	if len(c.symbols) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}
	return c, nil
}

// Default returns the built-in letter catalog.
func Default() *Catalog {
	c, err := New(builtinLetters)
	if err != nil {
		panic(err)
	}
	return c
}

// ListAll returns every symbol in catalog order.
func (c *Catalog) ListAll() []model.Symbol {
	return append([]model.Symbol(nil), c.symbols...)
}

// Len returns the number of symbols.
func (c *Catalog) Len() int {
	return len(c.symbols)
}

// Lookup returns the symbol with the given id.
func (c *Catalog) Lookup(id string) (model.Symbol, bool) {
	i, ok := c.index[id]
	if !ok {
		return model.Symbol{}, false
	}
	return c.symbols[i], true
}

// Position returns the catalog index of id, or -1 when the id is unknown.
func (c *Catalog) Position(id string) int {
	i, ok := c.index[id]
	if !ok {
		return -1
	}
	return i
}

// ListByTier returns symbols with tier <= maxTier, preserving catalog order.
func (c *Catalog) ListByTier(maxTier model.Tier) ([]model.Symbol, error) {
	if !maxTier.Valid() {
		return nil, fmt.Errorf("tier %d: %w", int(maxTier), ErrInvalidTier)
	}
	out := make([]model.Symbol, 0, len(c.symbols))
	for _, s := range c.symbols {
		if s.Tier <= maxTier {
			out = append(out, s)
		}
	}
	return out, nil
}

// EffectivePool resolves the settings' difficulty and enabled ids against the catalog.
// Unknown ids are dropped. A zero difficulty means no tier cap.
func (c *Catalog) EffectivePool(settings model.Settings) []model.Symbol {
	maxTier := settings.Difficulty
	if maxTier == 0 {
		maxTier = model.TierHard
	}
	var enabled map[string]struct{}
	if !settings.AllSymbolsEnabled() {
		enabled = make(map[string]struct{}, len(settings.EnabledSymbolIDs))
		for _, id := range settings.EnabledSymbolIDs {
			enabled[id] = struct{}{}
		}
	}
	out := make([]model.Symbol, 0, len(c.symbols))
	for _, s := range c.symbols {
		if s.Tier > maxTier {
			continue
		}
		if enabled != nil {
			if _, ok := enabled[s.ID]; !ok {
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

// ChooseRoundCandidates returns min(roundSize, len(pool)) candidates containing target
// exactly once, with the remaining slots drawn without replacement from pool minus target.
// The result is shuffled so the target may land in any slot. The second result is false
// when the pool could not fill roundSize slots.
func ChooseRoundCandidates(rnd *rand.Rand, target model.Symbol, pool []model.Symbol, roundSize int) ([]model.Symbol, bool) {
	others := make([]model.Symbol, 0, len(pool))
	seen := map[string]struct{}{target.ID: {}}
	for _, s := range pool {
		if _, dup := seen[s.ID]; dup {
			continue
		}
		seen[s.ID] = struct{}{}
		others = append(others, s)
	}

	want := roundSize
	if want < 1 {
		want = 1
	}
	full := len(others)+1 >= want
	if !full {
		want = len(others) + 1
	}

	choices := make([]model.Symbol, 0, want)
	choices = append(choices, target)
	for len(choices) < want {
		i := rnd.Intn(len(others))
		choices = append(choices, others[i])
		others[i] = others[len(others)-1]
		others = others[:len(others)-1]
	}
	rnd.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})
	return choices, full
}
