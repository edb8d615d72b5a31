package session

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/lettersound/internal/model"
)

// SettingsUpdate is a partial settings change. Nil fields are left untouched.
type SettingsUpdate struct {
	RoundSize        *int
	VictoryThreshold *int
	Difficulty       *model.Tier
	// EnabledSymbolIDs replaces the enabled set. Set AllSymbols to restore the "all" sentinel.
	EnabledSymbolIDs *[]string
	AllSymbols       bool
	AudioEnabled     *bool
	Volume           *float64
	FocusWeak        *bool
	WeakTop          *int
	WeakFactor       *float64
}

// RejectedField names a field that UpdateSettings refused.
type RejectedField struct {
	Field  string
	Reason string
}

// RejectionError lists every refused field of an update.
type RejectionError struct {
	Fields []RejectedField
}

func (e *RejectionError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Reason
	}
	return fmt.Sprintf("%s: %s", ErrConfigurationRejected, strings.Join(parts, ", "))
}

// Unwrap lets errors.Is match ErrConfigurationRejected.
func (e *RejectionError) Unwrap() error {
	return ErrConfigurationRejected
}

// Rejected reports whether the named field was refused.
func (e *RejectionError) Rejected(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// UpdateSettings merges the update into the settings. Each field is validated on its
// own: a refused field keeps its prior value while the remaining fields still apply.
// The returned error is a *RejectionError when any field was refused.
// Round size and symbol changes take effect from the next round.
func (e *Engine) UpdateSettings(u SettingsUpdate) (model.Settings, error) {
	next := e.settings.Clone()
	var rejected []RejectedField
	reject := func(field, reason string) {
		rejected = append(rejected, RejectedField{Field: field, Reason: reason})
	}

	if u.VictoryThreshold != nil {
		if *u.VictoryThreshold < 1 {
			reject("victory-threshold", "must be >= 1")
		} else {
			next.VictoryThreshold = *u.VictoryThreshold
		}
	}
	if u.AudioEnabled != nil {
		next.AudioEnabled = *u.AudioEnabled
	}
	if u.Volume != nil {
		if *u.Volume < 0 || *u.Volume > 1 {
			reject("volume", "must be between 0 and 1")
		} else {
			next.Volume = *u.Volume
		}
	}
	if u.FocusWeak != nil {
		next.FocusWeak = *u.FocusWeak
	}
	if u.WeakTop != nil {
		if *u.WeakTop < 0 {
			reject("weak-top", "must be >= 0")
		} else {
			next.WeakTop = *u.WeakTop
		}
	}
	if u.WeakFactor != nil {
		if *u.WeakFactor < 0 {
			reject("weak-factor", "must be >= 0")
		} else {
			next.WeakFactor = *u.WeakFactor
		}
	}

	size := next.RoundSize
	sizeChanged := false
	if u.RoundSize != nil {
		if *u.RoundSize < model.MinRoundSize || *u.RoundSize > model.MaxRoundSize {
			reject("round-size", fmt.Sprintf("must be between %d and %d", model.MinRoundSize, model.MaxRoundSize))
		} else if *u.RoundSize != next.RoundSize {
			size = *u.RoundSize
			sizeChanged = true
		}
	}
	difficultyChanged := false
	if u.Difficulty != nil {
		if !u.Difficulty.Valid() {
			reject("difficulty", "unknown tier")
		} else {
			difficultyChanged = true
		}
	}
	symbolsChanged := u.EnabledSymbolIDs != nil || u.AllSymbols

	// The pool invariant is checked against the merged settings. When it fails, the
	// smallest set of pool changes is dropped, the enabled set first.
	merge := func(keep poolChange) model.Settings {
		c := next.Clone()
		if keep.size {
			c.RoundSize = size
		}
		if keep.difficulty {
			c.Difficulty = *u.Difficulty
		}
		if keep.symbols {
			if u.AllSymbols {
				c.EnabledSymbolIDs = nil
			} else {
				c.EnabledSymbolIDs = append([]string{}, (*u.EnabledSymbolIDs)...)
			}
		}
		return c
	}
	want := poolChange{symbols: symbolsChanged, difficulty: difficultyChanged, size: sizeChanged}
	kept := poolChange{}
	for _, keep := range poolPreference {
		keep = keep.and(want)
		if keep == (poolChange{}) || len(e.catalog.EffectivePool(merge(keep))) >= merge(keep).RoundSize {
			kept = keep
			break
		}
	}
	if want.symbols && !kept.symbols {
		reject("symbols", fmt.Sprintf("would leave fewer than %d symbols", merge(kept).RoundSize))
	}
	if want.difficulty && !kept.difficulty {
		reject("difficulty", fmt.Sprintf("would leave fewer than %d symbols", merge(kept).RoundSize))
	}
	if want.size && !kept.size {
		reject("round-size", fmt.Sprintf("only %d symbols enabled", len(e.catalog.EffectivePool(merge(kept)))))
	}
	next = merge(kept)

	e.settings = next
	if e.progress > next.VictoryThreshold {
		e.progress = next.VictoryThreshold
	}
	if e.phase == PhaseActive {
		if e.round.Locked {
			e.victoryPending = e.progress == next.VictoryThreshold
		} else if e.progress >= next.VictoryThreshold {
			// Victory is entered only after an answer; an unlocked round stays one star short.
			e.progress = next.VictoryThreshold - 1
		}
	}

	if len(rejected) > 0 {
		err := &RejectionError{Fields: rejected}
		e.logger.Warn("settings rejected", "error", err.Error())
		return e.settings.Clone(), err
	}
	return e.settings.Clone(), nil
}

// poolChange marks which pool-affecting fields of an update are applied.
type poolChange struct {
	symbols, difficulty, size bool
}

func (c poolChange) and(o poolChange) poolChange {
	return poolChange{symbols: c.symbols && o.symbols, difficulty: c.difficulty && o.difficulty, size: c.size && o.size}
}

// poolPreference lists the combinations tried in order; the first whose pool fits wins.
// Fewer dropped fields come first, and the enabled set is dropped before the difficulty.
var poolPreference = []poolChange{
	{symbols: true, difficulty: true, size: true},
	{difficulty: true, size: true},
	{symbols: true, size: true},
	{symbols: true, difficulty: true},
	{size: true},
	{difficulty: true},
	{symbols: true},
	{},
}

func (e *Engine) validateInitial(s model.Settings) error {
	switch {
	case s.RoundSize < model.MinRoundSize || s.RoundSize > model.MaxRoundSize:
		return fmt.Errorf("round size %d must be between %d and %d: %w", s.RoundSize, model.MinRoundSize, model.MaxRoundSize, ErrConfigurationRejected)
	case s.VictoryThreshold < 1:
		return fmt.Errorf("victory threshold must be >= 1: %w", ErrConfigurationRejected)
	case !s.Difficulty.Valid():
		return fmt.Errorf("difficulty %d: %w", int(s.Difficulty), ErrConfigurationRejected)
	case s.Volume < 0 || s.Volume > 1:
		return fmt.Errorf("volume must be between 0 and 1: %w", ErrConfigurationRejected)
	case s.WeakTop < 0 || s.WeakFactor < 0:
		return fmt.Errorf("weak focus values must be >= 0: %w", ErrConfigurationRejected)
	}
	if n := len(e.catalog.EffectivePool(s)); n == 0 {
		return fmt.Errorf("no symbols enabled: %w", ErrConfigurationRejected)
	} else if n < s.RoundSize {
		// Loaded settings are not refused for a small pool; rounds degrade instead.
		e.logger.Warn("pool shortfall in loaded settings", "pool", n, "round_size", s.RoundSize)
	}
	return nil
}
