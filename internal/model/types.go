// Package model defines shared data structures.
package model

import (
	"strings"
	"time"
)

// Tier orders symbols by difficulty.
type Tier int

// Defined tiers, easiest first.
const (
	TierEasy Tier = iota + 1
	TierMedium
	TierHard
)

// Tiers lists every defined tier in ascending order.
var Tiers = []Tier{TierEasy, TierMedium, TierHard}

// String returns the lowercase tier name.
func (t Tier) String() string {
	switch t {
	case TierEasy:
		return "easy"
	case TierMedium:
		return "medium"
	case TierHard:
		return "hard"
	default:
		return "unknown"
	}
}

// Valid reports whether t is one of the defined tiers.
func (t Tier) Valid() bool {
	return t >= TierEasy && t <= TierHard
}

// ParseTier maps a tier name to its Tier. The second result is false for unknown names.
func ParseTier(name string) (Tier, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "easy":
		return TierEasy, true
	case "medium":
		return TierMedium, true
	case "hard":
		return TierHard, true
	default:
		return 0, false
	}
}

// Symbol is an immutable catalog entry.
type Symbol struct {
	ID       string
	Glyph    string
	SoundRef string
	Tier     Tier
	Category string
	Color    string
}

// Settings defines quiz settings.
type Settings struct {
	RoundSize        int
	VictoryThreshold int
	Difficulty       Tier
	// EnabledSymbolIDs is nil when every symbol is enabled.
	EnabledSymbolIDs []string
	AudioEnabled     bool
	Volume           float64
	FocusWeak        bool
	WeakTop          int
	WeakFactor       float64
}

// Bounds for Settings.RoundSize.
const (
	MinRoundSize = 2
	MaxRoundSize = 5
)

// DefaultSettings returns the settings a fresh install starts with.
func DefaultSettings() Settings {
	return Settings{
		RoundSize:        3,
		VictoryThreshold: 5,
		Difficulty:       TierEasy,
		AudioEnabled:     true,
		Volume:           0.8,
		WeakTop:          5,
		WeakFactor:       2.0,
	}
}

// AllSymbolsEnabled reports whether the enabled set is the "all" sentinel.
func (s Settings) AllSymbolsEnabled() bool {
	return s.EnabledSymbolIDs == nil
}

// Clone returns a copy that shares no slices with s.
func (s Settings) Clone() Settings {
	out := s
	if s.EnabledSymbolIDs != nil {
		out.EnabledSymbolIDs = append([]string{}, s.EnabledSymbolIDs...)
	}
	return out
}

// Round is one target-plus-candidates presentation.
type Round struct {
	Target     Symbol
	Candidates []Symbol
	Locked     bool
	// Shortfall is set when the pool was smaller than the configured round size.
	Shortfall bool
}

// DistractorIDs returns the ids of every non-target candidate, in display order.
func (r Round) DistractorIDs() []string {
	ids := make([]string, 0, len(r.Candidates))
	for _, c := range r.Candidates {
		if c.ID == r.Target.ID {
			continue
		}
		ids = append(ids, c.ID)
	}
	return ids
}

// Clone returns a copy that shares no slices with r.
func (r Round) Clone() Round {
	out := r
	out.Candidates = append([]Symbol(nil), r.Candidates...)
	return out
}

// OutcomeEvent records a single answer submission.
type OutcomeEvent struct {
	ID            string    `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	TargetID      string    `json:"targetId"`
	SelectedID    string    `json:"selectedId"`
	Correct       bool      `json:"correct"`
	DistractorIDs []string  `json:"distractorIds"`
}

// History is the persisted outcome log document.
type History struct {
	History []OutcomeEvent `json:"history"`
}
