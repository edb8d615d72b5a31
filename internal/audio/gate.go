package audio

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/verte-zerg/lettersound/internal/model"
)

// DefaultTimeout bounds a single cue.
const DefaultTimeout = 5 * time.Second

// Gate applies the audio settings in front of a Player.
// Playback failures are logged and never returned.
type Gate struct {
	player  Player
	logger  *slog.Logger
	timeout time.Duration
}

// NewGate wraps p. A nil p plays nothing.
func NewGate(p Player, logger *slog.Logger) *Gate {
	if p == nil {
		p = NopPlayer{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Gate{player: p, logger: logger, timeout: DefaultTimeout}
}

// Cue plays sym's sound when audio is enabled. It reports whether playback was attempted.
func (g *Gate) Cue(ctx context.Context, sym model.Symbol, s model.Settings) bool {
	if !s.AudioEnabled || s.Volume <= 0 || sym.SoundRef == "" {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	if err := g.player.Play(ctx, sym.SoundRef, s.Volume); err != nil {
		g.logger.Warn("sound cue failed", "symbol", sym.ID, "sound", sym.SoundRef, "err", err)
	}
	return true
}
