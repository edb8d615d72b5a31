// Package session drives quiz rounds and answer evaluation.
//
// The engine is a small state machine:
//
//	Uninitialized -> Active(unlocked) -> Active(locked) -> Active(unlocked, next round) -> ... -> Victory
//
// An answer is handled in two phases. SubmitAnswer evaluates the answer and locks the
// round. The caller then runs its feedback presentation for as long as it wants. When
// the presentation finishes, the caller calls Unlock, or FinalizeVictoryIfReady when a
// victory is pending. The engine enforces no timeouts. A round stays locked until the
// caller releases it.
//
// Engine is not safe for concurrent use.
package session

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/lettersound/internal/catalog"
	"github.com/verte-zerg/lettersound/internal/generator"
	"github.com/verte-zerg/lettersound/internal/model"
)

var (
	// ErrConfigurationRejected reports settings fields that were refused.
	ErrConfigurationRejected = errors.New("configuration rejected")
	// ErrPoolShortfall reports an effective pool smaller than the round size.
	ErrPoolShortfall = errors.New("symbol pool smaller than round size")
	// ErrNotLocked is returned by Unlock when no answer is pending.
	ErrNotLocked = errors.New("round is not locked")
	// ErrVictoryPending is returned by Unlock when FinalizeVictoryIfReady must be called instead.
	ErrVictoryPending = errors.New("victory pending")
	// ErrEmptyPool is returned when no symbol is eligible for a round.
	ErrEmptyPool = errors.New("symbol pool is empty")
)

// Phase is the coarse engine state.
type Phase int

// Engine phases.
const (
	PhaseUninitialized Phase = iota
	PhaseActive
	PhaseVictory
)

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseVictory:
		return "victory"
	default:
		return "uninitialized"
	}
}

// Verdict is the result of SubmitAnswer.
type Verdict int

// Verdicts returned by SubmitAnswer.
const (
	// VerdictIgnored means the submission arrived while no answer could be taken.
	VerdictIgnored Verdict = iota
	VerdictIncorrect
	VerdictCorrect
)

func (v Verdict) String() string {
	switch v {
	case VerdictCorrect:
		return "correct"
	case VerdictIncorrect:
		return "incorrect"
	default:
		return "ignored"
	}
}

// Recorder receives every evaluated answer.
type Recorder interface {
	RecordOutcome(event model.OutcomeEvent)
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(model.OutcomeEvent)

// RecordOutcome implements Recorder.
func (f RecorderFunc) RecordOutcome(event model.OutcomeEvent) {
	f(event)
}

type multiRecorder []Recorder

func (m multiRecorder) RecordOutcome(event model.OutcomeEvent) {
	for _, r := range m {
		r.RecordOutcome(event)
	}
}

// Recorders fans events out to every non-nil recorder in order.
func Recorders(recorders ...Recorder) Recorder {
	out := make(multiRecorder, 0, len(recorders))
	for _, r := range recorders {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}

// State is a read-only view of the engine.
type State struct {
	Phase          Phase
	Progress       int
	VictoryPending bool
	Round          model.Round
	Settings       model.Settings
	// Warning is ErrPoolShortfall when the current round was degraded.
	Warning error
}

// Locked reports whether an answer is being presented.
func (s State) Locked() bool {
	return s.Phase == PhaseActive && s.Round.Locked
}

// Option configures an Engine.
type Option func(*Engine)

// WithRecorder sets the outcome recorder.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) { e.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithGenerator sets the round generator.
func WithGenerator(g *generator.Generator) Option {
	return func(e *Engine) {
		if g != nil {
			e.gen = g
		}
	}
}

// WithClock sets the time source for outcome timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// Engine owns session state and settings.
type Engine struct {
	catalog  *catalog.Catalog
	gen      *generator.Generator
	recorder Recorder
	logger   *slog.Logger
	now      func() time.Time

	settings       model.Settings
	phase          Phase
	progress       int
	victoryPending bool
	round          model.Round
	weakSet        map[string]struct{}
}

// New constructs an Engine in the Uninitialized phase. Out-of-range initial settings
// are fatal. A pool smaller than the round size is accepted and degrades each round.
func New(cat *catalog.Catalog, settings model.Settings, opts ...Option) (*Engine, error) {
	if cat == nil {
		return nil, fmt.Errorf("catalog is nil")
	}
	e := &Engine{
		catalog:  cat,
		gen:      generator.New(),
		recorder: Recorders(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.validateInitial(settings); err != nil {
		return nil, err
	}
	e.settings = settings.Clone()
	return e, nil
}

// Start resets progress, clears victory and the lock, and draws the first round.
// It may be called in any phase.
func (e *Engine) Start() error {
	pool := e.catalog.EffectivePool(e.settings)
	if len(pool) == 0 {
		return ErrEmptyPool
	}
	e.progress = 0
	e.victoryPending = false
	e.phase = PhaseActive
	e.drawRound(pool)
	return nil
}

// Reset is Start under another name, for "play again".
func (e *Engine) Reset() error {
	return e.Start()
}

// SubmitAnswer evaluates the selected symbol against the round target.
// Submissions while locked, before Start, or after victory are ignored.
func (e *Engine) SubmitAnswer(selectedID string) Verdict {
	if e.phase != PhaseActive || e.round.Locked {
		e.logger.Debug("submission ignored", "selected", selectedID, "phase", e.phase.String(), "locked", e.round.Locked)
		return VerdictIgnored
	}

	correct := selectedID == e.round.Target.ID
	e.recorder.RecordOutcome(model.OutcomeEvent{
		ID:            uuid.New().String(),
		Timestamp:     e.now(),
		TargetID:      e.round.Target.ID,
		SelectedID:    selectedID,
		Correct:       correct,
		DistractorIDs: e.round.DistractorIDs(),
	})
	e.round.Locked = true

	threshold := e.settings.VictoryThreshold
	if correct {
		e.progress = min(e.progress+1, threshold)
	} else {
		e.progress = max(e.progress-1, 0)
	}
	if e.progress == threshold {
		e.victoryPending = true
	}

	if correct {
		return VerdictCorrect
	}
	return VerdictIncorrect
}

// Unlock ends the answer presentation and draws the next round.
func (e *Engine) Unlock() error {
	if e.phase != PhaseActive || !e.round.Locked {
		return ErrNotLocked
	}
	if e.victoryPending {
		return ErrVictoryPending
	}
	pool := e.catalog.EffectivePool(e.settings)
	if len(pool) == 0 {
		return ErrEmptyPool
	}
	e.drawRound(pool)
	return nil
}

// FinalizeVictoryIfReady enters the Victory phase when progress reached the threshold.
// It reports whether the transition happened.
func (e *Engine) FinalizeVictoryIfReady() bool {
	if e.phase != PhaseActive || !e.victoryPending {
		return false
	}
	e.phase = PhaseVictory
	e.victoryPending = false
	e.round.Locked = false
	e.logger.Info("victory", "threshold", e.settings.VictoryThreshold)
	return true
}

// State returns a copy of the current state.
func (e *Engine) State() State {
	s := State{
		Phase:          e.phase,
		Progress:       e.progress,
		VictoryPending: e.victoryPending,
		Round:          e.round.Clone(),
		Settings:       e.settings.Clone(),
	}
	if e.phase == PhaseActive && e.round.Shortfall {
		s.Warning = ErrPoolShortfall
	}
	return s
}

// Settings returns a copy of the current settings.
func (e *Engine) Settings() model.Settings {
	return e.settings.Clone()
}

// SetWeakSymbols replaces the set used to bias targets in focus-weak mode.
func (e *Engine) SetWeakSymbols(ids map[string]struct{}) {
	e.weakSet = make(map[string]struct{}, len(ids))
	for id := range ids {
		e.weakSet[id] = struct{}{}
	}
}

func (e *Engine) drawRound(pool []model.Symbol) {
	size := e.settings.RoundSize
	var r model.Round
	if e.settings.FocusWeak && len(e.weakSet) > 0 {
		r = e.gen.RoundWeighted(pool, size, e.weakSet, e.settings.WeakFactor)
	} else {
		r = e.gen.Round(pool, size)
	}
	if r.Shortfall {
		e.logger.Warn("pool shortfall", "pool", len(pool), "round_size", size, "candidates", len(r.Candidates))
	}
	e.round = r
}
