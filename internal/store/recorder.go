package store

import (
	"context"
	"log/slog"

	"github.com/verte-zerg/lettersound/internal/model"
)

// Recorder persists outcome events as they are produced.
// Write failures are logged and never returned.
type Recorder struct {
	store  *Store
	ctx    context.Context
	logger *slog.Logger
}

// NewRecorder returns a Recorder writing through st.
func NewRecorder(ctx context.Context, st *Store, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{store: st, ctx: ctx, logger: logger}
}

// RecordOutcome stores one event.
func (r *Recorder) RecordOutcome(ev model.OutcomeEvent) {
	if err := r.store.InsertOutcome(r.ctx, ev); err != nil {
		r.logger.Error("failed to save outcome", "id", ev.ID, "target", ev.TargetID, "error", err)
	}
}
