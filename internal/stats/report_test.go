package stats

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/lettersound/internal/catalog"
	"github.com/verte-zerg/lettersound/internal/model"
	"github.com/verte-zerg/lettersound/internal/store"
)

func TestBuildReport(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "lettersound.db")
	st, err := store.Open(dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		ev := model.OutcomeEvent{
			ID:            string(rune('a'+i)) + "-event",
			Timestamp:     time.Unix(0, 0).Add(time.Duration(i) * time.Minute),
			TargetID:      "p",
			SelectedID:    "b",
			Correct:       i == 2,
			DistractorIDs: []string{"b", "t"},
		}
		if i == 2 {
			ev.SelectedID = "p"
		}
		if err := st.InsertOutcome(ctx, ev); err != nil {
			t.Fatalf("insert outcome: %v", err)
		}
	}

	report, err := BuildReport(ctx, st, catalog.Default(), ReportConfig{Last: 2, TrendWindow: 2})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if report.Snapshot.TotalAttempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", report.Snapshot.TotalAttempts)
	}
	p, ok := report.Snapshot.Symbol("p")
	if !ok {
		t.Fatalf("expected stats for p")
	}
	if p.Accuracy != 50 {
		t.Fatalf("expected 50%% accuracy, got %d", p.Accuracy)
	}
	if len(report.Trend) != 2 || report.Trend[1] != 50 {
		t.Fatalf("unexpected trend: %v", report.Trend)
	}
	if report.Aggregator.Len() != 2 {
		t.Fatalf("expected aggregator seeded with 2 events, got %d", report.Aggregator.Len())
	}
}
