package store

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/lettersound/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "lettersound.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func event(id, target, selected string, at time.Time) model.OutcomeEvent {
	return model.OutcomeEvent{
		ID:            id,
		Timestamp:     at,
		TargetID:      target,
		SelectedID:    selected,
		Correct:       target == selected,
		DistractorIDs: []string{"x", "y"},
	}
}

func TestInsertAndListOutcomes(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, st.InsertOutcome(ctx, event("e1", "a", "b", base)))
	require.NoError(t, st.InsertOutcome(ctx, event("e2", "a", "a", base.Add(time.Minute))))
	require.NoError(t, st.InsertOutcome(ctx, event("e3", "b", "b", base.Add(2*time.Minute))))

	all, err := st.ListOutcomes(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "e1", all[0].ID)
	assert.False(t, all[0].Correct)
	assert.True(t, all[1].Correct)
	assert.Equal(t, []string{"x", "y"}, all[0].DistractorIDs)
	assert.True(t, base.Equal(all[0].Timestamp))

	since := base.Add(30 * time.Second)
	recent, err := st.ListOutcomes(ctx, ListOptions{Since: &since})
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	last, err := st.ListOutcomes(ctx, ListOptions{Last: 1})
	require.NoError(t, err)
	require.Len(t, last, 1)
	assert.Equal(t, "e3", last[0].ID)

	n, err := st.CountOutcomes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestClearOutcomes(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.InsertOutcome(ctx, event("e1", "a", "b", time.Now())))
	require.NoError(t, st.ClearOutcomes(ctx))

	all, err := st.ListOutcomes(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestExportImportHistory(t *testing.T) {
	src := openTestStore(t)
	ctx := context.Background()
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, src.InsertOutcome(ctx, event("e1", "a", "b", at)))
	require.NoError(t, src.InsertOutcome(ctx, event("e2", "a", "a", at)))

	var buf bytes.Buffer
	require.NoError(t, src.ExportHistory(ctx, &buf))

	var doc map[string][]map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc["history"], 2)
	assert.Equal(t, "a", doc["history"][0]["targetId"])

	dst := openTestStore(t)
	n, err := dst.ImportHistory(ctx, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = dst.ImportHistory(ctx, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 0, n, "re-import skips known ids")
}

func TestExportEmptyHistory(t *testing.T) {
	st := openTestStore(t)
	var buf bytes.Buffer
	require.NoError(t, st.ExportHistory(context.Background(), &buf))
	assert.JSONEq(t, `{"history": []}`, buf.String())
}

func TestRecorderPersists(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	rec := NewRecorder(ctx, st, nil)
	rec.RecordOutcome(event("e1", "a", "a", time.Now()))

	all, err := st.ListOutcomes(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDistractorIDsKeepCommas(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	ev := event("e1", "a", "b", time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC))
	ev.DistractorIDs = []string{"x,y", "z"}
	require.NoError(t, st.InsertOutcome(ctx, ev))

	noDistractors := event("e2", "a", "a", time.Date(2025, 3, 1, 10, 1, 0, 0, time.UTC))
	noDistractors.DistractorIDs = nil
	require.NoError(t, st.InsertOutcome(ctx, noDistractors))

	all, err := st.ListOutcomes(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, []string{"x,y", "z"}, all[0].DistractorIDs)
	assert.Equal(t, []string{}, all[1].DistractorIDs)

	var buf bytes.Buffer
	require.NoError(t, st.ExportHistory(ctx, &buf))
	dst := openTestStore(t)
	_, err = dst.ImportHistory(ctx, &buf)
	require.NoError(t, err)
	copied, err := dst.ListOutcomes(ctx, ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"x,y", "z"}, copied[0].DistractorIDs)
}

func TestImportAssignsMissingIDs(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	doc := `{"history": [
		{"timestamp": "2025-03-01T10:00:00Z", "targetId": "a", "selectedId": "b", "correct": false, "distractorIds": ["b"]},
		{"id": "e2", "timestamp": "2025-03-01T10:01:00Z", "targetId": "a", "selectedId": "a", "correct": true, "distractorIds": ["b"]}
	]}`

	n, err := st.ImportHistory(ctx, strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all, err := st.ListOutcomes(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.NotEmpty(t, all[0].ID)
	assert.Equal(t, "e2", all[1].ID)
}
