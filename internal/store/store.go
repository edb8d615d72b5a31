// Package store handles SQLite persistence of the outcome log.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/lettersound/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for outcome history.
type Store struct {
	db *sql.DB
}

// ListOptions filters ListOutcomes.
type ListOptions struct {
	Since *time.Time
	// Last keeps only the most recent N events when > 0.
	Last int
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS outcome_events (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			occurred_at TEXT NOT NULL,
			target_id TEXT NOT NULL,
			selected_id TEXT NOT NULL,
			correct INTEGER NOT NULL,
			distractor_ids TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_outcome_events_occurred_at ON outcome_events(occurred_at);`,
		`CREATE INDEX IF NOT EXISTS idx_outcome_events_target ON outcome_events(target_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertOutcome appends one event to the log.
func (s *Store) InsertOutcome(ctx context.Context, ev model.OutcomeEvent) error {
	return s.InsertOutcomes(ctx, []model.OutcomeEvent{ev})
}

// InsertOutcomes appends events in a single transaction.
func (s *Store) InsertOutcomes(ctx context.Context, events []model.OutcomeEvent) (err error) {
	if len(events) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO outcome_events (id, occurred_at, target_id, selected_id, correct, distractor_ids)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			// Best-effort statement close.
			_ = cerr
		}
	}()
	for _, ev := range events {
		distractors, encErr := encodeIDs(ev.DistractorIDs)
		if encErr != nil {
			return encErr
		}
		correct := 0
		if ev.Correct {
			correct = 1
		}
		if _, err = stmt.ExecContext(ctx,
			ev.ID,
			ev.Timestamp.UTC().Format(time.RFC3339Nano),
			ev.TargetID,
			ev.SelectedID,
			correct,
			distractors,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListOutcomes returns logged events in append order.
func (s *Store) ListOutcomes(ctx context.Context, opts ListOptions) ([]model.OutcomeEvent, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if opts.Since != nil {
		clauses = append(clauses, "occurred_at >= ?")
		args = append(args, opts.Since.UTC().Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, occurred_at, target_id, selected_id, correct, distractor_ids
		FROM outcome_events
		WHERE %s
		ORDER BY seq ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var events []model.OutcomeEvent
	for rows.Next() {
		var ev model.OutcomeEvent
		var occurredAt, distractors string
		var correct int
		if err := rows.Scan(&ev.ID, &occurredAt, &ev.TargetID, &ev.SelectedID, &correct, &distractors); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, occurredAt)
		if err != nil {
			return nil, err
		}
		ev.Timestamp = parsed
		ev.Correct = correct != 0
		if ev.DistractorIDs, err = decodeIDs(distractors); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if opts.Last > 0 && len(events) > opts.Last {
		events = events[len(events)-opts.Last:]
	}
	return events, nil
}

// CountOutcomes returns the number of logged events.
func (s *Store) CountOutcomes(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM outcome_events`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// ClearOutcomes deletes the whole log.
func (s *Store) ClearOutcomes(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM outcome_events`)
	return err
}

// ExportHistory writes the log as a {"history": [...]} JSON document.
func (s *Store) ExportHistory(ctx context.Context, w io.Writer) error {
	events, err := s.ListOutcomes(ctx, ListOptions{})
	if err != nil {
		return err
	}
	if events == nil {
		events = []model.OutcomeEvent{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(model.History{History: events})
}

// ImportHistory appends the events of a {"history": [...]} document.
// Events whose id is already logged are skipped. Events without an id get a fresh one.
func (s *Store) ImportHistory(ctx context.Context, r io.Reader) (int, error) {
	var doc model.History
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return 0, fmt.Errorf("failed to decode history: %w", err)
	}
	existing, err := s.ListOutcomes(ctx, ListOptions{})
	if err != nil {
		return 0, err
	}
	seen := make(map[string]struct{}, len(existing))
	for _, ev := range existing {
		seen[ev.ID] = struct{}{}
	}
	fresh := make([]model.OutcomeEvent, 0, len(doc.History))
	for _, ev := range doc.History {
		if ev.ID == "" {
			ev.ID = uuid.New().String()
		}
		if _, ok := seen[ev.ID]; ok {
			continue
		}
		seen[ev.ID] = struct{}{}
		fresh = append(fresh, ev)
	}
	if err := s.InsertOutcomes(ctx, fresh); err != nil {
		return 0, err
	}
	return len(fresh), nil
}

// Distractor ids are stored as a JSON array so ids may contain any character.
func encodeIDs(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("failed to encode distractor ids: %w", err)
	}
	return string(b), nil
}

func decodeIDs(raw string) ([]string, error) {
	ids := []string{}
	if raw == "" {
		return ids, nil
	}
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("failed to decode distractor ids %q: %w", raw, err)
	}
	return ids, nil
}
