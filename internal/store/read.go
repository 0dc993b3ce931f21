package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/timeslider/internal/calendar"
	"github.com/roach88/timeslider/internal/dispatch"
	"github.com/roach88/timeslider/internal/scrollable"
)

// RunSummary is a run with its record counts.
type RunSummary struct {
	Run
	Events        int
	Notifications int
}

// ErrNoRun is returned when a run ID is not in the store.
var ErrNoRun = errors.New("no such run")

// ReadRun retrieves a run by ID.
// Returns ErrNoRun if not found.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	var run Run
	var start int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, config, start_millis
		FROM runs
		WHERE id = ?
	`, id).Scan(&run.ID, &run.Name, &run.Config, &start)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNoRun, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run: %w", err)
	}
	run.Start = calendar.Instant(start)
	return run, nil
}

// ListRuns returns every run in insertion order.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.name, r.config, r.start_millis,
		       (SELECT COUNT(*) FROM events e WHERE e.run_id = r.id),
		       (SELECT COUNT(*) FROM notifications n WHERE n.run_id = r.id)
		FROM runs r
		ORDER BY r.rowid ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunSummary{}
	for rows.Next() {
		var rs RunSummary
		var start int64
		if err := rows.Scan(&rs.ID, &rs.Name, &rs.Config, &start, &rs.Events, &rs.Notifications); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rs.Start = calendar.Instant(start)
		runs = append(runs, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadEvents returns a run's events ordered by seq.
// Returns an empty slice (not nil) if the run has none.
func (s *Store) ReadEvents(ctx context.Context, runID string) ([]dispatch.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, type, target, dx, dy, time_millis, at_nanos, session
		FROM events
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []dispatch.Event{}
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// ReadNotifications returns a run's notifications ordered by (seq, idx).
// Returns an empty slice (not nil) if the run has none.
func (s *Store) ReadNotifications(ctx context.Context, runID string) ([]dispatch.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, idx, kind, source, time_millis, unit
		FROM notifications
		WHERE run_id = ?
		ORDER BY seq ASC, idx ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	records := []dispatch.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}
	return records, nil
}

func scanEvent(rows *sql.Rows) (dispatch.Event, error) {
	var ev dispatch.Event
	var typ string
	var timeMillis, atNanos int64

	if err := rows.Scan(
		&ev.Seq, &typ, &ev.Target, &ev.DX, &ev.DY, &timeMillis, &atNanos, &ev.Session,
	); err != nil {
		return dispatch.Event{}, fmt.Errorf("scan event: %w", err)
	}

	t, err := unmarshalType(typ)
	if err != nil {
		return dispatch.Event{}, fmt.Errorf("scan event %d: %w", ev.Seq, err)
	}
	ev.Type = t
	ev.Time = calendar.Instant(timeMillis)
	ev.At = unmarshalAt(atNanos)
	return ev, nil
}

func scanRecord(rows *sql.Rows) (dispatch.Record, error) {
	var rec dispatch.Record
	var kind string
	var timeMillis int64

	if err := rows.Scan(&rec.Seq, &rec.Index, &kind, &rec.Source, &timeMillis, &rec.Unit); err != nil {
		return dispatch.Record{}, fmt.Errorf("scan notification: %w", err)
	}
	rec.Kind = scrollable.NotificationKind(kind)
	rec.Time = calendar.Instant(timeMillis)
	return rec, nil
}
