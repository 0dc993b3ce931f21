package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/timeslider/internal/calendar"
	"github.com/roach88/timeslider/internal/dispatch"
)

// Run describes one recorded session.
type Run struct {
	ID   string
	Name string
	// Config is the YAML the sliders were built from.
	Config string
	Start  calendar.Instant
}

// Journal records a run's events and notifications inside a single
// transaction. It implements dispatch.Sink. Nothing is visible to readers
// until Commit.
type Journal struct {
	ctx   context.Context
	tx    *sql.Tx
	runID string
}

var _ dispatch.Sink = (*Journal)(nil)

// BeginRun inserts run and opens a journal for it. An empty run ID is
// replaced by a UUIDv7. The journal holds the store's only connection
// until it is committed or rolled back.
func (s *Store) BeginRun(ctx context.Context, run Run) (*Journal, Run, error) {
	if run.ID == "" {
		run.ID = uuid.Must(uuid.NewV7()).String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, run, fmt.Errorf("begin run: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, name, config, start_millis)
		VALUES (?, ?, ?, ?)
	`,
		run.ID,
		run.Name,
		run.Config,
		run.Start.Millis(),
	)
	if err != nil {
		tx.Rollback()
		return nil, run, fmt.Errorf("begin run: %w", err)
	}

	return &Journal{ctx: ctx, tx: tx, runID: run.ID}, run, nil
}

// RunID returns the ID of the run being recorded.
func (j *Journal) RunID() string { return j.runID }

// Event records an applied event.
func (j *Journal) Event(ev dispatch.Event) error {
	_, err := j.tx.ExecContext(j.ctx, `
		INSERT INTO events
		(run_id, seq, type, target, dx, dy, time_millis, at_nanos, session)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		j.runID,
		ev.Seq,
		marshalType(ev.Type),
		ev.Target,
		ev.DX,
		ev.DY,
		ev.Time.Millis(),
		marshalAt(ev.At),
		ev.Session,
	)
	if err != nil {
		return fmt.Errorf("write event %d: %w", ev.Seq, err)
	}
	return nil
}

// Notification records a notification.
func (j *Journal) Notification(rec dispatch.Record) error {
	_, err := j.tx.ExecContext(j.ctx, `
		INSERT INTO notifications
		(run_id, seq, idx, kind, source, time_millis, unit)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		j.runID,
		rec.Seq,
		rec.Index,
		string(rec.Kind),
		rec.Source,
		rec.Time.Millis(),
		rec.Unit,
	)
	if err != nil {
		return fmt.Errorf("write notification %d/%d: %w", rec.Seq, rec.Index, err)
	}
	return nil
}

// Commit makes the run visible.
func (j *Journal) Commit() error {
	if err := j.tx.Commit(); err != nil {
		return fmt.Errorf("commit run %s: %w", j.runID, err)
	}
	return nil
}

// Rollback discards the run. It is a no-op after Commit.
func (j *Journal) Rollback() error {
	err := j.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}

// DeleteRun removes a run and everything recorded for it.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNoRun, id)
	}
	return nil
}
