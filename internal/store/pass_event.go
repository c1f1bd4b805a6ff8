package store

import (
	"context"
	"fmt"
	"time"
)

func (r *eventRepo) AppendPassRun(ctx context.Context, data PassRunData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `INSERT INTO pass_run_events
		(sequence, created_at, run_id, level, pass, selected, changed, unresolved,
		 failed_batches, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		seqNum, time.Now().UnixMilli(), data.RunID, data.Level, data.Pass,
		data.Selected, data.Changed, data.Unresolved, data.FailedBatches, data.ErrorMessage,
	)
	if err != nil {
		return fmt.Errorf("save pass run event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryPassRuns(ctx context.Context, opts QueryOpts) ([]PassRun, error) {
	where, args := whereClause(opts, "pass")
	q := `SELECT id, sequence, created_at, run_id, level, pass, selected, changed,
		unresolved, failed_batches, error_message FROM pass_run_events` + where +
		" ORDER BY sequence DESC" + limitClause(opts.Limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query pass runs: %w", err)
	}
	defer rows.Close()

	var runs []PassRun
	for rows.Next() {
		var (
			p       PassRun
			created int64
		)
		if err := rows.Scan(&p.ID, &p.Sequence, &created, &p.RunID, &p.Level, &p.Pass,
			&p.Selected, &p.Changed, &p.Unresolved, &p.FailedBatches, &p.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan pass run: %w", err)
		}
		p.Timestamp = time.UnixMilli(created).UTC()
		runs = append(runs, p)
	}
	return runs, rows.Err()
}
