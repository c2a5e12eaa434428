package zombiezen

import (
	"context"
	"fmt"
	"time"

	"github.com/caasmo/tokengate/db"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

func newJobFromStmt(stmt *sqlite.Stmt) (*db.Job, error) {
	createdAt, err := db.TimeParse(stmt.GetText("created_at"))
	if err != nil {
		return nil, fmt.Errorf("error parsing created_at time: %w", err)
	}

	updatedAt, err := db.TimeParse(stmt.GetText("updated_at"))
	if err != nil {
		return nil, fmt.Errorf("error parsing updated_at time: %w", err)
	}

	scheduledFor, err := db.TimeParse(stmt.GetText("scheduled_for"))
	if err != nil {
		return nil, fmt.Errorf("error parsing scheduled_for time: %w", err)
	}

	return &db.Job{
		ID:           stmt.GetInt64("id"),
		JobType:      stmt.GetText("job_type"),
		Payload:      []byte(stmt.GetText("payload")),
		PayloadExtra: []byte(stmt.GetText("payload_extra")),
		Status:       stmt.GetText("status"),
		Attempts:     int(stmt.GetInt64("attempts")),
		MaxAttempts:  int(stmt.GetInt64("max_attempts")),
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
		ScheduledFor: scheduledFor,
		LastError:    stmt.GetText("last_error"),
	}, nil
}

// InsertJob enqueues a job as pending. The unique index on
// (job_type, payload) turns a repeat request within the same cooldown
// bucket into db.ErrConstraintUnique.
func (d *Db) InsertJob(job db.Job) error {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer d.pool.Put(conn)

	maxAttempts := job.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}

	payloadExtra := job.PayloadExtra
	if payloadExtra == nil {
		payloadExtra = []byte("{}")
	}

	err = sqlitex.Execute(conn,
		`INSERT INTO job_queue (job_type, payload, payload_extra, status, max_attempts, scheduled_for)
		VALUES (?, ?, ?, 'pending', ?, (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')))`,
		&sqlitex.ExecOptions{
			Args: []any{job.JobType, string(job.Payload), string(payloadExtra), maxAttempts},
		})
	if err != nil {
		if sqlite.ErrCode(err) == sqlite.ResultConstraintUnique {
			return db.ErrConstraintUnique
		}
		return fmt.Errorf("failed to insert job: %w", err)
	}

	return nil
}

// Claim atomically transitions up to limit due pending jobs to processing
// and returns them. SQLite's single-writer model makes the update-returning
// statement a sufficient claim; no separate locking row is needed.
func (d *Db) Claim(limit int) ([]*db.Job, error) {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return nil, err
	}
	defer d.pool.Put(conn)

	now := db.TimeFormat(time.Now())

	var jobs []*db.Job
	err = sqlitex.Execute(conn,
		`UPDATE job_queue
		SET status = 'processing',
			attempts = attempts + 1,
			locked_at = ?,
			updated_at = ?
		WHERE id IN (
			SELECT id FROM job_queue
			WHERE status = 'pending' AND scheduled_for <= ?
			ORDER BY created_at
			LIMIT ?
		)
		RETURNING id, job_type, payload, payload_extra, status, attempts, max_attempts,
			created_at, updated_at, scheduled_for, last_error`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				job, err := newJobFromStmt(stmt)
				if err != nil {
					return err
				}
				jobs = append(jobs, job)
				return nil
			},
			Args: []any{now, now, now, limit},
		})
	if err != nil {
		return nil, fmt.Errorf("failed to claim jobs: %w", err)
	}

	return jobs, nil
}

func (d *Db) MarkCompleted(jobID int64) error {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`UPDATE job_queue
		SET status = 'completed',
			completed_at = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		WHERE id = ?`,
		&sqlitex.ExecOptions{
			Args: []any{jobID},
		})
	if err != nil {
		return fmt.Errorf("failed to mark job completed: %w", err)
	}
	return nil
}

// MarkFailed records the error and either reschedules the job as pending for
// another attempt or parks it as failed once attempts are exhausted.
func (d *Db) MarkFailed(jobID int64, errMsg string) error {
	conn, err := d.pool.Take(context.TODO())
	if err != nil {
		return err
	}
	defer d.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`UPDATE job_queue
		SET status = IIF(attempts >= max_attempts, 'failed', 'pending'),
			last_error = ?,
			updated_at = (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		WHERE id = ?`,
		&sqlitex.ExecOptions{
			Args: []any{errMsg, jobID},
		})
	if err != nil {
		return fmt.Errorf("failed to mark job failed: %w", err)
	}
	return nil
}
