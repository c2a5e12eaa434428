package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/caasmo/tokengate/config"
	"github.com/caasmo/tokengate/db"
	"github.com/caasmo/tokengate/queue/executor"
	"golang.org/x/sync/errgroup"
)

// Scheduler periodically claims pending jobs and runs them through the
// executor with bounded concurrency. The email dispatch of the lifecycle
// flows (activation, password reset) lives entirely behind this loop, which
// is why a dispatch failure can never roll back a persisted user record.
type Scheduler struct {
	configProvider *config.Provider
	dbQueue        db.DbQueue
	executor       executor.JobExecutor
	logger         *slog.Logger
	ctx            context.Context
	cancel         context.CancelFunc
	shutdownDone   chan struct{}
}

// NewScheduler creates a new scheduler with executor
func NewScheduler(provider *config.Provider, dbQueue db.DbQueue, exec executor.JobExecutor, logger *slog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		configProvider: provider,
		dbQueue:        dbQueue,
		executor:       exec,
		logger:         logger,
		ctx:            ctx,
		cancel:         cancel,
		shutdownDone:   make(chan struct{}),
	}
}

// Name identifies the scheduler to the server's daemon lifecycle.
func (s *Scheduler) Name() string {
	return "job-scheduler"
}

// Start begins the scheduler loop in its own goroutine.
func (s *Scheduler) Start() error {
	go func() {
		interval := s.configProvider.Get().Scheduler.Interval.Duration
		s.logger.Info("starting job scheduler", "interval", interval)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				s.logger.Info("job scheduler received shutdown signal")
				close(s.shutdownDone)
				return
			case <-ticker.C:
				s.processJobs()
			}
		}
	}()
	return nil
}

// Stop signals the scheduler to stop and waits for the loop to exit or the
// context to be canceled, whichever comes first.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.logger.Info("stopping job scheduler")
	s.cancel()

	select {
	case <-s.shutdownDone:
		s.logger.Info("job scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Info("job scheduler shutdown timed out")
		return ctx.Err()
	}
}

func (s *Scheduler) processJobs() {
	cfg := s.configProvider.Get().Scheduler

	jobs, err := s.dbQueue.Claim(cfg.MaxJobsPerTick)
	if err != nil {
		s.logger.Error("failed to claim jobs", "err", err)
		return
	}
	if len(jobs) == 0 {
		return
	}

	s.logger.Info("claimed jobs", "count", len(jobs))

	// The scheduler's context is the parent so running jobs receive the
	// shutdown signal.
	g, ctx := errgroup.WithContext(s.ctx)
	g.SetLimit(runtime.NumCPU() * cfg.ConcurrencyMultiplier)

	var processed atomic.Int64
	for _, job := range jobs {
		g.Go(func() error {
			jobCtx, cancel := context.WithTimeout(ctx, cfg.JobTimeout.Duration)
			defer cancel()

			s.logger.Info("starting job execution",
				"job_id", job.ID,
				"job_type", job.JobType,
				"attempt", job.Attempts)

			err := s.executor.Execute(jobCtx, *job)

			switch {
			case err == nil:
				if updateErr := s.dbQueue.MarkCompleted(job.ID); updateErr != nil {
					s.logger.Error("failed to mark job as completed", "job_id", job.ID, "err", updateErr)
				}
				processed.Add(1)
			case errors.Is(err, context.DeadlineExceeded):
				if updateErr := s.dbQueue.MarkFailed(job.ID, "job timeout: "+err.Error()); updateErr != nil {
					s.logger.Error("failed to mark job as timed out", "job_id", job.ID, "err", updateErr)
				}
			case errors.Is(err, context.Canceled):
				// Either the batch was canceled or the scheduler is shutting down.
				if updateErr := s.dbQueue.MarkFailed(job.ID, "scheduler stopping: "+err.Error()); updateErr != nil {
					s.logger.Error("failed to mark job as interrupted", "job_id", job.ID, "err", updateErr)
				}
				s.logger.Info("job interrupted", "job_id", job.ID)
			default:
				if updateErr := s.dbQueue.MarkFailed(job.ID, err.Error()); updateErr != nil {
					s.logger.Error("failed to mark job as failed", "job_id", job.ID, "err", updateErr)
				}
			}

			return err
		})
	}

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.Canceled) {
			s.logger.Info("job batch interrupted due to scheduler shutdown")
		} else {
			s.logger.Error("error executing batch jobs", "err", err)
		}
	}

	s.logger.Info("finished processing claimed jobs", "success", processed.Load(), "total", len(jobs))
}
