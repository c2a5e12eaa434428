package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/caasmo/tokengate/config"
	"github.com/caasmo/tokengate/db"
	"github.com/caasmo/tokengate/db/mock"
)

type fakeExecutor struct {
	mu   sync.Mutex
	runs []int64
	err  error
}

func (f *fakeExecutor) Execute(ctx context.Context, job db.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, job.ID)
	return f.err
}

func testProvider() *config.Provider {
	cfg := config.NewDefaultConfig()
	cfg.Scheduler.Interval = config.Duration{Duration: 10 * time.Millisecond}
	cfg.Scheduler.JobTimeout = config.Duration{Duration: time.Second}
	return config.NewProvider(cfg)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProcessJobsMarksCompleted(t *testing.T) {
	var completed []int64
	var mu sync.Mutex

	// Enough jobs that the batch actually runs concurrently; the success
	// counter must come out exact anyway.
	jobs := make([]*db.Job, 8)
	for i := range jobs {
		jobs[i] = &db.Job{ID: int64(i + 1), JobType: "t"}
	}

	m := &mock.Db{
		ClaimFunc: func(limit int) ([]*db.Job, error) {
			return jobs, nil
		},
		MarkCompletedFunc: func(jobID int64) error {
			mu.Lock()
			defer mu.Unlock()
			completed = append(completed, jobID)
			return nil
		},
	}

	exec := &fakeExecutor{}
	s := NewScheduler(testProvider(), m, exec, testLogger())
	s.processJobs()

	if len(exec.runs) != len(jobs) {
		t.Errorf("executor ran %d jobs, want %d", len(exec.runs), len(jobs))
	}
	if len(completed) != len(jobs) {
		t.Errorf("marked %d jobs completed, want %d", len(completed), len(jobs))
	}
}

func TestProcessJobsMarksFailed(t *testing.T) {
	var failed []int64
	var mu sync.Mutex

	m := &mock.Db{
		ClaimFunc: func(limit int) ([]*db.Job, error) {
			return []*db.Job{{ID: 7, JobType: "t"}}, nil
		},
		MarkFailedFunc: func(jobID int64, errMsg string) error {
			mu.Lock()
			defer mu.Unlock()
			failed = append(failed, jobID)
			return nil
		},
	}

	exec := &fakeExecutor{err: errors.New("smtp down")}
	s := NewScheduler(testProvider(), m, exec, testLogger())
	s.processJobs()

	if len(failed) != 1 || failed[0] != 7 {
		t.Errorf("failed jobs = %v, want [7]", failed)
	}
}

func TestSchedulerStartStop(t *testing.T) {
	claimed := make(chan struct{}, 1)
	m := &mock.Db{
		ClaimFunc: func(limit int) ([]*db.Job, error) {
			select {
			case claimed <- struct{}{}:
			default:
			}
			return nil, nil
		},
	}

	s := NewScheduler(testProvider(), m, &fakeExecutor{}, testLogger())
	s.Start()

	select {
	case <-claimed:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler never ticked")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Errorf("Stop() err = %v", err)
	}
}
