package scheduler

import (
	"context"
	"sync"
	"time"

	"property-feed/internal/model"
	"property-feed/pkg/utils"
)

// CycleRunner executes one full distribution cycle for a category.
type CycleRunner interface {
	RunCycle(ctx context.Context, category model.Category, sourceURL string, errs chan<- error) error
}

// Job is one recurring per-category fetch cycle. Registered once at
// startup and rescheduled forever; a failed tick records the error but
// never deregisters the job.
type Job struct {
	Category  model.Category
	SourceURL string
	Interval  time.Duration

	mu        sync.Mutex
	lastRunAt time.Time
	lastError error
}

func (j *Job) recordRun(at time.Time, err error) {
	j.mu.Lock()
	j.lastRunAt = at
	j.lastError = err
	j.mu.Unlock()
}

// Status is a point-in-time snapshot of a job, for the health endpoint.
type Status struct {
	Category   model.Category `json:"category"`
	IntervalMs int64          `json:"intervalMs"`
	LastRunAt  time.Time      `json:"lastRunAt"`
	LastError  string         `json:"lastError,omitempty"`
}

func (j *Job) status() Status {
	j.mu.Lock()
	defer j.mu.Unlock()
	s := Status{
		Category:   j.Category,
		IntervalMs: j.Interval.Milliseconds(),
		LastRunAt:  j.lastRunAt,
	}
	if j.lastError != nil {
		s.LastError = j.lastError.Error()
	}
	return s
}

// Scheduler runs one worker goroutine per registered category, each
// consuming from its own timer-fed tick queue. Jobs never share a worker,
// so a slow or failing category cannot delay another category's tick.
type Scheduler struct {
	runner CycleRunner
	jobs   []*Job
	errs   chan error
	log    *utils.Logger
}

func New(runner CycleRunner, log *utils.Logger) *Scheduler {
	return &Scheduler{
		runner: runner,
		errs:   make(chan error, 64),
		log:    log,
	}
}

// Register adds a recurring job for the category. Call before Start.
func (s *Scheduler) Register(category model.Category, sourceURL string, interval time.Duration) {
	s.jobs = append(s.jobs, &Job{
		Category:  category,
		SourceURL: sourceURL,
		Interval:  interval,
	})
	s.log.Info("registered %s job: every %v from %s", category, interval, sourceURL)
}

// Errors exposes record- and tick-level failures for observability.
// The caller is expected to drain it.
func (s *Scheduler) Errors() <-chan error {
	return s.errs
}

// Statuses snapshots every registered job.
func (s *Scheduler) Statuses() []Status {
	out := make([]Status, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j.status())
	}
	return out
}

// Start launches every job and returns. Jobs run until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	for _, job := range s.jobs {
		go s.runJob(ctx, job)
	}
}

func (s *Scheduler) runJob(ctx context.Context, job *Job) {
	// Unbuffered on purpose: a send only lands while the worker is
	// waiting, so a tick arriving mid-cycle is dropped, never queued
	// behind the running cycle.
	ticks := make(chan time.Time)

	// Timer goroutine: wall-clock ticks, never chained to cycle
	// completion.
	go func() {
		ticker := time.NewTicker(job.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				close(ticks)
				return
			case t := <-ticker.C:
				select {
				case ticks <- t:
				default:
				}
			}
		}
	}()

	// Initial cycle so the query endpoints have data before the first
	// interval elapses.
	s.runOnce(ctx, job)

	for range ticks {
		s.runOnce(ctx, job)
	}
}

func (s *Scheduler) runOnce(ctx context.Context, job *Job) {
	start := time.Now().UTC()
	err := s.runner.RunCycle(ctx, job.Category, job.SourceURL, s.errs)
	job.recordRun(start, err)
	if err != nil && ctx.Err() == nil {
		s.log.Error("[%s] cycle failed, next tick unaffected: %v", job.Category, err)
		s.report(err)
	}
}

// report forwards an error without ever blocking a job worker.
func (s *Scheduler) report(err error) {
	select {
	case s.errs <- err:
	default:
		s.log.Warn("error channel full, dropping: %v", err)
	}
}
