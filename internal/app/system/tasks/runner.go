// internal/app/system/tasks/runner.go

// Package tasks runs the site's periodic housekeeping: clearing expired
// OAuth states and cache entries and trimming the audit log.
package tasks

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/dalemusser/elaspodem/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ErrUnknownJob is returned by RunOnce for a name that was never registered.
var ErrUnknownJob = errors.New("unknown job")

// Job is one periodic task. Run is called once when the runner starts and
// then every Interval.
type Job struct {
	Name     string
	Interval time.Duration
	// Timeout bounds a single run. Zero means timeouts.Long().
	Timeout time.Duration
	Run     func(ctx context.Context) error
}

func (j Job) timeout() time.Duration {
	if j.Timeout > 0 {
		return j.Timeout
	}
	return timeouts.Long()
}

// JobStatus is a snapshot of one job's history since the runner was built.
type JobStatus struct {
	Name         string        `json:"name"`
	Interval     time.Duration `json:"interval"`
	Running      bool          `json:"running"`
	Runs         int           `json:"runs"`
	Failures     int           `json:"failures"`
	LastRun      time.Time     `json:"lastRun,omitempty"`
	LastDuration time.Duration `json:"lastDuration"`
	LastError    string        `json:"lastError,omitempty"`
}

// Runner executes registered jobs on their intervals until stopped.
type Runner struct {
	logger *zap.Logger
	jobs   []Job
	wg     sync.WaitGroup
	cancel context.CancelFunc
	now    func() time.Time

	mu     sync.Mutex
	status map[string]*JobStatus
}

// New returns an empty runner.
func New(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		logger: logger,
		now:    time.Now,
		status: make(map[string]*JobStatus),
	}
}

// Register adds job. Jobs must be registered before Start.
func (r *Runner) Register(job Job) {
	r.jobs = append(r.jobs, job)
	r.mu.Lock()
	r.status[job.Name] = &JobStatus{Name: job.Name, Interval: job.Interval}
	r.mu.Unlock()
}

// Names returns the registered job names in registration order.
func (r *Runner) Names() []string {
	names := make([]string, len(r.jobs))
	for i, j := range r.jobs {
		names[i] = j.Name
	}
	return names
}

// Status returns a copy of every job's status, sorted by name.
func (r *Runner) Status() []JobStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]JobStatus, 0, len(r.status))
	for _, s := range r.status {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Start launches one goroutine per job. Call Stop to end them.
func (r *Runner) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	for _, job := range r.jobs {
		r.wg.Add(1)
		go r.loop(ctx, job)
	}
	r.logger.Info("task runner started", zap.Int("jobs", len(r.jobs)))
}

// Stop cancels every job and waits for them to return. If ctx ends first
// the jobs still running are logged and ctx.Err() is returned.
func (r *Runner) Stop(ctx context.Context) error {
	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("task runner stopped")
		return nil
	case <-ctx.Done():
		r.logger.Warn("task runner stop timed out", zap.Strings("still_running", r.running()))
		return ctx.Err()
	}
}

func (r *Runner) running() []string {
	var names []string
	for _, s := range r.Status() {
		if s.Running {
			names = append(names, s.Name)
		}
	}
	return names
}

func (r *Runner) loop(ctx context.Context, job Job) {
	defer r.wg.Done()

	r.execute(ctx, job)

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.execute(ctx, job)
		}
	}
}

// execute runs job once under its timeout and records the outcome.
func (r *Runner) execute(ctx context.Context, job Job) error {
	r.mark(job.Name, func(s *JobStatus) { s.Running = true })

	start := r.now()
	runCtx, cancel := timeouts.WithTimeout(ctx, job.timeout(), r.logger, "job "+job.Name)
	err := job.Run(runCtx)
	cancel()
	elapsed := r.now().Sub(start)

	r.mark(job.Name, func(s *JobStatus) {
		s.Running = false
		s.Runs++
		s.LastRun = start
		s.LastDuration = elapsed
		s.LastError = ""
		if err != nil {
			s.Failures++
			s.LastError = err.Error()
		}
	})

	switch {
	case err == nil:
		r.logger.Debug("job done", zap.String("job", job.Name), zap.Duration("took", elapsed))
	case ctx.Err() != nil:
		r.logger.Debug("job cancelled", zap.String("job", job.Name), zap.Duration("took", elapsed))
	default:
		r.logger.Error("job failed", zap.String("job", job.Name), zap.Duration("took", elapsed), zap.Error(err))
	}
	return err
}

func (r *Runner) mark(name string, fn func(*JobStatus)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.status[name]
	if !ok {
		s = &JobStatus{Name: name}
		r.status[name] = s
	}
	fn(s)
}

// RunOnce runs the named job now, outside its schedule, and returns its
// error. The run counts toward the job's status.
func (r *Runner) RunOnce(ctx context.Context, name string) error {
	for _, job := range r.jobs {
		if job.Name == name {
			return r.execute(ctx, job)
		}
	}
	return ErrUnknownJob
}
