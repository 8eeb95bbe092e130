package jobs

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/appback/lottoguide-api/internal/observability"
	"github.com/appback/lottoguide-api/internal/platform/logger"
)

type entry struct {
	job        Job
	interval   time.Duration
	runOnStart bool
}

// Scheduler runs each job on its own interval until the context ends.
// A failing or panicking run is logged and the job keeps its schedule.
type Scheduler struct {
	log     *logger.Logger
	metrics *observability.Metrics
	entries []entry
}

func NewScheduler(log *logger.Logger, metrics *observability.Metrics) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{
		log:     log.With("component", "JobScheduler"),
		metrics: metrics,
	}
}

// Add registers job. With runOnStart the first run happens immediately instead of after one interval.
func (s *Scheduler) Add(job Job, interval time.Duration, runOnStart bool) {
	if job == nil || interval <= 0 {
		return
	}
	s.entries = append(s.entries, entry{job: job, interval: interval, runOnStart: runOnStart})
}

// Run blocks until ctx is done. It always returns nil once every loop has stopped.
func (s *Scheduler) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, e := range s.entries {
		e := e
		g.Go(func() error {
			s.loop(gctx, e)
			return nil
		})
	}
	s.log.Info("job scheduler started", "jobs", len(s.entries))
	err := g.Wait()
	s.log.Info("job scheduler stopped")
	return err
}

func (s *Scheduler) loop(ctx context.Context, e entry) {
	if e.runOnStart {
		s.runOnce(ctx, e.job)
	}
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx, e.job)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context, job Job) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	status := "ok"
	defer func() {
		if r := recover(); r != nil {
			status = "panic"
			s.log.Error("job panic", "job", job.Name(), "error", (&panicError{Val: r}).Error())
		}
		s.metrics.ObserveJob(job.Name(), status, time.Since(start))
	}()

	if err := job.Run(ctx); err != nil {
		status = "error"
		s.log.Warn("job failed", "job", job.Name(), "duration_ms", time.Since(start).Milliseconds(), "error", err)
		return
	}
	s.log.Debug("job finished", "job", job.Name(), "duration_ms", time.Since(start).Milliseconds())
}
