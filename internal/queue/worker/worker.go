package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/paisatrack/paisatrack/internal/domain/job"
	"github.com/paisatrack/paisatrack/internal/observability"
)

type JobsRepository interface {
	ClaimNext(ctx context.Context, workerID string) (job.Job, error)
	MarkDone(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, errMsg string) error
	Reschedule(ctx context.Context, id string, runAt time.Time, errMsg string) error
	RequeueStaleProcessing(ctx context.Context, lockTTL time.Duration) (int64, error)
}

// Executor runs one claimed job to completion.
type Executor interface {
	Execute(ctx context.Context, j job.Job) error
}

type Config struct {
	PollInterval  time.Duration
	WorkerID      string
	Concurrency   int
	LockTTL       time.Duration
	ShutdownGrace time.Duration
}

type Worker struct {
	cfg     Config
	repo    JobsRepository
	exec    Executor
	log     *slog.Logger
	metrics *observability.JobMetrics
	prom    *observability.Prom // nil disables the Prometheus job vectors

	readyMu sync.RWMutex
	ready   bool
}

func New(cfg Config, repo JobsRepository, exec Executor, log *slog.Logger, prom *observability.Prom) *Worker {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 200 * time.Millisecond
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 60 * time.Second
	}
	if cfg.ShutdownGrace <= 0 {
		cfg.ShutdownGrace = 10 * time.Second
	}

	return &Worker{
		cfg:     cfg,
		repo:    repo,
		exec:    exec,
		log:     log,
		metrics: observability.NewJobMetrics(),
		prom:    prom,
	}
}

func (w *Worker) Metrics() *observability.JobMetrics {
	return w.metrics
}

// Run claims and processes jobs until ctx is cancelled, then drains in-flight
// work within the shutdown grace period.
func (w *Worker) Run(ctx context.Context) error {
	w.setReady(true)

	var wg sync.WaitGroup

	for i := 0; i < w.cfg.Concurrency; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()
			w.loop(ctx)
		}()
	}

	// janitor: return stale processing jobs to pending
	wg.Add(1)

	go func() {
		defer wg.Done()
		w.janitor(ctx)
	}()

	<-ctx.Done()
	w.setReady(false)
	w.log.Info("worker shutting down")

	drained := make(chan struct{})

	go func() {
		wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		w.log.Info("worker drained")
	case <-time.After(w.cfg.ShutdownGrace):
		w.log.Error("worker shutdown grace elapsed with jobs in flight")
	}

	return nil
}

func (w *Worker) loop(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		processed, err := w.ProcessOne(ctx)

		if err != nil {
			w.log.Error("process job", "err", err)
		}

		if processed {
			// keep draining while there is work
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.cfg.PollInterval):
		}
	}
}

func (w *Worker) janitor(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.LockTTL)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := w.repo.RequeueStaleProcessing(ctx, w.cfg.LockTTL)

			if err != nil {
				if ctx.Err() == nil {
					w.log.Error("requeue stale jobs", "err", err)
				}
				continue
			}

			if n > 0 {
				w.log.Warn("requeued stale jobs", "count", n)
			}
		}
	}
}

func (w *Worker) setReady(ready bool) {
	w.readyMu.Lock()
	w.ready = ready
	w.readyMu.Unlock()
}
