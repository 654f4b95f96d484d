package worker

import (
	"context"
	"errors"
	"time"

	"github.com/paisatrack/paisatrack/internal/domain/job"
)

// ProcessOne claims at most one job and runs it. Returns whether a job was
// claimed.
func (w *Worker) ProcessOne(ctx context.Context) (bool, error) {
	claimCtx, cancel := context.WithTimeout(ctx, 2*time.Second)

	j, err := w.repo.ClaimNext(claimCtx, w.cfg.WorkerID)
	cancel()

	if err != nil {
		if errors.Is(err, job.ErrJobNotFound) {
			return false, nil
		}

		return false, err
	}

	w.metrics.IncClaimed()

	if w.prom != nil {
		w.prom.JobsInFlight.Inc()
		defer w.prom.JobsInFlight.Dec()
	}

	// A claimed job runs to completion even when the poll loop's context is
	// cancelled mid-flight; the lock TTL bounds the execution instead.
	execCtx, cancelExec := context.WithTimeout(context.WithoutCancel(ctx), w.cfg.LockTTL)
	defer cancelExec()

	start := time.Now()

	err = w.exec.Execute(execCtx, j)
	elapsed := time.Since(start)
	w.metrics.ObserveDuration(elapsed)

	if err != nil {
		result := w.handleFailure(execCtx, j, err)
		w.observeJob(j.Type, result, elapsed)
		return true, nil
	}

	err = w.repo.MarkDone(execCtx, j.ID)

	if err != nil {
		_ = w.repo.MarkFailed(execCtx, j.ID, "mark_done_failed: "+err.Error())
		w.metrics.IncFailed()
		w.observeJob(j.Type, "failed", elapsed)
		return true, err
	}

	w.metrics.IncDone()
	w.observeJob(j.Type, "done", elapsed)
	w.log.Info("job done", "job_id", j.ID, "type", j.Type, "duration_ms", elapsed.Milliseconds())
	return true, nil
}

// handleFailure reschedules or permanently fails the job and returns the
// outcome label ("retry" or "failed").
func (w *Worker) handleFailure(ctx context.Context, j job.Job, execErr error) string {
	// attempts counts completed tries; the claimed run is attempts+1
	if j.Attempts+1 >= j.MaxAttempts {
		if err := w.repo.MarkFailed(ctx, j.ID, execErr.Error()); err != nil {
			w.log.Error("mark job failed", "job_id", j.ID, "err", err)
		}

		w.metrics.IncFailed()
		w.log.Error("job failed permanently", "job_id", j.ID, "type", j.Type, "attempts", j.Attempts+1, "err", execErr)
		return "failed"
	}

	runAt := time.Now().UTC().Add(ExponentialBackoff(j.Attempts))

	if err := w.repo.Reschedule(ctx, j.ID, runAt, execErr.Error()); err != nil {
		w.log.Error("reschedule job", "job_id", j.ID, "err", err)
		return "failed"
	}

	w.metrics.IncRetried()
	w.log.Warn("job retry scheduled", "job_id", j.ID, "type", j.Type, "attempt", j.Attempts+1, "run_at", runAt, "err", execErr)
	return "retry"
}

func (w *Worker) observeJob(jobType, result string, elapsed time.Duration) {
	if w.prom == nil {
		return
	}

	w.prom.JobResults.WithLabelValues(jobType, result).Inc()
	w.prom.JobDuration.WithLabelValues(jobType, result).Observe(elapsed.Seconds())
}
