package worker

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/paisatrack/paisatrack/internal/domain/job"
	"github.com/paisatrack/paisatrack/internal/observability"
)

type fakeJobsRepo struct {
	queue []job.Job

	done        []string
	failed      map[string]string
	rescheduled map[string]time.Time
}

func newFakeJobsRepo(jobsToServe ...job.Job) *fakeJobsRepo {
	return &fakeJobsRepo{
		queue:       jobsToServe,
		failed:      make(map[string]string),
		rescheduled: make(map[string]time.Time),
	}
}

func (f *fakeJobsRepo) ClaimNext(ctx context.Context, workerID string) (job.Job, error) {
	if len(f.queue) == 0 {
		return job.Job{}, job.ErrJobNotFound
	}

	j := f.queue[0]
	f.queue = f.queue[1:]

	return j, nil
}

func (f *fakeJobsRepo) MarkDone(ctx context.Context, id string) error {
	f.done = append(f.done, id)
	return nil
}

func (f *fakeJobsRepo) MarkFailed(ctx context.Context, id string, errMsg string) error {
	f.failed[id] = errMsg
	return nil
}

func (f *fakeJobsRepo) Reschedule(ctx context.Context, id string, runAt time.Time, errMsg string) error {
	f.rescheduled[id] = runAt
	return nil
}

func (f *fakeJobsRepo) RequeueStaleProcessing(ctx context.Context, lockTTL time.Duration) (int64, error) {
	return 0, nil
}

type fakeExecutor struct {
	err   error
	calls int
	fn    func(ctx context.Context) error
}

func (e *fakeExecutor) Execute(ctx context.Context, j job.Job) error {
	e.calls++

	if e.fn != nil {
		return e.fn(ctx)
	}

	return e.err
}

func testLogger() *slog.Logger {
	return slog.Default()
}

func TestProcessOne_EmptyQueue(t *testing.T) {
	repo := newFakeJobsRepo()
	w := New(Config{WorkerID: "w1"}, repo, &fakeExecutor{}, testLogger(), nil)

	claimed, err := w.ProcessOne(context.Background())
	if err != nil {
		t.Fatalf("ProcessOne error: %v", err)
	}

	if claimed {
		t.Fatalf("claimed = true on an empty queue")
	}
}

func TestProcessOne_Success(t *testing.T) {
	j := job.Job{ID: "j1", Type: "welcome.notification", Attempts: 0, MaxAttempts: 5}
	repo := newFakeJobsRepo(j)
	exec := &fakeExecutor{}

	w := New(Config{WorkerID: "w1"}, repo, exec, testLogger(), nil)

	claimed, err := w.ProcessOne(context.Background())
	if err != nil {
		t.Fatalf("ProcessOne error: %v", err)
	}

	if !claimed {
		t.Fatalf("expected a claim")
	}

	if exec.calls != 1 {
		t.Fatalf("executor calls = %d, want 1", exec.calls)
	}

	if len(repo.done) != 1 || repo.done[0] != "j1" {
		t.Fatalf("done = %v, want [j1]", repo.done)
	}

	snap := w.Metrics().Snapshot()

	if snap.Done != 1 || snap.Claimed != 1 {
		t.Fatalf("metrics snapshot = %+v", snap)
	}
}

func TestProcessOne_FailureReschedulesWithBackoff(t *testing.T) {
	j := job.Job{ID: "j1", Type: "welcome.notification", Attempts: 1, MaxAttempts: 5}
	repo := newFakeJobsRepo(j)
	exec := &fakeExecutor{err: errors.New("provider down")}

	w := New(Config{WorkerID: "w1"}, repo, exec, testLogger(), nil)

	if _, err := w.ProcessOne(context.Background()); err != nil {
		t.Fatalf("ProcessOne error: %v", err)
	}

	runAt, ok := repo.rescheduled["j1"]
	if !ok {
		t.Fatalf("job was not rescheduled: failed=%v done=%v", repo.failed, repo.done)
	}

	// attempts=1 => at least 4s of backoff
	if until := time.Until(runAt); until < 3*time.Second {
		t.Fatalf("reschedule too soon: %s", until)
	}

	if w.Metrics().Snapshot().Retried != 1 {
		t.Fatalf("expected a retry in metrics")
	}
}

func TestProcessOne_ExhaustedAttemptsMarksFailed(t *testing.T) {
	j := job.Job{ID: "j1", Type: "welcome.notification", Attempts: 4, MaxAttempts: 5}
	repo := newFakeJobsRepo(j)
	exec := &fakeExecutor{err: errors.New("provider down")}

	w := New(Config{WorkerID: "w1"}, repo, exec, testLogger(), nil)

	if _, err := w.ProcessOne(context.Background()); err != nil {
		t.Fatalf("ProcessOne error: %v", err)
	}

	if _, ok := repo.failed["j1"]; !ok {
		t.Fatalf("job should be failed permanently: rescheduled=%v", repo.rescheduled)
	}

	if len(repo.rescheduled) != 0 {
		t.Fatalf("exhausted job must not be rescheduled")
	}
}

func TestProcessOne_RecordsPrometheusJobVectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	done := job.Job{ID: "j1", Type: "welcome.notification", Attempts: 0, MaxAttempts: 5}
	repo := newFakeJobsRepo(done)

	w := New(Config{WorkerID: "w1"}, repo, &fakeExecutor{}, testLogger(), prom)

	if _, err := w.ProcessOne(context.Background()); err != nil {
		t.Fatalf("ProcessOne error: %v", err)
	}

	if got := testutil.ToFloat64(prom.JobResults.WithLabelValues("welcome.notification", "done")); got != 1 {
		t.Fatalf("done counter = %v, want 1", got)
	}

	// a failing run with attempts left lands in the retry bucket
	retry := job.Job{ID: "j2", Type: "large_txn.alert", Attempts: 0, MaxAttempts: 5}
	repo.queue = append(repo.queue, retry)

	wFail := New(Config{WorkerID: "w1"}, repo, &fakeExecutor{err: errors.New("provider down")}, testLogger(), prom)

	if _, err := wFail.ProcessOne(context.Background()); err != nil {
		t.Fatalf("ProcessOne error: %v", err)
	}

	if got := testutil.ToFloat64(prom.JobResults.WithLabelValues("large_txn.alert", "retry")); got != 1 {
		t.Fatalf("retry counter = %v, want 1", got)
	}

	if got := testutil.ToFloat64(prom.JobsInFlight); got != 0 {
		t.Fatalf("in-flight gauge = %v, want 0 after processing", got)
	}
}

func TestProcessOne_FinishesInFlightJobAfterCancel(t *testing.T) {
	j := job.Job{ID: "j1", Type: "welcome.notification", Attempts: 0, MaxAttempts: 5}
	repo := newFakeJobsRepo(j)

	ctx, cancel := context.WithCancel(context.Background())

	// shutdown arrives while the job is executing; the execution context
	// must survive it so the job can complete and be marked done
	exec := &fakeExecutor{fn: func(execCtx context.Context) error {
		cancel()
		return execCtx.Err()
	}}

	w := New(Config{WorkerID: "w1"}, repo, exec, testLogger(), nil)

	claimed, err := w.ProcessOne(ctx)
	if err != nil {
		t.Fatalf("ProcessOne error: %v", err)
	}

	if !claimed {
		t.Fatalf("expected a claim")
	}

	if len(repo.done) != 1 || repo.done[0] != "j1" {
		t.Fatalf("in-flight job not completed after cancel: done=%v failed=%v rescheduled=%v",
			repo.done, repo.failed, repo.rescheduled)
	}
}
