package sampling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dreschagin/android-perf-monitor/internal/domain/entity"
	"github.com/dreschagin/android-perf-monitor/internal/domain/repository"
	"github.com/dreschagin/android-perf-monitor/pkg/logger"
)

// fakeCollector выпускает samples и останавливает сессию после лимита
type fakeCollector struct {
	produced int
	limit    int
	cancel   context.CancelFunc
}

func (c *fakeCollector) Execute(context.Context) entity.Sample {
	c.produced++
	if c.produced >= c.limit && c.cancel != nil {
		c.cancel()
	}
	return entity.Sample{
		Timestamp:     time.Now(),
		AppCPUPercent: entity.Float64Ptr(float64(c.produced)),
	}
}

// memWriter пишет samples в память
type memWriter struct {
	samples   []entity.Sample
	closed    bool
	appendErr error
}

func (w *memWriter) Append(sample entity.Sample) error {
	if w.appendErr != nil {
		return w.appendErr
	}
	w.samples = append(w.samples, sample)
	return nil
}

func (w *memWriter) Close() error { w.closed = true; return nil }

func (w *memWriter) Path() string { return "/data/metrics_test.csv" }

type memSeriesRepo struct {
	writer    *memWriter
	createErr error
}

func (r *memSeriesRepo) Create(time.Time) (repository.SeriesWriter, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	return r.writer, nil
}

func (r *memSeriesRepo) Load(string) (*entity.Series, error) {
	return nil, repository.ErrNoSeries
}

func (r *memSeriesRepo) LoadLatest() (*entity.Series, error) {
	return nil, repository.ErrNoSeries
}

func (r *memSeriesRepo) ListSessions() ([]string, error) { return nil, nil }

func (r *memSeriesRepo) Path(name string) string { return "/data/" + name }

type countingNotifier struct {
	broadcasts int
}

func (n *countingNotifier) Broadcast(string, entity.Sample) { n.broadcasts++ }

func (n *countingNotifier) ClientCount() int { return 0 }

func TestRunnerCollectsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	collector := &fakeCollector{limit: 3, cancel: cancel}
	writer := &memWriter{}
	notifier := &countingNotifier{}
	runner := NewRunner(collector, &memSeriesRepo{writer: writer}, nil, nil, notifier, time.Millisecond, logger.Nop())

	if got := runner.Snapshot().State; got != StateIdle {
		t.Fatalf("initial state = %s, want idle", got)
	}

	if err := runner.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	snapshot := runner.Snapshot()
	if snapshot.State != StateStopped {
		t.Errorf("state = %s, want stopped", snapshot.State)
	}
	if snapshot.SampleCount != 3 {
		t.Errorf("sample count = %d, want 3", snapshot.SampleCount)
	}
	if snapshot.SessionID == "" {
		t.Error("session id must be set")
	}
	if snapshot.LastError != "" {
		t.Errorf("last error = %q, want empty", snapshot.LastError)
	}

	// Cancellation is observed at the loop boundary: the in-flight sample
	// is still committed before the log closes.
	if len(writer.samples) != 3 {
		t.Errorf("log has %d samples, want 3", len(writer.samples))
	}
	if !writer.closed {
		t.Error("session log must be closed on stop")
	}
	if notifier.broadcasts != 3 {
		t.Errorf("broadcasts = %d, want 3", notifier.broadcasts)
	}
}

func TestRunnerStorageFailureIsFatal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	collector := &fakeCollector{limit: 100, cancel: cancel}
	writer := &memWriter{appendErr: errors.New("disk full")}
	runner := NewRunner(collector, &memSeriesRepo{writer: writer}, nil, nil, nil, time.Millisecond, logger.Nop())

	err := runner.Run(ctx)
	if err == nil {
		t.Fatal("Run must fail when the log cannot be written")
	}

	snapshot := runner.Snapshot()
	if snapshot.State != StateStopped {
		t.Errorf("state = %s, want stopped", snapshot.State)
	}
	if snapshot.SampleCount != 0 {
		t.Errorf("sample count = %d, want 0", snapshot.SampleCount)
	}
	if snapshot.LastError == "" {
		t.Error("last error must record the storage failure")
	}
	if !writer.closed {
		t.Error("session log must still be closed")
	}
	// One collect attempt, then the append failure stops the loop.
	if collector.produced != 1 {
		t.Errorf("collector ran %d times, want 1", collector.produced)
	}
}

func TestRunnerCreateFailureIsFatal(t *testing.T) {
	runner := NewRunner(
		&fakeCollector{limit: 1},
		&memSeriesRepo{createErr: errors.New("permission denied")},
		nil, nil, nil,
		time.Millisecond,
		logger.Nop(),
	)

	if err := runner.Run(context.Background()); err == nil {
		t.Fatal("Run must fail when the log cannot be created")
	}
	if got := runner.Snapshot().State; got != StateIdle {
		t.Errorf("state = %s, want idle after failed start", got)
	}
}
