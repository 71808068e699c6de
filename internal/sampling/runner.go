// Package sampling реализует планировщик сессии: цикл сбора samples с
// фиксированным темпом и единственным писателем журнала.
package sampling

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/dreschagin/android-perf-monitor/internal/application/port"
	"github.com/dreschagin/android-perf-monitor/internal/domain/entity"
	"github.com/dreschagin/android-perf-monitor/internal/domain/repository"
	"github.com/dreschagin/android-perf-monitor/pkg/logger"
)

// Runner управляет одной сессией сбора. Отказ диагностики или любого из
// побочных потребителей (архив, события, live-лента) не прерывает сессию;
// фатален только отказ журнала.
type Runner struct {
	collector  SampleCollector
	seriesRepo repository.SeriesRepository
	archive    port.SampleArchive
	publisher  port.EventPublisher
	notifier   port.NotificationService
	interval   time.Duration
	limiter    *rate.Limiter
	log        *logger.Logger

	runMu sync.Mutex

	mu           sync.RWMutex
	state        State
	sessionID    string
	logPath      string
	startedAt    time.Time
	lastSampleAt time.Time
	sampleCount  int
	lastError    string
}

// NewRunner создает новый планировщик. archive, publisher и notifier
// опциональны: nil отключает соответствующий побочный канал.
func NewRunner(
	collector SampleCollector,
	seriesRepo repository.SeriesRepository,
	archive port.SampleArchive,
	publisher port.EventPublisher,
	notifier port.NotificationService,
	interval time.Duration,
	log *logger.Logger,
) *Runner {
	return &Runner{
		collector:  collector,
		seriesRepo: seriesRepo,
		archive:    archive,
		publisher:  publisher,
		notifier:   notifier,
		interval:   interval,
		limiter:    rate.NewLimiter(rate.Every(interval), 1),
		log:        log,
		state:      StateIdle,
	}
}

// Run выполняет сессию сбора до отмены контекста. Возвращает ошибку только
// при отказе журнала; штатная остановка возвращает nil.
func (r *Runner) Run(ctx context.Context) error {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	startedAt := time.Now()
	writer, err := r.seriesRepo.Create(startedAt)
	if err != nil {
		return fmt.Errorf("failed to create session log: %w", err)
	}

	sessionID := uuid.New().String()
	r.update(func() {
		r.state = StateRunning
		r.sessionID = sessionID
		r.logPath = writer.Path()
		r.startedAt = startedAt
		r.sampleCount = 0
		r.lastError = ""
	})

	r.log.Info("Sampling session started",
		"session_id", sessionID,
		"log", writer.Path(),
		"interval", r.interval.String(),
	)

	var runErr error
	for {
		// Отмена наблюдается только на границе итерации: начатый sample
		// дописывается, строка не обрывается
		if err := r.limiter.Wait(ctx); err != nil {
			break
		}

		sample := r.collector.Execute(ctx)

		if err := writer.Append(sample); err != nil {
			runErr = fmt.Errorf("failed to append sample: %w", err)
			r.update(func() { r.lastError = runErr.Error() })
			r.log.Error("Session log write failed, stopping session", err)
			break
		}

		r.update(func() {
			r.sampleCount++
			r.lastSampleAt = sample.Timestamp
		})

		r.fanOut(ctx, sessionID, sample)
	}

	r.update(func() { r.state = StateStopping })

	if err := writer.Close(); err != nil {
		r.log.Error("Failed to close session log", err)
		if runErr == nil {
			runErr = fmt.Errorf("failed to close session log: %w", err)
		}
	}

	r.update(func() { r.state = StateStopped })
	r.log.Info("Sampling session stopped",
		"session_id", sessionID,
		"samples", r.Snapshot().SampleCount,
	)

	return runErr
}

// fanOut раздает sample побочным потребителям. Их отказы только логируются.
func (r *Runner) fanOut(ctx context.Context, sessionID string, sample entity.Sample) {
	if r.archive != nil {
		if err := r.archive.Save(ctx, sessionID, sample); err != nil {
			r.log.Warn("Sample archive write failed", "error", err.Error())
		}
	}
	if r.publisher != nil {
		if err := r.publisher.PublishSample(ctx, sessionID, sample); err != nil {
			r.log.Warn("Sample publish failed", "error", err.Error())
		}
	}
	if r.notifier != nil {
		r.notifier.Broadcast(sessionID, sample)
	}
}

// Snapshot возвращает точечное состояние планировщика
func (r *Runner) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return Snapshot{
		State:        r.state,
		SessionID:    r.sessionID,
		LogPath:      r.logPath,
		Interval:     r.interval,
		StartedAt:    r.startedAt,
		LastSampleAt: r.lastSampleAt,
		SampleCount:  r.sampleCount,
		LastError:    r.lastError,
	}
}

func (r *Runner) update(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn()
}
