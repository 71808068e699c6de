package sampling

import (
	"context"
	"time"

	"github.com/dreschagin/android-perf-monitor/internal/domain/entity"
)

// State описывает фазу жизненного цикла планировщика
type State string

const (
	// StateIdle — планировщик создан, но сессия еще не запущена
	StateIdle State = "idle"

	// StateRunning — сессия идет, samples собираются
	StateRunning State = "running"

	// StateStopping — получен сигнал остановки, дописывается текущий sample
	StateStopping State = "stopping"

	// StateStopped — сессия завершена, журнал закрыт
	StateStopped State = "stopped"
)

// SampleCollector собирает один sample за вызов
type SampleCollector interface {
	Execute(ctx context.Context) entity.Sample
}

// Snapshot — точечное состояние планировщика для наблюдения извне
type Snapshot struct {
	State        State         `json:"state"`
	SessionID    string        `json:"session_id"`
	LogPath      string        `json:"log_path"`
	Interval     time.Duration `json:"interval"`
	StartedAt    time.Time     `json:"started_at"`
	LastSampleAt time.Time     `json:"last_sample_at"`
	SampleCount  int           `json:"sample_count"`
	LastError    string        `json:"last_error"`
}
