package port

import (
	"context"

	"github.com/dreschagin/android-perf-monitor/internal/domain/entity"
)

// SampleArchive определяет интерфейс внешнего архива samples (Port).
// Архив опционален: отказ архива никогда не прерывает сессию.
type SampleArchive interface {
	// Save сохраняет один sample сессии
	Save(ctx context.Context, sessionID string, sample entity.Sample) error

	// Close освобождает ресурсы архива
	Close() error
}

// EventPublisher определяет интерфейс публикации событий (Port)
// Реализация будет в Infrastructure слое
type EventPublisher interface {
	// PublishSample публикует собранный sample для внешних потребителей
	PublishSample(ctx context.Context, sessionID string, sample entity.Sample) error

	// Close закрывает соединение
	Close() error
}
