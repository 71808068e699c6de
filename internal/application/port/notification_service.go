package port

import "github.com/dreschagin/android-perf-monitor/internal/domain/entity"

// NotificationService определяет интерфейс live-рассылки samples (Port).
// Потребитель — внешний dashboard; рассылка не должна блокировать планировщик.
type NotificationService interface {
	// Broadcast отправляет sample всем подключенным клиентам
	Broadcast(sessionID string, sample entity.Sample)

	// ClientCount возвращает количество подключенных клиентов
	ClientCount() int
}
