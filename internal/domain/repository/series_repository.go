package repository

import (
	"errors"
	"time"

	"github.com/dreschagin/android-perf-monitor/internal/domain/entity"
)

// ErrNoSeries возвращается, когда в хранилище нет ни одной записанной сессии
var ErrNoSeries = errors.New("no recorded series found")

// SeriesWriter — журнал открытой сессии. Единственный писатель — планировщик;
// каждый Append записывает одну полную строку и сразу сбрасывает её на диск,
// так что при сбое теряется не больше одного sample.
type SeriesWriter interface {
	// Append дописывает sample в конец журнала и сбрасывает буфер
	Append(sample entity.Sample) error

	// Close закрывает журнал; после Close серия считается закрытой
	Close() error

	// Path возвращает путь к файлу журнала
	Path() string
}

// SeriesRepository определяет интерфейс хранилища серий (Port)
// Реализация будет в Infrastructure слое
type SeriesRepository interface {
	// Create создает журнал новой сессии с заголовком
	Create(startedAt time.Time) (SeriesWriter, error)

	// Load загружает записанную серию по имени файла
	Load(name string) (*entity.Series, error)

	// LoadLatest загружает последнюю записанную серию
	LoadLatest() (*entity.Series, error)

	// ListSessions возвращает имена файлов сессий в стабильном порядке
	ListSessions() ([]string, error)

	// Path возвращает путь к файлу журнала сессии
	Path(name string) string
}
