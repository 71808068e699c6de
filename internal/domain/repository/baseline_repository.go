package repository

import (
	"errors"

	"github.com/dreschagin/android-perf-monitor/internal/domain/entity"
)

// ErrBaselineNotFound возвращается при обращении к несуществующей базовой линии
var ErrBaselineNotFound = errors.New("baseline not found")

// BaselineRepository определяет интерфейс хранилища базовых линий (Port).
// Хранилище — единственный владелец сохранённого представления; создание под
// существующим именем перезаписывает прежнюю линию целиком.
type BaselineRepository interface {
	// Save сохраняет базовую линию вместе с копией исходной серии
	Save(baseline *entity.Baseline, sourceSeriesPath string) error

	// Get загружает базовую линию по имени
	Get(name string) (*entity.Baseline, error)

	// List возвращает все базовые линии в стабильном порядке имен
	List() ([]*entity.Baseline, error)

	// Delete удаляет базовую линию и копию её серии
	Delete(name string) error

	// SeriesPath возвращает путь к сохранённой копии серии базовой линии
	SeriesPath(name string) string
}
