package valueobject

import "errors"

// MetricCategory представляет категорию метрики (Value Object)
type MetricCategory string

const (
	CPU         MetricCategory = "cpu"
	Memory      MetricCategory = "memory"
	Battery     MetricCategory = "battery"
	Temperature MetricCategory = "temperature"
	Fluency     MetricCategory = "fluency"
)

// Validate проверяет валидность категории
func (mc MetricCategory) Validate() error {
	switch mc {
	case CPU, Memory, Battery, Temperature, Fluency:
		return nil
	default:
		return errors.New("invalid metric category")
	}
}

// String возвращает строковое представление категории
func (mc MetricCategory) String() string {
	return string(mc)
}

// HigherIsWorse сообщает, означает ли рост значения деградацию.
// Для CPU, памяти и jank рост — это регрессия; для FPS и уровня батареи наоборот.
func (mc MetricCategory) HigherIsWorse() bool {
	switch mc {
	case CPU, Memory, Temperature:
		return true
	default:
		return false
	}
}

// AllMetricCategories возвращает список всех допустимых категорий
func AllMetricCategories() []MetricCategory {
	return []MetricCategory{CPU, Memory, Battery, Temperature, Fluency}
}
