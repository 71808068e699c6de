package entity

import (
	"time"

	"github.com/google/uuid"
)

// Series — упорядоченная append-only последовательность Sample одной сессии.
// Открыта пока планировщик дописывает в неё; закрытая Series — единственный
// корректный вход для создания базовой линии и сравнения.
type Series struct {
	id         string
	sourceName string
	samples    []Sample
}

// NewSeries создает пустую серию (Factory Method)
func NewSeries(sourceName string) *Series {
	return &Series{
		id:         uuid.New().String(),
		sourceName: sourceName,
		samples:    make([]Sample, 0),
	}
}

// ReconstructSeries восстанавливает серию из хранилища (для Repository)
func ReconstructSeries(sourceName string, samples []Sample) *Series {
	return &Series{
		id:         uuid.New().String(),
		sourceName: sourceName,
		samples:    samples,
	}
}

// ID возвращает идентификатор серии
func (s *Series) ID() string {
	return s.id
}

// SourceName возвращает имя файла-источника (идентичность сессии)
func (s *Series) SourceName() string {
	return s.sourceName
}

// Append добавляет sample в конец серии (порядок прибытия, без перестановок)
func (s *Series) Append(sample Sample) {
	s.samples = append(s.samples, sample)
}

// Samples возвращает samples в порядке добавления
func (s *Series) Samples() []Sample {
	return s.samples
}

// Len возвращает количество samples
func (s *Series) Len() int {
	return len(s.samples)
}

// Duration возвращает интервал между первым и последним sample
func (s *Series) Duration() time.Duration {
	if len(s.samples) < 2 {
		return 0
	}
	return s.samples[len(s.samples)-1].Timestamp.Sub(s.samples[0].Timestamp)
}

// Values собирает присутствующие значения одной метрики в порядке серии
func (s *Series) Values(pick func(Sample) *float64) []float64 {
	values := make([]float64, 0, len(s.samples))
	for _, sample := range s.samples {
		if v := pick(sample); v != nil {
			values = append(values, *v)
		}
	}
	return values
}

// Metric pickers для Values.

func PickAppCPU(s Sample) *float64 { return s.AppCPUPercent }

func PickTotalCPU(s Sample) *float64 { return s.TotalCPUPercent }

func PickAppMem(s Sample) *float64 {
	if s.AppMemKB == nil {
		return nil
	}
	v := float64(*s.AppMemKB)
	return &v
}

func PickBatteryLevel(s Sample) *float64 {
	if s.BatteryLevel == nil {
		return nil
	}
	v := float64(*s.BatteryLevel)
	return &v
}

func PickBatteryTemp(s Sample) *float64 { return s.BatteryTempC }

func PickFPS(s Sample) *float64 { return s.FPS }

func PickJankRate(s Sample) *float64 { return s.JankRatePercent }
