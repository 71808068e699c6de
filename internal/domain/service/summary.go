package service

import (
	"errors"
	"sort"

	"github.com/dreschagin/android-perf-monitor/internal/domain/entity"
)

// Summarizer вычисляет сводную статистику по закрытым сериям (Domain Service).
// Перцентили считаются с линейной интерполяцией между соседними значениями —
// от этого зависит совместимость с ранее сохранёнными базовыми линиями.
type Summarizer struct{}

// NewSummarizer создает новый Summarizer
func NewSummarizer() *Summarizer {
	return &Summarizer{}
}

// Mean вычисляет среднее значение
func (s *Summarizer) Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, errors.New("no values to aggregate")
	}

	var sum float64
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values)), nil
}

// Max находит максимальное значение
func (s *Summarizer) Max(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, errors.New("no values to aggregate")
	}

	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}

	return max, nil
}

// Min находит минимальное значение
func (s *Summarizer) Min(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, errors.New("no values to aggregate")
	}

	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}

	return min, nil
}

// Percentile вычисляет перцентиль (0-100) с линейной интерполяцией
func (s *Summarizer) Percentile(values []float64, percentile float64) (float64, error) {
	if len(values) == 0 {
		return 0, errors.New("no values to aggregate")
	}

	if percentile < 0 || percentile > 100 {
		return 0, errors.New("percentile must be between 0 and 100")
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0], nil
	}

	rank := float64(len(sorted)-1) * percentile / 100.0
	lo := int(rank)
	frac := rank - float64(lo)

	if lo+1 >= len(sorted) {
		return sorted[len(sorted)-1], nil
	}

	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo]), nil
}

// Median вычисляет медиану
func (s *Summarizer) Median(values []float64) (float64, error) {
	return s.Percentile(values, 50)
}

// Summarize строит MetricSummary по присутствующим значениям метрики.
// Возвращает nil, если значений нет: категория просто опускается из вывода.
func (s *Summarizer) Summarize(values []float64) *entity.MetricSummary {
	if len(values) == 0 {
		return nil
	}

	mean, _ := s.Mean(values)
	median, _ := s.Median(values)
	p90, _ := s.Percentile(values, 90)
	p95, _ := s.Percentile(values, 95)
	max, _ := s.Max(values)

	return &entity.MetricSummary{
		Mean:   mean,
		Median: median,
		P90:    p90,
		P95:    p95,
		Max:    max,
	}
}

// BatterySummary строит производную сводку батареи. Требует минимум два
// показания уровня и интервал серии больше 0.1 часа, иначе возвращает nil
// (недостаток данных — не ошибка).
func (s *Summarizer) BatterySummary(series *entity.Series) *entity.BatterySummary {
	levels := series.Values(entity.PickBatteryLevel)
	if len(levels) < 2 {
		return nil
	}

	hours := series.Duration().Hours()
	if hours <= 0.1 {
		return nil
	}

	mean, _ := s.Mean(levels)

	return &entity.BatterySummary{
		DrainRatePerHour: (levels[0] - levels[len(levels)-1]) / hours,
		MeanLevel:        mean,
	}
}

// TemperatureSummary строит сводку температуры батареи, nil если данных нет
func (s *Summarizer) TemperatureSummary(series *entity.Series) *entity.TemperatureSummary {
	temps := series.Values(entity.PickBatteryTemp)
	if len(temps) == 0 {
		return nil
	}

	mean, _ := s.Mean(temps)
	max, _ := s.Max(temps)

	return &entity.TemperatureSummary{
		Mean: mean,
		Max:  max,
	}
}
