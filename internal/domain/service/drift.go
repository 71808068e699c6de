package service

import "github.com/dreschagin/android-perf-monitor/internal/domain/entity"

// DriftCategory классифицирует отклонение статистики от базовой линии
type DriftCategory string

const (
	DriftStable           DriftCategory = "stable"
	DriftRegression       DriftCategory = "regression"
	DriftMinorRegression  DriftCategory = "minor_regression"
	DriftImprovement      DriftCategory = "improvement"
	DriftMinorImprovement DriftCategory = "minor_improvement"
)

// Verdict — итоговая оценка категории на уровне сессии
type Verdict string

const (
	VerdictStable      Verdict = "stable"
	VerdictRegression  Verdict = "regression"
	VerdictImprovement Verdict = "improvement"
)

// DriftClassification — результат сравнения одной пары {метрика, статистика}.
// Производное значение, после вывода отчёта нигде не сохраняется.
type DriftClassification struct {
	Statistic     string        `json:"statistic"`
	BaselineValue float64       `json:"baseline_value"`
	CurrentValue  float64       `json:"current_value"`
	AbsoluteDiff  float64       `json:"absolute_diff"`
	PercentDiff   float64       `json:"percent_diff"`
	Category      DriftCategory `json:"category"`
}

// DriftClassifier сравнивает сводки текущей сессии с базовой линией.
// Пороги — контракт: они должны совпадать с теми, по которым создавались
// существующие базовые линии.
type DriftClassifier struct{}

// NewDriftClassifier создает новый DriftClassifier
func NewDriftClassifier() *DriftClassifier {
	return &DriftClassifier{}
}

// PercentDiff вычисляет относительное отклонение в процентах.
// Неположительная база определяет отклонение как 0, чтобы не делить на ноль.
func (c *DriftClassifier) PercentDiff(baseline, current float64) float64 {
	if baseline <= 0 {
		return 0
	}
	return (current - baseline) / baseline * 100
}

// Classify относит процентное отклонение к категории дрейфа.
// Каскад воспроизводится дословно, включая поведение на границах ±5.
func (c *DriftClassifier) Classify(percentDiff float64) DriftCategory {
	abs := percentDiff
	if abs < 0 {
		abs = -abs
	}

	switch {
	case abs < 5:
		return DriftStable
	case percentDiff > 15:
		return DriftRegression
	case percentDiff > 5:
		return DriftMinorRegression
	case percentDiff < -10:
		return DriftImprovement
	default:
		return DriftMinorImprovement
	}
}

// CompareSummaries классифицирует дрейф по статистикам mean/p90/p95/max.
// Медиана хранится в сводках, но в построчное сравнение не входит.
func (c *DriftClassifier) CompareSummaries(baseline, current *entity.MetricSummary) []DriftClassification {
	pairs := []struct {
		name     string
		baseline float64
		current  float64
	}{
		{"mean", baseline.Mean, current.Mean},
		{"p90", baseline.P90, current.P90},
		{"p95", baseline.P95, current.P95},
		{"max", baseline.Max, current.Max},
	}

	result := make([]DriftClassification, 0, len(pairs))
	for _, pair := range pairs {
		pd := c.PercentDiff(pair.baseline, pair.current)
		result = append(result, DriftClassification{
			Statistic:     pair.name,
			BaselineValue: pair.baseline,
			CurrentValue:  pair.current,
			AbsoluteDiff:  pair.current - pair.baseline,
			PercentDiff:   pd,
			Category:      c.Classify(pd),
		})
	}

	return result
}

// SessionVerdict — итоговая оценка категории: регрессия при дрейфе mean > 15%
// или p90 > 20%, улучшение при mean < −10%. Пороги грубее построчных и
// независимы от них.
func (c *DriftClassifier) SessionVerdict(baseline, current *entity.MetricSummary) (Verdict, float64, float64) {
	meanDiff := c.PercentDiff(baseline.Mean, current.Mean)
	p90Diff := c.PercentDiff(baseline.P90, current.P90)

	switch {
	case meanDiff > 15 || p90Diff > 20:
		return VerdictRegression, meanDiff, p90Diff
	case meanDiff < -10:
		return VerdictImprovement, meanDiff, p90Diff
	default:
		return VerdictStable, meanDiff, p90Diff
	}
}
