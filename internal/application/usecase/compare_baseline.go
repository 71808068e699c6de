package usecase

import (
	"fmt"
	"time"

	"github.com/dreschagin/android-perf-monitor/internal/domain/entity"
	"github.com/dreschagin/android-perf-monitor/internal/domain/repository"
	"github.com/dreschagin/android-perf-monitor/internal/domain/service"
	"github.com/dreschagin/android-perf-monitor/internal/domain/valueobject"
	"github.com/dreschagin/android-perf-monitor/pkg/logger"
)

// CategoryComparison — результат сравнения одной категории метрик
type CategoryComparison struct {
	Category valueobject.MetricCategory    `json:"category"`
	Rows     []service.DriftClassification `json:"rows"`
	Verdict  service.Verdict               `json:"verdict"`
	MeanDiff float64                       `json:"mean_diff_percent"`
	P90Diff  float64                       `json:"p90_diff_percent"`
}

// ComparisonReport — итог сравнения текущей серии с базовой линией
type ComparisonReport struct {
	BaselineName      string               `json:"baseline_name"`
	BaselineCreatedAt time.Time            `json:"baseline_created_at"`
	CurrentSource     string               `json:"current_source"`
	ComparedAt        time.Time            `json:"compared_at"`
	Categories        []CategoryComparison `json:"categories"`
	Verdict           service.Verdict      `json:"verdict"`
}

// CompareBaselineUseCase сравнивает последнюю записанную серию с именованной
// базовой линией. Категория сравнивается только когда присутствует и в
// линии, и в текущей серии; отсутствие с любой стороны — пропуск, не ноль.
type CompareBaselineUseCase struct {
	seriesRepo   repository.SeriesRepository
	baselineRepo repository.BaselineRepository
	summarizer   *service.Summarizer
	classifier   *service.DriftClassifier
	logger       *logger.Logger
}

// NewCompareBaselineUseCase создает новый use case
func NewCompareBaselineUseCase(
	seriesRepo repository.SeriesRepository,
	baselineRepo repository.BaselineRepository,
	summarizer *service.Summarizer,
	classifier *service.DriftClassifier,
	logger *logger.Logger,
) *CompareBaselineUseCase {
	return &CompareBaselineUseCase{
		seriesRepo:   seriesRepo,
		baselineRepo: baselineRepo,
		summarizer:   summarizer,
		classifier:   classifier,
		logger:       logger,
	}
}

// Execute выполняет сравнение с базовой линией
func (uc *CompareBaselineUseCase) Execute(baselineName string) (*ComparisonReport, error) {
	baseline, err := uc.baselineRepo.Get(baselineName)
	if err != nil {
		return nil, fmt.Errorf("failed to load baseline %s: %w", baselineName, err)
	}

	series, err := uc.seriesRepo.LoadLatest()
	if err != nil {
		return nil, fmt.Errorf("failed to load latest series: %w", err)
	}

	uc.logger.Info("Comparing with baseline",
		"baseline", baselineName,
		"current", series.SourceName(),
	)

	report := &ComparisonReport{
		BaselineName:      baseline.Name,
		BaselineCreatedAt: baseline.CreatedAt,
		CurrentSource:     series.SourceName(),
		ComparedAt:        time.Now(),
	}

	uc.compareCategory(report, valueobject.CPU, baseline.Metrics.CPU, series.Values(entity.PickAppCPU))
	uc.compareCategory(report, valueobject.Memory, baseline.Metrics.Memory, series.Values(entity.PickAppMem))

	report.Verdict = overallVerdict(report.Categories)
	return report, nil
}

// compareCategory добавляет сравнение категории, если она присутствует с
// обеих сторон
func (uc *CompareBaselineUseCase) compareCategory(
	report *ComparisonReport,
	category valueobject.MetricCategory,
	baseline *entity.MetricSummary,
	currentValues []float64,
) {
	if baseline == nil {
		return
	}
	current := uc.summarizer.Summarize(currentValues)
	if current == nil {
		return
	}

	verdict, meanDiff, p90Diff := uc.classifier.SessionVerdict(baseline, current)
	report.Categories = append(report.Categories, CategoryComparison{
		Category: category,
		Rows:     uc.classifier.CompareSummaries(baseline, current),
		Verdict:  verdict,
		MeanDiff: meanDiff,
		P90Diff:  p90Diff,
	})
}

// overallVerdict сводит вердикты категорий: любая регрессия перевешивает,
// затем любое улучшение, иначе стабильно
func overallVerdict(categories []CategoryComparison) service.Verdict {
	verdict := service.VerdictStable
	for _, category := range categories {
		switch category.Verdict {
		case service.VerdictRegression:
			return service.VerdictRegression
		case service.VerdictImprovement:
			verdict = service.VerdictImprovement
		}
	}
	return verdict
}
