package usecase

import (
	"fmt"
	"time"

	"github.com/dreschagin/android-perf-monitor/internal/domain/entity"
	"github.com/dreschagin/android-perf-monitor/internal/domain/repository"
	"github.com/dreschagin/android-perf-monitor/internal/domain/service"
	"github.com/dreschagin/android-perf-monitor/pkg/logger"
)

// CreateBaselineUseCase создает именованную базовую линию из последней
// записанной серии. Существующая линия с тем же именем перезаписывается.
type CreateBaselineUseCase struct {
	seriesRepo   repository.SeriesRepository
	baselineRepo repository.BaselineRepository
	summarizer   *service.Summarizer
	logger       *logger.Logger
}

// NewCreateBaselineUseCase создает новый use case
func NewCreateBaselineUseCase(
	seriesRepo repository.SeriesRepository,
	baselineRepo repository.BaselineRepository,
	summarizer *service.Summarizer,
	logger *logger.Logger,
) *CreateBaselineUseCase {
	return &CreateBaselineUseCase{
		seriesRepo:   seriesRepo,
		baselineRepo: baselineRepo,
		summarizer:   summarizer,
		logger:       logger,
	}
}

// Execute строит и сохраняет базовую линию
func (uc *CreateBaselineUseCase) Execute(name, description string) (*entity.Baseline, error) {
	if name == "" {
		return nil, fmt.Errorf("baseline name must not be empty")
	}

	series, err := uc.seriesRepo.LoadLatest()
	if err != nil {
		return nil, fmt.Errorf("failed to load latest series: %w", err)
	}
	if series.Len() == 0 {
		return nil, fmt.Errorf("series %s has no samples", series.SourceName())
	}

	uc.logger.Info("Creating baseline",
		"name", name,
		"source", series.SourceName(),
		"samples", series.Len(),
	)

	baseline := &entity.Baseline{
		Name:            name,
		Description:     description,
		CreatedAt:       time.Now(),
		SourceFile:      series.SourceName(),
		DataPoints:      series.Len(),
		DurationMinutes: series.Duration().Minutes(),
		Metrics: entity.BaselineMetrics{
			CPU:         uc.summarizer.Summarize(series.Values(entity.PickAppCPU)),
			Memory:      uc.summarizer.Summarize(series.Values(entity.PickAppMem)),
			Battery:     uc.summarizer.BatterySummary(series),
			Temperature: uc.summarizer.TemperatureSummary(series),
		},
	}

	sourcePath := uc.seriesRepo.Path(series.SourceName())
	if err := uc.baselineRepo.Save(baseline, sourcePath); err != nil {
		return nil, fmt.Errorf("failed to save baseline: %w", err)
	}

	uc.logger.Info("Baseline created", "name", name)
	return baseline, nil
}
