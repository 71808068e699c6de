package usecase

import (
	"fmt"
	"math"

	"github.com/dreschagin/android-perf-monitor/internal/domain/entity"
	"github.com/dreschagin/android-perf-monitor/internal/domain/repository"
	"github.com/dreschagin/android-perf-monitor/internal/domain/service"
	"github.com/dreschagin/android-perf-monitor/pkg/logger"
)

// Оценки категорий в отчёте анализа.
const (
	GradeExcellent = "excellent"
	GradeGood      = "good"
	GradeFair      = "fair"
	GradePoor      = "poor"
)

// Предупреждения о росте памяти.
const (
	LeakWarningSevere = "severe leak risk"
	LeakWarningSlight = "slight leak risk"
)

// CPUAnalysis — сводка CPU приложения за сессию
type CPUAnalysis struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
	P95    float64 `json:"p95"`
	Max    float64 `json:"max"`
	Grade  string  `json:"grade"`
}

// MemoryAnalysis — сводка памяти приложения за сессию (в мегабайтах)
type MemoryAnalysis struct {
	MeanMB          float64  `json:"mean_mb"`
	MedianMB        float64  `json:"median_mb"`
	P90MB           float64  `json:"p90_mb"`
	MaxMB           float64  `json:"max_mb"`
	MinMB           float64  `json:"min_mb"`
	GrowthMBPerHour *float64 `json:"growth_mb_per_hour,omitempty"`
	LeakWarning     string   `json:"leak_warning,omitempty"`
	Grade           string   `json:"grade"`
}

// FluencyAnalysis — сводка плавности отрисовки за сессию
type FluencyAnalysis struct {
	FPSMean      *float64 `json:"fps_mean,omitempty"`
	FPSMin       *float64 `json:"fps_min,omitempty"`
	FPSP10       *float64 `json:"fps_p10,omitempty"`
	JankRateMean *float64 `json:"jank_rate_mean,omitempty"`
	JankRateMax  *float64 `json:"jank_rate_max,omitempty"`
	Grade        string   `json:"grade"`
}

// AnalysisReport — итог анализа одной сессии. Отсутствующая в данных
// категория остаётся nil.
type AnalysisReport struct {
	Source          string           `json:"source"`
	DataPoints      int              `json:"data_points"`
	DurationMinutes float64          `json:"duration_minutes"`
	CPU             *CPUAnalysis     `json:"cpu"`
	Memory          *MemoryAnalysis  `json:"memory"`
	Fluency         *FluencyAnalysis `json:"fps"`
}

// AnalyzeSeriesUseCase строит отчёт по последней записанной серии: сводные
// статистики, оценки категорий и эвристика роста памяти.
type AnalyzeSeriesUseCase struct {
	seriesRepo repository.SeriesRepository
	summarizer *service.Summarizer
	logger     *logger.Logger
}

// NewAnalyzeSeriesUseCase создает новый use case
func NewAnalyzeSeriesUseCase(
	seriesRepo repository.SeriesRepository,
	summarizer *service.Summarizer,
	logger *logger.Logger,
) *AnalyzeSeriesUseCase {
	return &AnalyzeSeriesUseCase{
		seriesRepo: seriesRepo,
		summarizer: summarizer,
		logger:     logger,
	}
}

// Execute анализирует последнюю записанную серию
func (uc *AnalyzeSeriesUseCase) Execute() (*AnalysisReport, error) {
	series, err := uc.seriesRepo.LoadLatest()
	if err != nil {
		return nil, fmt.Errorf("failed to load latest series: %w", err)
	}
	if series.Len() == 0 {
		return nil, fmt.Errorf("series %s has no samples", series.SourceName())
	}

	uc.logger.Info("Analyzing series", "source", series.SourceName(), "samples", series.Len())

	return &AnalysisReport{
		Source:          series.SourceName(),
		DataPoints:      series.Len(),
		DurationMinutes: series.Duration().Minutes(),
		CPU:             uc.analyzeCPU(series),
		Memory:          uc.analyzeMemory(series),
		Fluency:         uc.analyzeFluency(series),
	}, nil
}

func (uc *AnalyzeSeriesUseCase) analyzeCPU(series *entity.Series) *CPUAnalysis {
	summary := uc.summarizer.Summarize(series.Values(entity.PickAppCPU))
	if summary == nil {
		return nil
	}

	analysis := &CPUAnalysis{
		Mean:   round(summary.Mean, 2),
		Median: round(summary.Median, 2),
		P90:    round(summary.P90, 2),
		P95:    round(summary.P95, 2),
		Max:    round(summary.Max, 2),
	}

	switch {
	case analysis.Mean < 15:
		analysis.Grade = GradeExcellent
	case analysis.Mean < 30:
		analysis.Grade = GradeGood
	case analysis.Mean < 50:
		analysis.Grade = GradeFair
	default:
		analysis.Grade = GradePoor
	}

	return analysis
}

func (uc *AnalyzeSeriesUseCase) analyzeMemory(series *entity.Series) *MemoryAnalysis {
	values := series.Values(entity.PickAppMem)
	if len(values) == 0 {
		return nil
	}

	// Статистика считается в мегабайтах
	mb := make([]float64, len(values))
	for i, v := range values {
		mb[i] = v / 1024
	}

	summary := uc.summarizer.Summarize(mb)
	min, _ := uc.summarizer.Min(mb)

	analysis := &MemoryAnalysis{
		MeanMB:   round(summary.Mean, 1),
		MedianMB: round(summary.Median, 1),
		P90MB:    round(summary.P90, 1),
		MaxMB:    round(summary.Max, 1),
		MinMB:    round(min, 1),
	}

	// Эвристика роста: средние первых и последних пяти показаний
	if len(mb) >= 10 {
		hours := series.Duration().Hours()
		if hours > 0 {
			head, _ := uc.summarizer.Mean(mb[:5])
			tail, _ := uc.summarizer.Mean(mb[len(mb)-5:])
			growth := round((tail-head)/hours, 2)
			analysis.GrowthMBPerHour = &growth

			switch {
			case growth > 30:
				analysis.LeakWarning = LeakWarningSevere
			case growth > 15:
				analysis.LeakWarning = LeakWarningSlight
			}
		}
	}

	switch {
	case analysis.MeanMB < 150:
		analysis.Grade = GradeExcellent
	case analysis.MeanMB < 250:
		analysis.Grade = GradeGood
	case analysis.MeanMB < 400:
		analysis.Grade = GradeFair
	default:
		analysis.Grade = GradePoor
	}

	return analysis
}

func (uc *AnalyzeSeriesUseCase) analyzeFluency(series *entity.Series) *FluencyAnalysis {
	analysis := &FluencyAnalysis{}

	fps := series.Values(entity.PickFPS)
	if len(fps) > 0 {
		mean, _ := uc.summarizer.Mean(fps)
		min, _ := uc.summarizer.Min(fps)
		p10, _ := uc.summarizer.Percentile(fps, 10)
		analysis.FPSMean = roundPtr(mean, 1)
		analysis.FPSMin = roundPtr(min, 1)
		analysis.FPSP10 = roundPtr(p10, 1)
	}

	jank := series.Values(entity.PickJankRate)
	if len(jank) > 0 {
		mean, _ := uc.summarizer.Mean(jank)
		max, _ := uc.summarizer.Max(jank)
		analysis.JankRateMean = roundPtr(mean, 2)
		analysis.JankRateMax = roundPtr(max, 2)
	}

	if analysis.FPSMean == nil && analysis.JankRateMean == nil {
		return nil
	}

	// Отсутствующая сторона считается идеальной и не ухудшает оценку
	fpsMean := 60.0
	if analysis.FPSMean != nil {
		fpsMean = *analysis.FPSMean
	}
	jankMean := 0.0
	if analysis.JankRateMean != nil {
		jankMean = *analysis.JankRateMean
	}

	switch {
	case fpsMean >= 55 && jankMean < 2:
		analysis.Grade = GradeExcellent
	case fpsMean >= 50 && jankMean < 5:
		analysis.Grade = GradeGood
	case fpsMean >= 45:
		analysis.Grade = GradeFair
	default:
		analysis.Grade = GradePoor
	}

	return analysis
}

func round(v float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}

func roundPtr(v float64, decimals int) *float64 {
	rounded := round(v, decimals)
	return &rounded
}
