package usecase

import (
	"context"
	"math"
	"time"

	"github.com/dreschagin/android-perf-monitor/internal/application/port"
	"github.com/dreschagin/android-perf-monitor/internal/domain/entity"
	"github.com/dreschagin/android-perf-monitor/internal/infrastructure/parser"
	"github.com/dreschagin/android-perf-monitor/pkg/logger"
)

// CollectSampleUseCase собирает один Sample: выполняет диагностические
// команды на устройстве и прогоняет их вывод через парсеры. Отказ любой
// команды или парсера деградирует только своё поле; Sample создаётся всегда.
type CollectSampleUseCase struct {
	device     port.DeviceExecutor
	appPackage string
	logger     *logger.Logger
}

// NewCollectSampleUseCase создает новый use case. Пустой appPackage отключает
// per-app метрики (CPU приложения, PSS, кадры).
func NewCollectSampleUseCase(
	device port.DeviceExecutor,
	appPackage string,
	logger *logger.Logger,
) *CollectSampleUseCase {
	return &CollectSampleUseCase{
		device:     device,
		appPackage: appPackage,
		logger:     logger,
	}
}

// Execute выполняет сбор одного sample
func (uc *CollectSampleUseCase) Execute(ctx context.Context) entity.Sample {
	sample := entity.Sample{
		Timestamp: time.Now().Truncate(time.Second),
	}

	// 1. CPU: top — основной источник per-app значения, dumpsys cpuinfo —
	// основной источник агрегата и запасной для per-app
	topOutput := uc.device.Shell(ctx, "top", "-n", "1", "-b")
	cpuinfo := uc.device.Shell(ctx, "dumpsys", "cpuinfo")

	sample.TotalCPUPercent = parser.TotalCPU(cpuinfo, topOutput)
	if uc.appPackage != "" {
		sample.AppCPUPercent = parser.AppCPUFromTop(topOutput, uc.appPackage)
		if sample.AppCPUPercent == nil {
			sample.AppCPUPercent = parser.AppCPUFromCpuinfo(cpuinfo, uc.appPackage)
		}
	}

	// 2. Память: системная и PSS приложения
	meminfo := uc.device.Shell(ctx, "cat", "/proc/meminfo")
	systemMem := parser.SystemMemoryInfo(meminfo)
	sample.MemTotalKB = systemMem.TotalKB
	sample.MemAvailableKB = systemMem.AvailableKB
	sample.MemUsedPercent = systemMem.UsedPercent

	if uc.appPackage != "" {
		appMeminfo := uc.device.Shell(ctx, "dumpsys", "meminfo", uc.appPackage)
		sample.AppMemKB = parser.AppMemPSS(appMeminfo)
	}

	// 3. Батарея
	battery := parser.Battery(uc.device.Shell(ctx, "dumpsys", "battery"))
	sample.BatteryLevel = battery.Level
	sample.BatteryTempC = battery.TempC

	// 4. Кадры: счетчики и FPS из одного дампа gfxinfo
	if uc.appPackage != "" {
		gfxinfo := uc.device.Shell(ctx, "dumpsys", "gfxinfo", uc.appPackage, "framestats")

		frames := parser.FrameStats(gfxinfo)
		sample.TotalFrames = frames.TotalFrames
		sample.JankyFrames = frames.JankyFrames
		sample.JankRatePercent = roundTo(frames.JankRate, 2)
		sample.FPS = roundTo(parser.FPSFromFrameStats(gfxinfo), 1)
	}

	uc.logger.Debug("Sample collected",
		"app_cpu_present", sample.AppCPUPercent != nil,
		"app_mem_present", sample.AppMemKB != nil,
		"fps_present", sample.FPS != nil,
	)

	return sample
}

// roundTo округляет присутствующее значение до decimals знаков
func roundTo(v *float64, decimals int) *float64 {
	if v == nil {
		return nil
	}
	factor := math.Pow(10, float64(decimals))
	rounded := math.Round(*v*factor) / factor
	return &rounded
}
