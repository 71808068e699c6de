// Package startup измеряет время запуска приложения: холодный старт
// (процесс убит) и тёплый старт (возврат из фона).
package startup

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dreschagin/android-perf-monitor/internal/application/port"
	"github.com/dreschagin/android-perf-monitor/pkg/logger"
)

// Kind — разновидность теста запуска
type Kind string

const (
	ColdStart Kind = "cold"
	WarmStart Kind = "warm"
)

// Оценки результата теста.
const (
	GradeExcellent = "excellent"
	GradeGood      = "good"
	GradeFair      = "fair"
	GradePoor      = "poor"
)

// startResult — распарсенный вывод am start -W
type startResult struct {
	ThisTime  *int
	TotalTime *int
	WaitTime  *int
}

// Analysis — итог серии измерений одного типа запуска
type Analysis struct {
	Type       Kind   `json:"type"`
	Iterations int    `json:"iterations"`
	AvgMS      int    `json:"avg_ms"`
	MinMS      int    `json:"min_ms"`
	MaxMS      int    `json:"max_ms"`
	Grade      string `json:"grade"`
	RawData    []int  `json:"raw_data"`
}

// Report — полный отчёт теста запуска
type Report struct {
	Package   string    `json:"package"`
	Activity  string    `json:"activity"`
	TestTime  time.Time `json:"test_time"`
	ColdStart *Analysis `json:"cold_start"`
	WarmStart *Analysis `json:"warm_start"`
}

// Tester выполняет измерения времени запуска через устройство
type Tester struct {
	device   port.DeviceExecutor
	pkg      string
	activity string
	log      *logger.Logger

	// sleep подменяется в тестах
	sleep func(time.Duration)
}

// NewTester создает новый startup tester. activity по умолчанию
// ".MainActivity".
func NewTester(device port.DeviceExecutor, pkg, activity string, log *logger.Logger) (*Tester, error) {
	if pkg == "" {
		return nil, fmt.Errorf("application package must be set")
	}
	if activity == "" {
		activity = ".MainActivity"
	}
	return &Tester{
		device:   device,
		pkg:      pkg,
		activity: activity,
		log:      log,
		sleep:    time.Sleep,
	}, nil
}

// MeasureCold измеряет холодный старт: перед каждой итерацией процесс
// принудительно останавливается
func (t *Tester) MeasureCold(ctx context.Context, iterations int) *Analysis {
	t.log.Info("Measuring cold start", "package", t.pkg, "iterations", iterations)

	var times []int
	for i := 0; i < iterations; i++ {
		if ctx.Err() != nil {
			break
		}
		t.device.Shell(ctx, "am", "force-stop", t.pkg)
		t.sleep(2 * time.Second)

		result := parseStartOutput(t.device.Shell(ctx, "am", "start", "-W", "-n", t.component()))
		if result.TotalTime != nil {
			times = append(times, *result.TotalTime)
			t.log.Info("Cold start iteration", "n", i+1, "total_ms", *result.TotalTime)
		} else {
			t.log.Warn("Cold start iteration failed", "n", i+1)
		}

		t.sleep(2 * time.Second)
	}

	return analyze(times, ColdStart)
}

// MeasureWarm измеряет тёплый старт: процесс жив, приложение поднимается
// из фона после нажатия Home
func (t *Tester) MeasureWarm(ctx context.Context, iterations int) *Analysis {
	t.log.Info("Measuring warm start", "package", t.pkg, "iterations", iterations)

	// Прогрев: приложение должно быть запущено
	t.device.Shell(ctx, "am", "start", "-n", t.component())
	t.sleep(3 * time.Second)

	var times []int
	for i := 0; i < iterations; i++ {
		if ctx.Err() != nil {
			break
		}
		t.device.Shell(ctx, "input", "keyevent", "3")
		t.sleep(time.Second)

		result := parseStartOutput(t.device.Shell(ctx, "am", "start", "-W", "-n", t.component()))
		if result.TotalTime != nil {
			times = append(times, *result.TotalTime)
			t.log.Info("Warm start iteration", "n", i+1, "total_ms", *result.TotalTime)
		} else {
			t.log.Warn("Warm start iteration failed", "n", i+1)
		}

		t.sleep(time.Second)
	}

	return analyze(times, WarmStart)
}

// RunFull выполняет холодный и тёплый тесты и собирает отчёт
func (t *Tester) RunFull(ctx context.Context, iterations int) *Report {
	return &Report{
		Package:   t.pkg,
		Activity:  t.activity,
		TestTime:  time.Now(),
		ColdStart: t.MeasureCold(ctx, iterations),
		WarmStart: t.MeasureWarm(ctx, iterations),
	}
}

func (t *Tester) component() string {
	return t.pkg + "/" + t.activity
}

// parseStartOutput извлекает тайминги из вывода am start -W. Нечитаемая
// строка пропускается.
func parseStartOutput(text string) startResult {
	var result startResult

	for _, line := range strings.Split(text, "\n") {
		switch {
		case strings.Contains(line, "ThisTime:"):
			result.ThisTime = startTime(line)
		case strings.Contains(line, "TotalTime:"):
			result.TotalTime = startTime(line)
		case strings.Contains(line, "WaitTime:"):
			result.WaitTime = startTime(line)
		}
	}

	return result
}

func startTime(line string) *int {
	parts := strings.SplitN(line, ":", 2)
	if len(parts) != 2 {
		return nil
	}
	value, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil
	}
	return &value
}

// analyze строит сводку измерений; nil при полном отсутствии результатов
func analyze(times []int, kind Kind) *Analysis {
	if len(times) == 0 {
		return nil
	}

	sum, min, max := 0, times[0], times[0]
	for _, v := range times {
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	avg := float64(sum) / float64(len(times))

	return &Analysis{
		Type:       kind,
		Iterations: len(times),
		AvgMS:      int(math.Round(avg)),
		MinMS:      min,
		MaxMS:      max,
		Grade:      grade(avg, kind),
		RawData:    times,
	}
}

// grade оценивает средний результат по порогам типа запуска
func grade(avgMS float64, kind Kind) string {
	thresholds := []struct {
		limit float64
		grade string
	}{
		{1500, GradeExcellent},
		{2500, GradeGood},
		{4000, GradeFair},
	}
	if kind == WarmStart {
		thresholds[0].limit = 800
		thresholds[1].limit = 1500
		thresholds[2].limit = 2500
	}

	for _, t := range thresholds {
		if avgMS < t.limit {
			return t.grade
		}
	}
	return GradePoor
}
