package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dreschagin/android-perf-monitor/internal/application/usecase"
	"github.com/dreschagin/android-perf-monitor/internal/domain/entity"
	"github.com/dreschagin/android-perf-monitor/internal/domain/repository"
	"github.com/dreschagin/android-perf-monitor/internal/domain/service"
	"github.com/dreschagin/android-perf-monitor/internal/infrastructure/persistence/csvlog"
	"github.com/dreschagin/android-perf-monitor/internal/infrastructure/persistence/file"
	"github.com/dreschagin/android-perf-monitor/internal/infrastructure/report"
	"github.com/dreschagin/android-perf-monitor/pkg/config"
	"github.com/dreschagin/android-perf-monitor/pkg/logger"
)

const usageText = `Usage:
  perfbaseline create <name> [description]   create a baseline from the latest session
  perfbaseline list                          list stored baselines
  perfbaseline show <name>                   show baseline details
  perfbaseline compare <name>                compare the latest session with a baseline
  perfbaseline delete <name>                 delete a baseline
  perfbaseline analyze                       analyze the latest session
`

// app связывает хранилища и use cases под командный интерфейс
type app struct {
	baselineRepo repository.BaselineRepository
	createUC     *usecase.CreateBaselineUseCase
	compareUC    *usecase.CompareBaselineUseCase
	analyzeUC    *usecase.AnalyzeSeriesUseCase
	reports      *report.Writer
}

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usageText)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// CLI пишет результат в stdout; журнал use cases уводим с глаз.
	log := logger.NewWithOutput(os.Getenv("LOG_LEVEL"), os.Stderr)

	seriesRepo, err := csvlog.NewSeriesRepository(cfg.Storage.DataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open series storage: %v\n", err)
		os.Exit(1)
	}

	baselineRepo, err := file.NewBaselineRepository(cfg.Storage.BaselineDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open baseline storage: %v\n", err)
		os.Exit(1)
	}

	reports, err := report.NewWriter(cfg.Storage.DataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open report directory: %v\n", err)
		os.Exit(1)
	}

	summarizer := service.NewSummarizer()
	classifier := service.NewDriftClassifier()

	a := &app{
		baselineRepo: baselineRepo,
		createUC:     usecase.NewCreateBaselineUseCase(seriesRepo, baselineRepo, summarizer, log),
		compareUC:    usecase.NewCompareBaselineUseCase(seriesRepo, baselineRepo, summarizer, classifier, log),
		analyzeUC:    usecase.NewAnalyzeSeriesUseCase(seriesRepo, summarizer, log),
		reports:      reports,
	}

	if err := a.run(os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (a *app) run(command string, args []string) error {
	switch command {
	case "create":
		if len(args) < 1 {
			return errors.New("baseline name is required")
		}
		description := ""
		if len(args) > 1 {
			description = args[1]
		}
		return a.create(args[0], description)

	case "list":
		return a.list()

	case "show":
		if len(args) < 1 {
			return errors.New("baseline name is required")
		}
		return a.show(args[0])

	case "compare":
		if len(args) < 1 {
			return errors.New("baseline name is required")
		}
		return a.compare(args[0])

	case "delete":
		if len(args) < 1 {
			return errors.New("baseline name is required")
		}
		return a.delete(args[0])

	case "analyze":
		return a.analyze()

	default:
		fmt.Print(usageText)
		return fmt.Errorf("unknown command: %s", command)
	}
}

func (a *app) create(name, description string) error {
	baseline, err := a.createUC.Execute(name, description)
	if err != nil {
		return err
	}

	fmt.Printf("Baseline created: %s\n", baseline.Name)
	fmt.Printf("  source:      %s\n", baseline.SourceFile)
	fmt.Printf("  data points: %d\n", baseline.DataPoints)
	fmt.Printf("  duration:    %.1f min\n", baseline.DurationMinutes)
	if baseline.Metrics.CPU != nil {
		fmt.Printf("  cpu mean:    %.2f%%\n", baseline.Metrics.CPU.Mean)
	}
	if baseline.Metrics.Memory != nil {
		fmt.Printf("  mem mean:    %.2f MB\n", baseline.Metrics.Memory.Mean/1024)
	}
	if baseline.Metrics.Battery != nil {
		fmt.Printf("  battery:     %.2f%%/h drain\n", baseline.Metrics.Battery.DrainRatePerHour)
	}

	return nil
}

func (a *app) list() error {
	baselines, err := a.baselineRepo.List()
	if err != nil {
		return err
	}

	if len(baselines) == 0 {
		fmt.Println("No baselines stored.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCREATED\tPOINTS\tDESCRIPTION")
	for _, b := range baselines {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
			b.Name,
			b.CreatedAt.Format("2006-01-02 15:04"),
			b.DataPoints,
			b.Description,
		)
	}

	return w.Flush()
}

func (a *app) show(name string) error {
	baseline, err := a.baselineRepo.Get(name)
	if err != nil {
		if errors.Is(err, repository.ErrBaselineNotFound) {
			return fmt.Errorf("baseline not found: %s", name)
		}
		return err
	}

	fmt.Printf("Baseline: %s\n", baseline.Name)
	if baseline.Description != "" {
		fmt.Printf("  description: %s\n", baseline.Description)
	}
	fmt.Printf("  created:     %s\n", baseline.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("  source:      %s\n", baseline.SourceFile)
	fmt.Printf("  data points: %d\n", baseline.DataPoints)
	fmt.Printf("  duration:    %.1f min\n", baseline.DurationMinutes)

	if cpu := baseline.Metrics.CPU; cpu != nil {
		fmt.Println("\nCPU (%):")
		printSummary(cpu, 1, "%.2f")
	}
	if mem := baseline.Metrics.Memory; mem != nil {
		fmt.Println("\nMemory (MB):")
		printSummary(mem, 1024, "%.1f")
	}
	if bat := baseline.Metrics.Battery; bat != nil {
		fmt.Println("\nBattery:")
		fmt.Printf("  drain rate:  %.2f%%/h\n", bat.DrainRatePerHour)
		fmt.Printf("  mean level:  %.1f%%\n", bat.MeanLevel)
	}
	if temp := baseline.Metrics.Temperature; temp != nil {
		fmt.Println("\nTemperature (°C):")
		fmt.Printf("  mean: %.1f\n", temp.Mean)
		fmt.Printf("  max:  %.1f\n", temp.Max)
	}

	return nil
}

func printSummary(s *entity.MetricSummary, divisor float64, format string) {
	rows := []struct {
		label string
		value float64
	}{
		{"mean", s.Mean},
		{"median", s.Median},
		{"p90", s.P90},
		{"p95", s.P95},
		{"max", s.Max},
	}
	for _, row := range rows {
		fmt.Printf("  %-8s "+format+"\n", row.label+":", row.value/divisor)
	}
}

func (a *app) compare(name string) error {
	result, err := a.compareUC.Execute(name)
	if err != nil {
		if errors.Is(err, repository.ErrBaselineNotFound) {
			return fmt.Errorf("baseline not found: %s", name)
		}
		return err
	}

	fmt.Printf("Baseline: %s (%s)\n", result.BaselineName, result.BaselineCreatedAt.Format("2006-01-02"))
	fmt.Printf("Current:  %s\n", result.CurrentSource)

	for _, category := range result.Categories {
		fmt.Printf("\n[%s]\n", category.Category)
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "STAT\tBASELINE\tCURRENT\tDIFF\tDRIFT")
		for _, row := range category.Rows {
			fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%+.2f (%+.1f%%)\t%s\n",
				row.Statistic,
				row.BaselineValue,
				row.CurrentValue,
				row.AbsoluteDiff,
				row.PercentDiff,
				row.Category,
			)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("verdict: %s (mean %+.1f%%, p90 %+.1f%%)\n",
			category.Verdict, category.MeanDiff, category.P90Diff)
	}

	if len(result.Categories) == 0 {
		fmt.Println("\nNo comparable categories between baseline and current session.")
	}

	fmt.Printf("\nOverall: %s\n", result.Verdict)

	path, err := a.reports.Write("comparison", result)
	if err != nil {
		return fmt.Errorf("failed to save comparison report: %w", err)
	}
	fmt.Printf("Report saved: %s\n", path)

	return nil
}

func (a *app) delete(name string) error {
	if err := a.baselineRepo.Delete(name); err != nil {
		if errors.Is(err, repository.ErrBaselineNotFound) {
			return fmt.Errorf("baseline not found: %s", name)
		}
		return err
	}

	fmt.Printf("Baseline deleted: %s\n", name)
	return nil
}

func (a *app) analyze() error {
	result, err := a.analyzeUC.Execute()
	if err != nil {
		return err
	}

	fmt.Printf("Session: %s\n", result.Source)
	fmt.Printf("  data points: %d\n", result.DataPoints)
	fmt.Printf("  duration:    %.1f min\n", result.DurationMinutes)

	if cpu := result.CPU; cpu != nil {
		fmt.Println("\nCPU (%):")
		fmt.Printf("  mean %.2f, median %.2f, p90 %.2f, p95 %.2f, max %.2f\n",
			cpu.Mean, cpu.Median, cpu.P90, cpu.P95, cpu.Max)
		fmt.Printf("  grade: %s\n", cpu.Grade)
	}
	if mem := result.Memory; mem != nil {
		fmt.Println("\nMemory (MB):")
		fmt.Printf("  mean %.1f, median %.1f, p90 %.1f, min %.1f, max %.1f\n",
			mem.MeanMB, mem.MedianMB, mem.P90MB, mem.MinMB, mem.MaxMB)
		if mem.GrowthMBPerHour != nil {
			fmt.Printf("  growth: %+.2f MB/h\n", *mem.GrowthMBPerHour)
		}
		if mem.LeakWarning != "" {
			fmt.Printf("  warning: %s\n", mem.LeakWarning)
		}
		fmt.Printf("  grade: %s\n", mem.Grade)
	}
	if fl := result.Fluency; fl != nil {
		fmt.Println("\nFluency:")
		if fl.FPSMean != nil {
			fmt.Printf("  fps mean %.1f", *fl.FPSMean)
			if fl.FPSMin != nil {
				fmt.Printf(", min %.1f", *fl.FPSMin)
			}
			if fl.FPSP10 != nil {
				fmt.Printf(", p10 %.1f", *fl.FPSP10)
			}
			fmt.Println()
		}
		if fl.JankRateMean != nil {
			fmt.Printf("  jank rate mean %.2f%%", *fl.JankRateMean)
			if fl.JankRateMax != nil {
				fmt.Printf(", max %.2f%%", *fl.JankRateMax)
			}
			fmt.Println()
		}
		fmt.Printf("  grade: %s\n", fl.Grade)
	}

	path, err := a.reports.Write("report", result)
	if err != nil {
		return fmt.Errorf("failed to save analysis report: %w", err)
	}
	fmt.Printf("\nReport saved: %s\n", path)

	return nil
}
