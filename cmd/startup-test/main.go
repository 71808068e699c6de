package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dreschagin/android-perf-monitor/internal/infrastructure/device"
	"github.com/dreschagin/android-perf-monitor/internal/infrastructure/report"
	"github.com/dreschagin/android-perf-monitor/internal/startup"
	"github.com/dreschagin/android-perf-monitor/pkg/config"
	"github.com/dreschagin/android-perf-monitor/pkg/logger"
)

func main() {
	iterations := flag.Int("n", 5, "number of launches per test type")
	testType := flag.String("type", "all", "test type: cold, warm or all")
	noSave := flag.Bool("no-save", false, "do not write the JSON report")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithOutput(os.Getenv("LOG_LEVEL"), os.Stderr)

	adbExecutor := device.NewAdbExecutor(cfg.Device.Serial, cfg.Device.CommandTimeout)

	tester, err := startup.NewTester(adbExecutor, cfg.Device.AppPackage, cfg.Device.Activity, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v (set APP_PACKAGE)\n", err)
		os.Exit(1)
	}

	// Тест длинный; Ctrl+C прерывает между итерациями.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	result := &startup.Report{
		Package:  cfg.Device.AppPackage,
		Activity: cfg.Device.Activity,
		TestTime: time.Now(),
	}

	switch *testType {
	case "cold":
		result.ColdStart = tester.MeasureCold(ctx, *iterations)
	case "warm":
		result.WarmStart = tester.MeasureWarm(ctx, *iterations)
	case "all":
		result = tester.RunFull(ctx, *iterations)
	default:
		fmt.Fprintf(os.Stderr, "Unknown test type: %s (expected cold, warm or all)\n", *testType)
		os.Exit(2)
	}

	printAnalysis(result.ColdStart)
	printAnalysis(result.WarmStart)

	if result.ColdStart == nil && result.WarmStart == nil {
		fmt.Fprintln(os.Stderr, "No successful launches recorded.")
		os.Exit(1)
	}

	if *noSave {
		return
	}

	reports, err := report.NewWriter(cfg.Storage.DataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open report directory: %v\n", err)
		os.Exit(1)
	}

	path, err := reports.Write("startup", result)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to save startup report: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nReport saved: %s\n", path)
}

func printAnalysis(a *startup.Analysis) {
	if a == nil {
		return
	}

	fmt.Printf("\n[%s start]\n", a.Type)
	fmt.Printf("  iterations: %d\n", a.Iterations)
	fmt.Printf("  avg: %d ms, min: %d ms, max: %d ms\n", a.AvgMS, a.MinMS, a.MaxMS)
	fmt.Printf("  grade: %s\n", a.Grade)
	fmt.Printf("  raw: %v\n", a.RawData)
}
