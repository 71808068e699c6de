package csvlog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dreschagin/android-perf-monitor/internal/domain/entity"
	"github.com/dreschagin/android-perf-monitor/internal/domain/repository"
)

func TestSeriesRoundTrip(t *testing.T) {
	repo, err := NewSeriesRepository(t.TempDir())
	if err != nil {
		t.Fatalf("NewSeriesRepository: %v", err)
	}

	startedAt := time.Date(2026, 8, 1, 12, 30, 5, 0, time.UTC)
	writer, err := repo.Create(startedAt)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	first := entity.Sample{
		Timestamp:       startedAt,
		AppCPUPercent:   entity.Float64Ptr(37.5),
		AppMemKB:        entity.Int64Ptr(184377),
		BatteryLevel:    entity.IntPtr(87),
		BatteryTempC:    entity.Float64Ptr(31.2),
		FPS:             entity.Float64Ptr(59.4),
		TotalFrames:     entity.IntPtr(120),
		JankyFrames:     entity.IntPtr(3),
		JankRatePercent: entity.Float64Ptr(2.5),
	}
	// Second sample degrades to timestamp only.
	second := entity.Sample{Timestamp: startedAt.Add(time.Second)}

	if err := writer.Append(first); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := writer.Append(second); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	wantName := "metrics_20260801_123005.csv"
	if got := filepath.Base(writer.Path()); got != wantName {
		t.Fatalf("log file name = %s, want %s", got, wantName)
	}

	series, err := repo.Load(wantName)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if series.Len() != 2 {
		t.Fatalf("series has %d samples, want 2", series.Len())
	}

	got := series.Samples()[0]
	if !got.Timestamp.Equal(first.Timestamp) {
		t.Errorf("timestamp = %v, want %v", got.Timestamp, first.Timestamp)
	}
	if got.AppCPUPercent == nil || *got.AppCPUPercent != 37.5 {
		t.Errorf("app cpu = %v, want 37.5", got.AppCPUPercent)
	}
	if got.AppMemKB == nil || *got.AppMemKB != 184377 {
		t.Errorf("app mem = %v, want 184377", got.AppMemKB)
	}
	if got.TotalCPUPercent != nil {
		t.Errorf("total cpu = %v, want absent", *got.TotalCPUPercent)
	}

	degraded := series.Samples()[1]
	if degraded.AppCPUPercent != nil || degraded.BatteryLevel != nil || degraded.FPS != nil {
		t.Errorf("degraded sample should have only a timestamp: %+v", degraded)
	}
}

func TestLoadDiscardsMalformedTrailingRow(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewSeriesRepository(dir)
	if err != nil {
		t.Fatalf("NewSeriesRepository: %v", err)
	}

	startedAt := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	writer, err := repo.Create(startedAt)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := writer.Append(entity.Sample{Timestamp: startedAt}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Simulate a crash mid-write: a truncated row without a valid timestamp.
	f, err := os.OpenFile(writer.Path(), os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	if _, err := f.WriteString("garbage,12\n"); err != nil {
		t.Fatalf("write garbage: %v", err)
	}
	f.Close()

	series, err := repo.Load(filepath.Base(writer.Path()))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if series.Len() != 1 {
		t.Fatalf("series has %d samples, want 1", series.Len())
	}
}

func TestLoadLatestAndListSessions(t *testing.T) {
	repo, err := NewSeriesRepository(t.TempDir())
	if err != nil {
		t.Fatalf("NewSeriesRepository: %v", err)
	}

	if _, err := repo.LoadLatest(); !errors.Is(err, repository.ErrNoSeries) {
		t.Fatalf("LoadLatest on empty dir: %v, want ErrNoSeries", err)
	}

	times := []time.Time{
		time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 1, 11, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
	}
	for _, ts := range times {
		writer, err := repo.Create(ts)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if err := writer.Append(entity.Sample{Timestamp: ts}); err != nil {
			t.Fatalf("Append: %v", err)
		}
		if err := writer.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}

	names, err := repo.ListSessions()
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	want := []string{
		"metrics_20260801_090000.csv",
		"metrics_20260801_100000.csv",
		"metrics_20260801_110000.csv",
	}
	if len(names) != len(want) {
		t.Fatalf("ListSessions returned %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("ListSessions returned %v, want %v", names, want)
		}
	}

	latest, err := repo.LoadLatest()
	if err != nil {
		t.Fatalf("LoadLatest: %v", err)
	}
	if latest.SourceName() != "metrics_20260801_110000.csv" {
		t.Fatalf("latest = %s, want metrics_20260801_110000.csv", latest.SourceName())
	}
}

func TestLoadMissingSeries(t *testing.T) {
	repo, err := NewSeriesRepository(t.TempDir())
	if err != nil {
		t.Fatalf("NewSeriesRepository: %v", err)
	}
	if _, err := repo.Load("metrics_20260101_000000.csv"); !errors.Is(err, repository.ErrNoSeries) {
		t.Fatalf("Load missing: %v, want ErrNoSeries", err)
	}
}
