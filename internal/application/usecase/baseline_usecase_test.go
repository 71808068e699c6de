package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/dreschagin/android-perf-monitor/internal/domain/entity"
	"github.com/dreschagin/android-perf-monitor/internal/domain/repository"
	"github.com/dreschagin/android-perf-monitor/internal/domain/service"
	"github.com/dreschagin/android-perf-monitor/pkg/logger"
)

// fakeSeriesRepo отдает заранее созданную серию как последнюю
type fakeSeriesRepo struct {
	latest *entity.Series
}

func (r *fakeSeriesRepo) Create(time.Time) (repository.SeriesWriter, error) {
	return nil, errors.New("not supported in test")
}

func (r *fakeSeriesRepo) Load(name string) (*entity.Series, error) {
	if r.latest == nil || r.latest.SourceName() != name {
		return nil, repository.ErrNoSeries
	}
	return r.latest, nil
}

func (r *fakeSeriesRepo) LoadLatest() (*entity.Series, error) {
	if r.latest == nil {
		return nil, repository.ErrNoSeries
	}
	return r.latest, nil
}

func (r *fakeSeriesRepo) ListSessions() ([]string, error) {
	if r.latest == nil {
		return nil, nil
	}
	return []string{r.latest.SourceName()}, nil
}

func (r *fakeSeriesRepo) Path(name string) string {
	return "/data/" + name
}

// fakeBaselineRepo хранит базовые линии в памяти
type fakeBaselineRepo struct {
	baselines   map[string]*entity.Baseline
	savedSource string
}

func newFakeBaselineRepo() *fakeBaselineRepo {
	return &fakeBaselineRepo{baselines: make(map[string]*entity.Baseline)}
}

func (r *fakeBaselineRepo) Save(baseline *entity.Baseline, sourceSeriesPath string) error {
	r.baselines[baseline.Name] = baseline
	r.savedSource = sourceSeriesPath
	return nil
}

func (r *fakeBaselineRepo) Get(name string) (*entity.Baseline, error) {
	baseline, ok := r.baselines[name]
	if !ok {
		return nil, repository.ErrBaselineNotFound
	}
	return baseline, nil
}

func (r *fakeBaselineRepo) List() ([]*entity.Baseline, error) {
	var result []*entity.Baseline
	for _, baseline := range r.baselines {
		result = append(result, baseline)
	}
	return result, nil
}

func (r *fakeBaselineRepo) Delete(name string) error {
	if _, ok := r.baselines[name]; !ok {
		return repository.ErrBaselineNotFound
	}
	delete(r.baselines, name)
	return nil
}

func (r *fakeBaselineRepo) SeriesPath(name string) string {
	return "/baselines/" + name + "_data.csv"
}

// seriesOf собирает серию из пар (cpu, mem); отрицательное значение означает
// отсутствие поля
func seriesOf(name string, start time.Time, step time.Duration, points [][2]float64) *entity.Series {
	samples := make([]entity.Sample, 0, len(points))
	for i, point := range points {
		sample := entity.Sample{Timestamp: start.Add(time.Duration(i) * step)}
		if point[0] >= 0 {
			sample.AppCPUPercent = entity.Float64Ptr(point[0])
		}
		if point[1] >= 0 {
			sample.AppMemKB = entity.Int64Ptr(int64(point[1]))
		}
		samples = append(samples, sample)
	}
	return entity.ReconstructSeries(name, samples)
}

var testStart = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func TestCreateBaseline(t *testing.T) {
	seriesRepo := &fakeSeriesRepo{
		latest: seriesOf("metrics_20260801_120000.csv", testStart, time.Second, [][2]float64{
			{10, 100000},
			{20, 104000},
			{-1, -1},
		}),
	}
	baselineRepo := newFakeBaselineRepo()
	uc := NewCreateBaselineUseCase(seriesRepo, baselineRepo, service.NewSummarizer(), logger.Nop())

	baseline, err := uc.Execute("v1.0.0", "first release")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if baseline.Name != "v1.0.0" || baseline.Description != "first release" {
		t.Fatalf("metadata = %+v", baseline)
	}
	if baseline.DataPoints != 3 {
		t.Errorf("DataPoints = %d, want 3", baseline.DataPoints)
	}
	if baseline.SourceFile != "metrics_20260801_120000.csv" {
		t.Errorf("SourceFile = %s", baseline.SourceFile)
	}

	cpu := baseline.Metrics.CPU
	if cpu == nil {
		t.Fatal("cpu summary missing")
	}
	if cpu.Mean != 15 || cpu.Max != 20 {
		t.Errorf("cpu = %+v, want mean 15 max 20", cpu)
	}
	if cpu.P90 != 19 {
		t.Errorf("cpu p90 = %v, want 19 (interpolated)", cpu.P90)
	}

	mem := baseline.Metrics.Memory
	if mem == nil || mem.Mean != 102000 {
		t.Fatalf("memory = %+v, want mean 102000", mem)
	}

	// Two samples over two seconds: no battery drain window.
	if baseline.Metrics.Battery != nil {
		t.Error("battery summary should be absent for a short session")
	}

	if baselineRepo.savedSource != "/data/metrics_20260801_120000.csv" {
		t.Errorf("saved source = %s", baselineRepo.savedSource)
	}
}

func TestCreateBaselineEmptySeries(t *testing.T) {
	seriesRepo := &fakeSeriesRepo{latest: entity.ReconstructSeries("metrics_x.csv", nil)}
	uc := NewCreateBaselineUseCase(seriesRepo, newFakeBaselineRepo(), service.NewSummarizer(), logger.Nop())

	if _, err := uc.Execute("empty", ""); err == nil {
		t.Fatal("expected error for a series without samples")
	}
}

func TestCompareBaselineStable(t *testing.T) {
	baselineRepo := newFakeBaselineRepo()
	baselineRepo.baselines["v1.0.0"] = &entity.Baseline{
		Name:      "v1.0.0",
		CreatedAt: testStart,
		Metrics: entity.BaselineMetrics{
			CPU: &entity.MetricSummary{Mean: 15, Median: 15, P90: 19, P95: 19.5, Max: 20},
		},
	}
	seriesRepo := &fakeSeriesRepo{
		latest: seriesOf("metrics_20260802_120000.csv", testStart.Add(24*time.Hour), time.Second, [][2]float64{
			{14, -1},
			{16, -1},
		}),
	}

	uc := NewCompareBaselineUseCase(seriesRepo, baselineRepo, service.NewSummarizer(), service.NewDriftClassifier(), logger.Nop())
	report, err := uc.Execute("v1.0.0")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(report.Categories) != 1 {
		t.Fatalf("categories = %d, want cpu only", len(report.Categories))
	}
	cpu := report.Categories[0]
	if cpu.Category != "cpu" {
		t.Fatalf("category = %s", cpu.Category)
	}
	// Identical mean keeps the session verdict stable even though p90 moved.
	if cpu.Verdict != service.VerdictStable || report.Verdict != service.VerdictStable {
		t.Errorf("verdict = %s/%s, want stable", cpu.Verdict, report.Verdict)
	}
	if cpu.MeanDiff != 0 {
		t.Errorf("mean diff = %v, want 0", cpu.MeanDiff)
	}
	if len(cpu.Rows) != 4 {
		t.Fatalf("rows = %d, want mean/p90/p95/max", len(cpu.Rows))
	}
	if cpu.Rows[0].Statistic != "mean" || cpu.Rows[0].Category != service.DriftStable {
		t.Errorf("mean row = %+v", cpu.Rows[0])
	}
}

func TestCompareBaselineRegression(t *testing.T) {
	baselineRepo := newFakeBaselineRepo()
	baselineRepo.baselines["v1.0.0"] = &entity.Baseline{
		Name: "v1.0.0",
		Metrics: entity.BaselineMetrics{
			CPU: &entity.MetricSummary{Mean: 20, Median: 20, P90: 30, P95: 32, Max: 35},
		},
	}
	seriesRepo := &fakeSeriesRepo{
		latest: seriesOf("metrics_20260802_120000.csv", testStart, time.Second, [][2]float64{
			{23, -1},
			{24, -1},
		}),
	}

	uc := NewCompareBaselineUseCase(seriesRepo, baselineRepo, service.NewSummarizer(), service.NewDriftClassifier(), logger.Nop())
	report, err := uc.Execute("v1.0.0")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	// Mean drift +17.5% crosses the session threshold.
	if report.Verdict != service.VerdictRegression {
		t.Fatalf("verdict = %s, want regression", report.Verdict)
	}
	if report.Categories[0].Rows[0].Category != service.DriftRegression {
		t.Errorf("mean row = %+v, want regression", report.Categories[0].Rows[0])
	}
}

func TestCompareBaselineNotFound(t *testing.T) {
	seriesRepo := &fakeSeriesRepo{
		latest: seriesOf("metrics_20260802_120000.csv", testStart, time.Second, [][2]float64{{10, -1}}),
	}
	uc := NewCompareBaselineUseCase(seriesRepo, newFakeBaselineRepo(), service.NewSummarizer(), service.NewDriftClassifier(), logger.Nop())

	if _, err := uc.Execute("missing"); !errors.Is(err, repository.ErrBaselineNotFound) {
		t.Fatalf("Execute: %v, want ErrBaselineNotFound", err)
	}
}

func TestCompareBaselineSkipsOneSidedCategories(t *testing.T) {
	baselineRepo := newFakeBaselineRepo()
	baselineRepo.baselines["mem-only"] = &entity.Baseline{
		Name: "mem-only",
		Metrics: entity.BaselineMetrics{
			Memory: &entity.MetricSummary{Mean: 150000, Median: 150000, P90: 160000, P95: 161000, Max: 165000},
		},
	}
	// Current series carries CPU only: no shared categories.
	seriesRepo := &fakeSeriesRepo{
		latest: seriesOf("metrics_20260802_120000.csv", testStart, time.Second, [][2]float64{
			{10, -1},
			{12, -1},
		}),
	}

	uc := NewCompareBaselineUseCase(seriesRepo, baselineRepo, service.NewSummarizer(), service.NewDriftClassifier(), logger.Nop())
	report, err := uc.Execute("mem-only")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(report.Categories) != 0 {
		t.Fatalf("categories = %+v, want none", report.Categories)
	}
	if report.Verdict != service.VerdictStable {
		t.Fatalf("verdict = %s, want stable", report.Verdict)
	}
}
