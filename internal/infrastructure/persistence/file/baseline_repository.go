// Package file реализует хранилище базовых линий поверх JSON-файлов на диске.
// Одна базовая линия — пара файлов: <name>.json с агрегатами и <name>_data.csv
// с копией исходной серии.
package file

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dreschagin/android-perf-monitor/internal/domain/entity"
	"github.com/dreschagin/android-perf-monitor/internal/domain/repository"
)

// BaselineRepositoryImpl реализует BaselineRepository поверх каталога с
// JSON-файлами
type BaselineRepositoryImpl struct {
	baselineDir string
}

// NewBaselineRepository создает новый file-based baseline repository
func NewBaselineRepository(baselineDir string) (*BaselineRepositoryImpl, error) {
	if err := os.MkdirAll(baselineDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create baseline dir: %w", err)
	}
	return &BaselineRepositoryImpl{baselineDir: baselineDir}, nil
}

// Save сохраняет базовую линию и копию её исходной серии. Существующая линия
// с тем же именем перезаписывается целиком.
func (r *BaselineRepositoryImpl) Save(baseline *entity.Baseline, sourceSeriesPath string) error {
	data, err := json.MarshalIndent(baseline, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal baseline: %w", err)
	}

	if err := os.WriteFile(r.baselinePath(baseline.Name), data, 0o644); err != nil {
		return fmt.Errorf("failed to write baseline: %w", err)
	}

	if err := copyFile(sourceSeriesPath, r.SeriesPath(baseline.Name)); err != nil {
		return fmt.Errorf("failed to copy baseline series: %w", err)
	}

	return nil
}

// Get загружает базовую линию по имени
func (r *BaselineRepositoryImpl) Get(name string) (*entity.Baseline, error) {
	data, err := os.ReadFile(r.baselinePath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, repository.ErrBaselineNotFound
		}
		return nil, fmt.Errorf("failed to read baseline: %w", err)
	}

	var baseline entity.Baseline
	if err := json.Unmarshal(data, &baseline); err != nil {
		return nil, fmt.Errorf("failed to unmarshal baseline %s: %w", name, err)
	}

	return &baseline, nil
}

// List возвращает все базовые линии в порядке имен файлов
func (r *BaselineRepositoryImpl) List() ([]*entity.Baseline, error) {
	entries, err := os.ReadDir(r.baselineDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(names)

	baselines := make([]*entity.Baseline, 0, len(names))
	for _, name := range names {
		baseline, err := r.Get(name)
		if err != nil {
			return nil, err
		}
		baselines = append(baselines, baseline)
	}

	return baselines, nil
}

// Delete удаляет базовую линию и копию её серии
func (r *BaselineRepositoryImpl) Delete(name string) error {
	if err := os.Remove(r.baselinePath(name)); err != nil {
		if os.IsNotExist(err) {
			return repository.ErrBaselineNotFound
		}
		return fmt.Errorf("failed to delete baseline: %w", err)
	}

	// Копии серии может не быть у линий, перенесенных вручную.
	if err := os.Remove(r.SeriesPath(name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete baseline series: %w", err)
	}

	return nil
}

// SeriesPath возвращает путь к сохранённой копии серии базовой линии
func (r *BaselineRepositoryImpl) SeriesPath(name string) string {
	return filepath.Join(r.baselineDir, name+"_data.csv")
}

func (r *BaselineRepositoryImpl) baselinePath(name string) string {
	return filepath.Join(r.baselineDir, name+".json")
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
