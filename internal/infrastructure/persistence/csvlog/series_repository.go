// Package csvlog реализует хранилище серий поверх CSV-журналов на диске.
// Один файл — одна сессия; формат append-only, каждая строка сбрасывается
// на диск сразу после записи.
package csvlog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dreschagin/android-perf-monitor/internal/domain/entity"
	"github.com/dreschagin/android-perf-monitor/internal/domain/repository"
)

// fileNameLayout — формат временной метки в имени файла сессии
const fileNameLayout = "20060102_150405"

const filePrefix = "metrics_"

// SeriesRepositoryImpl реализует SeriesRepository поверх каталога с
// CSV-журналами сессий
type SeriesRepositoryImpl struct {
	dataDir string
}

// NewSeriesRepository создает новый file-based series repository
func NewSeriesRepository(dataDir string) (*SeriesRepositoryImpl, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	return &SeriesRepositoryImpl{dataDir: dataDir}, nil
}

// Create открывает журнал новой сессии и записывает строку заголовка
func (r *SeriesRepositoryImpl) Create(startedAt time.Time) (repository.SeriesWriter, error) {
	name := filePrefix + startedAt.Format(fileNameLayout) + ".csv"
	path := filepath.Join(r.dataDir, name)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create series log: %w", err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(entity.FieldNames()); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write series header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to flush series header: %w", err)
	}

	return &seriesWriter{file: file, writer: writer, path: path}, nil
}

// Load загружает записанную серию по имени файла. Невалидные строки
// (оборванная запись при аварийной остановке) отбрасываются.
func (r *SeriesRepositoryImpl) Load(name string) (*entity.Series, error) {
	path := filepath.Join(r.dataDir, name)

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, repository.ErrNoSeries
		}
		return nil, fmt.Errorf("failed to open series log: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read series log: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("series log %s has no header", name)
	}

	header := records[0]
	samples := make([]entity.Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		sample, err := FromRecord(header, record)
		if err != nil {
			continue
		}
		samples = append(samples, sample)
	}

	return entity.ReconstructSeries(name, samples), nil
}

// LoadLatest загружает последнюю записанную серию
func (r *SeriesRepositoryImpl) LoadLatest() (*entity.Series, error) {
	names, err := r.ListSessions()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, repository.ErrNoSeries
	}
	return r.Load(names[len(names)-1])
}

// ListSessions возвращает имена файлов сессий. Временная метка в имени
// сортируется лексикографически, поэтому порядок имен — хронологический.
func (r *SeriesRepositoryImpl) ListSessions() ([]string, error) {
	entries, err := os.ReadDir(r.dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, filePrefix) && strings.HasSuffix(name, ".csv") {
			names = append(names, name)
		}
	}

	sort.Strings(names)
	return names, nil
}

// Path возвращает путь к файлу журнала сессии
func (r *SeriesRepositoryImpl) Path(name string) string {
	return filepath.Join(r.dataDir, name)
}

// seriesWriter — журнал открытой сессии
type seriesWriter struct {
	file   *os.File
	writer *csv.Writer
	path   string
}

// Append дописывает одну строку и сразу сбрасывает её на диск
func (w *seriesWriter) Append(sample entity.Sample) error {
	if err := w.writer.Write(ToRecord(sample)); err != nil {
		return fmt.Errorf("failed to append sample: %w", err)
	}
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		return fmt.Errorf("failed to flush sample: %w", err)
	}
	return nil
}

// Close закрывает файл журнала
func (w *seriesWriter) Close() error {
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		w.file.Close()
		return fmt.Errorf("failed to flush series log: %w", err)
	}
	return w.file.Close()
}

// Path возвращает путь к файлу журнала
func (w *seriesWriter) Path() string {
	return w.path
}
