// Package report пишет артефакты отчётов анализа и сравнения: JSON-файлы
// под временной меткой, независимые от хранилища базовых линий.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const fileNameLayout = "20060102_150405"

// Writer сохраняет отчёты в каталог данных
type Writer struct {
	dir string
}

// NewWriter создает новый report writer
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create report dir: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// Write сохраняет отчёт под именем <prefix>_<timestamp>.json и возвращает
// путь к файлу
func (w *Writer) Write(prefix string, v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}

	name := fmt.Sprintf("%s_%s.json", prefix, time.Now().Format(fileNameLayout))
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return path, nil
}
