package csvlog

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dreschagin/android-perf-monitor/internal/domain/entity"
)

// timestampLayout — формат времени в журнале сессии (секундная точность)
const timestampLayout = "2006-01-02T15:04:05"

// ToRecord конвертирует Sample в CSV-строку. Порядок колонок задаётся
// entity.FieldNames; отсутствующее поле пишется пустой строкой.
func ToRecord(sample entity.Sample) []string {
	return []string{
		sample.Timestamp.Format(timestampLayout),
		formatFloat(sample.TotalCPUPercent),
		formatFloat(sample.AppCPUPercent),
		formatInt64(sample.MemTotalKB),
		formatInt64(sample.MemAvailableKB),
		formatFloat(sample.MemUsedPercent),
		formatInt64(sample.AppMemKB),
		formatInt(sample.BatteryLevel),
		formatFloat(sample.BatteryTempC),
		formatFloat(sample.FPS),
		formatInt(sample.TotalFrames),
		formatInt(sample.JankyFrames),
		formatFloat(sample.JankRatePercent),
	}
}

// FromRecord восстанавливает Sample из CSV-строки по заголовку журнала.
// Колонки сопоставляются по имени, чтобы переживать старые журналы с другим
// набором колонок. Нечитаемая ячейка оставляет поле пустым; нечитаемый
// timestamp делает строку целиком невалидной.
func FromRecord(header, record []string) (entity.Sample, error) {
	if len(record) != len(header) {
		return entity.Sample{}, fmt.Errorf("record has %d columns, header has %d", len(record), len(header))
	}

	var sample entity.Sample
	for i, column := range header {
		raw := record[i]
		if raw == "" {
			continue
		}

		switch column {
		case "timestamp":
			ts, err := time.Parse(timestampLayout, raw)
			if err != nil {
				return entity.Sample{}, fmt.Errorf("parse timestamp %q: %w", raw, err)
			}
			sample.Timestamp = ts
		case "total_cpu_percent":
			sample.TotalCPUPercent = parseFloat(raw)
		case "app_cpu_percent":
			sample.AppCPUPercent = parseFloat(raw)
		case "mem_total_kb":
			sample.MemTotalKB = parseInt64(raw)
		case "mem_available_kb":
			sample.MemAvailableKB = parseInt64(raw)
		case "mem_used_percent":
			sample.MemUsedPercent = parseFloat(raw)
		case "app_mem_kb":
			sample.AppMemKB = parseInt64(raw)
		case "battery_level":
			sample.BatteryLevel = parseInt(raw)
		case "battery_temp_c":
			sample.BatteryTempC = parseFloat(raw)
		case "fps":
			sample.FPS = parseFloat(raw)
		case "total_frames":
			sample.TotalFrames = parseInt(raw)
		case "janky_frames":
			sample.JankyFrames = parseInt(raw)
		case "jank_rate_percent":
			sample.JankRatePercent = parseFloat(raw)
		}
	}

	if sample.Timestamp.IsZero() {
		return entity.Sample{}, fmt.Errorf("record has no timestamp")
	}

	return sample, nil
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatInt64(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func parseFloat(raw string) *float64 {
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &value
}

func parseInt(raw string) *int {
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &value
}

func parseInt64(raw string) *int64 {
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &value
}
