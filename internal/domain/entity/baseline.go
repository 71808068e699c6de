package entity

import "time"

// MetricSummary — сводная статистика одной метрики по закрытой серии.
// Чистая функция серии, собственного жизненного цикла не имеет.
type MetricSummary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P90    float64 `json:"p90"`
	P95    float64 `json:"p95"`
	Max    float64 `json:"max"`
}

// BatterySummary — производные показатели батареи за сессию
type BatterySummary struct {
	DrainRatePerHour float64 `json:"drain_rate_per_hour"`
	MeanLevel        float64 `json:"mean_level"`
}

// TemperatureSummary — показатели температуры батареи за сессию
type TemperatureSummary struct {
	Mean float64 `json:"mean"`
	Max  float64 `json:"max"`
}

// BaselineMetrics группирует сводки по категориям. Отсутствующая в сессии
// категория остаётся nil и не попадает в сохранённый JSON.
type BaselineMetrics struct {
	CPU         *MetricSummary      `json:"cpu,omitempty"`
	Memory      *MetricSummary      `json:"memory,omitempty"`
	Battery     *BatterySummary     `json:"battery,omitempty"`
	Temperature *TemperatureSummary `json:"temperature,omitempty"`
}

// Baseline — именованный снимок производительности закрытой серии.
// Неизменяем после создания; перезаписывается только явным повторным
// созданием под тем же именем.
type Baseline struct {
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	CreatedAt       time.Time       `json:"created_at"`
	SourceFile      string          `json:"source_file"`
	DataPoints      int             `json:"data_points"`
	DurationMinutes float64         `json:"duration_minutes"`
	Metrics         BaselineMetrics `json:"metrics"`
}
