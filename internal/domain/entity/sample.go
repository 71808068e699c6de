package entity

import "time"

// Sample представляет одно наблюдение метрик устройства за один тик планировщика.
// Все поля кроме Timestamp опциональны: диагностическая команда могла не
// отработать или её вывод мог не распарситься — тогда поле остаётся nil.
// После создания Sample неизменяем.
type Sample struct {
	Timestamp       time.Time `json:"timestamp"`
	TotalCPUPercent *float64  `json:"total_cpu_percent,omitempty"`
	AppCPUPercent   *float64  `json:"app_cpu_percent,omitempty"`
	MemTotalKB      *int64    `json:"mem_total_kb,omitempty"`
	MemAvailableKB  *int64    `json:"mem_available_kb,omitempty"`
	MemUsedPercent  *float64  `json:"mem_used_percent,omitempty"`
	AppMemKB        *int64    `json:"app_mem_kb,omitempty"`
	BatteryLevel    *int      `json:"battery_level,omitempty"`
	BatteryTempC    *float64  `json:"battery_temp_c,omitempty"`
	FPS             *float64  `json:"fps,omitempty"`
	TotalFrames     *int      `json:"total_frames,omitempty"`
	JankyFrames     *int      `json:"janky_frames,omitempty"`
	JankRatePercent *float64  `json:"jank_rate_percent,omitempty"`
}

// FieldNames возвращает имена всех полей Sample в порядке сериализации.
// Порядок — контракт формата журнала сессии.
func FieldNames() []string {
	return []string{
		"timestamp",
		"total_cpu_percent",
		"app_cpu_percent",
		"mem_total_kb",
		"mem_available_kb",
		"mem_used_percent",
		"app_mem_kb",
		"battery_level",
		"battery_temp_c",
		"fps",
		"total_frames",
		"janky_frames",
		"jank_rate_percent",
	}
}

// Float64Ptr возвращает указатель на значение (для присутствующих полей)
func Float64Ptr(v float64) *float64 { return &v }

// IntPtr возвращает указатель на значение (для присутствующих полей)
func IntPtr(v int) *int { return &v }

// Int64Ptr возвращает указатель на значение (для присутствующих полей)
func Int64Ptr(v int64) *int64 { return &v }
