package postgres

import (
	"database/sql"
	"time"

	"github.com/dreschagin/android-perf-monitor/internal/domain/entity"
)

// SampleDBModel представляет sample в БД. Отсутствующие метрики хранятся
// как NULL.
type SampleDBModel struct {
	ID              string
	SessionID       string
	SampledAt       time.Time
	TotalCPUPercent sql.NullFloat64
	AppCPUPercent   sql.NullFloat64
	MemTotalKB      sql.NullInt64
	MemAvailableKB  sql.NullInt64
	MemUsedPercent  sql.NullFloat64
	AppMemKB        sql.NullInt64
	BatteryLevel    sql.NullInt64
	BatteryTempC    sql.NullFloat64
	FPS             sql.NullFloat64
	TotalFrames     sql.NullInt64
	JankyFrames     sql.NullInt64
	JankRatePercent sql.NullFloat64
}

// ToDBModel конвертирует Domain Entity в DB Model
func ToDBModel(sessionID string, sample entity.Sample) *SampleDBModel {
	return &SampleDBModel{
		ID:              newSampleID(),
		SessionID:       sessionID,
		SampledAt:       sample.Timestamp,
		TotalCPUPercent: nullFloat(sample.TotalCPUPercent),
		AppCPUPercent:   nullFloat(sample.AppCPUPercent),
		MemTotalKB:      nullInt64(sample.MemTotalKB),
		MemAvailableKB:  nullInt64(sample.MemAvailableKB),
		MemUsedPercent:  nullFloat(sample.MemUsedPercent),
		AppMemKB:        nullInt64(sample.AppMemKB),
		BatteryLevel:    nullInt(sample.BatteryLevel),
		BatteryTempC:    nullFloat(sample.BatteryTempC),
		FPS:             nullFloat(sample.FPS),
		TotalFrames:     nullInt(sample.TotalFrames),
		JankyFrames:     nullInt(sample.JankyFrames),
		JankRatePercent: nullFloat(sample.JankRatePercent),
	}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
