package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/dreschagin/android-perf-monitor/internal/domain/entity"
)

// PostgresSampleArchive реализует port.SampleArchive для PostgreSQL.
// Архив — внешний потребитель данных сессии; основной журнал остаётся CSV.
type PostgresSampleArchive struct {
	db *sql.DB
}

// NewPostgresSampleArchive создает новый PostgreSQL archive
func NewPostgresSampleArchive(db *sql.DB) *PostgresSampleArchive {
	return &PostgresSampleArchive{
		db: db,
	}
}

// Save сохраняет один sample сессии
func (a *PostgresSampleArchive) Save(ctx context.Context, sessionID string, sample entity.Sample) error {
	model := ToDBModel(sessionID, sample)

	query := `
		INSERT INTO samples (
			id, session_id, sampled_at,
			total_cpu_percent, app_cpu_percent,
			mem_total_kb, mem_available_kb, mem_used_percent, app_mem_kb,
			battery_level, battery_temp_c,
			fps, total_frames, janky_frames, jank_rate_percent
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := a.db.ExecContext(ctx, query,
		model.ID,
		model.SessionID,
		model.SampledAt,
		model.TotalCPUPercent,
		model.AppCPUPercent,
		model.MemTotalKB,
		model.MemAvailableKB,
		model.MemUsedPercent,
		model.AppMemKB,
		model.BatteryLevel,
		model.BatteryTempC,
		model.FPS,
		model.TotalFrames,
		model.JankyFrames,
		model.JankRatePercent,
	)

	if err != nil {
		return fmt.Errorf("failed to insert sample: %w", err)
	}

	return nil
}

// SaveBatch сохраняет несколько samples одной транзакцией
func (a *PostgresSampleArchive) SaveBatch(ctx context.Context, sessionID string, samples []entity.Sample) error {
	if len(samples) == 0 {
		return nil
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO samples (
			id, session_id, sampled_at,
			total_cpu_percent, app_cpu_percent,
			mem_total_kb, mem_available_kb, mem_used_percent, app_mem_kb,
			battery_level, battery_temp_c,
			fps, total_frames, janky_frames, jank_rate_percent
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, sample := range samples {
		model := ToDBModel(sessionID, sample)
		_, err = stmt.ExecContext(ctx,
			model.ID,
			model.SessionID,
			model.SampledAt,
			model.TotalCPUPercent,
			model.AppCPUPercent,
			model.MemTotalKB,
			model.MemAvailableKB,
			model.MemUsedPercent,
			model.AppMemKB,
			model.BatteryLevel,
			model.BatteryTempC,
			model.FPS,
			model.TotalFrames,
			model.JankyFrames,
			model.JankRatePercent,
		)
		if err != nil {
			return fmt.Errorf("failed to insert sample in batch: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Close закрывает соединение с БД
func (a *PostgresSampleArchive) Close() error {
	return a.db.Close()
}

// newSampleID генерирует идентификатор строки архива
func newSampleID() string {
	return uuid.New().String()
}
