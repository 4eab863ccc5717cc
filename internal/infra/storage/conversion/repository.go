package conversion

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-FunnelService/internal/domain"
	"github.com/m04kA/SMC-FunnelService/pkg/dbmetrics"
	"github.com/m04kA/SMC-FunnelService/pkg/psqlbuilder"
)

// Repository репозиторий журнала конверсий
// Журнал кольцевой: после каждой вставки записи старше последних N удаляются
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория конверсий
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Append добавляет запись в журнал конверсий и подрезает его до limit записей
func (r *Repository) Append(ctx context.Context, metric *domain.ConversionMetric, limit int) (*domain.ConversionMetric, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("conversion_metrics").
		Columns(
			"lead_id",
			"booking_id",
			"service_type",
			"time_to_convert_minutes",
			"deal_value",
			"completion",
		).
		Values(
			metric.LeadID,
			metric.BookingID,
			metric.ServiceType,
			metric.TimeToConvertMinutes,
			metric.DealValue,
			metric.Completion,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Append - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&metric.ID,
		&createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Append - execute insert: %v", ErrExecQuery, err)
	}

	metric.CreatedAt = createdAt.Time

	if err := r.trim(ctx, limit); err != nil {
		return nil, err
	}

	return metric, nil
}

// trim удаляет записи журнала за пределами последних limit
func (r *Repository) trim(ctx context.Context, limit int) error {
	if limit <= 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	// squirrel не выражает DELETE с подзапросом по OFFSET, поэтому сырой запрос
	query := `DELETE FROM conversion_metrics
		WHERE id NOT IN (
			SELECT id FROM conversion_metrics ORDER BY id DESC LIMIT $1
		)`

	if _, err := executor.ExecContext(ctx, query, limit); err != nil {
		return fmt.Errorf("%w: trim - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

// ListRecent возвращает последние записи журнала (новые первыми)
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]*domain.ConversionMetric, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"lead_id",
		"booking_id",
		"service_type",
		"time_to_convert_minutes",
		"deal_value",
		"completion",
		"created_at",
	).
		From("conversion_metrics").
		OrderBy("id DESC").
		Limit(uint64(limit)).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListRecent - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListRecent - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	metrics := make([]*domain.ConversionMetric, 0, limit)
	for rows.Next() {
		var m domain.ConversionMetric
		var createdAt sql.NullTime

		err := rows.Scan(
			&m.ID,
			&m.LeadID,
			&m.BookingID,
			&m.ServiceType,
			&m.TimeToConvertMinutes,
			&m.DealValue,
			&m.Completion,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListRecent - scan row: %v", ErrScanRow, err)
		}

		m.CreatedAt = createdAt.Time
		metrics = append(metrics, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListRecent - rows error: %v", ErrScanRow, err)
	}

	return metrics, nil
}

// AvgTimeToConvertSince возвращает среднее время конверсии в минутах за период
// При отсутствии записей возвращает 0
func (r *Repository) AvgTimeToConvertSince(ctx context.Context, since time.Time) (float64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COALESCE(AVG(time_to_convert_minutes), 0)").
		From("conversion_metrics").
		Where(squirrel.GtOrEq{"created_at": since}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: AvgTimeToConvertSince - build select query: %v", ErrBuildQuery, err)
	}

	var avg float64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&avg); err != nil {
		return 0, fmt.Errorf("%w: AvgTimeToConvertSince - scan avg: %v", ErrScanRow, err)
	}

	return avg, nil
}
