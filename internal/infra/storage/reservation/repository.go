package reservation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-FunnelService/internal/domain"
	"github.com/m04kA/SMC-FunnelService/pkg/dbmetrics"
	"github.com/m04kA/SMC-FunnelService/pkg/psqlbuilder"
)

// Код ошибки PostgreSQL unique_violation
const pqUniqueViolation = "23505"

// Repository репозиторий для работы с резервированиями слотов
// Уникальность слота обеспечивается constraint'ом БД на
// (company_id, booking_date, start_time), а не проверкой в коде:
// при конкурентных попытках ровно один INSERT проходит,
// остальные получают ErrSlotTaken
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория резервирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create резервирует слот за бронированием
// Возвращает ErrSlotTaken, если слот уже занят другим бронированием
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reservations").
		Columns(
			"company_id",
			"booking_date",
			"start_time",
			"booking_id",
		).
		Values(
			res.CompanyID,
			res.Date,
			res.StartTime,
			res.BookingID,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&res.ID,
		&createdAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return nil, ErrSlotTaken
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	res.CreatedAt = createdAt.Time

	return res, nil
}

// GetByCompanyAndDateRange получает все резервирования компании за период дат включительно
// Используется Availability Engine для вычисления занятости слотов
func (r *Repository) GetByCompanyAndDateRange(ctx context.Context, companyID int64, dateFrom, dateTo time.Time) ([]*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"company_id",
		"booking_date",
		"start_time",
		"booking_id",
		"created_at",
	).
		From("reservations").
		Where(squirrel.Eq{"company_id": companyID}).
		Where(squirrel.GtOrEq{"booking_date": dateFrom}).
		Where(squirrel.LtOrEq{"booking_date": dateTo}).
		OrderBy("booking_date ASC, start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByCompanyAndDateRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCompanyAndDateRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	reservations := make([]*domain.Reservation, 0)
	for rows.Next() {
		var res domain.Reservation
		var createdAt sql.NullTime

		err := rows.Scan(
			&res.ID,
			&res.CompanyID,
			&res.Date,
			&res.StartTime,
			&res.BookingID,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByCompanyAndDateRange - scan row: %v", ErrScanRow, err)
		}

		res.CreatedAt = createdAt.Time
		reservations = append(reservations, &res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByCompanyAndDateRange - rows error: %v", ErrScanRow, err)
	}

	return reservations, nil
}

// DeleteByBookingID освобождает слот при отмене бронирования
func (r *Repository) DeleteByBookingID(ctx context.Context, bookingID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("reservations").
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: DeleteByBookingID - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteByBookingID - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteByBookingID - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrReservationNotFound
	}

	return nil
}
