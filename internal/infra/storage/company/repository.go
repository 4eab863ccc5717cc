package company

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-FunnelService/internal/domain"
	"github.com/m04kA/SMC-FunnelService/pkg/dbmetrics"
	"github.com/m04kA/SMC-FunnelService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с компаниями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория компаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var companyColumns = []string{
	"id",
	"name",
	"phone",
	"email",
	"city",
	"available_days",
	"hours_start",
	"hours_end",
	"slot_duration_minutes",
	"max_bookings_per_day",
	"advance_booking_days",
	"status",
	"created_at",
	"updated_at",
}

// GetByID получает компанию по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Company, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(companyColumns...).
		From("companies").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	company, err := scanCompanyRow(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrCompanyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan company: %v", ErrScanRow, err)
	}

	return company, nil
}

// GetByIDs получает несколько компаний по списку ID
// Отсутствующие ID просто не попадают в результат
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) ([]*domain.Company, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(companyColumns...).
		From("companies").
		Where(squirrel.Eq{"id": ids}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	companies := make([]*domain.Company, 0, len(ids))
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByIDs - scan row: %v", ErrScanRow, err)
		}
		companies = append(companies, company)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - rows error: %v", ErrScanRow, err)
	}

	return companies, nil
}

// GetActive получает все активные компании
func (r *Repository) GetActive(ctx context.Context) ([]*domain.Company, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(companyColumns...).
		From("companies").
		Where(squirrel.Eq{"status": domain.CompanyActive}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActive - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActive - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	companies := make([]*domain.Company, 0)
	for rows.Next() {
		company, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetActive - scan row: %v", ErrScanRow, err)
		}
		companies = append(companies, company)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetActive - rows error: %v", ErrScanRow, err)
	}

	return companies, nil
}

// rowScanner общий интерфейс для *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCompanyRow(row *sql.Row) (*domain.Company, error) {
	return scanInto(row)
}

func scanCompany(rows *sql.Rows) (*domain.Company, error) {
	return scanInto(rows)
}

func scanInto(s rowScanner) (*domain.Company, error) {
	var company domain.Company
	var availableDays pq.Int64Array
	var createdAt, updatedAt sql.NullTime

	err := s.Scan(
		&company.ID,
		&company.Name,
		&company.Phone,
		&company.Email,
		&company.City,
		&availableDays,
		&company.HoursStart,
		&company.HoursEnd,
		&company.SlotDurationMinutes,
		&company.MaxBookingsPerDay,
		&company.AdvanceBookingDays,
		&company.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	company.AvailableDays = make([]int, len(availableDays))
	for i, d := range availableDays {
		company.AvailableDays[i] = int(d)
	}

	company.CreatedAt = createdAt.Time
	company.UpdatedAt = updatedAt.Time

	return &company, nil
}
