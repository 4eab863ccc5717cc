package lead

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-FunnelService/internal/domain"
	"github.com/m04kA/SMC-FunnelService/pkg/dbmetrics"
	"github.com/m04kA/SMC-FunnelService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-FunnelService/pkg/types"
)

// Repository репозиторий для работы с лидами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория лидов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var leadColumns = []string{
	"id",
	"session_id",
	"service_type",
	"customer_name",
	"email",
	"phone",
	"address",
	"zip",
	"company_id",
	"proposed_date",
	"proposed_time",
	"attributes",
	"completion",
	"state",
	"lead_type",
	"converted",
	"booking_id",
	"utm_source",
	"utm_medium",
	"utm_campaign",
	"utm_term",
	"utm_content",
	"referrer",
	"created_at",
	"last_updated",
}

// Create создает новую запись лида
func (r *Repository) Create(ctx context.Context, l *domain.Lead) (*domain.Lead, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	attrs, err := encodeAttributes(l.Attributes)
	if err != nil {
		return nil, err
	}

	query, args, err := psqlbuilder.Insert("leads").
		Columns(
			"session_id",
			"service_type",
			"customer_name",
			"email",
			"phone",
			"address",
			"zip",
			"company_id",
			"proposed_date",
			"proposed_time",
			"attributes",
			"completion",
			"state",
			"lead_type",
			"converted",
			"booking_id",
			"utm_source",
			"utm_medium",
			"utm_campaign",
			"utm_term",
			"utm_content",
			"referrer",
		).
		Values(
			l.SessionID,
			l.ServiceType,
			l.CustomerName,
			l.Email,
			l.Phone,
			l.Address,
			l.Zip,
			l.CompanyID,
			l.ProposedDate,
			timeStringOrNil(l.ProposedTime),
			attrs,
			l.Completion,
			l.State,
			l.Type,
			l.Converted,
			l.BookingID,
			l.UTMSource,
			l.UTMMedium,
			l.UTMCampaign,
			l.UTMTerm,
			l.UTMContent,
			l.Referrer,
		).
		Suffix("RETURNING id, created_at, last_updated").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, lastUpdated sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&l.ID,
		&createdAt,
		&lastUpdated,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	l.CreatedAt = createdAt.Time
	l.LastUpdated = lastUpdated.Time

	return l, nil
}

// GetBySessionID получает последний лид с указанным session_id
func (r *Repository) GetBySessionID(ctx context.Context, sessionID string) (*domain.Lead, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(leadColumns...).
		From("leads").
		Where(squirrel.Eq{"session_id": sessionID}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetBySessionID - build select query: %v", ErrBuildQuery, err)
	}

	l, err := scanLead(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetBySessionID - scan lead: %v", ErrScanRow, err)
	}

	return l, nil
}

// Update обновляет запись лида целиком (поля уже слиты на уровне сервиса)
// last_updated проставляется базой
func (r *Repository) Update(ctx context.Context, l *domain.Lead) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	attrs, err := encodeAttributes(l.Attributes)
	if err != nil {
		return err
	}

	query, args, err := psqlbuilder.Update("leads").
		Set("service_type", l.ServiceType).
		Set("customer_name", l.CustomerName).
		Set("email", l.Email).
		Set("phone", l.Phone).
		Set("address", l.Address).
		Set("zip", l.Zip).
		Set("company_id", l.CompanyID).
		Set("proposed_date", l.ProposedDate).
		Set("proposed_time", timeStringOrNil(l.ProposedTime)).
		Set("attributes", attrs).
		Set("completion", l.Completion).
		Set("state", l.State).
		Set("lead_type", l.Type).
		Set("converted", l.Converted).
		Set("booking_id", l.BookingID).
		Set("utm_source", l.UTMSource).
		Set("utm_medium", l.UTMMedium).
		Set("utm_campaign", l.UTMCampaign).
		Set("utm_term", l.UTMTerm).
		Set("utm_content", l.UTMContent).
		Set("referrer", l.Referrer).
		Set("last_updated", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": l.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Update - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrLeadNotFound
	}

	return nil
}

// DeleteStaleBefore удаляет неконвертированные лиды в указанных состояниях,
// созданные раньше cutoff. Возвращает количество удаленных записей
// Используется фоновой чисткой retention-политики
func (r *Repository) DeleteStaleBefore(ctx context.Context, cutoff time.Time, states []domain.LeadState) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	stateStrings := make([]string, len(states))
	for i, s := range states {
		stateStrings[i] = string(s)
	}

	query, args, err := psqlbuilder.Delete("leads").
		Where(squirrel.Lt{"created_at": cutoff}).
		Where(squirrel.Eq{"state": stateStrings}).
		Where(squirrel.Eq{"converted": false}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteStaleBefore - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteStaleBefore - execute delete: %v", ErrExecQuery, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteStaleBefore - get rows affected: %v", ErrExecQuery, err)
	}

	return deleted, nil
}

// CountCreatedSince подсчитывает лиды, созданные после указанного момента
func (r *Repository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	return r.countSince(ctx, since, nil)
}

// CountConvertedSince подсчитывает конвертированные лиды, созданные после указанного момента
func (r *Repository) CountConvertedSince(ctx context.Context, since time.Time) (int64, error) {
	converted := true
	return r.countSince(ctx, since, &converted)
}

func (r *Repository) countSince(ctx context.Context, since time.Time, converted *bool) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("COUNT(*)").
		From("leads").
		Where(squirrel.GtOrEq{"created_at": since})

	if converted != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"converted": *converted})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: countSince - build select query: %v", ErrBuildQuery, err)
	}

	var count int64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: countSince - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// rowScanner общий интерфейс для *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanLead(s rowScanner) (*domain.Lead, error) {
	var l domain.Lead
	var companyID, bookingID sql.NullInt64
	var proposedDate sql.NullTime
	var proposedTime sql.NullString
	var attrs []byte
	var createdAt, lastUpdated sql.NullTime

	err := s.Scan(
		&l.ID,
		&l.SessionID,
		&l.ServiceType,
		&l.CustomerName,
		&l.Email,
		&l.Phone,
		&l.Address,
		&l.Zip,
		&companyID,
		&proposedDate,
		&proposedTime,
		&attrs,
		&l.Completion,
		&l.State,
		&l.Type,
		&l.Converted,
		&bookingID,
		&l.UTMSource,
		&l.UTMMedium,
		&l.UTMCampaign,
		&l.UTMTerm,
		&l.UTMContent,
		&l.Referrer,
		&createdAt,
		&lastUpdated,
	)
	if err != nil {
		return nil, err
	}

	if companyID.Valid {
		l.CompanyID = &companyID.Int64
	}
	if bookingID.Valid {
		l.BookingID = &bookingID.Int64
	}
	if proposedDate.Valid {
		d := proposedDate.Time
		l.ProposedDate = &d
	}
	if proposedTime.Valid {
		t := types.TimeString(proposedTime.String)
		l.ProposedTime = &t
	}

	l.Attributes = make(map[string]string)
	if len(attrs) > 0 {
		if err := json.Unmarshal(attrs, &l.Attributes); err != nil {
			return nil, err
		}
	}

	l.CreatedAt = createdAt.Time
	l.LastUpdated = lastUpdated.Time

	return &l, nil
}

// encodeAttributes сериализует атрибуты лида в JSONB
func encodeAttributes(attrs map[string]string) ([]byte, error) {
	if attrs == nil {
		attrs = map[string]string{}
	}
	data, err := json.Marshal(attrs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncodeAttributes, err)
	}
	return data, nil
}

// timeStringOrNil конвертирует *types.TimeString в значение для БД
func timeStringOrNil(t *types.TimeString) interface{} {
	if t == nil {
		return nil
	}
	return t.String()
}
