package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-FunnelService/internal/domain"
)

// CompanyRepository интерфейс репозитория компаний
type CompanyRepository interface {
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.Company, error)
}

// ReservationRepository интерфейс репозитория занятых слотов
type ReservationRepository interface {
	GetByCompanyAndDateRange(ctx context.Context, companyID int64, dateFrom, dateTo time.Time) ([]*domain.Reservation, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// CountActiveByCompanyAndDate считает активные бронирования компании на дату
	// (для лимита maxBookingsPerDay)
	CountActiveByCompanyAndDate(ctx context.Context, companyID int64, date time.Time) (int, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
