package submit_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-FunnelService/internal/domain"
	"github.com/m04kA/SMC-FunnelService/internal/events"
)

// CompanyRepository интерфейс репозитория компаний
type CompanyRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Company, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	CountActiveByCompanyAndDate(ctx context.Context, companyID int64, date time.Time) (int, error)
}

// ReservationRepository интерфейс репозитория занятых слотов
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
}

// LeadTracker переводит лид сессии в состояние конверсии
// Ошибки трекинга не должны ронять путь создания бронирования
type LeadTracker interface {
	IsDuplicateRequest(sessionID, action string) bool
	BeginConversion(ctx context.Context, sessionID string, finalData map[string]string) (*domain.Lead, error)
}

// EventPublisher доставляет событие создания бронирования подписчикам
type EventPublisher interface {
	PublishBookingCreated(ctx context.Context, event events.BookingCreated)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// FunnelMetrics бизнес-счетчики воронки
type FunnelMetrics interface {
	IncSlotConflict()
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

// NopMetrics заглушка счетчиков, когда метрики выключены
type NopMetrics struct{}

func (NopMetrics) IncSlotConflict() {}
