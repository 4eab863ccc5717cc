package conversions

import (
	"context"
	"time"

	"github.com/m04kA/SMC-FunnelService/internal/domain"
	"github.com/m04kA/SMC-FunnelService/internal/events"
)

// ConversionRepository интерфейс журнала конверсий
type ConversionRepository interface {
	Append(ctx context.Context, metric *domain.ConversionMetric, limit int) (*domain.ConversionMetric, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.ConversionMetric, error)
	AvgTimeToConvertSince(ctx context.Context, since time.Time) (float64, error)
}

// LeadCounter интерфейс счетчиков лидов за период
type LeadCounter interface {
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	CountConvertedSince(ctx context.Context, since time.Time) (int64, error)
}

// LeadConverter завершает конверсию лида по событию создания бронирования
type LeadConverter interface {
	CompleteConversion(ctx context.Context, sessionID string, bookingID int64, booking *domain.Booking) (*domain.Lead, error)
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

// FunnelMetrics бизнес-счетчики воронки
type FunnelMetrics interface {
	IncConversionRecorded()
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// NopMetrics заглушка счетчиков, когда метрики выключены
type NopMetrics struct{}

func (NopMetrics) IncConversionRecorded() {}

var _ events.BookingCreatedHandler = (*Service)(nil)
