package events

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-FunnelService/internal/domain"
	"github.com/m04kA/SMC-FunnelService/pkg/types"
)

// BookingCreated событие успешного создания бронирования
// Несёт все данные, нужные подписчикам: обработчик может выполняться
// с неограниченной задержкой относительно породившего запроса и не должен
// рассчитывать на его данные в памяти
type BookingCreated struct {
	BookingID   int64
	SessionID   string
	ServiceType string
	CompanyID   int64
	BookingDate time.Time
	StartTime   types.TimeString

	CustomerName string
	Email        string
	Phone        string

	Booking *domain.Booking

	OccurredAt time.Time
}

// BookingCreatedHandler обработчик события создания бронирования
type BookingCreatedHandler interface {
	HandleBookingCreated(ctx context.Context, event BookingCreated) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Bus простая внутрипроцессная шина событий с типизированными payload'ами
// Publish синхронный: обработчики вызываются по очереди, их ошибки
// логируются и никогда не прерывают путь создания бронирования
type Bus struct {
	mu       sync.RWMutex
	handlers []BookingCreatedHandler
	logger   Logger
}

// NewBus создает новую шину событий
func NewBus(logger Logger) *Bus {
	return &Bus{logger: logger}
}

// SubscribeBookingCreated регистрирует обработчик события создания бронирования
func (b *Bus) SubscribeBookingCreated(h BookingCreatedHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// PublishBookingCreated доставляет событие всем подписчикам
// Ошибки обработчиков не возвращаются вызывающему
func (b *Bus) PublishBookingCreated(ctx context.Context, event BookingCreated) {
	b.mu.RLock()
	handlers := make([]BookingCreatedHandler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h.HandleBookingCreated(ctx, event); err != nil {
			b.logger.Error("events: booking-created handler failed: booking_id=%d, error=%v",
				event.BookingID, err)
		}
	}
}
