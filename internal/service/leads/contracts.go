package leads

import (
	"context"
	"time"

	"github.com/m04kA/SMC-FunnelService/internal/domain"
)

// LeadRepository интерфейс репозитория лидов
type LeadRepository interface {
	Create(ctx context.Context, lead *domain.Lead) (*domain.Lead, error)
	GetBySessionID(ctx context.Context, sessionID string) (*domain.Lead, error)
	Update(ctx context.Context, lead *domain.Lead) error
	DeleteStaleBefore(ctx context.Context, cutoff time.Time, states []domain.LeadState) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	CountConvertedSince(ctx context.Context, since time.Time) (int64, error)
}

// DedupCache короткоживущий маркерный кэш для подавления дублей
type DedupCache interface {
	MarkIfAbsent(key string) bool
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
	IncLeadCaptured()
	IncDuplicateSuppressed()
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// NopMetrics заглушка счетчиков, когда метрики выключены
type NopMetrics struct{}

func (NopMetrics) IncLeadCaptured()        {}
func (NopMetrics) IncDuplicateSuppressed() {}
