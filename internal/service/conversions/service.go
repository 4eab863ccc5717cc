package conversions

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/m04kA/SMC-FunnelService/internal/domain"
	"github.com/m04kA/SMC-FunnelService/internal/events"
)

const (
	// DefaultStatsPeriodDays период статистики по умолчанию
	DefaultStatsPeriodDays = 30

	// MaxStatsPeriodDays верхняя граница периода статистики
	MaxStatsPeriodDays = 365
)

// Config параметры журнала конверсий
type Config struct {
	MetricsLogLimit int                // размер кольцевого журнала (по умолчанию 1000)
	DealValues      map[string]float64 // условная стоимость сделки по типу услуги
}

// Service трекер конверсий: ведёт журнал и считает агрегаты воронки
// Подписан на событие создания бронирования: сперва завершает конверсию
// лида, затем пишет метрику
type Service struct {
	repo         ConversionRepository
	leadsCounter LeadCounter
	leads        LeadConverter
	cfg          Config
	timeProvider TimeProvider
	metrics      FunnelMetrics
	logger       Logger
}

// NewService создает новый экземпляр трекера конверсий
func NewService(repo ConversionRepository, leadsCounter LeadCounter, leads LeadConverter, cfg Config, metrics FunnelMetrics, logger Logger) *Service {
	if cfg.MetricsLogLimit <= 0 {
		cfg.MetricsLogLimit = 1000
	}

	return &Service{
		repo:         repo,
		leadsCounter: leadsCounter,
		leads:        leads,
		cfg:          cfg,
		timeProvider: &RealTimeProvider{},
		metrics:      metrics,
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// HandleBookingCreated реализует events.BookingCreatedHandler
// Ошибка возвращается только для логирования шиной: создание бронирования
// от неё не зависит
func (s *Service) HandleBookingCreated(ctx context.Context, event events.BookingCreated) error {
	lead, err := s.leads.CompleteConversion(ctx, event.SessionID, event.BookingID, event.Booking)
	if err != nil {
		return fmt.Errorf("%w: HandleBookingCreated - complete conversion: %v", ErrInternal, err)
	}

	if _, err := s.RecordConversion(ctx, lead, event.BookingID); err != nil {
		return fmt.Errorf("%w: HandleBookingCreated - record conversion: %v", ErrInternal, err)
	}

	return nil
}

// RecordConversion пишет запись о конверсии в кольцевой журнал
// Время до конверсии считается от создания лида; для ретроактивных лидов
// оно равно нулю. Стоимость сделки берётся из конфигурации по типу услуги,
// для неизвестных услуг - ноль
func (s *Service) RecordConversion(ctx context.Context, lead *domain.Lead, bookingID int64) (*domain.ConversionMetric, error) {
	now := s.timeProvider.Now()

	var timeToConvert int64
	if !lead.CreatedAt.IsZero() && now.After(lead.CreatedAt) {
		timeToConvert = int64(math.Round(now.Sub(lead.CreatedAt).Minutes()))
	}

	metric := &domain.ConversionMetric{
		LeadID:               lead.ID,
		BookingID:            bookingID,
		ServiceType:          lead.ServiceType,
		TimeToConvertMinutes: timeToConvert,
		DealValue:            s.cfg.DealValues[lead.ServiceType],
		Completion:           lead.Completion,
	}

	created, err := s.repo.Append(ctx, metric, s.cfg.MetricsLogLimit)
	if err != nil {
		return nil, fmt.Errorf("%w: RecordConversion - append metric: %v", ErrPersistence, err)
	}

	s.metrics.IncConversionRecorded()
	s.logger.Info("RecordConversion: lead id=%d booking id=%d service=%s time_to_convert=%dm",
		lead.ID, bookingID, lead.ServiceType, timeToConvert)
	return created, nil
}

// GetStats возвращает агрегированную статистику воронки за период
// При нуле лидов все показатели нулевые, ошибки деления не возникает
func (s *Service) GetStats(ctx context.Context, periodDays int) (*domain.ConversionStats, error) {
	if periodDays <= 0 {
		periodDays = DefaultStatsPeriodDays
	}
	if periodDays > MaxStatsPeriodDays {
		return nil, fmt.Errorf("%w: period %d days exceeds maximum %d", ErrInvalidPeriod, periodDays, MaxStatsPeriodDays)
	}

	since := s.timeProvider.Now().Add(-time.Duration(periodDays) * 24 * time.Hour)

	total, err := s.leadsCounter.CountCreatedSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("%w: GetStats - count leads: %v", ErrInternal, err)
	}

	converted, err := s.leadsCounter.CountConvertedSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("%w: GetStats - count conversions: %v", ErrInternal, err)
	}

	avgMinutes, err := s.repo.AvgTimeToConvertSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("%w: GetStats - avg conversion time: %v", ErrInternal, err)
	}

	stats := &domain.ConversionStats{
		PeriodDays:               periodDays,
		TotalLeads:               total,
		ConvertedLeads:           converted,
		AvgConversionTimeMinutes: avgMinutes,
	}
	if total > 0 {
		stats.ConversionRate = math.Round(float64(converted)/float64(total)*10000) / 100
	}

	return stats, nil
}

// ListRecent возвращает последние записи журнала конверсий
func (s *Service) ListRecent(ctx context.Context, limit int) ([]*domain.ConversionMetric, error) {
	if limit <= 0 || limit > s.cfg.MetricsLogLimit {
		limit = s.cfg.MetricsLogLimit
	}

	metrics, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: ListRecent - list metrics: %v", ErrInternal, err)
	}
	return metrics, nil
}
