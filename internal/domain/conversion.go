package domain

import "time"

// ConversionMetric одна запись журнала конверсий
// Журнал кольцевой: хранятся только последние N записей
type ConversionMetric struct {
	ID                   int64
	LeadID               int64
	BookingID            int64
	ServiceType          string
	TimeToConvertMinutes int64
	DealValue            float64
	Completion           int
	CreatedAt            time.Time
}

// ConversionStats агрегированная статистика конверсий за период
type ConversionStats struct {
	PeriodDays               int
	TotalLeads               int64
	ConvertedLeads           int64
	ConversionRate           float64 // проценты, 0 при отсутствии лидов
	AvgConversionTimeMinutes float64
}
