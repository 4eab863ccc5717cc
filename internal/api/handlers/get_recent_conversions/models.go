package get_recent_conversions

import (
	"time"

	"github.com/m04kA/SMC-FunnelService/internal/domain"
)

// MetricResponse HTTP response model одной записи журнала конверсий
type MetricResponse struct {
	ID                   int64     `json:"id"`
	LeadID               int64     `json:"leadId"`
	BookingID            int64     `json:"bookingId"`
	ServiceType          string    `json:"serviceType"`
	TimeToConvertMinutes int64     `json:"timeToConvertMinutes"`
	DealValue            float64   `json:"dealValue"`
	Completion           int       `json:"completion"` // проценты
	CreatedAt            time.Time `json:"createdAt"`
}

// MetricsListResponse список последних конверсий
type MetricsListResponse struct {
	Metrics []*MetricResponse `json:"metrics"`
	Total   int               `json:"total"`
}

// FromDomainMetrics конвертирует domain модели в HTTP response
func FromDomainMetrics(metrics []*domain.ConversionMetric) *MetricsListResponse {
	items := make([]*MetricResponse, 0, len(metrics))
	for _, m := range metrics {
		items = append(items, &MetricResponse{
			ID:                   m.ID,
			LeadID:               m.LeadID,
			BookingID:            m.BookingID,
			ServiceType:          m.ServiceType,
			TimeToConvertMinutes: m.TimeToConvertMinutes,
			DealValue:            m.DealValue,
			Completion:           m.Completion,
			CreatedAt:            m.CreatedAt,
		})
	}
	return &MetricsListResponse{
		Metrics: items,
		Total:   len(items),
	}
}
