package get_conversion_stats

import (
	"github.com/m04kA/SMC-FunnelService/internal/domain"
)

// StatsResponse HTTP response model
type StatsResponse struct {
	PeriodDays               int     `json:"periodDays"`
	TotalLeads               int64   `json:"totalLeads"`
	ConvertedLeads           int64   `json:"convertedLeads"`
	ConversionRate           float64 `json:"conversionRate"` // проценты
	AvgConversionTimeMinutes float64 `json:"avgConversionTimeMinutes"`
}

// FromDomainStats конвертирует domain модель в HTTP response
func FromDomainStats(s *domain.ConversionStats) *StatsResponse {
	return &StatsResponse{
		PeriodDays:               s.PeriodDays,
		TotalLeads:               s.TotalLeads,
		ConvertedLeads:           s.ConvertedLeads,
		ConversionRate:           s.ConversionRate,
		AvgConversionTimeMinutes: s.AvgConversionTimeMinutes,
	}
}
