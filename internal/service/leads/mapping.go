package leads

import (
	"strconv"
	"time"

	"github.com/m04kA/SMC-FunnelService/internal/domain"
	"github.com/m04kA/SMC-FunnelService/pkg/types"
)

// canonicalLeadFields канонические поля, попадающие в фиксированную схему лида
// Всё остальное из нормализованной формы уходит в атрибуты
var canonicalLeadFields = map[string]bool{
	"service":       true,
	"full_name":     true,
	"email":         true,
	"phone":         true,
	"address":       true,
	"zip":           true,
	"company":       true,
	"selected_date": true,
	"selected_time": true,
	"utm_source":    true,
	"utm_medium":    true,
	"utm_campaign":  true,
	"utm_term":      true,
	"utm_content":   true,
	"referrer":      true,
}

// leadFromNormalized раскладывает нормализованные поля формы в структуру лида
// Поля с нераспознаваемыми значениями (дата, время, company id) остаются пустыми
func leadFromNormalized(normalized map[string]string) *domain.Lead {
	lead := &domain.Lead{
		ServiceType:  normalized["service"],
		CustomerName: normalized["full_name"],
		Email:        normalized["email"],
		Phone:        normalized["phone"],
		Address:      normalized["address"],
		Zip:          normalized["zip"],
		UTMSource:    normalized["utm_source"],
		UTMMedium:    normalized["utm_medium"],
		UTMCampaign:  normalized["utm_campaign"],
		UTMTerm:      normalized["utm_term"],
		UTMContent:   normalized["utm_content"],
		Referrer:     normalized["referrer"],
		Attributes:   make(map[string]string),
	}

	if v := normalized["company"]; v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil && id > 0 {
			lead.CompanyID = &id
		}
	}

	if v := normalized["selected_date"]; v != "" {
		if d, err := time.Parse(domain.DateFormat, v); err == nil {
			lead.ProposedDate = &d
		}
	}

	if v := normalized["selected_time"]; v != "" {
		if t, err := types.NewTimeStringFromString(v); err == nil {
			lead.ProposedTime = &t
		}
	}

	for key, value := range normalized {
		if !canonicalLeadFields[key] && value != "" {
			lead.Attributes[key] = value
		}
	}

	return lead
}

// mergeLead сливает новое касание в существующий лид
// Непустые поля нового касания перекрывают старые, пустые никогда не стирают
// ранее собранные значения; атрибуты сливаются по ключам
func mergeLead(existing, incoming *domain.Lead) {
	if incoming.ServiceType != "" {
		existing.ServiceType = incoming.ServiceType
	}
	if incoming.CustomerName != "" {
		existing.CustomerName = incoming.CustomerName
	}
	if incoming.Email != "" {
		existing.Email = incoming.Email
	}
	if incoming.Phone != "" {
		existing.Phone = incoming.Phone
	}
	if incoming.Address != "" {
		existing.Address = incoming.Address
	}
	if incoming.Zip != "" {
		existing.Zip = incoming.Zip
	}
	if incoming.CompanyID != nil {
		existing.CompanyID = incoming.CompanyID
	}
	if incoming.ProposedDate != nil {
		existing.ProposedDate = incoming.ProposedDate
	}
	if incoming.ProposedTime != nil {
		existing.ProposedTime = incoming.ProposedTime
	}
	if incoming.UTMSource != "" {
		existing.UTMSource = incoming.UTMSource
	}
	if incoming.UTMMedium != "" {
		existing.UTMMedium = incoming.UTMMedium
	}
	if incoming.UTMCampaign != "" {
		existing.UTMCampaign = incoming.UTMCampaign
	}
	if incoming.UTMTerm != "" {
		existing.UTMTerm = incoming.UTMTerm
	}
	if incoming.UTMContent != "" {
		existing.UTMContent = incoming.UTMContent
	}
	if incoming.Referrer != "" {
		existing.Referrer = incoming.Referrer
	}

	if existing.Attributes == nil {
		existing.Attributes = make(map[string]string)
	}
	for key, value := range incoming.Attributes {
		if value != "" {
			existing.Attributes[key] = value
		}
	}
}
