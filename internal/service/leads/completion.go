package leads

import (
	"math"

	"github.com/m04kA/SMC-FunnelService/internal/domain"
)

// Обязательные поля воронки по типу услуги. Процент заполненности лида
// считается как доля заполненных обязательных полей. Для неизвестного
// типа услуги используется общий набор

// genericRequiredFields общий набор обязательных полей
var genericRequiredFields = []string{
	"service",
	"full_name",
	"email",
	"phone",
	"address",
	"company",
	"selected_date",
	"selected_time",
}

// serviceRequiredFields сервис-специфичные дополнения к общему набору
var serviceRequiredFields = map[string][]string{
	"cleaning": {"square_footage", "bedrooms"},
	"moving":   {"move_from_zip", "move_to_zip"},
	"lawncare": {"lot_size"},
}

// requiredFieldsFor возвращает набор обязательных полей для типа услуги
func requiredFieldsFor(serviceType string) []string {
	extra, ok := serviceRequiredFields[serviceType]
	if !ok {
		return genericRequiredFields
	}

	fields := make([]string, 0, len(genericRequiredFields)+len(extra))
	fields = append(fields, genericRequiredFields...)
	fields = append(fields, extra...)
	return fields
}

// CompletionPercentage вычисляет процент заполненности лида (0-100)
// Округление к ближайшему целому
func CompletionPercentage(lead *domain.Lead) int {
	required := requiredFieldsFor(lead.ServiceType)
	filled := 0

	for _, field := range required {
		if leadFieldValue(lead, field) != "" {
			filled++
		}
	}

	return int(math.Round(float64(filled) / float64(len(required)) * 100))
}

// leadFieldValue возвращает значение канонического поля лида
// Поля вне фиксированной схемы ищутся в атрибутах
func leadFieldValue(lead *domain.Lead, field string) string {
	switch field {
	case "service":
		return lead.ServiceType
	case "full_name":
		return lead.CustomerName
	case "email":
		return lead.Email
	case "phone":
		return lead.Phone
	case "address":
		return lead.Address
	case "zip":
		return lead.Zip
	case "company":
		if lead.CompanyID != nil {
			return "set"
		}
		return ""
	case "selected_date":
		if lead.ProposedDate != nil {
			return "set"
		}
		return ""
	case "selected_time":
		if lead.ProposedTime != nil {
			return "set"
		}
		return ""
	default:
		return lead.Attributes[field]
	}
}

// IsValidLeadData проверяет порог "осмысленного взаимодействия"
// Порог намеренно мягкий: достаточно любого контактного поля, типа услуги
// или одного маркетингового сигнала (UTM/referrer)
func IsValidLeadData(lead *domain.Lead) bool {
	if lead.CustomerName != "" || lead.Email != "" || lead.Phone != "" ||
		lead.Address != "" || lead.Zip != "" || lead.ServiceType != "" {
		return true
	}

	if lead.UTMSource != "" || lead.UTMMedium != "" || lead.UTMCampaign != "" ||
		lead.UTMTerm != "" || lead.UTMContent != "" || lead.Referrer != "" {
		return true
	}

	if lead.CompanyID != nil || lead.ProposedDate != nil {
		return true
	}

	return len(lead.Attributes) > 0
}
