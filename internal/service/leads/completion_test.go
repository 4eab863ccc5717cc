package leads

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-FunnelService/internal/domain"
	"github.com/m04kA/SMC-FunnelService/pkg/types"
)

func TestCompletionPercentage_GenericFields(t *testing.T) {
	empty := &domain.Lead{}
	assert.Equal(t, 0, CompletionPercentage(empty))

	// 1 из 8 общих полей: 12.5% округляется до 13
	oneField := &domain.Lead{Email: "jane@example.com"}
	assert.Equal(t, 13, CompletionPercentage(oneField))

	companyID := int64(3)
	date := time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC)
	half := &domain.Lead{
		CustomerName: "Jane Roe",
		Email:        "jane@example.com",
		CompanyID:    &companyID,
		ProposedDate: &date,
	}
	assert.Equal(t, 50, CompletionPercentage(half))
}

func TestCompletionPercentage_ServiceSpecificFields(t *testing.T) {
	companyID := int64(3)
	date := time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC)
	slot := types.TimeString("09:00")

	lead := &domain.Lead{
		ServiceType:  "cleaning",
		CustomerName: "Jane Roe",
		Email:        "jane@example.com",
		Phone:        "+1-555-0100",
		Address:      "1 Main St",
		CompanyID:    &companyID,
		ProposedDate: &date,
		ProposedTime: &slot,
		Attributes:   map[string]string{"square_footage": "1200", "bedrooms": "3"},
	}
	// 10 из 10 для cleaning (8 общих + square_footage + bedrooms)
	assert.Equal(t, 100, CompletionPercentage(lead))

	// Без сервис-специфичных атрибутов: 8 из 10
	lead.Attributes = nil
	assert.Equal(t, 80, CompletionPercentage(lead))
}

func TestCompletionPercentage_UnknownServiceUsesGenericSet(t *testing.T) {
	lead := &domain.Lead{
		ServiceType: "windows",
		Email:       "jane@example.com",
	}
	// service + email = 2 из 8
	assert.Equal(t, 25, CompletionPercentage(lead))
}

func TestIsValidLeadData(t *testing.T) {
	assert.False(t, IsValidLeadData(&domain.Lead{}))

	assert.True(t, IsValidLeadData(&domain.Lead{Email: "jane@example.com"}))
	assert.True(t, IsValidLeadData(&domain.Lead{ServiceType: "cleaning"}))

	// Одного маркетингового сигнала достаточно
	assert.True(t, IsValidLeadData(&domain.Lead{UTMSource: "google"}))
	assert.True(t, IsValidLeadData(&domain.Lead{Referrer: "https://example.com"}))

	// Неканонические поля тоже считаются осмысленным взаимодействием
	assert.True(t, IsValidLeadData(&domain.Lead{Attributes: map[string]string{"bedrooms": "3"}}))
}
