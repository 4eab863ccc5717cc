package domain

import (
	"time"

	"github.com/m04kA/SMC-FunnelService/pkg/types"
)

// LeadState represents the lifecycle state of a lead
type LeadState string

const (
	LeadStateNew        LeadState = "new"
	LeadStateCapturing  LeadState = "capturing"
	LeadStateConverting LeadState = "converting"
	LeadStateConverted  LeadState = "converted"
	LeadStateAbandoned  LeadState = "abandoned"
	LeadStateFailed     LeadState = "failed"
)

// LeadType классификация лида для отчетности
type LeadType string

const (
	LeadTypeProcessing  LeadType = "processing"
	LeadTypeComplete    LeadType = "complete"
	LeadTypeFailed      LeadType = "failed"
	LeadTypeRetroactive LeadType = "retroactive"
)

// Lead represents a prospective customer's in-progress or completed form interaction.
// Keyed by an opaque session id; linked to a booking by best-effort correlation,
// not a strict foreign key.
type Lead struct {
	ID        int64
	SessionID string

	ServiceType  string
	CustomerName string
	Email        string
	Phone        string
	Address      string
	Zip          string

	CompanyID    *int64
	ProposedDate *time.Time
	ProposedTime *types.TimeString

	// Произвольные сервис-специфичные поля формы (схема зависит от услуги)
	Attributes map[string]string

	Completion int // 0-100
	State      LeadState
	Type       LeadType
	Converted  bool
	BookingID  *int64

	// Маркетинговая атрибуция
	UTMSource   string
	UTMMedium   string
	UTMCampaign string
	UTMTerm     string
	UTMContent  string
	Referrer    string

	CreatedAt   time.Time
	LastUpdated time.Time
}

// IsConvertible returns true if the lead may still enter conversion
func (l *Lead) IsConvertible() bool {
	return l.State == LeadStateNew || l.State == LeadStateCapturing || l.State == LeadStateConverting
}

// IsTerminal returns true if the lead reached a final state
func (l *Lead) IsTerminal() bool {
	return l.State == LeadStateConverted || l.State == LeadStateAbandoned || l.State == LeadStateFailed
}
