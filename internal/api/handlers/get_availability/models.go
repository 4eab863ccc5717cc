package get_availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-FunnelService/internal/domain"
	getAvailability "github.com/m04kA/SMC-FunnelService/internal/usecase/get_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	DateFrom  string                `json:"dateFrom"`
	DateTo    string                `json:"dateTo"`
	Companies []CompanyAvailability `json:"companies"`
}

// CompanyAvailability календарь доступности одной компании
type CompanyAvailability struct {
	CompanyID   int64             `json:"companyId"`
	CompanyName string            `json:"companyName"`
	Days        []DayAvailability `json:"days"`
}

// DayAvailability слоты одного дня
type DayAvailability struct {
	Date      string `json:"date"`      // "2025-10-15"
	DayName   string `json:"dayName"`   // "Monday"
	DayNumber int    `json:"dayNumber"` // 1-7, ISO
	Slots     []Slot `json:"slots"`
}

// Slot один временной слот
type Slot struct {
	StartTime       string `json:"startTime"` // "09:00"
	DurationMinutes int    `json:"durationMinutes"`
	Display         string `json:"display"` // "09:00 - 09:30"
	Available       bool   `json:"available"`
}

// ParseQuery разбирает query-параметры запроса доступности
func ParseQuery(companyIDs, dateFrom, dateTo string) (*getAvailability.Request, error) {
	if companyIDs == "" {
		return nil, fmt.Errorf("companyIds is required")
	}

	ids := make([]int64, 0)
	for _, part := range strings.Split(companyIDs, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid company id %q", part)
		}
		ids = append(ids, id)
	}

	from, err := time.Parse(domain.DateFormat, dateFrom)
	if err != nil {
		return nil, fmt.Errorf("invalid dateFrom")
	}

	to, err := time.Parse(domain.DateFormat, dateTo)
	if err != nil {
		return nil, fmt.Errorf("invalid dateTo")
	}

	return &getAvailability.Request{
		CompanyIDs: ids,
		DateFrom:   from,
		DateTo:     to,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailability.Response) *AvailabilityResponse {
	companies := make([]CompanyAvailability, 0, len(resp.Companies))
	for _, c := range resp.Companies {
		days := make([]DayAvailability, 0, len(c.Days))
		for _, d := range c.Days {
			slots := make([]Slot, 0, len(d.Slots))
			for _, s := range d.Slots {
				slots = append(slots, Slot{
					StartTime:       s.StartTime.String(),
					DurationMinutes: s.DurationMinutes,
					Display:         s.Display,
					Available:       s.Available,
				})
			}
			days = append(days, DayAvailability{
				Date:      d.Date.Format(domain.DateFormat),
				DayName:   d.DayName,
				DayNumber: d.DayNumber,
				Slots:     slots,
			})
		}
		companies = append(companies, CompanyAvailability{
			CompanyID:   c.CompanyID,
			CompanyName: c.CompanyName,
			Days:        days,
		})
	}

	return &AvailabilityResponse{
		DateFrom:  resp.DateFrom.Format(domain.DateFormat),
		DateTo:    resp.DateTo.Format(domain.DateFormat),
		Companies: companies,
	}
}
