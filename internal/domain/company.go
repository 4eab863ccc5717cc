package domain

import (
	"time"

	"github.com/m04kA/SMC-FunnelService/pkg/types"
)

// CompanyStatus represents whether a company accepts bookings
type CompanyStatus string

const (
	CompanyActive   CompanyStatus = "active"
	CompanyInactive CompanyStatus = "inactive"
)

// Company represents a provider company with its booking schedule configuration
type Company struct {
	ID    int64
	Name  string
	Phone string
	Email string
	City  string

	// Расписание: дни недели по ISO (1=понедельник .. 7=воскресенье)
	AvailableDays       []int
	HoursStart          types.TimeString
	HoursEnd            types.TimeString
	SlotDurationMinutes int
	MaxBookingsPerDay   int
	AdvanceBookingDays  int // 0 = без ограничения

	Status CompanyStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the company accepts bookings
func (c *Company) IsActive() bool {
	return c.Status == CompanyActive
}

// IsOpenOn returns true if the company works on the given ISO weekday (1-7)
func (c *Company) IsOpenOn(isoWeekday int) bool {
	for _, d := range c.AvailableDays {
		if d == isoWeekday {
			return true
		}
	}
	return false
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (c *Company) HasAdvanceBookingLimit() bool {
	return c.AdvanceBookingDays > 0
}

// ISOWeekday возвращает номер дня недели по ISO: 1=понедельник .. 7=воскресенье
func ISOWeekday(date time.Time) int {
	wd := int(date.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
