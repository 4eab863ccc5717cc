package domain

import (
	"time"

	"github.com/m04kA/SMC-FunnelService/pkg/types"
)

// Slot represents a bookable time window derived at query time
type Slot struct {
	StartTime       types.TimeString
	DurationMinutes int
	Display         string // человекочитаемое представление, например "09:00 - 09:30"
	Available       bool
}

// DayAvailability per-date slot listing with day metadata
type DayAvailability struct {
	Date      time.Time
	DayName   string // название дня недели
	DayNumber int    // ISO номер дня (1-7)
	Slots     []Slot
}

// IsFullyBooked returns true if the day has slots and none is available
func (d *DayAvailability) IsFullyBooked() bool {
	if len(d.Slots) == 0 {
		return false
	}
	for _, s := range d.Slots {
		if s.Available {
			return false
		}
	}
	return true
}
