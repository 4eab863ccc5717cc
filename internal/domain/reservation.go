package domain

import (
	"time"

	"github.com/m04kA/SMC-FunnelService/pkg/types"
)

// Reservation is the durable claim of a single slot by a booking.
// The slots themselves are derived at query time; only claimed slots
// are persisted. Uniqueness on (company_id, booking_date, start_time)
// is enforced by the storage layer, not by application code.
type Reservation struct {
	ID        int64
	CompanyID int64
	Date      time.Time
	StartTime types.TimeString
	BookingID int64
	CreatedAt time.Time
}
