package domain

// Default configuration values
const (
	DefaultSlotDurationMinutes = 30
	DefaultMaxBookingsPerDay   = 0 // 0 = без ограничения
	DefaultAdvanceBookingDays  = 0 // 0 = без ограничения
)

// Lead lifecycle defaults
const (
	DefaultSessionTTLHours    = 24
	DefaultDedupWindowSeconds = 5
	DefaultRetentionDays      = 30
)

// Business validation constants
const (
	MinSlotDurationMinutes = 5
	MaxSlotDurationMinutes = 480 // 8 hours
	MaxAdvanceBookingDays  = 365
	MaxNotesLength         = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов, которые освобождают слот
// Используется при фильтрации бронирований для подсчёта доступности
var InactiveStatuses = []BookingStatus{
	StatusCancelled,
	StatusNoShow,
}

// DayNames названия дней недели по ISO номеру (1=Monday .. 7=Sunday)
var DayNames = map[int]string{
	1: "Monday",
	2: "Tuesday",
	3: "Wednesday",
	4: "Thursday",
	5: "Friday",
	6: "Saturday",
	7: "Sunday",
}
