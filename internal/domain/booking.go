package domain

import (
	"time"

	"github.com/m04kA/SMC-FunnelService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusNoShow    BookingStatus = "no_show"
)

// Booking represents a confirmed service appointment created from a funnel submission
type Booking struct {
	ID          int64
	ServiceType string
	CompanyID   int64
	BookingDate time.Time
	StartTime   types.TimeString
	Status      BookingStatus

	// Customer fields captured from the form
	CustomerName string
	Email        string
	Phone        string
	Address      string
	Zip          string

	Notes *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still claims its slot
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled && b.Status != StatusNoShow
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsValidBookingStatus проверяет, что строка является допустимым статусом бронирования
func IsValidBookingStatus(s string) bool {
	switch BookingStatus(s) {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	default:
		return false
	}
}

// CompanyBookingsFilter фильтр для получения бронирований компании
type CompanyBookingsFilter struct {
	CompanyID       int64          // Обязательный параметр
	StartDate       *time.Time     // Начало периода (опционально, если nil - без ограничения)
	EndDate         *time.Time     // Конец периода (опционально, если nil - без ограничения)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли отмененные и no-show
}
