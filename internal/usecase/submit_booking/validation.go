package submit_booking

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/m04kA/SMC-FunnelService/internal/domain"
	"github.com/m04kA/SMC-FunnelService/pkg/types"
)

// requiredFields обязательные поля формы в порядке проверки
// Ошибка валидации называет первое отсутствующее
var requiredFields = []string{
	"service",
	"full_name",
	"email",
	"phone",
	"address",
	"company",
	"selected_date",
	"selected_time",
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// parseSubmission валидирует нормализованные поля формы и разбирает их в submission
func parseSubmission(normalized map[string]string) (*submission, error) {
	for _, field := range requiredFields {
		if normalized[field] == "" {
			return nil, fmt.Errorf("%w: %s", ErrValidation, field)
		}
	}

	if !emailPattern.MatchString(normalized["email"]) {
		return nil, ErrInvalidEmail
	}

	companyID, err := strconv.ParseInt(normalized["company"], 10, 64)
	if err != nil || companyID <= 0 {
		return nil, fmt.Errorf("%w: company", ErrValidation)
	}

	date, err := time.Parse(domain.DateFormat, normalized["selected_date"])
	if err != nil {
		return nil, fmt.Errorf("%w: selected_date", ErrValidation)
	}

	startTime, err := types.NewTimeStringFromString(normalized["selected_time"])
	if err != nil {
		return nil, fmt.Errorf("%w: selected_time", ErrValidation)
	}

	return &submission{
		ServiceType:  normalized["service"],
		CustomerName: normalized["full_name"],
		Email:        normalized["email"],
		Phone:        normalized["phone"],
		Address:      normalized["address"],
		Zip:          normalized["zip"],
		CompanyID:    companyID,
		Date:         date,
		StartTime:    startTime,
	}, nil
}

// validateDate проверяет, что дата не в прошлом и не выходит за горизонт бронирования
func validateDate(date, now time.Time, advanceBookingDays int) error {
	dateOnly := truncateToDay(date)
	nowOnly := truncateToDay(now)

	if dateOnly.Before(nowOnly) {
		return ErrInvalidDate
	}

	if advanceBookingDays > 0 {
		maxDate := nowOnly.AddDate(0, 0, advanceBookingDays)
		if dateOnly.After(maxDate) {
			return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, advanceBookingDays)
		}
	}

	return nil
}

// validateSlot проверяет, что время попадает в сетку слотов компании:
// внутри рабочих часов, целиком до закрытия и кратно шагу от открытия
func validateSlot(company *domain.Company, startTime types.TimeString) error {
	duration := company.SlotDurationMinutes
	if duration <= 0 {
		duration = domain.DefaultSlotDurationMinutes
	}

	if startTime.IsBefore(company.HoursStart) {
		return ErrInvalidTimeSlot
	}

	slotEnd, err := startTime.AddMinutes(duration)
	if err != nil || slotEnd.IsAfter(company.HoursEnd) {
		return ErrInvalidTimeSlot
	}

	startMinutes, err := startTime.TotalMinutes()
	if err != nil {
		return ErrInvalidTimeSlot
	}
	openMinutes, err := company.HoursStart.TotalMinutes()
	if err != nil {
		return ErrInvalidTimeSlot
	}
	if (startMinutes-openMinutes)%duration != 0 {
		return ErrInvalidTimeSlot
	}

	return nil
}

// truncateToDay обнуляет компоненту времени
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
