package get_availability

import (
	"fmt"
	"time"
)

// MaxRangeDays максимальная ширина запрашиваемого периода
const MaxRangeDays = 60

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if len(req.CompanyIDs) == 0 {
		return fmt.Errorf("%w: at least one companyID is required", ErrInvalidInput)
	}

	for _, id := range req.CompanyIDs {
		if id <= 0 {
			return fmt.Errorf("%w: companyID must be positive", ErrInvalidInput)
		}
	}

	if req.DateFrom.IsZero() || req.DateTo.IsZero() {
		return fmt.Errorf("%w: dateFrom and dateTo are required", ErrInvalidInput)
	}

	if daySpan(req.DateFrom, req.DateTo) > MaxRangeDays {
		return fmt.Errorf("%w: date range must not exceed %d days", ErrInvalidInput, MaxRangeDays)
	}

	return nil
}

// daySpan количество дней в периоде [from, to] включительно
func daySpan(from, to time.Time) int {
	fromOnly := dateOnly(from)
	toOnly := dateOnly(to)
	return int(toOnly.Sub(fromOnly).Hours()/24) + 1
}

// dateOnly обнуляет компоненту времени
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
