package get_availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-FunnelService/internal/domain"
)

// UseCase use case расчета доступности слотов по компаниям за период
type UseCase struct {
	companyRepo     CompanyRepository
	reservationRepo ReservationRepository
	bookingRepo     BookingRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	companyRepo CompanyRepository,
	reservationRepo ReservationRepository,
	bookingRepo BookingRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		companyRepo:     companyRepo,
		reservationRepo: reservationRepo,
		bookingRepo:     bookingRepo,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case расчета доступности
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailability: companies=%v, dateFrom=%s, dateTo=%s",
		req.CompanyIDs, req.DateFrom.Format(domain.DateFormat), req.DateTo.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailability: validation failed: %v", err)
		return nil, err
	}

	dateFrom := dateOnly(req.DateFrom)
	dateTo := dateOnly(req.DateTo)

	// 2. Перевернутый период - корректный запрос с пустым ответом
	if dateFrom.After(dateTo) {
		uc.logger.Info("GetAvailability: dateFrom after dateTo, returning empty result")
		return &Response{DateFrom: dateFrom, DateTo: dateTo, Companies: []CompanyAvailability{}}, nil
	}

	// 3. Получаем компании
	companies, err := uc.companyRepo.GetByIDs(ctx, req.CompanyIDs)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get companies: %v", err)
		return nil, fmt.Errorf("%w: failed to get companies: %v", ErrInternal, err)
	}

	found := make(map[int64]*domain.Company, len(companies))
	for _, c := range companies {
		found[c.ID] = c
	}
	for _, id := range req.CompanyIDs {
		if found[id] == nil {
			uc.logger.Warn("GetAvailability: company id=%d not found", id)
			return nil, ErrCompanyNotFound
		}
	}

	now := uc.timeProvider.Now()
	result := make([]CompanyAvailability, 0, len(req.CompanyIDs))

	// 4. Считаем календарь по каждой компании в порядке запроса
	for _, id := range req.CompanyIDs {
		company := found[id]

		if !company.IsActive() {
			uc.logger.Warn("GetAvailability: company id=%d is not accepting bookings", id)
			return nil, ErrCompanyUnavailable
		}

		days, err := uc.buildCompanyCalendar(ctx, company, dateFrom, dateTo, now)
		if err != nil {
			return nil, err
		}

		result = append(result, CompanyAvailability{
			CompanyID:   company.ID,
			CompanyName: company.Name,
			Days:        days,
		})
	}

	uc.logger.Info("GetAvailability: built calendar for %d companies over %d days",
		len(result), daySpan(dateFrom, dateTo))

	return &Response{DateFrom: dateFrom, DateTo: dateTo, Companies: result}, nil
}

// buildCompanyCalendar строит поденный календарь доступности одной компании
func (uc *UseCase) buildCompanyCalendar(
	ctx context.Context,
	company *domain.Company,
	dateFrom, dateTo time.Time,
	now time.Time,
) ([]domain.DayAvailability, error) {
	// Ограничение горизонта бронирования компании сужает период
	effectiveTo := dateTo
	if company.HasAdvanceBookingLimit() {
		maxDate := dateOnly(now).AddDate(0, 0, company.AdvanceBookingDays)
		if maxDate.Before(effectiveTo) {
			effectiveTo = maxDate
		}
	}

	days := make([]domain.DayAvailability, 0)
	if effectiveTo.Before(dateFrom) {
		return days, nil
	}

	// Занятые слоты за весь период одним запросом
	reservations, err := uc.reservationRepo.GetByCompanyAndDateRange(ctx, company.ID, dateFrom, effectiveTo)
	if err != nil {
		uc.logger.Error("GetAvailability: failed to get reservations for company id=%d: %v", company.ID, err)
		return nil, fmt.Errorf("%w: failed to get reservations: %v", ErrInternal, err)
	}
	reservedByDate := reservedTimesByDate(reservations)

	for date := dateFrom; !date.After(effectiveTo); date = date.AddDate(0, 0, 1) {
		weekday := domain.ISOWeekday(date)

		// Нерабочие дни недели в календарь не попадают
		if !company.IsOpenOn(weekday) {
			continue
		}

		dayFull := false
		if company.MaxBookingsPerDay > 0 {
			count, err := uc.bookingRepo.CountActiveByCompanyAndDate(ctx, company.ID, date)
			if err != nil {
				uc.logger.Error("GetAvailability: failed to count bookings for company id=%d date=%s: %v",
					company.ID, date.Format(domain.DateFormat), err)
				return nil, fmt.Errorf("%w: failed to count bookings: %v", ErrInternal, err)
			}
			dayFull = count >= company.MaxBookingsPerDay
		}

		reserved := reservedByDate[date.Format(domain.DateFormat)]
		slots, err := generateDaySlots(company, reserved, dayFull)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
		}

		days = append(days, domain.DayAvailability{
			Date:      date,
			DayName:   domain.DayNames[weekday],
			DayNumber: weekday,
			Slots:     slots,
		})
	}

	return days, nil
}
