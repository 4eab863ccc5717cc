package get_availability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FunnelService/internal/domain"
	"github.com/m04kA/SMC-FunnelService/pkg/types"
)

type fakeCompanyRepo struct {
	companies map[int64]*domain.Company
}

func (f *fakeCompanyRepo) GetByIDs(_ context.Context, ids []int64) ([]*domain.Company, error) {
	result := make([]*domain.Company, 0, len(ids))
	for _, id := range ids {
		if c, ok := f.companies[id]; ok {
			result = append(result, c)
		}
	}
	return result, nil
}

type fakeReservationRepo struct {
	reservations []*domain.Reservation
}

func (f *fakeReservationRepo) GetByCompanyAndDateRange(_ context.Context, companyID int64, dateFrom, dateTo time.Time) ([]*domain.Reservation, error) {
	result := make([]*domain.Reservation, 0)
	for _, r := range f.reservations {
		if r.CompanyID == companyID && !r.Date.Before(dateFrom) && !r.Date.After(dateTo) {
			result = append(result, r)
		}
	}
	return result, nil
}

type fakeBookingRepo struct {
	counts map[string]int // дата YYYY-MM-DD -> количество активных
}

func (f *fakeBookingRepo) CountActiveByCompanyAndDate(_ context.Context, companyID int64, date time.Time) (int, error) {
	key := date.Format(domain.DateFormat)
	return f.counts[key], nil
}

type fixedClock struct {
	t time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.t
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func weekdayCompany() *domain.Company {
	return &domain.Company{
		ID:                  1,
		Name:                "Acme Cleaning",
		AvailableDays:       []int{1, 2, 3, 4, 5},
		HoursStart:          types.TimeString("09:00"),
		HoursEnd:            types.TimeString("17:00"),
		SlotDurationMinutes: 30,
		Status:              domain.CompanyActive,
	}
}

func newTestUseCase(companies ...*domain.Company) (*UseCase, *fakeReservationRepo, *fakeBookingRepo) {
	companyRepo := &fakeCompanyRepo{companies: make(map[int64]*domain.Company)}
	for _, c := range companies {
		companyRepo.companies[c.ID] = c
	}
	reservationRepo := &fakeReservationRepo{}
	bookingRepo := &fakeBookingRepo{counts: make(map[string]int)}

	// Понедельник 2026-06-01
	clock := &fixedClock{t: time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)}
	uc := NewUseCase(companyRepo, reservationRepo, bookingRepo, nopLogger{}).WithTimeProvider(clock)
	return uc, reservationRepo, bookingRepo
}

func TestExecute_WeekdaySlotCount(t *testing.T) {
	uc, _, _ := newTestUseCase(weekdayCompany())

	// Понедельник
	day := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	resp, err := uc.Execute(context.Background(), &Request{
		CompanyIDs: []int64{1},
		DateFrom:   day,
		DateTo:     day,
	})
	require.NoError(t, err)
	require.Len(t, resp.Companies, 1)
	require.Len(t, resp.Companies[0].Days, 1)

	slots := resp.Companies[0].Days[0].Slots
	// 09:00-17:00 с шагом 30 минут: ровно 16 слотов
	require.Len(t, slots, 16)
	assert.Equal(t, types.TimeString("09:00"), slots[0].StartTime)
	assert.Equal(t, "09:00 - 09:30", slots[0].Display)
	assert.Equal(t, types.TimeString("16:30"), slots[15].StartTime)

	// Ни один слот не выходит за закрытие
	for _, s := range slots {
		end, err := s.StartTime.AddMinutes(s.DurationMinutes)
		require.NoError(t, err)
		assert.False(t, end.IsAfter(types.TimeString("17:00")), "slot %s overruns closing time", s.StartTime)
	}
}

func TestExecute_WeekendOmitted(t *testing.T) {
	uc, _, _ := newTestUseCase(weekdayCompany())

	// Понедельник 1 июня - воскресенье 7 июня
	resp, err := uc.Execute(context.Background(), &Request{
		CompanyIDs: []int64{1},
		DateFrom:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		DateTo:     time.Date(2026, 6, 7, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, resp.Companies, 1)

	days := resp.Companies[0].Days
	// Суббота и воскресенье не попадают в календарь
	require.Len(t, days, 5)
	for _, d := range days {
		assert.LessOrEqual(t, d.DayNumber, 5)
	}
	assert.Equal(t, "Monday", days[0].DayName)
	assert.Equal(t, "Friday", days[4].DayName)
}

func TestExecute_ReservedSlotUnavailable(t *testing.T) {
	uc, reservationRepo, _ := newTestUseCase(weekdayCompany())

	day := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	reservationRepo.reservations = []*domain.Reservation{
		{CompanyID: 1, Date: day, StartTime: types.TimeString("10:00"), BookingID: 55},
	}

	resp, err := uc.Execute(context.Background(), &Request{CompanyIDs: []int64{1}, DateFrom: day, DateTo: day})
	require.NoError(t, err)

	slots := resp.Companies[0].Days[0].Slots
	for _, s := range slots {
		if s.StartTime == "10:00" {
			assert.False(t, s.Available)
		} else {
			assert.True(t, s.Available, "slot %s should stay available", s.StartTime)
		}
	}
}

func TestExecute_DayFullWhenLimitReached(t *testing.T) {
	company := weekdayCompany()
	company.MaxBookingsPerDay = 3
	uc, _, bookingRepo := newTestUseCase(company)

	day := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	bookingRepo.counts[day.Format(domain.DateFormat)] = 3

	resp, err := uc.Execute(context.Background(), &Request{CompanyIDs: []int64{1}, DateFrom: day, DateTo: day})
	require.NoError(t, err)

	dayResult := resp.Companies[0].Days[0]
	require.Len(t, dayResult.Slots, 16)
	assert.True(t, dayResult.IsFullyBooked())
}

func TestExecute_AdvanceBookingLimitNarrowsRange(t *testing.T) {
	company := weekdayCompany()
	company.AdvanceBookingDays = 2
	uc, _, _ := newTestUseCase(company)

	// Сегодня понедельник 1 июня, горизонт 2 дня: среда уже недоступна
	resp, err := uc.Execute(context.Background(), &Request{
		CompanyIDs: []int64{1},
		DateFrom:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		DateTo:     time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	days := resp.Companies[0].Days
	require.Len(t, days, 3) // пн, вт, ср
	assert.Equal(t, "Wednesday", days[2].DayName)
}

func TestExecute_InvertedRangeReturnsEmpty(t *testing.T) {
	uc, _, _ := newTestUseCase(weekdayCompany())

	resp, err := uc.Execute(context.Background(), &Request{
		CompanyIDs: []int64{1},
		DateFrom:   time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC),
		DateTo:     time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Companies)
}

func TestExecute_InactiveCompany(t *testing.T) {
	company := weekdayCompany()
	company.Status = domain.CompanyInactive
	uc, _, _ := newTestUseCase(company)

	day := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	_, err := uc.Execute(context.Background(), &Request{CompanyIDs: []int64{1}, DateFrom: day, DateTo: day})
	assert.ErrorIs(t, err, ErrCompanyUnavailable)
}

func TestExecute_UnknownCompany(t *testing.T) {
	uc, _, _ := newTestUseCase(weekdayCompany())

	day := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	_, err := uc.Execute(context.Background(), &Request{CompanyIDs: []int64{1, 99}, DateFrom: day, DateTo: day})
	assert.ErrorIs(t, err, ErrCompanyNotFound)
}

func TestExecute_ValidationErrors(t *testing.T) {
	uc, _, _ := newTestUseCase(weekdayCompany())
	day := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	_, err := uc.Execute(context.Background(), &Request{CompanyIDs: nil, DateFrom: day, DateTo: day})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{CompanyIDs: []int64{-1}, DateFrom: day, DateTo: day})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{
		CompanyIDs: []int64{1},
		DateFrom:   day,
		DateTo:     day.AddDate(0, 0, MaxRangeDays+5),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_CloseBoundarySlots(t *testing.T) {
	company := weekdayCompany()
	company.HoursStart = types.TimeString("22:00")
	company.HoursEnd = types.TimeString("24:00")
	company.SlotDurationMinutes = 45
	uc, _, _ := newTestUseCase(company)

	day := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	resp, err := uc.Execute(context.Background(), &Request{CompanyIDs: []int64{1}, DateFrom: day, DateTo: day})
	require.NoError(t, err)

	// 22:00 и 22:45 помещаются, 23:30+45 перелезло бы за полночь
	slots := resp.Companies[0].Days[0].Slots
	require.Len(t, slots, 2)
	assert.Equal(t, types.TimeString("22:45"), slots[1].StartTime)
}