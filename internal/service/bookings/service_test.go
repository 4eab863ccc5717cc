package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FunnelService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-FunnelService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-FunnelService/internal/service/bookings/models"
)

type fakeBookingRepo struct {
	bookings map[int64]*domain.Booking
}

func newFakeBookingRepo(bookings ...*domain.Booking) *fakeBookingRepo {
	repo := &fakeBookingRepo{bookings: make(map[int64]*domain.Booking)}
	for _, b := range bookings {
		repo.bookings[b.ID] = b
	}
	return repo
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) GetByCompanyWithFilter(_ context.Context, filter domain.CompanyBookingsFilter) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if b.CompanyID != filter.CompanyID {
			continue
		}
		if !filter.IncludeInactive && !b.IsActive() {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

func (f *fakeBookingRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	b, ok := f.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = status
	return nil
}

type fakeReservationRepo struct {
	released []int64
}

func (f *fakeReservationRepo) DeleteByBookingID(_ context.Context, bookingID int64) error {
	f.released = append(f.released, bookingID)
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func confirmedBooking(id int64) *domain.Booking {
	return &domain.Booking{
		ID:          id,
		ServiceType: "cleaning",
		CompanyID:   1,
		BookingDate: time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC),
		StartTime:   "10:00",
		Status:      domain.StatusConfirmed,
	}
}

func TestGetByID(t *testing.T) {
	repo := newFakeBookingRepo(confirmedBooking(77))
	svc := NewService(repo, &fakeReservationRepo{}, fakeTxManager{}, nopLogger{})

	resp, err := svc.GetByID(context.Background(), 77)
	require.NoError(t, err)
	assert.Equal(t, int64(77), resp.ID)
	assert.Equal(t, "confirmed", resp.Status)

	_, err = svc.GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestCancel_ReleasesSlot(t *testing.T) {
	repo := newFakeBookingRepo(confirmedBooking(77))
	reservations := &fakeReservationRepo{}
	svc := NewService(repo, reservations, fakeTxManager{}, nopLogger{})

	resp, err := svc.Cancel(context.Background(), 77)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), resp.Status)

	// Резервирование удалено: слот снова виден как свободный
	assert.Equal(t, []int64{77}, reservations.released)
	assert.Equal(t, domain.StatusCancelled, repo.bookings[77].Status)
}

func TestCancel_TerminalStatusRejected(t *testing.T) {
	booking := confirmedBooking(77)
	booking.Status = domain.StatusCompleted
	repo := newFakeBookingRepo(booking)
	reservations := &fakeReservationRepo{}
	svc := NewService(repo, reservations, fakeTxManager{}, nopLogger{})

	_, err := svc.Cancel(context.Background(), 77)
	assert.ErrorIs(t, err, ErrCannotCancel)
	assert.Empty(t, reservations.released)
}

func TestUpdateStatus_NoShowReleasesSlot(t *testing.T) {
	repo := newFakeBookingRepo(confirmedBooking(77))
	reservations := &fakeReservationRepo{}
	svc := NewService(repo, reservations, fakeTxManager{}, nopLogger{})

	resp, err := svc.UpdateStatus(context.Background(), 77, "no_show")
	require.NoError(t, err)
	assert.Equal(t, "no_show", resp.Status)
	assert.Equal(t, []int64{77}, reservations.released)
}

func TestUpdateStatus_CompletedKeepsSlot(t *testing.T) {
	repo := newFakeBookingRepo(confirmedBooking(77))
	reservations := &fakeReservationRepo{}
	svc := NewService(repo, reservations, fakeTxManager{}, nopLogger{})

	resp, err := svc.UpdateStatus(context.Background(), 77, "completed")
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)
	assert.Empty(t, reservations.released)
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	repo := newFakeBookingRepo(confirmedBooking(77))
	svc := NewService(repo, &fakeReservationRepo{}, fakeTxManager{}, nopLogger{})

	_, err := svc.UpdateStatus(context.Background(), 77, "unknown")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestGetCompanyBookings(t *testing.T) {
	cancelled := confirmedBooking(2)
	cancelled.Status = domain.StatusCancelled
	repo := newFakeBookingRepo(confirmedBooking(1), cancelled)
	svc := NewService(repo, &fakeReservationRepo{}, fakeTxManager{}, nopLogger{})

	resp, err := svc.GetCompanyBookings(context.Background(), &models.GetCompanyBookingsRequest{CompanyID: 1})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, int64(1), resp.Bookings[0].ID)

	withInactive, err := svc.GetCompanyBookings(context.Background(), &models.GetCompanyBookingsRequest{
		CompanyID:       1,
		IncludeInactive: true,
	})
	require.NoError(t, err)
	assert.Len(t, withInactive.Bookings, 2)
}
