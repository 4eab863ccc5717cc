package reservation

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FunnelService/internal/domain"
	"github.com/m04kA/SMC-FunnelService/pkg/types"
)

func TestCreate_Success(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO reservations").
		WithArgs(int64(1), sqlmock.AnyArg(), types.TimeString("10:00"), int64(55)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), now))

	created, err := repo.Create(context.Background(), &domain.Reservation{
		CompanyID: 1,
		Date:      time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC),
		StartTime: "10:00",
		BookingID: 55,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_SlotTakenOnUniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	// Constraint uq_reservations_slot определяет победителя гонки
	mock.ExpectQuery("INSERT INTO reservations").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "uq_reservations_slot"})

	_, err = repo.Create(context.Background(), &domain.Reservation{
		CompanyID: 1,
		Date:      time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC),
		StartTime: "10:00",
		BookingID: 56,
	})
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_OtherErrorWrapped(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery("INSERT INTO reservations").
		WillReturnError(&pq.Error{Code: "53300", Message: "too many connections"})

	_, err = repo.Create(context.Background(), &domain.Reservation{
		CompanyID: 1,
		Date:      time.Date(2026, 6, 2, 0, 0, 0, 0, time.UTC),
		StartTime: "10:00",
		BookingID: 56,
	})
	assert.ErrorIs(t, err, ErrExecQuery)
	assert.NotErrorIs(t, err, ErrSlotTaken)
}

func TestGetByCompanyAndDateRange(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	dateFrom := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	dateTo := time.Date(2026, 6, 7, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "company_id", "booking_date", "start_time", "booking_id", "created_at"}).
		AddRow(int64(1), int64(1), dateFrom, "09:00", int64(55), now).
		AddRow(int64(2), int64(1), dateFrom.AddDate(0, 0, 1), "10:30", int64(56), now)

	mock.ExpectQuery("SELECT .+ FROM reservations").
		WithArgs(int64(1), dateFrom, dateTo).
		WillReturnRows(rows)

	reservations, err := repo.GetByCompanyAndDateRange(context.Background(), 1, dateFrom, dateTo)
	require.NoError(t, err)
	require.Len(t, reservations, 2)
	assert.Equal(t, types.TimeString("09:00"), reservations[0].StartTime)
	assert.Equal(t, int64(56), reservations[1].BookingID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByBookingID(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectExec("DELETE FROM reservations").
		WithArgs(int64(55)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = repo.DeleteByBookingID(context.Background(), 55)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByBookingID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectExec("DELETE FROM reservations").
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.DeleteByBookingID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}
