package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-FunnelService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-FunnelService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-FunnelService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo     BookingRepository
	reservationRepo ReservationRepository
	txManager       TransactionManager
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	reservationRepo ReservationRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:     bookingRepo,
		reservationRepo: reservationRepo,
		txManager:       txManager,
		logger:          logger,
	}
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d", id)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// GetCompanyBookings получает бронирования компании с фильтрацией
// по периоду, статусу и включению отменённых
func (s *Service) GetCompanyBookings(ctx context.Context, req *models.GetCompanyBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetCompanyBookings: fetching bookings for company=%d", req.CompanyID)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetCompanyBookings: invalid status for company=%d: %v", req.CompanyID, err)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByCompanyWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetCompanyBookings: repository error for company=%d: %v", req.CompanyID, err)
		return nil, fmt.Errorf("%w: GetCompanyBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCompanyBookings: fetched %d bookings for company=%d", len(bookings), req.CompanyID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование и освобождает его слот
// Смена статуса и удаление резервирования выполняются в одной транзакции
func (s *Service) Cancel(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d", id)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d in status=%s cannot be cancelled", id, booking.Status)
		return nil, ErrCannotCancel
	}

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := s.bookingRepo.UpdateStatus(txCtx, id, domain.StatusCancelled); err != nil {
			return fmt.Errorf("%w: Cancel - update status: %v", ErrInternal, err)
		}
		if err := s.reservationRepo.DeleteByBookingID(txCtx, id); err != nil {
			return fmt.Errorf("%w: Cancel - release slot: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Cancel: transaction failed for booking id=%d: %v", id, err)
		return nil, err
	}

	booking.Status = domain.StatusCancelled
	s.logger.Info("Cancel: booking id=%d cancelled, slot released", id)
	return models.FromDomainBooking(booking), nil
}

// UpdateStatus меняет статус бронирования
// Перевод в неактивный статус (cancelled, no_show) освобождает слот
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: booking id=%d, status=%s", id, status)

	domainStatus, err := models.ToDomainBookingStatus(status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", status, id)
		return nil, ErrInvalidStatus
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	releasesSlot := booking.IsActive() && !(&domain.Booking{Status: domainStatus}).IsActive()

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := s.bookingRepo.UpdateStatus(txCtx, id, domainStatus); err != nil {
			return fmt.Errorf("%w: UpdateStatus - update: %v", ErrInternal, err)
		}
		if releasesSlot {
			if err := s.reservationRepo.DeleteByBookingID(txCtx, id); err != nil {
				return fmt.Errorf("%w: UpdateStatus - release slot: %v", ErrInternal, err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("UpdateStatus: transaction failed for booking id=%d: %v", id, err)
		return nil, err
	}

	booking.Status = domainStatus
	s.logger.Info("UpdateStatus: booking id=%d moved to status=%s", id, domainStatus)
	return models.FromDomainBooking(booking), nil
}
