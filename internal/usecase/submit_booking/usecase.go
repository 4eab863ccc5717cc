package submit_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-FunnelService/internal/domain"
	"github.com/m04kA/SMC-FunnelService/internal/events"
	"github.com/m04kA/SMC-FunnelService/internal/fields"
	companyRepo "github.com/m04kA/SMC-FunnelService/internal/infra/storage/company"
	reservationRepo "github.com/m04kA/SMC-FunnelService/internal/infra/storage/reservation"
)

// UseCase use case создания бронирования из отправки формы воронки
type UseCase struct {
	companyRepo     CompanyRepository
	bookingRepo     BookingRepository
	reservationRepo ReservationRepository
	leads           LeadTracker
	publisher       EventPublisher
	txManager       TransactionManager
	metrics         FunnelMetrics
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	companyRepo CompanyRepository,
	bookingRepo BookingRepository,
	reservationRepo ReservationRepository,
	leads LeadTracker,
	publisher EventPublisher,
	txManager TransactionManager,
	metrics FunnelMetrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		companyRepo:     companyRepo,
		bookingRepo:     bookingRepo,
		reservationRepo: reservationRepo,
		leads:           leads,
		publisher:       publisher,
		txManager:       txManager,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания бронирования
// Бронирование и резервирование слота создаются в одной сериализуемой
// транзакции: либо существуют оба, либо ни одного. Гонка за слот решается
// уникальным ограничением хранилища, проигравший получает ErrSlotConflict
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SubmitBooking: session=%s, fields=%d", req.SessionID, len(req.FormFields))

	// 1. Подавление дублей (двойной клик по кнопке отправки)
	if req.SessionID != "" && uc.leads.IsDuplicateRequest(req.SessionID, "submit_booking") {
		uc.logger.Info("SubmitBooking: duplicate submission suppressed: session=%s", req.SessionID)
		return nil, ErrDuplicateRequest
	}

	// 2. Нормализация и валидация полей формы
	normalized := fields.Normalize(req.FormFields)
	sub, err := parseSubmission(normalized)
	if err != nil {
		uc.logger.Warn("SubmitBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 3. Переводим лид сессии в состояние конверсии
	// Ошибка трекинга не роняет бронирование
	if req.SessionID != "" {
		if _, err := uc.leads.BeginConversion(ctx, req.SessionID, req.FormFields); err != nil {
			uc.logger.Warn("SubmitBooking: begin conversion failed for session=%s: %v", req.SessionID, err)
		}
	}

	// 4. Получаем компанию и проверяем, что она принимает бронирования
	company, err := uc.companyRepo.GetByID(ctx, sub.CompanyID)
	if err != nil {
		if errors.Is(err, companyRepo.ErrCompanyNotFound) {
			uc.logger.Warn("SubmitBooking: company id=%d not found", sub.CompanyID)
			return nil, ErrCompanyUnavailable
		}
		uc.logger.Error("SubmitBooking: failed to get company id=%d: %v", sub.CompanyID, err)
		return nil, fmt.Errorf("%w: failed to get company: %v", ErrInternal, err)
	}
	if !company.IsActive() {
		uc.logger.Warn("SubmitBooking: company id=%d is not accepting bookings", sub.CompanyID)
		return nil, ErrCompanyUnavailable
	}

	// 5. Валидация даты и слота по расписанию компании
	if err := validateDate(sub.Date, now, company.AdvanceBookingDays); err != nil {
		uc.logger.Warn("SubmitBooking: date validation failed: %v", err)
		return nil, err
	}
	if !company.IsOpenOn(domain.ISOWeekday(sub.Date)) {
		uc.logger.Warn("SubmitBooking: company id=%d is closed on %s",
			sub.CompanyID, sub.Date.Format(domain.DateFormat))
		return nil, ErrCompanyClosed
	}
	if err := validateSlot(company, sub.StartTime); err != nil {
		uc.logger.Warn("SubmitBooking: slot validation failed: time=%s", sub.StartTime)
		return nil, err
	}

	var result *domain.Booking

	// 6. Создаем бронирование и резервирование в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Дневной лимит бронирований компании
		if company.MaxBookingsPerDay > 0 {
			count, err := uc.bookingRepo.CountActiveByCompanyAndDate(txCtx, sub.CompanyID, sub.Date)
			if err != nil {
				uc.logger.Error("SubmitBooking: failed to count bookings: %v", err)
				return fmt.Errorf("%w: failed to count bookings: %v", ErrInternal, err)
			}
			if count >= company.MaxBookingsPerDay {
				uc.logger.Warn("SubmitBooking: company id=%d day %s is full (%d/%d)",
					sub.CompanyID, sub.Date.Format(domain.DateFormat), count, company.MaxBookingsPerDay)
				return ErrDayFull
			}
		}

		// 6.2. Создаем бронирование
		booking := &domain.Booking{
			ServiceType:  sub.ServiceType,
			CompanyID:    sub.CompanyID,
			BookingDate:  sub.Date,
			StartTime:    sub.StartTime,
			Status:       domain.StatusPending,
			CustomerName: sub.CustomerName,
			Email:        sub.Email,
			Phone:        sub.Phone,
			Address:      sub.Address,
			Zip:          sub.Zip,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("SubmitBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 6.3. Занимаем слот; уникальное ограничение хранилища определяет победителя
		_, err = uc.reservationRepo.Create(txCtx, &domain.Reservation{
			CompanyID: sub.CompanyID,
			Date:      sub.Date,
			StartTime: sub.StartTime,
			BookingID: created.ID,
		})
		if err != nil {
			if errors.Is(err, reservationRepo.ErrSlotTaken) {
				uc.logger.Warn("SubmitBooking: slot conflict: company=%d date=%s time=%s",
					sub.CompanyID, sub.Date.Format(domain.DateFormat), sub.StartTime)
				uc.metrics.IncSlotConflict()
				return ErrSlotConflict
			}
			uc.logger.Error("SubmitBooking: failed to reserve slot: %v", err)
			return fmt.Errorf("%w: failed to reserve slot: %v", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("SubmitBooking: created booking id=%d company=%d date=%s time=%s",
		result.ID, result.CompanyID, result.BookingDate.Format(domain.DateFormat), result.StartTime)

	// 7. Событие создания бронирования: конверсия лида и метрика пишутся
	// подписчиками, их ошибки логируются и никогда не роняют ответ
	uc.publisher.PublishBookingCreated(ctx, events.BookingCreated{
		BookingID:    result.ID,
		SessionID:    req.SessionID,
		ServiceType:  result.ServiceType,
		CompanyID:    result.CompanyID,
		BookingDate:  result.BookingDate,
		StartTime:    result.StartTime,
		CustomerName: result.CustomerName,
		Email:        result.Email,
		Phone:        result.Phone,
		Booking:      result,
		OccurredAt:   now,
	})

	return &Response{
		ID:          result.ID,
		CompanyID:   result.CompanyID,
		ServiceType: result.ServiceType,
		BookingDate: result.BookingDate,
		StartTime:   result.StartTime,
		Status:      string(result.Status),
		SessionID:   req.SessionID,
		CreatedAt:   result.CreatedAt,
	}, nil
}
