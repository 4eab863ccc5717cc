package submit_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-FunnelService/internal/api/handlers"
	submitBooking "github.com/m04kA/SMC-FunnelService/internal/usecase/submit_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgValidationFailed   = "не заполнено обязательное поле"
	msgInvalidEmail       = "некорректный формат email"
	msgCompanyUnavailable = "компания не принимает бронирования"
	msgCompanyClosed      = "компания закрыта в выбранную дату"
	msgInvalidBookingDate = "некорректная дата бронирования"
	msgDateTooFar         = "дата бронирования слишком далеко в будущем"
	msgInvalidTimeSlot    = "некорректный временной слот"
	msgSlotConflict       = "слот уже занят, выберите другое время"
	msgDayFull            = "на выбранную дату не осталось свободных мест"
)

type Handler struct {
	useCase SubmitBookingUseCase
	logger  Logger
}

func NewHandler(useCase SubmitBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req SubmitBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, submitBooking.ErrDuplicateRequest):
			// Повторная отправка в окне дедупликации - успешный no-op
			h.logger.Info("POST /bookings - Duplicate submission: session=%s", req.SessionID)
			handlers.RespondJSON(w, http.StatusOK, DuplicateResponse{Status: "duplicate"})

		case errors.Is(err, submitBooking.ErrValidation):
			h.logger.Warn("POST /bookings - Validation failed: session=%s, error=%v", req.SessionID, err)
			handlers.RespondBadRequest(w, msgValidationFailed+": "+err.Error())

		case errors.Is(err, submitBooking.ErrInvalidEmail):
			h.logger.Warn("POST /bookings - Invalid email: session=%s", req.SessionID)
			handlers.RespondBadRequest(w, msgInvalidEmail)

		case errors.Is(err, submitBooking.ErrCompanyUnavailable):
			h.logger.Warn("POST /bookings - Company unavailable: session=%s", req.SessionID)
			handlers.RespondNotFound(w, msgCompanyUnavailable)

		case errors.Is(err, submitBooking.ErrCompanyClosed):
			h.logger.Warn("POST /bookings - Company closed: session=%s", req.SessionID)
			handlers.RespondBadRequest(w, msgCompanyClosed)

		case errors.Is(err, submitBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Invalid date: session=%s", req.SessionID)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, submitBooking.ErrDateTooFarInFuture):
			h.logger.Warn("POST /bookings - Date too far in future: session=%s", req.SessionID)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, submitBooking.ErrInvalidTimeSlot):
			h.logger.Warn("POST /bookings - Invalid time slot: session=%s", req.SessionID)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, submitBooking.ErrSlotConflict):
			h.logger.Warn("POST /bookings - Slot conflict: session=%s", req.SessionID)
			handlers.RespondConflict(w, msgSlotConflict)

		case errors.Is(err, submitBooking.ErrDayFull):
			h.logger.Warn("POST /bookings - Day full: session=%s", req.SessionID)
			handlers.RespondConflict(w, msgDayFull)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: session=%s, error=%v", req.SessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, session=%s",
		result.ID, req.SessionID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
