package get_company_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-FunnelService/internal/api/handlers"
	"github.com/m04kA/SMC-FunnelService/internal/api/middleware"
	"github.com/m04kA/SMC-FunnelService/internal/service/bookings"
)

const (
	msgInvalidCompanyID = "некорректный ID компании"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgInvalidParams    = "некорректные параметры запроса"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/companies/{companyId}/bookings
// Query params: status, date, dateFrom, dateTo, includeInactive (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	companyIDStr := vars["companyId"]

	companyID, err := strconv.ParseInt(companyIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /companies/{id}/bookings - Invalid company ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCompanyID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /companies/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	query := r.URL.Query()
	serviceReq, err := ToServiceRequest(
		companyID,
		query.Get("status"),
		query.Get("date"),
		query.Get("dateFrom"),
		query.Get("dateTo"),
		query.Get("includeInactive"),
	)
	if err != nil {
		h.logger.Warn("GET /companies/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetCompanyBookings(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /companies/{id}/bookings - Invalid input: company_id=%d", companyID)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /companies/{id}/bookings - Failed to get bookings: company_id=%d, error=%v",
				companyID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /companies/{id}/bookings - Bookings retrieved successfully: company_id=%d, user_id=%d, count=%d",
		companyID, userID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
