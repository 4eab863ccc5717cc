package get_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-FunnelService/internal/api/handlers"
	getAvailability "github.com/m04kA/SMC-FunnelService/internal/usecase/get_availability"
)

const (
	msgInvalidQuery       = "некорректные параметры запроса"
	msgCompanyNotFound    = "компания не найдена"
	msgCompanyUnavailable = "компания не принимает бронирования"
)

type Handler struct {
	useCase GetAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/companies/availability?companyIds=1,2&dateFrom=...&dateTo=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req, err := ParseQuery(query.Get("companyIds"), query.Get("dateFrom"), query.Get("dateTo"))
	if err != nil {
		h.logger.Warn("GET /companies/availability - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getAvailability.ErrInvalidInput):
			h.logger.Warn("GET /companies/availability - Validation failed: %v", err)
			handlers.RespondBadRequest(w, msgInvalidQuery)

		case errors.Is(err, getAvailability.ErrCompanyNotFound):
			h.logger.Warn("GET /companies/availability - Company not found: companies=%v", req.CompanyIDs)
			handlers.RespondNotFound(w, msgCompanyNotFound)

		case errors.Is(err, getAvailability.ErrCompanyUnavailable):
			h.logger.Warn("GET /companies/availability - Company unavailable: companies=%v", req.CompanyIDs)
			handlers.RespondNotFound(w, msgCompanyUnavailable)

		default:
			h.logger.Error("GET /companies/availability - Failed: companies=%v, error=%v", req.CompanyIDs, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /companies/availability - Calendar built: companies=%d", len(result.Companies))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
