package get_conversion_stats

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-FunnelService/internal/api/handlers"
	"github.com/m04kA/SMC-FunnelService/internal/api/middleware"
	"github.com/m04kA/SMC-FunnelService/internal/service/conversions"
)

const (
	msgInvalidDays   = "некорректный период статистики"
	msgMissingUserID = "отсутствует ID пользователя"
)

type Handler struct {
	service ConversionService
	logger  Logger
}

func NewHandler(service ConversionService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/conversions/stats?days=30
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /conversions/stats - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	days := 0
	if daysStr := r.URL.Query().Get("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed < 0 {
			h.logger.Warn("GET /conversions/stats - Invalid days parameter: %q", daysStr)
			handlers.RespondBadRequest(w, msgInvalidDays)
			return
		}
		days = parsed
	}

	stats, err := h.service.GetStats(r.Context(), days)
	if err != nil {
		switch {
		case errors.Is(err, conversions.ErrInvalidPeriod):
			h.logger.Warn("GET /conversions/stats - Invalid period: days=%d", days)
			handlers.RespondBadRequest(w, msgInvalidDays)

		default:
			h.logger.Error("GET /conversions/stats - Failed to get stats: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /conversions/stats - Stats retrieved: user_id=%d, period=%d days, total=%d, converted=%d",
		userID, stats.PeriodDays, stats.TotalLeads, stats.ConvertedLeads)
	handlers.RespondJSON(w, http.StatusOK, FromDomainStats(stats))
}
