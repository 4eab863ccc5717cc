package get_recent_conversions

import (
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-FunnelService/internal/api/handlers"
	"github.com/m04kA/SMC-FunnelService/internal/api/middleware"
)

const (
	msgInvalidLimit  = "некорректный параметр limit"
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

// Handle GET /api/v1/conversions/recent?limit=50
// Без limit отдает журнал целиком (до размера кольцевого буфера)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /conversions/recent - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 0 {
			h.logger.Warn("GET /conversions/recent - Invalid limit parameter: %q", limitStr)
			handlers.RespondBadRequest(w, msgInvalidLimit)
			return
		}
		limit = parsed
	}

	metrics, err := h.service.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Error("GET /conversions/recent - Failed to list metrics: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /conversions/recent - Metrics retrieved: user_id=%d, count=%d", userID, len(metrics))
	handlers.RespondJSON(w, http.StatusOK, FromDomainMetrics(metrics))
}
