package capture_lead

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-FunnelService/internal/api/handlers"
	captureLead "github.com/m04kA/SMC-FunnelService/internal/usecase/capture_lead"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgEmptyLeadData      = "форма не содержит данных для сохранения"
	msgCaptureFailed      = "не удалось сохранить данные формы"
)

type Handler struct {
	useCase CaptureLeadUseCase
	logger  Logger
}

func NewHandler(useCase CaptureLeadUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/leads/capture
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CaptureLeadRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /leads/capture - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, captureLead.ErrEmptyLeadData):
			h.logger.Info("POST /leads/capture - Empty lead data: session=%s", req.SessionID)
			handlers.RespondBadRequest(w, msgEmptyLeadData)

		case errors.Is(err, captureLead.ErrPersistence):
			// Потеря касания некритична, но вызывающий должен о ней узнать
			h.logger.Warn("POST /leads/capture - Capture failed: session=%s, error=%v", req.SessionID, err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgCaptureFailed)

		default:
			h.logger.Error("POST /leads/capture - Failed: session=%s, error=%v", req.SessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /leads/capture - Touch captured: session=%s, completion=%d%%",
		result.SessionID, result.Completion)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
