package capture_lead

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-FunnelService/internal/service/leads"
)

// UseCase use case фиксации касания формы
type UseCase struct {
	leadService LeadService
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(leadService LeadService, logger Logger) *UseCase {
	return &UseCase{
		leadService: leadService,
		logger:      logger,
	}
}

// Execute выполняет use case фиксации касания
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	result, err := uc.leadService.Capture(ctx, req.SessionID, req.FormFields)
	if err != nil {
		switch {
		case errors.Is(err, leads.ErrEmptyLeadData):
			return nil, ErrEmptyLeadData
		case errors.Is(err, leads.ErrPersistence):
			// Мягкая деградация: касание потеряно, но session_id отдаём
			uc.logger.Warn("CaptureLead: touch lost for session=%s: %v", req.SessionID, err)
			if result != nil {
				return nil, fmt.Errorf("%w: session=%s", ErrPersistence, result.SessionID)
			}
			return nil, ErrPersistence
		default:
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
	}

	return &Response{
		SessionID:  result.SessionID,
		Completion: result.Completion,
		Duplicate:  result.Duplicate,
	}, nil
}
