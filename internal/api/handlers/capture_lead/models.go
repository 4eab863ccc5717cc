package capture_lead

import (
	captureLead "github.com/m04kA/SMC-FunnelService/internal/usecase/capture_lead"
)

// CaptureLeadRequest HTTP request model
type CaptureLeadRequest struct {
	SessionID string            `json:"sessionId,omitempty"`
	Fields    map[string]string `json:"fields"`
}

// CaptureLeadResponse HTTP response model
type CaptureLeadResponse struct {
	SessionID            string `json:"sessionId"`
	CompletionPercentage int    `json:"completionPercentage"`
	Duplicate            bool   `json:"duplicate,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CaptureLeadRequest) ToUseCaseRequest() *captureLead.Request {
	return &captureLead.Request{
		SessionID:  r.SessionID,
		FormFields: r.Fields,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *captureLead.Response) *CaptureLeadResponse {
	return &CaptureLeadResponse{
		SessionID:            resp.SessionID,
		CompletionPercentage: resp.Completion,
		Duplicate:            resp.Duplicate,
	}
}
