package submit_booking

import (
	"time"

	"github.com/m04kA/SMC-FunnelService/internal/domain"
	submitBooking "github.com/m04kA/SMC-FunnelService/internal/usecase/submit_booking"
)

// SubmitBookingRequest HTTP request model
// Fields - сырые поля формы воронки, ключи нормализуются на сервере
type SubmitBookingRequest struct {
	SessionID string            `json:"sessionId,omitempty"`
	Fields    map[string]string `json:"fields"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID          int64  `json:"id"`
	CompanyID   int64  `json:"companyId"`
	ServiceType string `json:"serviceType"`
	BookingDate string `json:"bookingDate"`
	StartTime   string `json:"startTime"`
	Status      string `json:"status"`
	SessionID   string `json:"sessionId,omitempty"`
	CreatedAt   string `json:"createdAt"`
}

// DuplicateResponse ответ на подавленную повторную отправку
type DuplicateResponse struct {
	Status string `json:"status"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *SubmitBookingRequest) ToUseCaseRequest() *submitBooking.Request {
	return &submitBooking.Request{
		SessionID:  r.SessionID,
		FormFields: r.Fields,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *submitBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:          resp.ID,
		CompanyID:   resp.CompanyID,
		ServiceType: resp.ServiceType,
		BookingDate: resp.BookingDate.Format(domain.DateFormat),
		StartTime:   resp.StartTime.String(),
		Status:      resp.Status,
		SessionID:   resp.SessionID,
		CreatedAt:   resp.CreatedAt.Format(time.RFC3339),
	}
}
