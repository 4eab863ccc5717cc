package capture_lead

import (
	"context"

	"github.com/m04kA/SMC-FunnelService/internal/service/leads"
)

// LeadService интерфейс менеджера жизненного цикла лидов
type LeadService interface {
	Capture(ctx context.Context, sessionID string, raw map[string]string) (*leads.CaptureResult, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
