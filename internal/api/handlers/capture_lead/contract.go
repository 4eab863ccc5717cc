package capture_lead

import (
	"context"

	captureLead "github.com/m04kA/SMC-FunnelService/internal/usecase/capture_lead"
)

type CaptureLeadUseCase interface {
	Execute(ctx context.Context, req *captureLead.Request) (*captureLead.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
