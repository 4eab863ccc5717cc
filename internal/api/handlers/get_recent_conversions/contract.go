package get_recent_conversions

import (
	"context"

	"github.com/m04kA/SMC-FunnelService/internal/domain"
)

type ConversionService interface {
	ListRecent(ctx context.Context, limit int) ([]*domain.ConversionMetric, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
