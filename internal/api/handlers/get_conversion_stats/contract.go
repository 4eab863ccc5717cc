package get_conversion_stats

import (
	"context"

	"github.com/m04kA/SMC-FunnelService/internal/domain"
)

type ConversionService interface {
	GetStats(ctx context.Context, periodDays int) (*domain.ConversionStats, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
