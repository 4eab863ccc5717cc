package get_availability

import (
	"time"

	"github.com/m04kA/SMC-FunnelService/internal/domain"
)

// Request модель запроса доступности слотов
type Request struct {
	CompanyIDs []int64   // ID компаний (одна или несколько)
	DateFrom   time.Time // Начало периода (без времени)
	DateTo     time.Time // Конец периода включительно
}

// Response модель ответа: календарь доступности по каждой компании
type Response struct {
	DateFrom  time.Time
	DateTo    time.Time
	Companies []CompanyAvailability
}

// CompanyAvailability доступность одной компании за период
type CompanyAvailability struct {
	CompanyID   int64
	CompanyName string
	Days        []domain.DayAvailability
}
