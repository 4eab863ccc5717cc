package submit_booking

import (
	"time"

	"github.com/m04kA/SMC-FunnelService/pkg/types"
)

// Request модель запроса на создание бронирования из формы воронки
// FormFields - сырые поля формы; разбираются через нормализацию ключей
type Request struct {
	SessionID  string            // ID сессии лида (опционально)
	FormFields map[string]string // Сырые поля формы
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID          int64            // ID созданного бронирования
	CompanyID   int64            // ID компании
	ServiceType string           // Тип услуги
	BookingDate time.Time        // Дата бронирования
	StartTime   types.TimeString // Время начала
	Status      string           // Статус бронирования
	SessionID   string           // ID сессии лида

	CreatedAt time.Time // Время создания
}

// submission разобранные и проверенные поля формы
type submission struct {
	ServiceType  string
	CustomerName string
	Email        string
	Phone        string
	Address      string
	Zip          string
	CompanyID    int64
	Date         time.Time
	StartTime    types.TimeString
}
