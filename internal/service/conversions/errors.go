package conversions

import "errors"

var (
	// ErrInvalidPeriod возвращается при некорректном периоде статистики
	ErrInvalidPeriod = errors.New("conversions.service: invalid stats period")

	// ErrPersistence возвращается при ошибке записи журнала конверсий
	ErrPersistence = errors.New("conversions.service: persistence failure")

	// ErrInternal возвращается при внутренней ошибке сервиса
	ErrInternal = errors.New("conversions.service: internal error")
)
