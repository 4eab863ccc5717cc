package capture_lead

import "errors"

var (
	// ErrEmptyLeadData возвращается, когда касание не содержит осмысленных данных
	ErrEmptyLeadData = errors.New("capture_lead: no meaningful lead data")

	// ErrPersistence возвращается при ошибке сохранения лида
	// Потеря трекинга допустима, вызывающий может повторить касание
	ErrPersistence = errors.New("capture_lead: persistence failure")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("capture_lead: internal error")
)
