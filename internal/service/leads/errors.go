package leads

import "errors"

var (
	// ErrLeadNotFound возвращается, когда лид не найден
	ErrLeadNotFound = errors.New("leads: lead not found")

	// ErrEmptyLeadData возвращается, когда в касании нет осмысленных данных
	// (ни контактных полей, ни маркетинговых сигналов) - такое касание не сохраняется
	ErrEmptyLeadData = errors.New("leads: no meaningful lead data")

	// ErrDuplicateSuppressed возвращается при подавлении дублирующегося запроса
	// Это не настоящая ошибка: вызывающий трактует её как успешный no-op
	ErrDuplicateSuppressed = errors.New("leads: duplicate request suppressed")

	// ErrPersistence возвращается при ошибке сохранения лида
	// Для касаний захвата потеря допустима, вызывающий деградирует мягко
	ErrPersistence = errors.New("leads: persistence failure")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("leads: internal error")
)
