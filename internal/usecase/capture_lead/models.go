package capture_lead

// Request модель запроса на фиксацию касания формы
type Request struct {
	SessionID  string            // ID сессии (опционально; пустой - минтится новый)
	FormFields map[string]string // Сырые поля формы
}

// Response модель ответа
type Response struct {
	SessionID  string // ID сессии (переданный или новый)
	Completion int    // Процент заполненности 0-100
	Duplicate  bool   // Касание подавлено как дубль
}
