package submit_booking

import "errors"

var (
	// ErrValidation возвращается при отсутствии или некорректности обязательного поля
	// Текст ошибки называет первое отсутствующее поле
	ErrValidation = errors.New("submit_booking: validation failed")

	// ErrInvalidEmail возвращается при некорректном формате email
	ErrInvalidEmail = errors.New("submit_booking: invalid email format")

	// ErrCompanyUnavailable возвращается для неизвестной или неактивной компании
	ErrCompanyUnavailable = errors.New("submit_booking: company is not accepting bookings")

	// ErrCompanyClosed возвращается, когда компания закрыта в выбранный день
	ErrCompanyClosed = errors.New("submit_booking: company is closed on this date")

	// ErrInvalidTimeSlot возвращается, когда время не попадает в сетку слотов компании
	ErrInvalidTimeSlot = errors.New("submit_booking: invalid time slot")

	// ErrInvalidDate возвращается при дате в прошлом
	ErrInvalidDate = errors.New("submit_booking: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("submit_booking: date is too far in the future")

	// ErrSlotConflict возвращается при проигрыше гонки за слот
	// Пользователь должен выбрать другой слот, автоматический повтор недопустим
	ErrSlotConflict = errors.New("submit_booking: slot is no longer available")

	// ErrDayFull возвращается, когда компания исчерпала дневной лимит бронирований
	ErrDayFull = errors.New("submit_booking: no booking capacity left on this date")

	// ErrDuplicateRequest не настоящая ошибка: повторная отправка в окне
	// дедупликации, вызывающий рассматривает как успешный no-op
	ErrDuplicateRequest = errors.New("submit_booking: duplicate submission suppressed")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("submit_booking: internal error")
)
