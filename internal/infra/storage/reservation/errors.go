package reservation

import "errors"

var (
	// ErrSlotTaken возвращается при нарушении уникальности (company_id, booking_date, start_time)
	// Это проигрыш гонки за слот: ровно один из конкурирующих запросов получает слот
	ErrSlotTaken = errors.New("reservation.repository: slot already reserved")

	// ErrReservationNotFound возвращается, когда резервирование не найдено
	ErrReservationNotFound = errors.New("reservation.repository: reservation not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("reservation.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("reservation.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("reservation.repository: failed to scan row")
)
