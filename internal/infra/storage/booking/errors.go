package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrSlotNotAvailable возвращается, когда под-слот на дату уже занят неотменённым бронированием
	ErrSlotNotAvailable = errors.New("booking.repository: slot not available")

	// ErrSubSlotNotFound возвращается, когда под-слот бронирования не существует
	ErrSubSlotNotFound = errors.New("booking.repository: sub-slot not found")

	// ErrServiceNotFound возвращается, когда услуга из выбора отсутствует в каталоге
	ErrServiceNotFound = errors.New("booking.repository: catalog service not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
