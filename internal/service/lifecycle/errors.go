package lifecycle

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAccessDenied возвращается, когда роль или точки сотрудника не позволяют выполнить переход
	ErrAccessDenied = errors.New("access denied")

	// ErrSlotNotAvailable возвращается при восстановлении, если под-слот занят другим бронированием или удалён
	ErrSlotNotAvailable = errors.New("slot is no longer available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
