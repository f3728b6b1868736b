package history

import "errors"

var (
	// ErrHistoryNotFound возвращается, когда архивной записи нет
	ErrHistoryNotFound = errors.New("history record not found")

	// ErrAccessDenied возвращается, когда у сотрудника нет доступа к точке
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
