package history

import "errors"

var (
	// ErrRecordNotFound возвращается, когда архивная запись не найдена
	ErrRecordNotFound = errors.New("history.repository: record not found")

	// ErrAlreadyArchived возвращается, когда у бронирования уже есть архивная запись
	ErrAlreadyArchived = errors.New("history.repository: booking already archived")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("history.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("history.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("history.repository: failed to scan row")

	// ErrEncodeServices возвращается при ошибке сериализации услуг в JSON
	ErrEncodeServices = errors.New("history.repository: failed to encode services")
)
