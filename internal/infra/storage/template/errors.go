package template

import "errors"

var (
	// ErrTemplateNotFound возвращается, когда шаблон не найден
	ErrTemplateNotFound = errors.New("template.repository: template not found")

	// ErrSubSlotNotFound возвращается, когда под-слот не найден
	ErrSubSlotNotFound = errors.New("template.repository: sub-slot not found")

	// ErrLocationNotFound возвращается, когда точка из location_ids не существует
	ErrLocationNotFound = errors.New("template.repository: location not found")

	// ErrInvalidRecurrence возвращается при нарушении CHECK на повторяемость
	ErrInvalidRecurrence = errors.New("template.repository: recurrence requires every day or weekdays")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("template.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("template.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("template.repository: failed to scan row")
)
