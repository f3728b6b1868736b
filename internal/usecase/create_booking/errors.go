package create_booking

import "errors"

var (
	// ErrLocationNotFound возвращается, когда точка не найдена
	ErrLocationNotFound = errors.New("create_booking: location not found")

	// ErrSubSlotNotFound возвращается, когда под-слот не найден
	ErrSubSlotNotFound = errors.New("create_booking: sub-slot not found")

	// ErrSlotNotOffered возвращается, когда шаблон под-слота не предлагается на точке или в этот день недели
	ErrSlotNotOffered = errors.New("create_booking: sub-slot is not offered at this location on this date")

	// ErrSlotNotAvailable возвращается, когда под-слот на дату уже занят
	ErrSlotNotAvailable = errors.New("create_booking: slot is no longer available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
