package create_booking

import (
	"context"

	createBooking "github.com/m04kA/SMC-GroomingService/internal/usecase/create_booking"
)

// BookingCreator атомарно проверяет слот и создаёт бронирование
type BookingCreator interface {
	Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
