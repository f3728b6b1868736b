package get_booking_services

import (
	"context"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/service/bookings/models"
)

type BookingService interface {
	ListServices(ctx context.Context, id int64, actor domain.Actor) (*models.ServiceListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
