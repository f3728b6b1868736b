package restore_booking

import (
	"context"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	bookingModels "github.com/m04kA/SMC-GroomingService/internal/service/bookings/models"
)

type LifecycleService interface {
	Restore(ctx context.Context, id int64, actor domain.Actor) (*bookingModels.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
