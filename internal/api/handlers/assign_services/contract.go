package assign_services

import (
	"context"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	bookingModels "github.com/m04kA/SMC-GroomingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-GroomingService/internal/service/lifecycle/models"
)

type LifecycleService interface {
	AssignServices(ctx context.Context, id int64, req *models.AssignServicesRequest, actor domain.Actor) (*bookingModels.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
