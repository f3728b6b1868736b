package get_location_bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/service/bookings/models"
)

type BookingService interface {
	ListByLocationDate(ctx context.Context, locationID int64, date time.Time, includeCancelled bool, actor domain.Actor) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
