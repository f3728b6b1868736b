package get_booking_history

import (
	"context"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/service/history/models"
)

type HistoryService interface {
	GetByBookingID(ctx context.Context, bookingID int64, actor domain.Actor) (*models.RecordResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
