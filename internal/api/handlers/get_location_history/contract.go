package get_location_history

import (
	"context"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/service/history/models"
)

type HistoryService interface {
	ListByLocation(ctx context.Context, req *models.ListRequest, actor domain.Actor) (*models.RecordListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
