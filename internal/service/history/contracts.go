package history

import (
	"context"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
)

// HistoryRepository интерфейс репозитория архива
type HistoryRepository interface {
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.HistoricalRecord, error)
	List(ctx context.Context, filter domain.HistoryFilter) ([]*domain.HistoricalRecord, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
