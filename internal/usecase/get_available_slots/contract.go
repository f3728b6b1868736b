package get_available_slots

import (
	"context"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
)

// TemplateRepository интерфейс репозитория шаблонов времени
type TemplateRepository interface {
	// List получает шаблоны, предлагаемые на точке, отсортированные по времени начала
	List(ctx context.Context, locationID *int64) ([]*domain.TimeTemplate, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetByFilter получает бронирования точки на конкретную дату
	GetByFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// LocationRepository интерфейс справочника точек
type LocationRepository interface {
	GetLocation(ctx context.Context, id int64) (*domain.Location, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
