package bookings

import (
	"context"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/feed"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	UpdateFields(ctx context.Context, booking *domain.Booking) error
	ListServices(ctx context.Context, bookingID int64) ([]domain.ServiceSelection, error)
}

// TemplateRepository интерфейс репозитория шаблонов (время начала и подписи под-слотов)
type TemplateRepository interface {
	GetBySubSlotID(ctx context.Context, subSlotID int64) (*domain.TimeTemplate, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// FeedPublisher публикует изменения бронирований подписчикам
type FeedPublisher interface {
	Publish(ctx context.Context, eventType feed.EventType, booking *domain.Booking)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
