package create_booking

import (
	"context"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/feed"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// TemplateRepository интерфейс репозитория шаблонов времени
type TemplateRepository interface {
	GetBySubSlotID(ctx context.Context, subSlotID int64) (*domain.TimeTemplate, error)
}

// LocationRepository интерфейс справочника точек
type LocationRepository interface {
	GetLocation(ctx context.Context, id int64) (*domain.Location, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// FeedPublisher публикует изменения бронирований подписчикам
type FeedPublisher interface {
	Publish(ctx context.Context, eventType feed.EventType, booking *domain.Booking)
}

// Notifier отправляет клиенту уведомление о новой записи
type Notifier interface {
	BookingCreated(ctx context.Context, booking *domain.Booking) error
}

// Metrics доменные счётчики
type Metrics interface {
	IncBookingCreated(source string)
	IncBookingConflict()
	IncNotificationFailed()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
