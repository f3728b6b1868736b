package lifecycle

import (
	"context"
	"time"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/feed"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	SetCheckedIn(ctx context.Context, id int64, at time.Time) error
	ReplaceServices(ctx context.Context, bookingID int64, selections []domain.ServiceSelection) ([]domain.ServiceSelection, error)
	ListServices(ctx context.Context, bookingID int64) ([]domain.ServiceSelection, error)
}

// HistoryRepository интерфейс репозитория архива
type HistoryRepository interface {
	Create(ctx context.Context, record *domain.HistoricalRecord) (*domain.HistoricalRecord, error)
	DeleteByBookingID(ctx context.Context, bookingID int64) error
	SetFeedback(ctx context.Context, bookingID int64, feedback domain.Feedback) error
}

// TemplateRepository интерфейс репозитория шаблонов
type TemplateRepository interface {
	GetBySubSlotID(ctx context.Context, subSlotID int64) (*domain.TimeTemplate, error)
}

// CatalogRepository интерфейс справочника точек и услуг
type CatalogRepository interface {
	GetLocation(ctx context.Context, id int64) (*domain.Location, error)
	GetServicesByIDs(ctx context.Context, ids []int64) (map[int64]domain.CatalogService, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// FeedPublisher публикует изменения бронирований подписчикам
type FeedPublisher interface {
	Publish(ctx context.Context, eventType feed.EventType, booking *domain.Booking)
}

// Metrics счётчик переходов
type Metrics interface {
	IncTransition(event string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
