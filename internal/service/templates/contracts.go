package templates

import (
	"context"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
)

// TemplateRepository интерфейс репозитория шаблонов времени
type TemplateRepository interface {
	Create(ctx context.Context, t *domain.TimeTemplate) (*domain.TimeTemplate, error)
	Update(ctx context.Context, t *domain.TimeTemplate) (*domain.TimeTemplate, error)
	ReplaceSubSlots(ctx context.Context, templateID int64, slots []domain.SubSlot) ([]domain.SubSlot, error)
	GetByID(ctx context.Context, id int64) (*domain.TimeTemplate, error)
	List(ctx context.Context, locationID *int64) ([]*domain.TimeTemplate, error)
	Delete(ctx context.Context, id int64) error
}

// BookingRepository интерфейс репозитория бронирований (только проверка занятости под-слотов)
type BookingRepository interface {
	CountNonTerminalBySubSlots(ctx context.Context, subSlotIDs []int64) (int, error)
}

// LocationRepository интерфейс справочника точек
type LocationRepository interface {
	GetLocation(ctx context.Context, id int64) (*domain.Location, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
