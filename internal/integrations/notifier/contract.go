package notifier

import (
	"context"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
)

// Notifier отправляет клиенту уведомление о созданной записи
type Notifier interface {
	BookingCreated(ctx context.Context, booking *domain.Booking) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// NopNotifier ничего не отправляет (уведомления выключены)
type NopNotifier struct{}

// BookingCreated ничего не делает
func (NopNotifier) BookingCreated(context.Context, *domain.Booking) error {
	return nil
}
