package feed

import (
	"context"
	"time"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Metrics счётчик неудачных публикаций
type Metrics interface {
	IncFeedPublishFailed()
}

// Publisher публикует изменения бронирований после коммита.
// Ошибка брокера не влияет на результат операции: она логируется и считается в метриках.
type Publisher struct {
	broker  Broker
	logger  Logger
	metrics Metrics
	now     func() time.Time
}

// NewPublisher создает публикатор ленты
func NewPublisher(broker Broker, logger Logger, metrics Metrics) *Publisher {
	return &Publisher{
		broker:  broker,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
}

// Publish отправляет событие об изменении бронирования
func (p *Publisher) Publish(ctx context.Context, eventType EventType, booking *domain.Booking) {
	event := NewEvent(eventType, booking, p.now())

	if err := p.broker.Publish(ctx, event); err != nil {
		p.logger.Warn("Publish: failed to publish %s for booking id=%d: %v", eventType, booking.ID, err)
		p.metrics.IncFeedPublishFailed()
	}
}
