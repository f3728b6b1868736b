package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
)

// AMQPNotifier публикует сообщения о новых записях в очередь RabbitMQ.
// Доставку клиенту выполняет отдельный сервис, читающий очередь.
type AMQPNotifier struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	log     Logger
}

// NewAMQPNotifier подключается к брокеру и объявляет durable-очередь
func NewAMQPNotifier(uri, queue string, log Logger) (*AMQPNotifier, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("%w: dial: %w", ErrInternal, err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: open channel: %w", ErrInternal, err)
	}

	_, err = channel.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("%w: declare queue %s: %w", ErrInternal, queue, err)
	}

	return &AMQPNotifier{
		conn:    conn,
		channel: channel,
		queue:   queue,
		log:     log,
	}, nil
}

// BookingCreated публикует persistent JSON-сообщение в очередь
func (n *AMQPNotifier) BookingCreated(ctx context.Context, booking *domain.Booking) error {
	body, err := json.Marshal(NewBookingCreatedMessage(booking))
	if err != nil {
		return fmt.Errorf("%w: marshal message: %w", ErrInternal, err)
	}

	// amqp.Channel не потокобезопасен для публикации
	n.mu.Lock()
	defer n.mu.Unlock()

	err = n.channel.PublishWithContext(ctx,
		"",      // exchange по умолчанию
		n.queue, // routing key = имя очереди
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Type:         "booking.created",
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("%w: booking id=%d: %w", ErrPublish, booking.ID, err)
	}

	n.log.Info("BookingCreated: queued message for booking id=%d", booking.ID)
	return nil
}

// Close закрывает канал и соединение
func (n *AMQPNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if err := n.channel.Close(); err != nil {
		n.conn.Close()
		return err
	}
	return n.conn.Close()
}
