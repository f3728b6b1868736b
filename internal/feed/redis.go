package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-redis/redis/v8"
)

// channelPrefix префикс канала Redis; полный канал bookings:<locationId>
const channelPrefix = "bookings:"

// RedisBroker брокер на Redis pub/sub. События доходят до подписчиков всех инстансов сервиса.
type RedisBroker struct {
	client *redis.Client
	logger Logger
}

// NewRedisBroker создает брокер и проверяет соединение с Redis
func NewRedisBroker(ctx context.Context, opts *redis.Options, logger Logger) (*RedisBroker, error) {
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("feed: redis ping %s: %w", opts.Addr, err)
	}

	return &RedisBroker{client: client, logger: logger}, nil
}

// Publish публикует событие в канал точки
func (b *RedisBroker) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("feed: marshal event: %w", err)
	}

	if err := b.client.Publish(ctx, channelName(event.LocationID), payload).Err(); err != nil {
		return fmt.Errorf("feed: redis publish: %w", err)
	}
	return nil
}

// Subscribe подписывается на канал точки.
// Сообщения, которые не удалось разобрать, пропускаются с предупреждением в лог.
func (b *RedisBroker) Subscribe(ctx context.Context, locationID int64) (<-chan Event, func(), error) {
	pubsub := b.client.Subscribe(ctx, channelName(locationID))

	// Ждём подтверждения подписки, иначе первые события могут потеряться
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("feed: redis subscribe: %w", err)
	}

	out := make(chan Event, subscriberBuffer)
	done := make(chan struct{})

	go func() {
		defer close(out)
		messages := pubsub.Channel()
		for {
			select {
			case <-done:
				return
			case msg, ok := <-messages:
				if !ok {
					return
				}
				var event Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					b.logger.Warn("RedisBroker: skip malformed event on %s: %v", msg.Channel, err)
					continue
				}
				select {
				case out <- event:
				default:
				}
			}
		}
	}()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			close(done)
			_ = pubsub.Close()
		})
	}

	return out, unsubscribe, nil
}

// Close закрывает соединение с Redis
func (b *RedisBroker) Close() error {
	return b.client.Close()
}

func channelName(locationID int64) string {
	return fmt.Sprintf("%s%d", channelPrefix, locationID)
}
