package feed

import (
	"context"
	"errors"
)

// ErrBrokerClosed возвращается при работе с закрытым брокером
var ErrBrokerClosed = errors.New("feed: broker closed")

// Broker доставляет события подписчикам точки.
// Subscribe возвращает канал событий и функцию отписки; канал закрывается после отписки.
type Broker interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(ctx context.Context, locationID int64) (<-chan Event, func(), error)
	Close() error
}
