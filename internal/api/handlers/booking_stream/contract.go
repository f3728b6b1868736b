package booking_stream

import (
	"context"

	"github.com/m04kA/SMC-GroomingService/internal/feed"
)

// Subscriber источник событий ленты точки
type Subscriber interface {
	Subscribe(ctx context.Context, locationID int64) (<-chan feed.Event, func(), error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
