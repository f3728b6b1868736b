package feed

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
)

// EventType тип изменения бронирования
type EventType string

const (
	EventCreated EventType = "booking.created"
	EventUpdated EventType = "booking.updated"
)

// Event сообщение ленты изменений. Подписчики по нему перечитывают список бронирований точки.
type Event struct {
	ID         string    `json:"id"`
	Type       EventType `json:"type"`
	BookingID  int64     `json:"bookingId"`
	LocationID int64     `json:"locationId"`
	Date       string    `json:"date"` // "2024-06-10"
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewEvent создает событие по состоянию бронирования
func NewEvent(eventType EventType, b *domain.Booking, now time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		BookingID:  b.ID,
		LocationID: b.LocationID,
		Date:       b.BookingDate.Format(domain.DateFormat),
		Status:     string(b.Status),
		OccurredAt: now.UTC(),
	}
}
