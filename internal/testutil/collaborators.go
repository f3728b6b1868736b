package testutil

import (
	"context"
	"sync"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/feed"
)

// RecordingNotifier запоминает отправленные уведомления; Err имитирует сбой отправки
type RecordingNotifier struct {
	mu   sync.Mutex
	Err  error
	sent []int64
}

func (n *RecordingNotifier) BookingCreated(_ context.Context, b *domain.Booking) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, b.ID)
	return n.Err
}

// Sent ID бронирований, по которым была попытка отправки
func (n *RecordingNotifier) Sent() []int64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]int64(nil), n.sent...)
}

// PublishedEvent опубликованное в ленту изменение
type PublishedEvent struct {
	Type      feed.EventType
	BookingID int64
	Status    domain.BookingStatus
}

// RecordingPublisher запоминает события ленты
type RecordingPublisher struct {
	mu     sync.Mutex
	events []PublishedEvent
}

func (p *RecordingPublisher) Publish(_ context.Context, eventType feed.EventType, b *domain.Booking) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, PublishedEvent{Type: eventType, BookingID: b.ID, Status: b.Status})
}

// Events опубликованные события в порядке публикации
func (p *RecordingPublisher) Events() []PublishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]PublishedEvent(nil), p.events...)
}
