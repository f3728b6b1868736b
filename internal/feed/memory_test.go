package feed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
)

func TestMemoryBroker_DeliversOnlyToLocationSubscribers(t *testing.T) {
	broker := NewMemoryBroker()
	defer broker.Close()
	ctx := context.Background()

	events1, unsub1, err := broker.Subscribe(ctx, 1)
	require.NoError(t, err)
	defer unsub1()

	events2, unsub2, err := broker.Subscribe(ctx, 2)
	require.NoError(t, err)
	defer unsub2()

	booking := &domain.Booking{
		ID:          10,
		LocationID:  1,
		BookingDate: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
		Status:      domain.StatusReserved,
	}
	require.NoError(t, broker.Publish(ctx, NewEvent(EventCreated, booking, time.Now())))

	select {
	case ev := <-events1:
		assert.Equal(t, EventCreated, ev.Type)
		assert.Equal(t, int64(10), ev.BookingID)
		assert.Equal(t, "2024-06-10", ev.Date)
		assert.Equal(t, "reserved", ev.Status)
		assert.NotEmpty(t, ev.ID)
	case <-time.After(time.Second):
		t.Fatal("event was not delivered")
	}

	select {
	case ev := <-events2:
		t.Fatalf("unexpected event for other location: %+v", ev)
	default:
	}
}

func TestMemoryBroker_UnsubscribeClosesChannel(t *testing.T) {
	broker := NewMemoryBroker()
	ctx := context.Background()

	events, unsub, err := broker.Subscribe(ctx, 1)
	require.NoError(t, err)

	unsub()
	unsub()

	_, ok := <-events
	assert.False(t, ok)

	require.NoError(t, broker.Close())
	assert.ErrorIs(t, broker.Publish(ctx, Event{LocationID: 1}), ErrBrokerClosed)

	_, _, err = broker.Subscribe(ctx, 1)
	assert.ErrorIs(t, err, ErrBrokerClosed)
}

func TestMemoryBroker_SlowSubscriberDoesNotBlock(t *testing.T) {
	broker := NewMemoryBroker()
	defer broker.Close()
	ctx := context.Background()

	_, unsub, err := broker.Subscribe(ctx, 1)
	require.NoError(t, err)
	defer unsub()

	for i := 0; i < subscriberBuffer*2; i++ {
		require.NoError(t, broker.Publish(ctx, Event{LocationID: 1, BookingID: int64(i)}))
	}
}

type failingBroker struct{ MemoryBroker }

func (b *failingBroker) Publish(context.Context, Event) error { return ErrBrokerClosed }

type countingMetrics struct{ failed int }

func (m *countingMetrics) IncFeedPublishFailed() { m.failed++ }

type discardLogger struct{}

func (discardLogger) Info(string, ...interface{})  {}
func (discardLogger) Warn(string, ...interface{})  {}
func (discardLogger) Error(string, ...interface{}) {}

func TestPublisher_SwallowsBrokerErrors(t *testing.T) {
	metrics := &countingMetrics{}
	publisher := NewPublisher(&failingBroker{}, discardLogger{}, metrics)

	publisher.Publish(context.Background(), EventUpdated, &domain.Booking{ID: 1, LocationID: 1})

	assert.Equal(t, 1, metrics.failed)
}
