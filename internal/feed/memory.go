package feed

import (
	"context"
	"sync"
)

// subscriberBuffer размер буфера канала подписчика; медленный подписчик теряет события, а не блокирует публикацию
const subscriberBuffer = 32

// MemoryBroker брокер в памяти процесса. Используется при [feed] driver = "memory" и в тестах.
type MemoryBroker struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int64]map[int]chan Event
	closed bool
}

// NewMemoryBroker создает брокер в памяти
func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{
		subs: make(map[int64]map[int]chan Event),
	}
}

// Publish рассылает событие подписчикам точки без блокировки
func (b *MemoryBroker) Publish(_ context.Context, event Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrBrokerClosed
	}

	for _, ch := range b.subs[event.LocationID] {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

// Subscribe подписывает на события точки
func (b *MemoryBroker) Subscribe(_ context.Context, locationID int64) (<-chan Event, func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, nil, ErrBrokerClosed
	}

	id := b.nextID
	b.nextID++

	ch := make(chan Event, subscriberBuffer)
	if b.subs[locationID] == nil {
		b.subs[locationID] = make(map[int]chan Event)
	}
	b.subs[locationID][id] = ch

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[locationID][id]; ok {
				delete(b.subs[locationID], id)
				close(c)
			}
			if len(b.subs[locationID]) == 0 {
				delete(b.subs, locationID)
			}
		})
	}

	return ch, unsubscribe, nil
}

// Close закрывает все подписки
func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for locationID, subs := range b.subs {
		for id, ch := range subs {
			close(ch)
			delete(subs, id)
		}
		delete(b.subs, locationID)
	}
	return nil
}
