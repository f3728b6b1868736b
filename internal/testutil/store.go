// Package testutil содержит in-memory реализации репозиториев и менеджера транзакций для тестов.
// Хранилище повторяет ограничения схемы: частичный уникальный индекс на (sub_slot_id, booking_date)
// для неотменённых бронирований и одну архивную запись на бронирование.
package testutil

import (
	"io"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/pkg/logger"
	"github.com/m04kA/SMC-GroomingService/pkg/metrics"
)

// Store общее состояние всех фейковых репозиториев
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex

	seq int64

	locations  map[int64]domain.Location
	catalog    map[int64]domain.CatalogService
	templates  map[int64]*domain.TimeTemplate
	bookings   map[int64]*domain.Booking
	selections map[int64][]domain.ServiceSelection
	history    map[int64]*domain.HistoricalRecord // по original_booking_id

	// FailNext если не nil, возвращается следующим вызовом любого метода репозитория
	failNext error
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		locations:  make(map[int64]domain.Location),
		catalog:    make(map[int64]domain.CatalogService),
		templates:  make(map[int64]*domain.TimeTemplate),
		bookings:   make(map[int64]*domain.Booking),
		selections: make(map[int64][]domain.ServiceSelection),
		history:    make(map[int64]*domain.HistoricalRecord),
	}
}

// AddLocation добавляет точку в справочник
func (s *Store) AddLocation(id int64, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[id] = domain.Location{ID: id, Name: name}
}

// AddCatalogService добавляет услугу в каталог
func (s *Store) AddCatalogService(id int64, name string, price float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog[id] = domain.CatalogService{ID: id, Name: name, Price: price, Active: true}
}

// FailNext заставляет следующий вызов репозитория вернуть err
func (s *Store) FailNext(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = err
}

// HistoryCount возвращает количество архивных записей бронирования (0 или 1)
func (s *Store) HistoryCount(bookingID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.history[bookingID]; ok {
		return 1
	}
	return 0
}

// ActiveBookingsFor возвращает число неотменённых бронирований под-слота на дату
func (s *Store) ActiveBookingsFor(subSlotID int64, date time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, b := range s.bookings {
		if b.SubSlotID == subSlotID && sameDate(b.BookingDate, date) && b.OccupiesSlot() {
			count++
		}
	}
	return count
}

// Templates репозиторий шаблонов поверх хранилища
func (s *Store) Templates() *TemplateRepo { return &TemplateRepo{s: s} }

// Bookings репозиторий бронирований поверх хранилища
func (s *Store) Bookings() *BookingRepo { return &BookingRepo{s: s} }

// History репозиторий архива поверх хранилища
func (s *Store) History() *HistoryRepo { return &HistoryRepo{s: s} }

// Catalog репозиторий справочников поверх хранилища
func (s *Store) Catalog() *CatalogRepo { return &CatalogRepo{s: s} }

// TxManager менеджер транзакций поверх хранилища
func (s *Store) TxManager() *TxManager { return &TxManager{s: s} }

// Logger логгер, который ничего не пишет
func Logger() *logger.Logger {
	return logger.NewWriter(io.Discard, logger.LevelError)
}

// Metrics метрики на отдельном реестре, чтобы тесты не конфликтовали при регистрации
func Metrics() *metrics.Metrics {
	return metrics.New("test", prometheus.NewRegistry())
}

// Date дата без времени в UTC
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

func (s *Store) takeFailure() error {
	err := s.failNext
	s.failNext = nil
	return err
}

// snapshot глубокая копия состояния для отката транзакции
type snapshot struct {
	seq        int64
	templates  map[int64]*domain.TimeTemplate
	bookings   map[int64]*domain.Booking
	selections map[int64][]domain.ServiceSelection
	history    map[int64]*domain.HistoricalRecord
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := snapshot{
		seq:        s.seq,
		templates:  make(map[int64]*domain.TimeTemplate, len(s.templates)),
		bookings:   make(map[int64]*domain.Booking, len(s.bookings)),
		selections: make(map[int64][]domain.ServiceSelection, len(s.selections)),
		history:    make(map[int64]*domain.HistoricalRecord, len(s.history)),
	}
	for id, t := range s.templates {
		snap.templates[id] = cloneTemplate(t)
	}
	for id, b := range s.bookings {
		snap.bookings[id] = cloneBooking(b)
	}
	for id, sel := range s.selections {
		snap.selections[id] = append([]domain.ServiceSelection(nil), sel...)
	}
	for id, r := range s.history {
		snap.history[id] = cloneRecord(r)
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq = snap.seq
	s.templates = snap.templates
	s.bookings = snap.bookings
	s.selections = snap.selections
	s.history = snap.history
}

func cloneTemplate(t *domain.TimeTemplate) *domain.TimeTemplate {
	c := *t
	c.SpecificWeekdays = append([]string(nil), t.SpecificWeekdays...)
	c.LocationIDs = append([]int64(nil), t.LocationIDs...)
	c.SubSlots = append([]domain.SubSlot(nil), t.SubSlots...)
	return &c
}

func cloneBooking(b *domain.Booking) *domain.Booking {
	c := *b
	return &c
}

func cloneRecord(r *domain.HistoricalRecord) *domain.HistoricalRecord {
	c := *r
	c.Services = append([]domain.ArchivedService(nil), r.Services...)
	if r.Feedback != nil {
		fb := *r.Feedback
		c.Feedback = &fb
	}
	return &c
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
