package testutil

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/catalog"
	historyRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/history"
	templateRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/template"
)

// TemplateRepo фейк template.Repository
type TemplateRepo struct{ s *Store }

func (r *TemplateRepo) Create(_ context.Context, t *domain.TimeTemplate) (*domain.TimeTemplate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(); err != nil {
		return nil, err
	}

	for _, id := range t.LocationIDs {
		if _, ok := r.s.locations[id]; !ok {
			return nil, templateRepo.ErrLocationNotFound
		}
	}

	stored := cloneTemplate(t)
	stored.ID = r.s.nextID()
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	stored.SubSlots = r.numberSubSlots(stored.ID, t.SubSlots)
	r.s.templates[stored.ID] = stored

	return cloneTemplate(stored), nil
}

func (r *TemplateRepo) Update(_ context.Context, t *domain.TimeTemplate) (*domain.TimeTemplate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(); err != nil {
		return nil, err
	}

	stored, ok := r.s.templates[t.ID]
	if !ok {
		return nil, templateRepo.ErrTemplateNotFound
	}
	for _, id := range t.LocationIDs {
		if _, ok := r.s.locations[id]; !ok {
			return nil, templateRepo.ErrLocationNotFound
		}
	}

	stored.StartTime = t.StartTime
	stored.AppliesEveryDay = t.AppliesEveryDay
	stored.SpecificWeekdays = append([]string(nil), t.SpecificWeekdays...)
	stored.LocationIDs = append([]int64(nil), t.LocationIDs...)
	stored.UpdatedAt = time.Now()

	return cloneTemplate(stored), nil
}

func (r *TemplateRepo) ReplaceSubSlots(_ context.Context, templateID int64, slots []domain.SubSlot) ([]domain.SubSlot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(); err != nil {
		return nil, err
	}

	stored, ok := r.s.templates[templateID]
	if !ok {
		return nil, templateRepo.ErrTemplateNotFound
	}

	r.detachBookings(stored.SubSlotIDs())
	stored.SubSlots = r.numberSubSlots(templateID, slots)

	return append([]domain.SubSlot(nil), stored.SubSlots...), nil
}

func (r *TemplateRepo) GetByID(_ context.Context, id int64) (*domain.TimeTemplate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(); err != nil {
		return nil, err
	}

	stored, ok := r.s.templates[id]
	if !ok {
		return nil, templateRepo.ErrTemplateNotFound
	}
	return cloneTemplate(stored), nil
}

func (r *TemplateRepo) GetBySubSlotID(_ context.Context, subSlotID int64) (*domain.TimeTemplate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(); err != nil {
		return nil, err
	}

	if t := r.s.templateBySubSlot(subSlotID); t != nil {
		return cloneTemplate(t), nil
	}
	return nil, templateRepo.ErrSubSlotNotFound
}

func (r *TemplateRepo) List(_ context.Context, locationID *int64) ([]*domain.TimeTemplate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(); err != nil {
		return nil, err
	}

	result := make([]*domain.TimeTemplate, 0, len(r.s.templates))
	for _, t := range r.s.templates {
		if locationID != nil && !t.OfferedAt(*locationID) {
			continue
		}
		result = append(result, cloneTemplate(t))
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].StartTime != result[j].StartTime {
			return result[i].StartTime.IsBefore(result[j].StartTime)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (r *TemplateRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(); err != nil {
		return err
	}

	stored, ok := r.s.templates[id]
	if !ok {
		return templateRepo.ErrTemplateNotFound
	}

	r.detachBookings(stored.SubSlotIDs())
	delete(r.s.templates, id)
	return nil
}

func (r *TemplateRepo) numberSubSlots(templateID int64, slots []domain.SubSlot) []domain.SubSlot {
	result := make([]domain.SubSlot, len(slots))
	for i, s := range slots {
		result[i] = domain.SubSlot{
			ID:         r.s.nextID(),
			TemplateID: templateID,
			Ordinal:    i + 1,
			Label:      s.Label,
		}
	}
	return result
}

// detachBookings повторяет ON DELETE SET NULL для bookings.sub_slot_id
func (r *TemplateRepo) detachBookings(subSlotIDs []int64) {
	removed := make(map[int64]struct{}, len(subSlotIDs))
	for _, id := range subSlotIDs {
		removed[id] = struct{}{}
	}
	for _, b := range r.s.bookings {
		if _, ok := removed[b.SubSlotID]; ok {
			b.SubSlotID = 0
		}
	}
}

func (s *Store) templateBySubSlot(subSlotID int64) *domain.TimeTemplate {
	for _, t := range s.templates {
		if _, ok := t.SubSlotByID(subSlotID); ok {
			return t
		}
	}
	return nil
}

// BookingRepo фейк booking.Repository
type BookingRepo struct{ s *Store }

func (r *BookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(); err != nil {
		return nil, err
	}

	if r.s.templateBySubSlot(b.SubSlotID) == nil {
		return nil, bookingRepo.ErrSubSlotNotFound
	}
	if b.OccupiesSlot() && r.s.slotTaken(b.SubSlotID, b.BookingDate, 0) {
		return nil, bookingRepo.ErrSlotNotAvailable
	}

	stored := cloneBooking(b)
	stored.ID = r.s.nextID()
	stored.CreatedAt = time.Now()
	stored.UpdatedAt = stored.CreatedAt
	r.s.bookings[stored.ID] = stored

	return cloneBooking(stored), nil
}

func (r *BookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(); err != nil {
		return nil, err
	}

	stored, ok := r.s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return cloneBooking(stored), nil
}

func (r *BookingRepo) GetByFilter(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(); err != nil {
		return nil, err
	}

	subSlots := make(map[int64]struct{}, len(filter.SubSlotIDs))
	for _, id := range filter.SubSlotIDs {
		subSlots[id] = struct{}{}
	}

	result := make([]*domain.Booking, 0)
	for _, b := range r.s.bookings {
		if filter.LocationID > 0 && b.LocationID != filter.LocationID {
			continue
		}
		if filter.Date != nil && !sameDate(b.BookingDate, *filter.Date) {
			continue
		}
		if len(subSlots) > 0 {
			if _, ok := subSlots[b.SubSlotID]; !ok {
				continue
			}
		}
		if filter.Status != nil {
			if b.Status != *filter.Status {
				continue
			}
		} else if !filter.IncludeCancelled && b.Status == domain.StatusCancelled {
			continue
		}
		result = append(result, cloneBooking(b))
	}

	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if !sameDate(a.BookingDate, b.BookingDate) {
			return a.BookingDate.Before(b.BookingDate)
		}
		ka, kb := r.s.slotOrder(a.SubSlotID), r.s.slotOrder(b.SubSlotID)
		if ka != kb {
			return ka.less(kb)
		}
		return a.ID < b.ID
	})
	return result, nil
}

func (r *BookingRepo) CountNonTerminalBySubSlots(_ context.Context, subSlotIDs []int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(); err != nil {
		return 0, err
	}

	ids := make(map[int64]struct{}, len(subSlotIDs))
	for _, id := range subSlotIDs {
		ids[id] = struct{}{}
	}

	count := 0
	for _, b := range r.s.bookings {
		if _, ok := ids[b.SubSlotID]; ok && !b.IsTerminal() {
			count++
		}
	}
	return count, nil
}

func (r *BookingRepo) UpdateFields(_ context.Context, b *domain.Booking) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(); err != nil {
		return err
	}

	stored, ok := r.s.bookings[b.ID]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	stored.CustomerName = b.CustomerName
	stored.ContactNumber = b.ContactNumber
	stored.PetName = b.PetName
	stored.PetBreed = b.PetBreed
	stored.Notes = b.Notes
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *BookingRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(); err != nil {
		return err
	}

	stored, ok := r.s.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}

	// NULL sub_slot_id не участвует в уникальном индексе
	if status != domain.StatusCancelled && stored.SubSlotID != 0 &&
		r.s.slotTaken(stored.SubSlotID, stored.BookingDate, id) {
		return bookingRepo.ErrSlotNotAvailable
	}

	stored.Status = status
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *BookingRepo) SetCheckedIn(_ context.Context, id int64, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(); err != nil {
		return err
	}

	stored, ok := r.s.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	stored.Status = domain.StatusCheckedIn
	stored.CheckInTime = &at
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *BookingRepo) ReplaceServices(_ context.Context, bookingID int64, selections []domain.ServiceSelection) ([]domain.ServiceSelection, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(); err != nil {
		return nil, err
	}

	result := make([]domain.ServiceSelection, len(selections))
	for i, sel := range selections {
		if _, ok := r.s.catalog[sel.ServiceID]; !ok {
			return nil, bookingRepo.ErrServiceNotFound
		}
		sel.ID = r.s.nextID()
		sel.BookingID = bookingID
		result[i] = sel
	}

	r.s.selections[bookingID] = append([]domain.ServiceSelection(nil), result...)
	return result, nil
}

func (r *BookingRepo) ListServices(_ context.Context, bookingID int64) ([]domain.ServiceSelection, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(); err != nil {
		return nil, err
	}

	return append([]domain.ServiceSelection{}, r.s.selections[bookingID]...), nil
}

// slotTaken повторяет частичный уникальный индекс bookings_active_slot_uidx
func (s *Store) slotTaken(subSlotID int64, date time.Time, exceptID int64) bool {
	for _, b := range s.bookings {
		if b.ID == exceptID {
			continue
		}
		if b.SubSlotID == subSlotID && sameDate(b.BookingDate, date) && b.OccupiesSlot() {
			return true
		}
	}
	return false
}

type slotKey struct {
	orphan  bool
	start   int
	ordinal int
}

func (k slotKey) less(o slotKey) bool {
	if k.orphan != o.orphan {
		return !k.orphan
	}
	if k.start != o.start {
		return k.start < o.start
	}
	return k.ordinal < o.ordinal
}

func (s *Store) slotOrder(subSlotID int64) slotKey {
	t := s.templateBySubSlot(subSlotID)
	if t == nil {
		return slotKey{orphan: true}
	}
	slot, _ := t.SubSlotByID(subSlotID)
	return slotKey{start: t.StartTime.Seconds(), ordinal: slot.Ordinal}
}

// HistoryRepo фейк history.Repository
type HistoryRepo struct{ s *Store }

func (r *HistoryRepo) Create(_ context.Context, record *domain.HistoricalRecord) (*domain.HistoricalRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(); err != nil {
		return nil, err
	}

	if _, exists := r.s.history[record.OriginalBookingID]; exists {
		return nil, historyRepo.ErrAlreadyArchived
	}

	stored := cloneRecord(record)
	stored.ID = r.s.nextID()
	stored.ArchivedAt = time.Now()
	r.s.history[record.OriginalBookingID] = stored

	return cloneRecord(stored), nil
}

func (r *HistoryRepo) GetByBookingID(_ context.Context, bookingID int64) (*domain.HistoricalRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(); err != nil {
		return nil, err
	}

	stored, ok := r.s.history[bookingID]
	if !ok {
		return nil, historyRepo.ErrRecordNotFound
	}
	return cloneRecord(stored), nil
}

func (r *HistoryRepo) DeleteByBookingID(_ context.Context, bookingID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(); err != nil {
		return err
	}

	if _, ok := r.s.history[bookingID]; !ok {
		return historyRepo.ErrRecordNotFound
	}
	delete(r.s.history, bookingID)
	return nil
}

func (r *HistoryRepo) SetFeedback(_ context.Context, bookingID int64, feedback domain.Feedback) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(); err != nil {
		return err
	}

	stored, ok := r.s.history[bookingID]
	if !ok {
		return historyRepo.ErrRecordNotFound
	}
	stored.Feedback = &feedback
	return nil
}

func (r *HistoryRepo) List(_ context.Context, filter domain.HistoryFilter) ([]*domain.HistoricalRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(); err != nil {
		return nil, err
	}

	result := make([]*domain.HistoricalRecord, 0)
	for _, rec := range r.s.history {
		if rec.LocationID != filter.LocationID {
			continue
		}
		if filter.From != nil && rec.BookingDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && rec.BookingDate.After(*filter.To) {
			continue
		}
		if filter.Status != nil && rec.Status != *filter.Status {
			continue
		}
		result = append(result, cloneRecord(rec))
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].BookingDate.Equal(result[j].BookingDate) {
			return result[i].BookingDate.After(result[j].BookingDate)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

// CatalogRepo фейк catalog.Repository
type CatalogRepo struct{ s *Store }

func (r *CatalogRepo) GetLocation(_ context.Context, id int64) (*domain.Location, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(); err != nil {
		return nil, err
	}

	loc, ok := r.s.locations[id]
	if !ok {
		return nil, catalogRepo.ErrLocationNotFound
	}
	return &loc, nil
}

func (r *CatalogRepo) GetServicesByIDs(_ context.Context, ids []int64) (map[int64]domain.CatalogService, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.takeFailure(); err != nil {
		return nil, err
	}

	result := make(map[int64]domain.CatalogService, len(ids))
	for _, id := range ids {
		if svc, ok := r.s.catalog[id]; ok {
			result[id] = svc
		}
	}
	return result, nil
}
