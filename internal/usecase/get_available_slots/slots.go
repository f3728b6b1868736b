package get_available_slots

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
)

// resolveSlots строит список свободных под-слотов на дату.
//
// Алгоритм:
//  1. Оставляем шаблоны, предлагаемые на точке и действующие в день недели даты
//  2. Раскрываем каждый шаблон в его под-слоты
//  3. Исключаем под-слоты, занятые неотменённым бронированием на эту дату
//  4. Сортируем по времени начала, затем по порядковому номеру
//
// Шаблон без свободных под-слотов в результат не попадает.
func resolveSlots(
	templates []*domain.TimeTemplate,
	bookings []*domain.Booking,
	locationID int64,
	date time.Time,
) []domain.AvailableSlot {
	taken := occupiedSubSlots(bookings)

	slots := make([]domain.AvailableSlot, 0)
	for _, t := range templates {
		if !t.OfferedAt(locationID) || !t.AppliesOn(date) {
			continue
		}

		for _, s := range t.SubSlots {
			if _, busy := taken[s.ID]; busy {
				continue
			}
			slots = append(slots, domain.AvailableSlot{
				TemplateID: t.ID,
				StartTime:  t.StartTime,
				SubSlotID:  s.ID,
				Ordinal:    s.Ordinal,
				Label:      s.Label,
			})
		}
	}

	sort.SliceStable(slots, func(i, j int) bool {
		a, b := slots[i], slots[j]
		if a.StartTime.Seconds() != b.StartTime.Seconds() {
			return a.StartTime.IsBefore(b.StartTime)
		}
		if a.TemplateID != b.TemplateID {
			return a.TemplateID < b.TemplateID
		}
		return a.Ordinal < b.Ordinal
	})

	return slots
}

// occupiedSubSlots возвращает под-слоты, которые держит неотменённое бронирование
func occupiedSubSlots(bookings []*domain.Booking) map[int64]struct{} {
	taken := make(map[int64]struct{}, len(bookings))
	for _, b := range bookings {
		if b.OccupiesSlot() && !b.IsOrphaned() {
			taken[b.SubSlotID] = struct{}{}
		}
	}
	return taken
}

func toResponseSlots(slots []domain.AvailableSlot) []Slot {
	result := make([]Slot, len(slots))
	for i, s := range slots {
		sub := domain.SubSlot{Ordinal: s.Ordinal, Label: s.Label}
		result[i] = Slot{
			TemplateID: s.TemplateID,
			StartTime:  s.StartTime,
			SubSlotID:  s.SubSlotID,
			Ordinal:    s.Ordinal,
			Label:      sub.LabelOrDefault(),
		}
	}
	return result
}
