package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/m04kA/SMC-GroomingService/pkg/types"
)

// TimeTemplate is a recurring appointment time offered at one or more locations.
// When AppliesEveryDay is false, SpecificWeekdays is non-empty.
type TimeTemplate struct {
	ID               int64
	StartTime        types.TimeString
	AppliesEveryDay  bool
	SpecificWeekdays []string // canonical English names, Monday first
	LocationIDs      []int64
	SubSlots         []SubSlot // ordered by Ordinal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SubSlot is one parallel capacity unit (a chair, a table) of a template.
// Ordinals within a template are contiguous starting at 1.
type SubSlot struct {
	ID         int64
	TemplateID int64
	Ordinal    int
	Label      *string
}

// AppliesOn reports whether the template recurs on the weekday of date.
func (t *TimeTemplate) AppliesOn(date time.Time) bool {
	if t.AppliesEveryDay {
		return true
	}
	name := date.Weekday().String()
	for _, d := range t.SpecificWeekdays {
		if d == name {
			return true
		}
	}
	return false
}

// OfferedAt reports whether the location offers this template.
func (t *TimeTemplate) OfferedAt(locationID int64) bool {
	for _, id := range t.LocationIDs {
		if id == locationID {
			return true
		}
	}
	return false
}

// SubSlotByID finds a sub-slot of the template.
func (t *TimeTemplate) SubSlotByID(id int64) (SubSlot, bool) {
	for _, s := range t.SubSlots {
		if s.ID == id {
			return s, true
		}
	}
	return SubSlot{}, false
}

// SubSlotIDs returns ids of all sub-slots.
func (t *TimeTemplate) SubSlotIDs() []int64 {
	ids := make([]int64, 0, len(t.SubSlots))
	for _, s := range t.SubSlots {
		ids = append(ids, s.ID)
	}
	return ids
}

// LabelOrDefault returns the human description of the sub-slot.
func (s SubSlot) LabelOrDefault() string {
	if s.Label != nil && strings.TrimSpace(*s.Label) != "" {
		return *s.Label
	}
	return fmt.Sprintf("Slot %d", s.Ordinal)
}

// NumberSubSlots builds a sub-slot set with contiguous ordinals 1..N.
// Used by both create and the destructive replace on update.
func NumberSubSlots(templateID int64, labels []*string) []SubSlot {
	slots := make([]SubSlot, len(labels))
	for i, label := range labels {
		slots[i] = SubSlot{
			TemplateID: templateID,
			Ordinal:    i + 1,
			Label:      label,
		}
	}
	return slots
}

var weekdayByName = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// ParseWeekday accepts full or three-letter English names, case-insensitive.
func ParseWeekday(s string) (time.Weekday, error) {
	wd, ok := weekdayByName[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("unknown weekday %q", s)
	}
	return wd, nil
}

// NormalizeWeekdays canonicalises names, drops duplicates and orders Monday..Sunday.
func NormalizeWeekdays(days []string) ([]string, error) {
	seen := make(map[time.Weekday]struct{}, len(days))
	parsed := make([]time.Weekday, 0, len(days))
	for _, d := range days {
		wd, err := ParseWeekday(d)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[wd]; dup {
			continue
		}
		seen[wd] = struct{}{}
		parsed = append(parsed, wd)
	}

	// Monday first, Sunday last
	sort.Slice(parsed, func(i, j int) bool {
		return (parsed[i]+6)%7 < (parsed[j]+6)%7
	})

	names := make([]string, len(parsed))
	for i, wd := range parsed {
		names[i] = wd.String()
	}
	return names, nil
}
