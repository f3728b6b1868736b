package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// BookingStatus represents the lifecycle stage of a booking
type BookingStatus string

const (
	StatusReserved    BookingStatus = "reserved"
	StatusCheckedIn   BookingStatus = "checked_in"
	StatusProgressing BookingStatus = "progressing"
	StatusCompleted   BookingStatus = "completed"
	StatusCancelled   BookingStatus = "cancelled"
)

// IsValid returns true for known statuses
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusReserved, StatusCheckedIn, StatusProgressing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal returns true for completed and cancelled
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// BookingSource who initiated the reservation
type BookingSource string

const (
	SourceCustomer BookingSource = "customer"
	SourceStaff    BookingSource = "staff"
)

// Booking is a reservation of one sub-slot on one calendar date.
// At most one non-cancelled booking exists per (SubSlotID, BookingDate).
type Booking struct {
	ID            int64
	CustomerName  string
	ContactNumber string
	PetName       string
	PetBreed      string
	BookingDate   time.Time
	SubSlotID     int64 // 0 when the sub-slot was removed from its template after the booking ended
	LocationID    int64
	Status        BookingStatus
	CheckInTime   *time.Time
	Source        BookingSource
	Notes         *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal returns true if the booking is completed or cancelled
func (b *Booking) IsTerminal() bool {
	return b.Status.IsTerminal()
}

// OccupiesSlot returns true if the booking holds its sub-slot for the date
func (b *Booking) OccupiesSlot() bool {
	return b.Status != StatusCancelled
}

// CanBeEdited returns true if customer fields may still be changed
func (b *Booking) CanBeEdited() bool {
	return !b.IsTerminal()
}

// IsOrphaned returns true if the booking's sub-slot no longer exists
func (b *Booking) IsOrphaned() bool {
	return b.SubSlotID == 0
}

// CustomerFields editable customer and pet attributes of a booking
type CustomerFields struct {
	CustomerName  string
	ContactNumber string
	PetName       string
	PetBreed      string
	Notes         *string
}

// contactNumberPattern digits, spaces, dashes, parentheses and an optional leading plus
var contactNumberPattern = regexp.MustCompile(`^\+?[0-9\s\-()]{5,32}$`)

// Normalize trims the fields in place and checks they are present and within limits.
// Blank notes become nil.
func (f *CustomerFields) Normalize() error {
	f.CustomerName = strings.TrimSpace(f.CustomerName)
	f.ContactNumber = strings.TrimSpace(f.ContactNumber)
	f.PetName = strings.TrimSpace(f.PetName)
	f.PetBreed = strings.TrimSpace(f.PetBreed)

	if err := requireText("customerName", f.CustomerName, MaxCustomerNameLength); err != nil {
		return err
	}
	if err := requireText("petName", f.PetName, MaxPetNameLength); err != nil {
		return err
	}
	if err := requireText("petBreed", f.PetBreed, MaxPetBreedLength); err != nil {
		return err
	}

	if f.ContactNumber == "" {
		return errors.New("contactNumber is required")
	}
	if !contactNumberPattern.MatchString(f.ContactNumber) {
		return errors.New("contactNumber has invalid format")
	}

	if f.Notes != nil {
		trimmed := strings.TrimSpace(*f.Notes)
		if utf8.RuneCountInString(trimmed) > MaxNotesLength {
			return fmt.Errorf("notes are longer than %d characters", MaxNotesLength)
		}
		if trimmed == "" {
			f.Notes = nil
		} else {
			f.Notes = &trimmed
		}
	}
	return nil
}

func requireText(field, value string, maxLen int) error {
	if value == "" {
		return fmt.Errorf("%s is required", field)
	}
	if utf8.RuneCountInString(value) > maxLen {
		return fmt.Errorf("%s is longer than %d characters", field, maxLen)
	}
	return nil
}

// Apply copies the fields onto the booking
func (f CustomerFields) Apply(b *Booking) {
	b.CustomerName = f.CustomerName
	b.ContactNumber = f.ContactNumber
	b.PetName = f.PetName
	b.PetBreed = f.PetBreed
	b.Notes = f.Notes
}

// BookingsFilter фильтр для выборки бронирований.
// Под-слот занимается на дату глобально: бронь на одной точке
// исключает этот под-слот и на остальных точках шаблона.
type BookingsFilter struct {
	LocationID       int64          // Точка (опционально, 0 - все точки)
	Date             *time.Time     // Конкретная дата (опционально)
	SubSlotIDs       []int64        // Ограничение по под-слотам (опционально)
	Status           *BookingStatus // Фильтр по статусу (опционально)
	IncludeCancelled bool           // Включать ли отменённые бронирования
}
