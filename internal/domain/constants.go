package domain

// Time format constants
const (
	TimeFormat = "15:04:05"   // HH:MM:SS
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Business validation constants
const (
	MaxSubSlotsPerTemplate = 50
	MaxSubSlotLabelLength  = 100
	MaxCustomerNameLength  = 150
	MaxPetNameLength       = 100
	MaxPetBreedLength      = 100
	MaxContactNumberLength = 32
	MaxNotesLength         = 500
	MaxServiceInputLength  = 255
	MaxCareNoteLength      = 500
	MaxFeedbackLength      = 1000
	MaxPaymentModeLength   = 50

	MinRating = 1
	MaxRating = 5
)

// NonTerminalStatuses статусы, при которых бронирование ещё в работе.
// Пока такие бронирования ссылаются на под-слоты шаблона, шаблон нельзя менять или удалять.
var NonTerminalStatuses = []BookingStatus{
	StatusReserved,
	StatusCheckedIn,
	StatusProgressing,
}

// TerminalStatuses статусы, после которых создаётся архивная запись
var TerminalStatuses = []BookingStatus{
	StatusCompleted,
	StatusCancelled,
}

// OccupyingStatuses статусы, занимающие под-слот на дату (всё, кроме отмены).
// Совпадает с условием частичного уникального индекса bookings_active_slot_uidx.
var OccupyingStatuses = []BookingStatus{
	StatusReserved,
	StatusCheckedIn,
	StatusProgressing,
	StatusCompleted,
}
