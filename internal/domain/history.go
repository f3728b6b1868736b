package domain

import "time"

// Feedback customer rating attached to a completed booking's archive row
type Feedback struct {
	Rating  int
	Comment string
}

// ArchivedService frozen copy of a ServiceSelection stored as JSON in the archive
type ArchivedService struct {
	ServiceID   int64   `json:"serviceId"`
	ServiceName string  `json:"serviceName"`
	Price       float64 `json:"price"`
	InputValue  *string `json:"inputValue,omitempty"`
	CareNote    *string `json:"careNote,omitempty"`
}

// HistoricalRecord is the archival snapshot of a terminal booking.
// Exactly one exists per terminal excursion; restore deletes it.
type HistoricalRecord struct {
	ID                int64
	OriginalBookingID int64
	Status            BookingStatus // completed or cancelled

	CustomerName  string
	ContactNumber string
	PetName       string
	PetBreed      string
	BookingDate   time.Time
	LocationID    int64
	LocationName  string
	SlotStartTime string
	SubSlotLabel  string
	CheckInTime   *time.Time

	Services    []ArchivedService
	TotalPrice  float64
	Feedback    *Feedback
	PaymentMode *string

	ArchivedAt time.Time
}

// SlotSnapshot denormalized slot and shop data captured at archival
type SlotSnapshot struct {
	LocationName  string
	SlotStartTime string
	SubSlotLabel  string
}

// NewHistoricalRecord freezes the booking, its services and the slot snapshot
func NewHistoricalRecord(b *Booking, status BookingStatus, selections []ServiceSelection, snap SlotSnapshot, paymentMode *string) *HistoricalRecord {
	services := make([]ArchivedService, len(selections))
	for i, s := range selections {
		services[i] = ArchivedService{
			ServiceID:   s.ServiceID,
			ServiceName: s.ServiceName,
			Price:       s.Price,
			InputValue:  s.InputValue,
			CareNote:    s.CareNote,
		}
	}

	return &HistoricalRecord{
		OriginalBookingID: b.ID,
		Status:            status,
		CustomerName:      b.CustomerName,
		ContactNumber:     b.ContactNumber,
		PetName:           b.PetName,
		PetBreed:          b.PetBreed,
		BookingDate:       b.BookingDate,
		LocationID:        b.LocationID,
		LocationName:      snap.LocationName,
		SlotStartTime:     snap.SlotStartTime,
		SubSlotLabel:      snap.SubSlotLabel,
		CheckInTime:       b.CheckInTime,
		Services:          services,
		TotalPrice:        TotalPrice(selections),
		PaymentMode:       paymentMode,
	}
}

// HistoryFilter фильтр архива по точке и периоду
type HistoryFilter struct {
	LocationID int64
	From       *time.Time
	To         *time.Time
	Status     *BookingStatus
}
