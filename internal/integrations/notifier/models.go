package notifier

import (
	"time"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
)

// BookingCreatedMessage сообщение о новой записи, отправляемое клиенту
type BookingCreatedMessage struct {
	BookingID     int64     `json:"bookingId"`
	LocationID    int64     `json:"locationId"`
	BookingDate   string    `json:"bookingDate"` // "2024-06-10"
	CustomerName  string    `json:"customerName"`
	ContactNumber string    `json:"contactNumber"`
	PetName       string    `json:"petName"`
	CreatedAt     time.Time `json:"createdAt"`
}

// NewBookingCreatedMessage собирает сообщение из бронирования
func NewBookingCreatedMessage(b *domain.Booking) BookingCreatedMessage {
	return BookingCreatedMessage{
		BookingID:     b.ID,
		LocationID:    b.LocationID,
		BookingDate:   b.BookingDate.Format(domain.DateFormat),
		CustomerName:  b.CustomerName,
		ContactNumber: b.ContactNumber,
		PetName:       b.PetName,
		CreatedAt:     b.CreatedAt,
	}
}

// ErrorResponse модель ошибки от сервиса отправки сообщений
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
