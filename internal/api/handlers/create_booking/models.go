package create_booking

import (
	"time"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	createBooking "github.com/m04kA/SMC-GroomingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	SubSlotID     int64   `json:"subSlotId" validate:"required,gt=0"`
	LocationID    int64   `json:"locationId" validate:"required,gt=0"`
	BookingDate   string  `json:"bookingDate" validate:"required"` // "2025-10-15"
	CustomerName  string  `json:"customerName" validate:"required"`
	ContactNumber string  `json:"contactNumber" validate:"required"`
	PetName       string  `json:"petName" validate:"required"`
	PetBreed      string  `json:"petBreed" validate:"required"`
	Notes         *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID            int64   `json:"id"`
	LocationID    int64   `json:"locationId"`
	SubSlotID     int64   `json:"subSlotId"`
	TemplateID    int64   `json:"templateId"`
	BookingDate   string  `json:"bookingDate"`
	StartTime     string  `json:"startTime"`
	SubSlotLabel  string  `json:"subSlotLabel"`
	Status        string  `json:"status"`
	Source        string  `json:"source"`
	CustomerName  string  `json:"customerName"`
	ContactNumber string  `json:"contactNumber"`
	PetName       string  `json:"petName"`
	PetBreed      string  `json:"petBreed"`
	Notes         *string `json:"notes,omitempty"`
	CreatedAt     string  `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(source domain.BookingSource) (*createBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		SubSlotID:     r.SubSlotID,
		LocationID:    r.LocationID,
		Date:          bookingDate,
		CustomerName:  r.CustomerName,
		ContactNumber: r.ContactNumber,
		PetName:       r.PetName,
		PetBreed:      r.PetBreed,
		Notes:         r.Notes,
		Source:        source,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	b := resp.Booking
	return &BookingResponse{
		ID:            b.ID,
		LocationID:    b.LocationID,
		SubSlotID:     b.SubSlotID,
		TemplateID:    resp.TemplateID,
		BookingDate:   b.BookingDate.Format(domain.DateFormat),
		StartTime:     resp.StartTime.Short(),
		SubSlotLabel:  resp.SubSlotLabel,
		Status:        string(b.Status),
		Source:        string(b.Source),
		CustomerName:  b.CustomerName,
		ContactNumber: b.ContactNumber,
		PetName:       b.PetName,
		PetBreed:      b.PetBreed,
		Notes:         b.Notes,
		CreatedAt:     b.CreatedAt.Format(time.RFC3339),
	}
}
