package models

import (
	"time"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
)

// ListRequest фильтр архива точки
type ListRequest struct {
	LocationID int64
	From       *time.Time
	To         *time.Time
	Status     *string // completed / cancelled
}

// ArchivedServiceResponse услуга в архивной записи
type ArchivedServiceResponse struct {
	ServiceID   int64   `json:"serviceId"`
	ServiceName string  `json:"serviceName"`
	Price       float64 `json:"price"`
	InputValue  *string `json:"inputValue,omitempty"`
	CareNote    *string `json:"careNote,omitempty"`
}

// FeedbackResponse оценка клиента
type FeedbackResponse struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

// RecordResponse архивная запись бронирования
type RecordResponse struct {
	ID                int64                     `json:"id"`
	OriginalBookingID int64                     `json:"originalBookingId"`
	Status            string                    `json:"status"`
	CustomerName      string                    `json:"customerName"`
	ContactNumber     string                    `json:"contactNumber"`
	PetName           string                    `json:"petName"`
	PetBreed          string                    `json:"petBreed"`
	BookingDate       string                    `json:"bookingDate"`
	LocationID        int64                     `json:"locationId"`
	LocationName      string                    `json:"locationName"`
	SlotStartTime     string                    `json:"slotStartTime"`
	SubSlotLabel      string                    `json:"subSlotLabel"`
	CheckInTime       *time.Time                `json:"checkInTime,omitempty"`
	Services          []ArchivedServiceResponse `json:"services"`
	TotalPrice        float64                   `json:"totalPrice"`
	PaymentMode       *string                   `json:"paymentMode,omitempty"`
	Feedback          *FeedbackResponse         `json:"feedback,omitempty"`
	ArchivedAt        time.Time                 `json:"archivedAt"`
}

// RecordListResponse список архивных записей
type RecordListResponse struct {
	Records []RecordResponse `json:"records"`
}

// FromDomainRecord конвертирует domain модель в DTO
func FromDomainRecord(r *domain.HistoricalRecord) *RecordResponse {
	if r == nil {
		return nil
	}

	resp := &RecordResponse{
		ID:                r.ID,
		OriginalBookingID: r.OriginalBookingID,
		Status:            string(r.Status),
		CustomerName:      r.CustomerName,
		ContactNumber:     r.ContactNumber,
		PetName:           r.PetName,
		PetBreed:          r.PetBreed,
		BookingDate:       r.BookingDate.Format(domain.DateFormat),
		LocationID:        r.LocationID,
		LocationName:      r.LocationName,
		SlotStartTime:     r.SlotStartTime,
		SubSlotLabel:      r.SubSlotLabel,
		CheckInTime:       r.CheckInTime,
		Services:          make([]ArchivedServiceResponse, 0, len(r.Services)),
		TotalPrice:        r.TotalPrice,
		PaymentMode:       r.PaymentMode,
		ArchivedAt:        r.ArchivedAt,
	}

	for _, s := range r.Services {
		resp.Services = append(resp.Services, ArchivedServiceResponse(s))
	}

	if r.Feedback != nil {
		resp.Feedback = &FeedbackResponse{Rating: r.Feedback.Rating, Comment: r.Feedback.Comment}
	}

	return resp
}

// FromDomainRecordList конвертирует список domain моделей в DTO
func FromDomainRecordList(records []*domain.HistoricalRecord) *RecordListResponse {
	resp := &RecordListResponse{Records: make([]RecordResponse, 0, len(records))}
	for _, r := range records {
		resp.Records = append(resp.Records, *FromDomainRecord(r))
	}
	return resp
}
