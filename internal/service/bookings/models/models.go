package models

import (
	"time"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
)

// Request модели

// UpdateBookingRequest запрос на изменение данных клиента и питомца
type UpdateBookingRequest struct {
	CustomerName  string  `json:"customerName"`
	ContactNumber string  `json:"contactNumber"`
	PetName       string  `json:"petName"`
	PetBreed      string  `json:"petBreed"`
	Notes         *string `json:"notes,omitempty"`
}

// ToDomainFields конвертирует запрос в редактируемые поля бронирования
func (r *UpdateBookingRequest) ToDomainFields() domain.CustomerFields {
	return domain.CustomerFields{
		CustomerName:  r.CustomerName,
		ContactNumber: r.ContactNumber,
		PetName:       r.PetName,
		PetBreed:      r.PetBreed,
		Notes:         r.Notes,
	}
}

// Response модели

// SlotView время начала и подпись под-слота бронирования
type SlotView struct {
	StartTime string
	Label     string
}

// NewSlotView собирает представление под-слота из шаблона
func NewSlotView(template *domain.TimeTemplate, subSlotID int64) *SlotView {
	subSlot, ok := template.SubSlotByID(subSlotID)
	if !ok {
		return nil
	}
	return &SlotView{
		StartTime: template.StartTime.Short(),
		Label:     subSlot.LabelOrDefault(),
	}
}

// ServiceSelectionResponse выбранная услуга с зафиксированной ценой
type ServiceSelectionResponse struct {
	ServiceID   int64   `json:"serviceId"`
	ServiceName string  `json:"serviceName"`
	Price       float64 `json:"price"`
	InputValue  *string `json:"inputValue,omitempty"`
	CareNote    *string `json:"careNote,omitempty"`
}

// ServiceListResponse услуги бронирования и итоговая стоимость
type ServiceListResponse struct {
	Services   []ServiceSelectionResponse `json:"services"`
	TotalPrice float64                    `json:"totalPrice"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID            int64      `json:"id"`
	LocationID    int64      `json:"locationId"`
	SubSlotID     *int64     `json:"subSlotId"`              // null, если под-слот удалён из шаблона
	BookingDate   string     `json:"bookingDate"`            // "2025-10-15"
	StartTime     *string    `json:"startTime,omitempty"`    // "10:00"
	SubSlotLabel  *string    `json:"subSlotLabel,omitempty"` // "Table A" / "Slot 2"
	Status        string     `json:"status"`
	Source        string     `json:"source"`
	CustomerName  string     `json:"customerName"`
	ContactNumber string     `json:"contactNumber"`
	PetName       string     `json:"petName"`
	PetBreed      string     `json:"petBreed"`
	Notes         *string    `json:"notes,omitempty"`
	CheckInTime   *time.Time `json:"checkInTime,omitempty"`

	Services   []ServiceSelectionResponse `json:"services,omitempty"`
	TotalPrice *float64                   `json:"totalPrice,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO.
// slot может быть nil (под-слот удалён), services - nil, если услуги не запрашивались.
func FromDomainBooking(b *domain.Booking, slot *SlotView, services []domain.ServiceSelection) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:            b.ID,
		LocationID:    b.LocationID,
		BookingDate:   b.BookingDate.Format(domain.DateFormat),
		Status:        string(b.Status),
		Source:        string(b.Source),
		CustomerName:  b.CustomerName,
		ContactNumber: b.ContactNumber,
		PetName:       b.PetName,
		PetBreed:      b.PetBreed,
		Notes:         b.Notes,
		CheckInTime:   b.CheckInTime,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}

	if !b.IsOrphaned() {
		subSlotID := b.SubSlotID
		resp.SubSlotID = &subSlotID
	}

	if slot != nil {
		resp.StartTime = &slot.StartTime
		resp.SubSlotLabel = &slot.Label
	}

	if services != nil {
		list := FromDomainServices(services)
		resp.Services = list.Services
		resp.TotalPrice = &list.TotalPrice
	}

	return resp
}

// FromDomainServices конвертирует выбранные услуги в DTO
func FromDomainServices(services []domain.ServiceSelection) *ServiceListResponse {
	resp := &ServiceListResponse{
		Services:   make([]ServiceSelectionResponse, 0, len(services)),
		TotalPrice: domain.TotalPrice(services),
	}
	for _, s := range services {
		resp.Services = append(resp.Services, ServiceSelectionResponse{
			ServiceID:   s.ServiceID,
			ServiceName: s.ServiceName,
			Price:       s.Price,
			InputValue:  s.InputValue,
			CareNote:    s.CareNote,
		})
	}
	return resp
}
