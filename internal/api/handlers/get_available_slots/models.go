package get_available_slots

import (
	"github.com/m04kA/SMC-GroomingService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-GroomingService/internal/usecase/get_available_slots"
)

// SlotResponse свободный под-слот
type SlotResponse struct {
	TemplateID int64  `json:"templateId"`
	StartTime  string `json:"startTime"` // "10:00"
	SubSlotID  int64  `json:"subSlotId"`
	Ordinal    int    `json:"ordinal"`
	Label      string `json:"label"`
}

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	LocationID int64          `json:"locationId"`
	Date       string         `json:"date"`
	Slots      []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	result := &AvailableSlotsResponse{
		LocationID: resp.LocationID,
		Date:       resp.Date.Format(domain.DateFormat),
		Slots:      make([]SlotResponse, 0, len(resp.Slots)),
	}
	for _, s := range resp.Slots {
		result.Slots = append(result.Slots, SlotResponse{
			TemplateID: s.TemplateID,
			StartTime:  s.StartTime.Short(),
			SubSlotID:  s.SubSlotID,
			Ordinal:    s.Ordinal,
			Label:      s.Label,
		})
	}
	return result
}
