package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
)

// validateRequest валидирует входные данные запроса и нормализует поля клиента
func validateRequest(req *Request) error {
	if req.SubSlotID <= 0 {
		return fmt.Errorf("%w: sub-slot must be chosen", ErrInvalidInput)
	}

	if req.LocationID <= 0 {
		return fmt.Errorf("%w: locationID must be positive", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	fields := domain.CustomerFields{
		CustomerName:  req.CustomerName,
		ContactNumber: req.ContactNumber,
		PetName:       req.PetName,
		PetBreed:      req.PetBreed,
		Notes:         req.Notes,
	}
	if err := fields.Normalize(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	req.CustomerName = fields.CustomerName
	req.ContactNumber = fields.ContactNumber
	req.PetName = fields.PetName
	req.PetBreed = fields.PetBreed
	req.Notes = fields.Notes

	switch req.Source {
	case domain.SourceCustomer, domain.SourceStaff:
	case "":
		req.Source = domain.SourceStaff
	default:
		return fmt.Errorf("%w: unknown source %q", ErrInvalidInput, req.Source)
	}

	return nil
}

// validateSlotOffered проверяет, что под-слот предлагается на точке в день недели даты
func validateSlotOffered(template *domain.TimeTemplate, locationID int64, date time.Time) error {
	if !template.OfferedAt(locationID) {
		return fmt.Errorf("%w: template id=%d is not offered at location id=%d", ErrSlotNotOffered, template.ID, locationID)
	}
	if !template.AppliesOn(date) {
		return fmt.Errorf("%w: template id=%d does not apply on %s", ErrSlotNotOffered, template.ID, date.Weekday())
	}
	return nil
}
