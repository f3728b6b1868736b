package lifecycle

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/service/lifecycle/models"
)

func validateAssignServices(req *models.AssignServicesRequest) error {
	if len(req.Services) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}

	seen := make(map[int64]struct{}, len(req.Services))
	for i, s := range req.Services {
		if s.ServiceID <= 0 {
			return fmt.Errorf("%w: services[%d].serviceId must be positive", ErrInvalidInput, i)
		}
		if _, dup := seen[s.ServiceID]; dup {
			return fmt.Errorf("%w: service id=%d selected twice", ErrInvalidInput, s.ServiceID)
		}
		seen[s.ServiceID] = struct{}{}

		if s.InputValue != nil && utf8.RuneCountInString(*s.InputValue) > domain.MaxServiceInputLength {
			return fmt.Errorf("%w: services[%d].inputValue is too long", ErrInvalidInput, i)
		}
		if s.CareNote != nil && utf8.RuneCountInString(*s.CareNote) > domain.MaxCareNoteLength {
			return fmt.Errorf("%w: services[%d].careNote is too long", ErrInvalidInput, i)
		}
	}
	return nil
}

func validateComplete(req *models.CompleteRequest) error {
	if req.PaymentMode == nil {
		return nil
	}
	mode := strings.TrimSpace(*req.PaymentMode)
	if mode == "" {
		req.PaymentMode = nil
		return nil
	}
	if utf8.RuneCountInString(mode) > domain.MaxPaymentModeLength {
		return fmt.Errorf("%w: paymentMode is too long", ErrInvalidInput)
	}
	req.PaymentMode = &mode
	return nil
}

func validateFeedback(req *models.FeedbackRequest) error {
	if req.Rating < domain.MinRating || req.Rating > domain.MaxRating {
		return fmt.Errorf("%w: rating must be between %d and %d", ErrInvalidInput, domain.MinRating, domain.MaxRating)
	}
	req.Comment = strings.TrimSpace(req.Comment)
	if utf8.RuneCountInString(req.Comment) > domain.MaxFeedbackLength {
		return fmt.Errorf("%w: comment is longer than %d characters", ErrInvalidInput, domain.MaxFeedbackLength)
	}
	return nil
}
