package templates

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/service/templates/models"
	"github.com/m04kA/SMC-GroomingService/pkg/types"
)

// buildTemplate валидирует запрос и собирает domain модель
func buildTemplate(req *models.TemplateRequest) (*domain.TimeTemplate, error) {
	startTime, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: startTime must be HH:MM or HH:MM:SS", ErrInvalidInput)
	}

	// Для ежедневного шаблона дни недели игнорируются
	var weekdays []string
	if !req.AppliesEveryDay {
		if len(req.SpecificWeekdays) == 0 {
			return nil, fmt.Errorf("%w: specificWeekdays is required when appliesEveryDay is false", ErrInvalidInput)
		}
		weekdays, err = domain.NormalizeWeekdays(req.SpecificWeekdays)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}

	if len(req.LocationIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one location is required", ErrInvalidInput)
	}
	locationIDs := make([]int64, 0, len(req.LocationIDs))
	seen := make(map[int64]struct{}, len(req.LocationIDs))
	for _, id := range req.LocationIDs {
		if id <= 0 {
			return nil, fmt.Errorf("%w: locationIds must be positive", ErrInvalidInput)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		locationIDs = append(locationIDs, id)
	}

	if len(req.SubSlots) == 0 {
		return nil, fmt.Errorf("%w: at least one sub-slot is required", ErrInvalidInput)
	}
	if len(req.SubSlots) > domain.MaxSubSlotsPerTemplate {
		return nil, fmt.Errorf("%w: at most %d sub-slots per template", ErrInvalidInput, domain.MaxSubSlotsPerTemplate)
	}

	labels := req.Labels()
	for i, label := range labels {
		if label == nil {
			continue
		}
		trimmed := strings.TrimSpace(*label)
		if len(trimmed) > domain.MaxSubSlotLabelLength {
			return nil, fmt.Errorf("%w: sub-slot label is longer than %d characters", ErrInvalidInput, domain.MaxSubSlotLabelLength)
		}
		if trimmed == "" {
			labels[i] = nil
			continue
		}
		labels[i] = &trimmed
	}

	return &domain.TimeTemplate{
		StartTime:        startTime,
		AppliesEveryDay:  req.AppliesEveryDay,
		SpecificWeekdays: weekdays,
		LocationIDs:      locationIDs,
		SubSlots:         domain.NumberSubSlots(0, labels),
	}, nil
}
