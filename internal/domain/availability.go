package domain

import "github.com/m04kA/SMC-GroomingService/pkg/types"

// AvailableSlot is a bookable (template, sub-slot) pair for a concrete date
type AvailableSlot struct {
	TemplateID int64
	StartTime  types.TimeString
	SubSlotID  int64
	Ordinal    int
	Label      *string
}
