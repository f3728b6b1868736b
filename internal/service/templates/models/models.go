package models

import (
	"time"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
)

// Request модели

// SubSlotRequest описание одного под-слота. Порядковый номер присваивается по позиции в списке.
type SubSlotRequest struct {
	Label *string `json:"label,omitempty"`
}

// TemplateRequest запрос на создание или полную замену шаблона
type TemplateRequest struct {
	StartTime        string           `json:"startTime"`                  // "HH:MM" или "HH:MM:SS"
	AppliesEveryDay  bool             `json:"appliesEveryDay"`            // true = каждый день
	SpecificWeekdays []string         `json:"specificWeekdays,omitempty"` // ["Monday", "Wed"] при appliesEveryDay = false
	LocationIDs      []int64          `json:"locationIds"`
	SubSlots         []SubSlotRequest `json:"subSlots"`
}

// Labels возвращает подписи под-слотов в порядке запроса
func (r *TemplateRequest) Labels() []*string {
	labels := make([]*string, len(r.SubSlots))
	for i, s := range r.SubSlots {
		labels[i] = s.Label
	}
	return labels
}

// Response модели

// SubSlotResponse под-слот шаблона
type SubSlotResponse struct {
	ID      int64  `json:"id"`
	Ordinal int    `json:"ordinal"`
	Label   string `json:"label"`
}

// TemplateResponse ответ с данными шаблона
type TemplateResponse struct {
	ID               int64             `json:"id"`
	StartTime        string            `json:"startTime"` // "10:00"
	AppliesEveryDay  bool              `json:"appliesEveryDay"`
	SpecificWeekdays []string          `json:"specificWeekdays"`
	LocationIDs      []int64           `json:"locationIds"`
	SubSlots         []SubSlotResponse `json:"subSlots"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// TemplateListResponse ответ со списком шаблонов
type TemplateListResponse struct {
	Templates []TemplateResponse `json:"templates"`
}

// Методы конвертации

// FromDomainTemplate конвертирует domain модель в DTO
func FromDomainTemplate(t *domain.TimeTemplate) *TemplateResponse {
	if t == nil {
		return nil
	}

	weekdays := t.SpecificWeekdays
	if weekdays == nil {
		weekdays = []string{}
	}

	locationIDs := t.LocationIDs
	if locationIDs == nil {
		locationIDs = []int64{}
	}

	subSlots := make([]SubSlotResponse, len(t.SubSlots))
	for i, s := range t.SubSlots {
		subSlots[i] = SubSlotResponse{
			ID:      s.ID,
			Ordinal: s.Ordinal,
			Label:   s.LabelOrDefault(),
		}
	}

	return &TemplateResponse{
		ID:               t.ID,
		StartTime:        t.StartTime.Short(),
		AppliesEveryDay:  t.AppliesEveryDay,
		SpecificWeekdays: weekdays,
		LocationIDs:      locationIDs,
		SubSlots:         subSlots,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

// FromDomainTemplateList конвертирует список domain моделей в DTO
func FromDomainTemplateList(templates []*domain.TimeTemplate) *TemplateListResponse {
	resp := &TemplateListResponse{
		Templates: make([]TemplateResponse, 0, len(templates)),
	}

	for _, t := range templates {
		resp.Templates = append(resp.Templates, *FromDomainTemplate(t))
	}

	return resp
}
