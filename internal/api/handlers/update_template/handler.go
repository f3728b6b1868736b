package update_template

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-GroomingService/internal/api/handlers"
	"github.com/m04kA/SMC-GroomingService/internal/service/templates"
	"github.com/m04kA/SMC-GroomingService/internal/service/templates/models"
)

const (
	msgInvalidTemplateID  = "некорректный ID шаблона"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgNotFound           = "шаблон не найден"
	msgTemplateInUse      = "на слоты шаблона есть незавершённые бронирования"
)

type Handler struct {
	service TemplateService
	logger  Logger
}

func NewHandler(service TemplateService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/templates/{templateId} (только администратор)
// Полная замена шаблона, набор под-слотов пересоздаётся.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	templateID, err := handlers.PathInt64(r, "templateId")
	if err != nil {
		h.logger.Warn("PUT /templates/{id} - Invalid template ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTemplateID)
		return
	}

	var req models.TemplateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /templates/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Update(r.Context(), templateID, &req)
	if err != nil {
		switch {
		case errors.Is(err, templates.ErrTemplateNotFound):
			h.logger.Warn("PUT /templates/{id} - Template not found: template_id=%d", templateID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, templates.ErrTemplateInUse):
			h.logger.Warn("PUT /templates/{id} - Template in use: template_id=%d", templateID)
			handlers.RespondConflict(w, msgTemplateInUse)

		case errors.Is(err, templates.ErrInvalidInput):
			h.logger.Warn("PUT /templates/{id} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PUT /templates/{id} - Failed to update template: template_id=%d, error=%v", templateID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /templates/{id} - Template updated successfully: template_id=%d", templateID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
