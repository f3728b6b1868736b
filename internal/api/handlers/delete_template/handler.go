package delete_template

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-GroomingService/internal/api/handlers"
	"github.com/m04kA/SMC-GroomingService/internal/service/templates"
)

const (
	msgInvalidTemplateID = "некорректный ID шаблона"
	msgNotFound          = "шаблон не найден"
	msgTemplateInUse     = "на слоты шаблона есть незавершённые бронирования"
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

// Handle DELETE /api/v1/templates/{templateId} (только администратор)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	templateID, err := handlers.PathInt64(r, "templateId")
	if err != nil {
		h.logger.Warn("DELETE /templates/{id} - Invalid template ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTemplateID)
		return
	}

	if err := h.service.Delete(r.Context(), templateID); err != nil {
		switch {
		case errors.Is(err, templates.ErrTemplateNotFound):
			h.logger.Warn("DELETE /templates/{id} - Template not found: template_id=%d", templateID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, templates.ErrTemplateInUse):
			h.logger.Warn("DELETE /templates/{id} - Template in use: template_id=%d", templateID)
			handlers.RespondConflict(w, msgTemplateInUse)

		default:
			h.logger.Error("DELETE /templates/{id} - Failed to delete template: template_id=%d, error=%v", templateID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /templates/{id} - Template deleted successfully: template_id=%d", templateID)
	w.WriteHeader(http.StatusNoContent)
}
