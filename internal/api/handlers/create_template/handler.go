package create_template

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-GroomingService/internal/api/handlers"
	"github.com/m04kA/SMC-GroomingService/internal/service/templates"
	"github.com/m04kA/SMC-GroomingService/internal/service/templates/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
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

// Handle POST /api/v1/templates (только администратор)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.TemplateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /templates - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, templates.ErrInvalidInput) {
			h.logger.Warn("POST /templates - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())
			return
		}
		h.logger.Error("POST /templates - Failed to create template: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /templates - Template created successfully: template_id=%d, sub_slots=%d",
		result.ID, len(result.SubSlots))
	handlers.RespondJSON(w, http.StatusCreated, result)
}
