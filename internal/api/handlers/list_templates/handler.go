package list_templates

import (
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-GroomingService/internal/api/handlers"
)

const (
	msgInvalidLocationID = "некорректный ID точки"
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

// Handle GET /api/v1/templates
// Query params: locationId (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var locationID *int64
	if raw := r.URL.Query().Get("locationId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			h.logger.Warn("GET /templates - Invalid location ID: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidLocationID)
			return
		}
		locationID = &id
	}

	result, err := h.service.List(r.Context(), locationID)
	if err != nil {
		h.logger.Error("GET /templates - Failed to list templates: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /templates - Found %d templates", len(result.Templates))
	handlers.RespondJSON(w, http.StatusOK, result)
}
