package get_location_history

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-GroomingService/internal/api/handlers"
	"github.com/m04kA/SMC-GroomingService/internal/api/middleware"
	"github.com/m04kA/SMC-GroomingService/internal/service/history"
	"github.com/m04kA/SMC-GroomingService/internal/service/history/models"
)

const (
	msgInvalidLocationID = "некорректный ID точки"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgUnauthorized      = "требуется авторизация"
	msgForbidden         = "доступ запрещен"
)

type Handler struct {
	service HistoryService
	logger  Logger
}

func NewHandler(service HistoryService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/locations/{locationId}/history
// Query params: from, to (optional, YYYY-MM-DD), status (optional, completed|cancelled)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	locationID, err := handlers.PathInt64(r, "locationId")
	if err != nil {
		h.logger.Warn("GET /locations/{id}/history - Invalid location ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLocationID)
		return
	}

	query := r.URL.Query()
	req := &models.ListRequest{LocationID: locationID}

	if req.From, err = handlers.ParseOptionalDate(query.Get("from")); err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	if req.To, err = handlers.ParseOptionalDate(query.Get("to")); err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	result, err := h.service.ListByLocation(r.Context(), req, actor)
	if err != nil {
		switch {
		case errors.Is(err, history.ErrAccessDenied):
			h.logger.Warn("GET /locations/{id}/history - Access denied: location_id=%d, user=%s", locationID, actor.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, history.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /locations/{id}/history - Failed to list history: location_id=%d, error=%v", locationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /locations/{id}/history - Found %d records: location_id=%d", len(result.Records), locationID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
