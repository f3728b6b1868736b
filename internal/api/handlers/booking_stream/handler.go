package booking_stream

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/m04kA/SMC-GroomingService/internal/api/handlers"
	"github.com/m04kA/SMC-GroomingService/internal/api/middleware"
)

const (
	msgInvalidLocationID = "некорректный ID точки"
	msgUnauthorized      = "требуется авторизация"
	msgForbidden         = "доступ запрещен"
	msgStreamUnsupported = "потоковая передача не поддерживается"
)

// DefaultHeartbeat интервал комментариев-пингов, не дающих прокси закрыть соединение
const DefaultHeartbeat = 25 * time.Second

type Handler struct {
	subscriber Subscriber
	heartbeat  time.Duration
	logger     Logger
}

func NewHandler(subscriber Subscriber, heartbeat time.Duration, logger Logger) *Handler {
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeat
	}
	return &Handler{
		subscriber: subscriber,
		heartbeat:  heartbeat,
		logger:     logger,
	}
}

// Handle GET /api/v1/locations/{locationId}/bookings/stream
// Server-Sent Events: каждое изменение бронирования точки приходит как
// "event: booking.created|booking.updated" + "data: {json}".
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	locationID, err := handlers.PathInt64(r, "locationId")
	if err != nil {
		h.logger.Warn("GET /locations/{id}/bookings/stream - Invalid location ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLocationID)
		return
	}

	if !actor.CanAccessLocation(locationID) {
		h.logger.Warn("GET /locations/{id}/bookings/stream - Access denied: location_id=%d, user=%s", locationID, actor.UserID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.logger.Error("GET /locations/{id}/bookings/stream - ResponseWriter does not support flushing")
		handlers.RespondError(w, http.StatusInternalServerError, msgStreamUnsupported)
		return
	}

	ctx := r.Context()
	events, unsubscribe, err := h.subscriber.Subscribe(ctx, locationID)
	if err != nil {
		h.logger.Error("GET /locations/{id}/bookings/stream - Failed to subscribe: location_id=%d, error=%v", locationID, err)
		handlers.RespondInternalError(w)
		return
	}
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	h.logger.Info("GET /locations/{id}/bookings/stream - Subscribed: location_id=%d, user=%s", locationID, actor.UserID)

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("GET /locations/{id}/bookings/stream - Client disconnected: location_id=%d", locationID)
			return

		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()

		case event, ok := <-events:
			if !ok {
				// брокер закрыт
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("GET /locations/{id}/bookings/stream - Failed to marshal event %s: %v", event.ID, err)
				continue
			}
			if _, err := fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", event.ID, event.Type, payload); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
