package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-GroomingService/internal/api/handlers"
	"github.com/m04kA/SMC-GroomingService/internal/api/middleware"
	"github.com/m04kA/SMC-GroomingService/internal/domain"
	createBooking "github.com/m04kA/SMC-GroomingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты бронирования, ожидается YYYY-MM-DD"
	msgUnauthorized       = "требуется авторизация"
	msgForbidden          = "доступ запрещен"
	msgSlotNotAvailable   = "выбранный слот уже занят"
	msgSlotNotOffered     = "выбранный слот не предлагается на этой точке в эту дату"
	msgLocationNotFound   = "точка не найдена"
	msgSubSlotNotFound    = "слот не найден"
)

// Handler создание бронирования.
// Публичная форма создаёт бронирования с source=customer, сотрудники точки - с source=staff.
type Handler struct {
	useCase BookingCreator
	source  domain.BookingSource
	logger  Logger
}

func NewHandler(useCase BookingCreator, source domain.BookingSource, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		source:  source,
		logger:  logger,
	}
}

// Handle POST /api/v1/public/bookings и POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeAndValidate(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if h.source == domain.SourceStaff {
		actor, ok := middleware.ActorFromContext(r.Context())
		if !ok {
			handlers.RespondUnauthorized(w, msgUnauthorized)
			return
		}
		if !actor.CanAccessLocation(req.LocationID) {
			h.logger.Warn("POST /bookings - Access denied: user=%s, location_id=%d", actor.UserID, req.LocationID)
			handlers.RespondForbidden(w, msgForbidden)
			return
		}
	}

	useCaseReq, err := req.ToUseCaseRequest(h.source)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: sub_slot_id=%d, date=%s", req.SubSlotID, req.BookingDate)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrSlotNotOffered):
			h.logger.Warn("POST /bookings - Slot not offered: sub_slot_id=%d, location_id=%d, date=%s",
				req.SubSlotID, req.LocationID, req.BookingDate)
			handlers.RespondBadRequest(w, msgSlotNotOffered)

		case errors.Is(err, createBooking.ErrLocationNotFound):
			h.logger.Warn("POST /bookings - Location not found: location_id=%d", req.LocationID)
			handlers.RespondNotFound(w, msgLocationNotFound)

		case errors.Is(err, createBooking.ErrSubSlotNotFound):
			h.logger.Warn("POST /bookings - Sub-slot not found: sub_slot_id=%d", req.SubSlotID)
			handlers.RespondNotFound(w, msgSubSlotNotFound)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /bookings - Failed to create booking: sub_slot_id=%d, location_id=%d, error=%v",
				req.SubSlotID, req.LocationID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, location_id=%d, source=%s",
		result.Booking.ID, req.LocationID, h.source)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
