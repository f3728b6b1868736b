package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/feed"
	bookingRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/booking"
	templateRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/template"
	"github.com/m04kA/SMC-GroomingService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	templateRepo TemplateRepository
	txManager    TransactionManager
	publisher    FeedPublisher
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	templateRepo TemplateRepository,
	txManager TransactionManager,
	publisher FeedPublisher,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		templateRepo: templateRepo,
		txManager:    txManager,
		publisher:    publisher,
		logger:       logger,
	}
}

// GetByID получает бронирование по ID вместе с услугами и итоговой стоимостью.
// Сотрудник видит только бронирования своих точек.
func (s *Service) GetByID(ctx context.Context, id int64, actor domain.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%s", id, actor.UserID)

	booking, err := s.getBooking(ctx, "GetByID", id, actor)
	if err != nil {
		return nil, err
	}

	services, err := s.bookingRepo.ListServices(ctx, id)
	if err != nil {
		s.logger.Error("GetByID: failed to list services for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %w", ErrInternal, err)
	}

	slot, err := s.slotView(ctx, booking)
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking, slot, services), nil
}

// ListByLocationDate получает бронирования точки на дату, упорядоченные по времени начала и под-слоту
func (s *Service) ListByLocationDate(ctx context.Context, locationID int64, date time.Time, includeCancelled bool, actor domain.Actor) (*models.BookingListResponse, error) {
	s.logger.Info("ListByLocationDate: fetching bookings for location=%d, date=%s, includeCancelled=%t",
		locationID, date.Format(domain.DateFormat), includeCancelled)

	if locationID <= 0 || date.IsZero() {
		s.logger.Warn("ListByLocationDate: invalid location=%d or empty date", locationID)
		return nil, fmt.Errorf("%w: locationId and date are required", ErrInvalidInput)
	}

	if !actor.CanAccessLocation(locationID) {
		s.logger.Warn("ListByLocationDate: access denied for user=%s to location=%d", actor.UserID, locationID)
		return nil, ErrAccessDenied
	}

	bookings, err := s.bookingRepo.GetByFilter(ctx, domain.BookingsFilter{
		LocationID:       locationID,
		Date:             &date,
		IncludeCancelled: includeCancelled,
	})
	if err != nil {
		s.logger.Error("ListByLocationDate: repository error for location=%d: %v", locationID, err)
		return nil, fmt.Errorf("%w: ListByLocationDate - repository error: %w", ErrInternal, err)
	}

	// Под-слот ищется по id: шаблон мог перестать предлагаться на точке после бронирования
	views := make(map[int64]*models.SlotView)
	for _, b := range bookings {
		if _, ok := views[b.SubSlotID]; ok {
			continue
		}
		view, err := s.slotView(ctx, b)
		if err != nil {
			return nil, err
		}
		views[b.SubSlotID] = view
	}

	resp := &models.BookingListResponse{Bookings: make([]models.BookingResponse, 0, len(bookings))}
	for _, b := range bookings {
		resp.Bookings = append(resp.Bookings, *models.FromDomainBooking(b, views[b.SubSlotID], nil))
	}

	s.logger.Info("ListByLocationDate: successfully fetched %d bookings for location=%d", len(bookings), locationID)
	return resp, nil
}

// Update изменяет данные клиента, питомца и заметки.
// Разрешено только пока бронирование не завершено и не отменено.
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateBookingRequest, actor domain.Actor) (*models.BookingResponse, error) {
	s.logger.Info("Update: updating booking id=%d by user=%s", id, actor.UserID)

	fields := req.ToDomainFields()
	if err := fields.Normalize(); err != nil {
		s.logger.Warn("Update: validation failed for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	var updated *domain.Booking
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := s.getBooking(txCtx, "Update", id, actor)
		if err != nil {
			return err
		}

		if _, err := domain.NextStatus(booking.Status, domain.EventEdit); err != nil {
			s.logger.Warn("Update: booking id=%d is %s", id, booking.Status)
			return err
		}

		fields.Apply(booking)
		if err := s.bookingRepo.UpdateFields(txCtx, booking); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			s.logger.Error("Update: repository error for booking id=%d: %v", id, err)
			return fmt.Errorf("%w: Update - repository error: %w", ErrInternal, err)
		}

		updated = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Update: successfully updated booking id=%d", id)
	s.publisher.Publish(ctx, feed.EventUpdated, updated)

	slot, err := s.slotView(ctx, updated)
	if err != nil {
		return nil, err
	}
	return models.FromDomainBooking(updated, slot, nil), nil
}

// ListServices получает выбранные услуги бронирования и итоговую стоимость
func (s *Service) ListServices(ctx context.Context, id int64, actor domain.Actor) (*models.ServiceListResponse, error) {
	s.logger.Info("ListServices: fetching services for booking id=%d", id)

	if _, err := s.getBooking(ctx, "ListServices", id, actor); err != nil {
		return nil, err
	}

	services, err := s.bookingRepo.ListServices(ctx, id)
	if err != nil {
		s.logger.Error("ListServices: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: ListServices - repository error: %w", ErrInternal, err)
	}

	return models.FromDomainServices(services), nil
}

// getBooking получает бронирование и проверяет доступ сотрудника к его точке
func (s *Service) getBooking(ctx context.Context, op string, id int64, actor domain.Actor) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
	}

	if !actor.CanAccessLocation(booking.LocationID) {
		s.logger.Warn("%s: access denied for user=%s to booking id=%d", op, actor.UserID, id)
		return nil, ErrAccessDenied
	}

	return booking, nil
}

// slotView получает время начала и подпись под-слота; nil для бронирований с удалённым под-слотом
func (s *Service) slotView(ctx context.Context, booking *domain.Booking) (*models.SlotView, error) {
	if booking.IsOrphaned() {
		return nil, nil
	}

	template, err := s.templateRepo.GetBySubSlotID(ctx, booking.SubSlotID)
	if err != nil {
		if errors.Is(err, templateRepo.ErrSubSlotNotFound) {
			return nil, nil
		}
		s.logger.Error("slotView: failed to get template for sub-slot id=%d: %v", booking.SubSlotID, err)
		return nil, fmt.Errorf("%w: slotView - repository error: %w", ErrInternal, err)
	}

	return models.NewSlotView(template, booking.SubSlotID), nil
}
