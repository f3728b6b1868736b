package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/feed"
	bookingRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/catalog"
	templateRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/template"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	templateRepo TemplateRepository
	locationRepo LocationRepository
	txManager    TransactionManager
	publisher    FeedPublisher
	notifier     Notifier
	metrics      Metrics
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	templateRepo TemplateRepository,
	locationRepo LocationRepository,
	txManager TransactionManager,
	publisher FeedPublisher,
	notifier Notifier,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		templateRepo: templateRepo,
		locationRepo: locationRepo,
		txManager:    txManager,
		publisher:    publisher,
		notifier:     notifier,
		metrics:      metrics,
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования.
//
// Проверка занятости и вставка выполняются в одной сериализуемой транзакции.
// Вторая линия защиты - частичный уникальный индекс на (sub_slot_id, booking_date):
// из двух конкурентных запросов на один под-слот успешен ровно один,
// второй получает ErrSlotNotAvailable.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: subSlot=%d, location=%d, date=%s, source=%s",
		req.SubSlotID, req.LocationID, req.Date.Format(domain.DateFormat), req.Source)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	date := dateOnly(req.Date)

	var (
		result   *domain.Booking
		template *domain.TimeTemplate
	)

	// 2. Выполняем операции с БД в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Проверяем точку
		if _, err := uc.locationRepo.GetLocation(txCtx, req.LocationID); err != nil {
			if errors.Is(err, catalogRepo.ErrLocationNotFound) {
				uc.logger.Warn("CreateBooking: location id=%d not found", req.LocationID)
				return ErrLocationNotFound
			}
			uc.logger.Error("CreateBooking: failed to get location id=%d: %v", req.LocationID, err)
			return fmt.Errorf("%w: failed to get location: %w", ErrInternal, err)
		}

		// 2.2. Получаем шаблон под-слота
		tmpl, err := uc.templateRepo.GetBySubSlotID(txCtx, req.SubSlotID)
		if err != nil {
			if errors.Is(err, templateRepo.ErrSubSlotNotFound) {
				uc.logger.Warn("CreateBooking: sub-slot id=%d not found", req.SubSlotID)
				return ErrSubSlotNotFound
			}
			uc.logger.Error("CreateBooking: failed to get template for sub-slot id=%d: %v", req.SubSlotID, err)
			return fmt.Errorf("%w: failed to get template: %w", ErrInternal, err)
		}

		// 2.3. Под-слот должен предлагаться на точке в этот день недели
		if err := validateSlotOffered(tmpl, req.LocationID, date); err != nil {
			uc.logger.Warn("CreateBooking: %v", err)
			return err
		}

		// 2.4. Получаем неотменённые бронирования под-слота на дату на любой точке с блокировкой (FOR UPDATE)
		existing, err := uc.bookingRepo.GetByFilter(txCtx, domain.BookingsFilter{
			Date:             &date,
			SubSlotIDs:       []int64{req.SubSlotID},
			IncludeCancelled: false,
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
		}

		if len(existing) > 0 {
			uc.logger.Warn("CreateBooking: sub-slot id=%d on %s is held by booking id=%d",
				req.SubSlotID, date.Format(domain.DateFormat), existing[0].ID)
			return ErrSlotNotAvailable
		}

		// 2.5. Сохраняем бронирование
		created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			CustomerName:  req.CustomerName,
			ContactNumber: req.ContactNumber,
			PetName:       req.PetName,
			PetBreed:      req.PetBreed,
			BookingDate:   date,
			SubSlotID:     req.SubSlotID,
			LocationID:    req.LocationID,
			Status:        domain.StatusReserved,
			Source:        req.Source,
			Notes:         req.Notes,
		})
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotNotAvailable) {
				uc.logger.Warn("CreateBooking: sub-slot id=%d on %s taken concurrently",
					req.SubSlotID, date.Format(domain.DateFormat))
				return ErrSlotNotAvailable
			}
			if errors.Is(err, bookingRepo.ErrSubSlotNotFound) {
				return ErrSubSlotNotFound
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		template = tmpl
		return nil
	})

	if err != nil {
		if errors.Is(err, ErrSlotNotAvailable) {
			uc.metrics.IncBookingConflict()
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)
	uc.metrics.IncBookingCreated(string(result.Source))

	// 3. После коммита: лента изменений и уведомление клиенту
	uc.publisher.Publish(ctx, feed.EventCreated, result)

	if result.Source == domain.SourceCustomer {
		if err := uc.notifier.BookingCreated(ctx, result); err != nil {
			// Уведомление best-effort: запись уже создана
			uc.logger.Warn("CreateBooking: notification for booking id=%d failed: %v", result.ID, err)
			uc.metrics.IncNotificationFailed()
		}
	}

	subSlot, _ := template.SubSlotByID(result.SubSlotID)
	return &Response{
		Booking:      result,
		TemplateID:   template.ID,
		StartTime:    template.StartTime,
		SubSlotLabel: subSlot.LabelOrDefault(),
	}, nil
}

// dateOnly отбрасывает время, сохраняя календарную дату
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
