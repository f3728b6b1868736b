package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/internal/feed"
	bookingRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/catalog"
	historyRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/history"
	templateRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/template"
	bookingModels "github.com/m04kA/SMC-GroomingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-GroomingService/internal/service/lifecycle/models"
)

// Service контроллер жизненного цикла бронирования.
//
// Каждый переход выполняется в одной сериализуемой транзакции: блокировка строки,
// проверка перехода по domain.NextStatus, побочные эффекты и запись статуса.
// Вход в completed/cancelled создаёт архивную запись в той же транзакции.
type Service struct {
	bookingRepo  BookingRepository
	historyRepo  HistoryRepository
	templateRepo TemplateRepository
	catalogRepo  CatalogRepository
	txManager    TransactionManager
	publisher    FeedPublisher
	metrics      Metrics
	logger       Logger
	now          func() time.Time
}

// NewService создает новый экземпляр контроллера
func NewService(
	bookingRepo BookingRepository,
	historyRepo HistoryRepository,
	templateRepo TemplateRepository,
	catalogRepo CatalogRepository,
	txManager TransactionManager,
	publisher FeedPublisher,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		historyRepo:  historyRepo,
		templateRepo: templateRepo,
		catalogRepo:  catalogRepo,
		txManager:    txManager,
		publisher:    publisher,
		metrics:      metrics,
		logger:       logger,
		now:          time.Now,
	}
}

// transition описание одного перехода
type transition struct {
	op          string
	event       domain.Event
	paymentMode *string

	// apply выполняет побочные эффекты и запись статуса; booking заблокирован
	apply func(ctx context.Context, booking *domain.Booking, to domain.BookingStatus) error
}

// CheckIn отмечает приход клиента: reserved -> checked_in, фиксирует время прихода
func (s *Service) CheckIn(ctx context.Context, id int64, actor domain.Actor) (*bookingModels.BookingResponse, error) {
	return s.run(ctx, id, actor, transition{
		op:    "CheckIn",
		event: domain.EventCheckIn,
		apply: func(txCtx context.Context, b *domain.Booking, _ domain.BookingStatus) error {
			at := s.now()
			if err := s.bookingRepo.SetCheckedIn(txCtx, b.ID, at); err != nil {
				return s.mapRepoError("CheckIn", b.ID, err)
			}
			b.CheckInTime = &at
			return nil
		},
	})
}

// AssignServices назначает услуги: reserved|checked_in|progressing -> progressing.
// Повторная отправка полностью заменяет набор; название и цена фиксируются из каталога.
func (s *Service) AssignServices(ctx context.Context, id int64, req *models.AssignServicesRequest, actor domain.Actor) (*bookingModels.BookingResponse, error) {
	if err := validateAssignServices(req); err != nil {
		s.logger.Warn("AssignServices: validation failed for booking id=%d: %v", id, err)
		return nil, err
	}

	return s.run(ctx, id, actor, transition{
		op:    "AssignServices",
		event: domain.EventAssignServices,
		apply: func(txCtx context.Context, b *domain.Booking, to domain.BookingStatus) error {
			selections, err := s.resolveSelections(txCtx, req)
			if err != nil {
				return err
			}

			if _, err := s.bookingRepo.ReplaceServices(txCtx, b.ID, selections); err != nil {
				if errors.Is(err, bookingRepo.ErrServiceNotFound) {
					return fmt.Errorf("%w: unknown service", ErrInvalidInput)
				}
				return s.mapRepoError("AssignServices", b.ID, err)
			}

			if b.Status == to {
				return nil
			}
			if err := s.bookingRepo.UpdateStatus(txCtx, b.ID, to); err != nil {
				return s.mapRepoError("AssignServices", b.ID, err)
			}
			return nil
		},
	})
}

// Complete завершает обслуживание: checked_in|progressing -> completed, создаёт архивную запись
func (s *Service) Complete(ctx context.Context, id int64, req *models.CompleteRequest, actor domain.Actor) (*bookingModels.BookingResponse, error) {
	if err := validateComplete(req); err != nil {
		s.logger.Warn("Complete: validation failed for booking id=%d: %v", id, err)
		return nil, err
	}

	return s.run(ctx, id, actor, transition{
		op:          "Complete",
		event:       domain.EventComplete,
		paymentMode: req.PaymentMode,
		apply:       s.writeStatus("Complete"),
	})
}

// Cancel отменяет бронирование и освобождает под-слот, создаёт архивную запись
func (s *Service) Cancel(ctx context.Context, id int64, actor domain.Actor) (*bookingModels.BookingResponse, error) {
	return s.run(ctx, id, actor, transition{
		op:    "Cancel",
		event: domain.EventCancel,
		apply: s.writeStatus("Cancel"),
	})
}

// Restore возвращает завершённое или отменённое бронирование в работу (только администратор).
// Архивная запись удаляется; если под-слот на дату уже занят или удалён из шаблона, возвращается ErrSlotNotAvailable.
func (s *Service) Restore(ctx context.Context, id int64, actor domain.Actor) (*bookingModels.BookingResponse, error) {
	return s.run(ctx, id, actor, transition{
		op:    "Restore",
		event: domain.EventRestore,
		apply: func(txCtx context.Context, b *domain.Booking, to domain.BookingStatus) error {
			// NULL sub_slot_id не участвует в уникальном индексе, проверяем явно
			if b.IsOrphaned() {
				s.logger.Warn("Restore: booking id=%d lost its sub-slot", b.ID)
				return fmt.Errorf("%w: sub-slot was removed from its template", ErrSlotNotAvailable)
			}

			if err := s.historyRepo.DeleteByBookingID(txCtx, b.ID); err != nil {
				if !errors.Is(err, historyRepo.ErrRecordNotFound) {
					return s.mapRepoError("Restore", b.ID, err)
				}
				s.logger.Warn("Restore: booking id=%d had no archive record", b.ID)
			}

			if err := s.bookingRepo.UpdateStatus(txCtx, b.ID, to); err != nil {
				return s.mapRepoError("Restore", b.ID, err)
			}
			return nil
		},
	})
}

// SubmitFeedback сохраняет оценку клиента в архивной записи завершённого бронирования
func (s *Service) SubmitFeedback(ctx context.Context, id int64, req *models.FeedbackRequest, actor domain.Actor) (*bookingModels.BookingResponse, error) {
	if err := validateFeedback(req); err != nil {
		s.logger.Warn("SubmitFeedback: validation failed for booking id=%d: %v", id, err)
		return nil, err
	}

	return s.run(ctx, id, actor, transition{
		op:    "SubmitFeedback",
		event: domain.EventFeedback,
		apply: func(txCtx context.Context, b *domain.Booking, _ domain.BookingStatus) error {
			err := s.historyRepo.SetFeedback(txCtx, b.ID, domain.Feedback{Rating: req.Rating, Comment: req.Comment})
			if err != nil {
				if errors.Is(err, historyRepo.ErrRecordNotFound) {
					s.logger.Error("SubmitFeedback: completed booking id=%d has no archive record", b.ID)
					return fmt.Errorf("%w: archive record is missing", ErrInternal)
				}
				return s.mapRepoError("SubmitFeedback", b.ID, err)
			}
			return nil
		},
	})
}

// run выполняет переход в транзакции и публикует изменение после коммита
func (s *Service) run(ctx context.Context, id int64, actor domain.Actor, t transition) (*bookingModels.BookingResponse, error) {
	s.logger.Info("%s: booking id=%d by user=%s", t.op, id, actor.UserID)

	var (
		booking    *domain.Booking
		selections []domain.ServiceSelection
		slot       *bookingModels.SlotView
	)

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		b, err := s.bookingRepo.GetByID(txCtx, id)
		if err != nil {
			return s.mapRepoError(t.op, id, err)
		}

		if !actor.CanAccessLocation(b.LocationID) {
			s.logger.Warn("%s: access denied for user=%s to location=%d", t.op, actor.UserID, b.LocationID)
			return ErrAccessDenied
		}

		if !actor.CanApply(t.event) {
			s.logger.Warn("%s: role %s may not %s", t.op, actor.Role, t.event)
			return fmt.Errorf("%w: %w", ErrAccessDenied, &domain.TransitionError{From: b.Status, Event: t.event})
		}

		from := b.Status
		to, err := domain.NextStatus(from, t.event)
		if err != nil {
			s.logger.Warn("%s: booking id=%d: %v", t.op, id, err)
			return err
		}

		if err := t.apply(txCtx, b, to); err != nil {
			return err
		}
		b.Status = to

		selections, err = s.bookingRepo.ListServices(txCtx, id)
		if err != nil {
			return s.mapRepoError(t.op, id, err)
		}

		template, err := s.templateOf(txCtx, b)
		if err != nil {
			return err
		}
		if template != nil {
			slot = bookingModels.NewSlotView(template, b.SubSlotID)
		}

		if domain.ArchivesOnEnter(from, to) {
			if err := s.archive(txCtx, b, selections, slot, t.paymentMode); err != nil {
				return err
			}
		}

		booking = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("%s: booking id=%d is now %s", t.op, id, booking.Status)
	s.metrics.IncTransition(string(t.event))
	s.publisher.Publish(ctx, feed.EventUpdated, booking)

	return bookingModels.FromDomainBooking(booking, slot, selections), nil
}

// writeStatus побочный эффект, который только записывает новый статус
func (s *Service) writeStatus(op string) func(context.Context, *domain.Booking, domain.BookingStatus) error {
	return func(txCtx context.Context, b *domain.Booking, to domain.BookingStatus) error {
		if err := s.bookingRepo.UpdateStatus(txCtx, b.ID, to); err != nil {
			return s.mapRepoError(op, b.ID, err)
		}
		return nil
	}
}

// archive фиксирует снимок бронирования: название точки, время и подпись под-слота, услуги и сумму
func (s *Service) archive(ctx context.Context, b *domain.Booking, selections []domain.ServiceSelection, slot *bookingModels.SlotView, paymentMode *string) error {
	snap := domain.SlotSnapshot{}
	if slot != nil {
		snap.SlotStartTime = slot.StartTime
		snap.SubSlotLabel = slot.Label
	}

	location, err := s.catalogRepo.GetLocation(ctx, b.LocationID)
	switch {
	case err == nil:
		snap.LocationName = location.Name
	case errors.Is(err, catalogRepo.ErrLocationNotFound):
		s.logger.Warn("archive: location id=%d of booking id=%d not found", b.LocationID, b.ID)
	default:
		s.logger.Error("archive: failed to get location id=%d: %v", b.LocationID, err)
		return fmt.Errorf("%w: archive - get location: %w", ErrInternal, err)
	}

	record := domain.NewHistoricalRecord(b, b.Status, selections, snap, paymentMode)
	if _, err := s.historyRepo.Create(ctx, record); err != nil {
		s.logger.Error("archive: failed to archive booking id=%d: %v", b.ID, err)
		return fmt.Errorf("%w: archive - create record: %w", ErrInternal, err)
	}

	s.logger.Info("archive: booking id=%d archived as %s, total=%.2f", b.ID, b.Status, record.TotalPrice)
	return nil
}

// resolveSelections фиксирует название и текущую цену услуг из каталога
func (s *Service) resolveSelections(ctx context.Context, req *models.AssignServicesRequest) ([]domain.ServiceSelection, error) {
	ids := make([]int64, len(req.Services))
	for i, sel := range req.Services {
		ids[i] = sel.ServiceID
	}

	catalog, err := s.catalogRepo.GetServicesByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("AssignServices: failed to load catalog: %v", err)
		return nil, fmt.Errorf("%w: AssignServices - load catalog: %w", ErrInternal, err)
	}

	selections := make([]domain.ServiceSelection, 0, len(req.Services))
	for _, sel := range req.Services {
		svc, ok := catalog[sel.ServiceID]
		if !ok || !svc.Active {
			s.logger.Warn("AssignServices: service id=%d is not offered", sel.ServiceID)
			return nil, fmt.Errorf("%w: service id=%d is not offered", ErrInvalidInput, sel.ServiceID)
		}
		selections = append(selections, domain.ServiceSelection{
			ServiceID:   svc.ID,
			ServiceName: svc.Name,
			Price:       svc.Price,
			InputValue:  sel.InputValue,
			CareNote:    sel.CareNote,
		})
	}
	return selections, nil
}

// templateOf получает шаблон под-слота бронирования; nil, если под-слот удалён
func (s *Service) templateOf(ctx context.Context, b *domain.Booking) (*domain.TimeTemplate, error) {
	if b.IsOrphaned() {
		return nil, nil
	}

	template, err := s.templateRepo.GetBySubSlotID(ctx, b.SubSlotID)
	if err != nil {
		if errors.Is(err, templateRepo.ErrSubSlotNotFound) {
			return nil, nil
		}
		s.logger.Error("templateOf: failed to get template for sub-slot id=%d: %v", b.SubSlotID, err)
		return nil, fmt.Errorf("%w: templateOf - repository error: %w", ErrInternal, err)
	}
	return template, nil
}

func (s *Service) mapRepoError(op string, id int64, err error) error {
	switch {
	case errors.Is(err, bookingRepo.ErrBookingNotFound):
		s.logger.Warn("%s: booking id=%d not found", op, id)
		return ErrBookingNotFound
	case errors.Is(err, bookingRepo.ErrSlotNotAvailable):
		s.logger.Warn("%s: sub-slot of booking id=%d is held by another booking", op, id)
		return ErrSlotNotAvailable
	default:
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
	}
}
