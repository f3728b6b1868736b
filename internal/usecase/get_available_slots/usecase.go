package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/catalog"
)

// UseCase use case для получения свободных под-слотов точки на дату.
// Каждый вызов читает шаблоны и бронирования из хранилища: результат не кэшируется,
// иначе клиенты видели бы уже занятые места.
type UseCase struct {
	templateRepo TemplateRepository
	bookingRepo  BookingRepository
	locationRepo LocationRepository
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	templateRepo TemplateRepository,
	bookingRepo BookingRepository,
	locationRepo LocationRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		templateRepo: templateRepo,
		bookingRepo:  bookingRepo,
		locationRepo: locationRepo,
		logger:       logger,
	}
}

// Execute выполняет use case получения свободных под-слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: location=%d, date=%s", req.LocationID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	date := dateOnly(req.Date)

	// 2. Проверяем существование точки
	if _, err := uc.locationRepo.GetLocation(ctx, req.LocationID); err != nil {
		if errors.Is(err, catalogRepo.ErrLocationNotFound) {
			uc.logger.Warn("GetAvailableSlots: location id=%d not found", req.LocationID)
			return nil, ErrLocationNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get location id=%d: %v", req.LocationID, err)
		return nil, fmt.Errorf("%w: failed to get location: %w", ErrInternal, err)
	}

	// 3. Получаем шаблоны точки
	templates, err := uc.templateRepo.List(ctx, &req.LocationID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get templates: %v", err)
		return nil, fmt.Errorf("%w: failed to get templates: %w", ErrInternal, err)
	}

	// 4. Получаем неотменённые бронирования под-слотов точки на дату на любой точке
	var bookings []*domain.Booking
	if subSlotIDs := collectSubSlotIDs(templates); len(subSlotIDs) > 0 {
		bookings, err = uc.bookingRepo.GetByFilter(ctx, domain.BookingsFilter{
			Date:             &date,
			SubSlotIDs:       subSlotIDs,
			IncludeCancelled: false,
		})
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
			return nil, fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
		}
	}

	// 5. Вычисляем свободные под-слоты
	slots := resolveSlots(templates, bookings, req.LocationID, date)

	uc.logger.Info("GetAvailableSlots: found %d free sub-slots across %d templates, %d bookings",
		len(slots), len(templates), len(bookings))

	return &Response{
		LocationID: req.LocationID,
		Date:       date,
		Slots:      toResponseSlots(slots),
	}, nil
}

// collectSubSlotIDs собирает идентификаторы всех под-слотов шаблонов
func collectSubSlotIDs(templates []*domain.TimeTemplate) []int64 {
	ids := make([]int64, 0)
	for _, t := range templates {
		ids = append(ids, t.SubSlotIDs()...)
	}
	return ids
}

// dateOnly отбрасывает время, сохраняя календарную дату
func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
