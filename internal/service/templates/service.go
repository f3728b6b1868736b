package templates

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	catalogRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/catalog"
	templateRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/template"
	"github.com/m04kA/SMC-GroomingService/internal/service/templates/models"
)

// Service сервис для работы с шаблонами времени
type Service struct {
	templateRepo TemplateRepository
	bookingRepo  BookingRepository
	locationRepo LocationRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса шаблонов
func NewService(
	templateRepo TemplateRepository,
	bookingRepo BookingRepository,
	locationRepo LocationRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		templateRepo: templateRepo,
		bookingRepo:  bookingRepo,
		locationRepo: locationRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// Create создает шаблон с под-слотами (порядковые номера 1..N)
func (s *Service) Create(ctx context.Context, req *models.TemplateRequest) (*models.TemplateResponse, error) {
	s.logger.Info("Create: creating template start=%s, everyDay=%t, locations=%v, subSlots=%d",
		req.StartTime, req.AppliesEveryDay, req.LocationIDs, len(req.SubSlots))

	template, err := buildTemplate(req)
	if err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	var created *domain.TimeTemplate
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := s.checkLocations(txCtx, template.LocationIDs); err != nil {
			return err
		}

		created, err = s.templateRepo.Create(txCtx, template)
		if err != nil {
			return s.mapRepoError("Create", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Create: successfully created template id=%d with %d sub-slots", created.ID, len(created.SubSlots))
	return models.FromDomainTemplate(created), nil
}

// Update полностью заменяет шаблон: время, повторяемость, точки и набор под-слотов.
// Под-слоты пересоздаются, поэтому правка запрещена, пока на них есть бронирования в работе.
func (s *Service) Update(ctx context.Context, id int64, req *models.TemplateRequest) (*models.TemplateResponse, error) {
	s.logger.Info("Update: updating template id=%d", id)

	template, err := buildTemplate(req)
	if err != nil {
		s.logger.Warn("Update: validation failed for template id=%d: %v", id, err)
		return nil, err
	}
	template.ID = id

	var updated *domain.TimeTemplate
	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		existing, err := s.templateRepo.GetByID(txCtx, id)
		if err != nil {
			return s.mapRepoError("Update", err)
		}

		if err := s.checkNotInUse(txCtx, existing); err != nil {
			return err
		}

		if err := s.checkLocations(txCtx, template.LocationIDs); err != nil {
			return err
		}

		updated, err = s.templateRepo.Update(txCtx, template)
		if err != nil {
			return s.mapRepoError("Update", err)
		}

		slots, err := s.templateRepo.ReplaceSubSlots(txCtx, id, template.SubSlots)
		if err != nil {
			return s.mapRepoError("Update", err)
		}
		updated.SubSlots = slots
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Update: successfully updated template id=%d, subSlots=%d", id, len(updated.SubSlots))
	return models.FromDomainTemplate(updated), nil
}

// Delete удаляет шаблон. Запрещено, пока на его под-слоты есть бронирования в работе.
// Завершённые и отменённые бронирования остаются (под-слот обнуляется), их архив не меняется.
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: deleting template id=%d", id)

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		existing, err := s.templateRepo.GetByID(txCtx, id)
		if err != nil {
			return s.mapRepoError("Delete", err)
		}

		if err := s.checkNotInUse(txCtx, existing); err != nil {
			return err
		}

		if err := s.templateRepo.Delete(txCtx, id); err != nil {
			return s.mapRepoError("Delete", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Delete: successfully deleted template id=%d", id)
	return nil
}

// Get получает шаблон по ID
func (s *Service) Get(ctx context.Context, id int64) (*models.TemplateResponse, error) {
	s.logger.Info("Get: fetching template id=%d", id)

	template, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError("Get", err)
	}

	return models.FromDomainTemplate(template), nil
}

// List получает шаблоны, опционально только предлагаемые на точке
func (s *Service) List(ctx context.Context, locationID *int64) (*models.TemplateListResponse, error) {
	if locationID != nil {
		s.logger.Info("List: fetching templates for location=%d", *locationID)
	} else {
		s.logger.Info("List: fetching all templates")
	}

	templates, err := s.templateRepo.List(ctx, locationID)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d templates", len(templates))
	return models.FromDomainTemplateList(templates), nil
}

// checkNotInUse проверяет, что на под-слоты шаблона нет бронирований в работе
func (s *Service) checkNotInUse(ctx context.Context, template *domain.TimeTemplate) error {
	count, err := s.bookingRepo.CountNonTerminalBySubSlots(ctx, template.SubSlotIDs())
	if err != nil {
		s.logger.Error("checkNotInUse: failed to count bookings for template id=%d: %v", template.ID, err)
		return fmt.Errorf("%w: checkNotInUse - repository error: %w", ErrInternal, err)
	}

	if count > 0 {
		s.logger.Warn("checkNotInUse: template id=%d has %d active bookings", template.ID, count)
		return fmt.Errorf("%w: %d bookings are not completed or cancelled", ErrTemplateInUse, count)
	}

	return nil
}

// checkLocations проверяет, что все точки существуют
func (s *Service) checkLocations(ctx context.Context, locationIDs []int64) error {
	for _, id := range locationIDs {
		if _, err := s.locationRepo.GetLocation(ctx, id); err != nil {
			if errors.Is(err, catalogRepo.ErrLocationNotFound) {
				s.logger.Warn("checkLocations: location id=%d not found", id)
				return fmt.Errorf("%w: location id=%d does not exist", ErrInvalidInput, id)
			}
			s.logger.Error("checkLocations: failed to get location id=%d: %v", id, err)
			return fmt.Errorf("%w: checkLocations - repository error: %w", ErrInternal, err)
		}
	}
	return nil
}

func (s *Service) mapRepoError(op string, err error) error {
	switch {
	case errors.Is(err, templateRepo.ErrTemplateNotFound):
		s.logger.Warn("%s: template not found", op)
		return ErrTemplateNotFound
	case errors.Is(err, templateRepo.ErrLocationNotFound):
		s.logger.Warn("%s: unknown location", op)
		return fmt.Errorf("%w: location does not exist", ErrInvalidInput)
	case errors.Is(err, templateRepo.ErrInvalidRecurrence):
		s.logger.Warn("%s: recurrence rejected by storage", op)
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	default:
		s.logger.Error("%s: repository error: %v", op, err)
		return fmt.Errorf("%w: %s - repository error: %w", ErrInternal, op, err)
	}
}
