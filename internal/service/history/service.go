package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	historyRepo "github.com/m04kA/SMC-GroomingService/internal/infra/storage/history"
	"github.com/m04kA/SMC-GroomingService/internal/service/history/models"
)

// Service сервис чтения архива
type Service struct {
	historyRepo HistoryRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса архива
func NewService(historyRepo HistoryRepository, logger Logger) *Service {
	return &Service{
		historyRepo: historyRepo,
		logger:      logger,
	}
}

// ListByLocation получает архив точки за период, новые записи первыми
func (s *Service) ListByLocation(ctx context.Context, req *models.ListRequest, actor domain.Actor) (*models.RecordListResponse, error) {
	s.logger.Info("ListByLocation: fetching history for location=%d", req.LocationID)

	filter, err := buildFilter(req)
	if err != nil {
		s.logger.Warn("ListByLocation: invalid filter: %v", err)
		return nil, err
	}

	if !actor.CanAccessLocation(req.LocationID) {
		s.logger.Warn("ListByLocation: access denied for user=%s to location=%d", actor.UserID, req.LocationID)
		return nil, ErrAccessDenied
	}

	records, err := s.historyRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListByLocation: repository error for location=%d: %v", req.LocationID, err)
		return nil, fmt.Errorf("%w: ListByLocation - repository error: %w", ErrInternal, err)
	}

	s.logger.Info("ListByLocation: successfully fetched %d records for location=%d", len(records), req.LocationID)
	return models.FromDomainRecordList(records), nil
}

// GetByBookingID получает архивную запись бронирования
func (s *Service) GetByBookingID(ctx context.Context, bookingID int64, actor domain.Actor) (*models.RecordResponse, error) {
	s.logger.Info("GetByBookingID: fetching history for booking id=%d", bookingID)

	record, err := s.historyRepo.GetByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, historyRepo.ErrRecordNotFound) {
			s.logger.Warn("GetByBookingID: booking id=%d is not archived", bookingID)
			return nil, ErrHistoryNotFound
		}
		s.logger.Error("GetByBookingID: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: GetByBookingID - repository error: %w", ErrInternal, err)
	}

	if !actor.CanAccessLocation(record.LocationID) {
		s.logger.Warn("GetByBookingID: access denied for user=%s to booking id=%d", actor.UserID, bookingID)
		return nil, ErrAccessDenied
	}

	return models.FromDomainRecord(record), nil
}

func buildFilter(req *models.ListRequest) (domain.HistoryFilter, error) {
	filter := domain.HistoryFilter{
		LocationID: req.LocationID,
		From:       req.From,
		To:         req.To,
	}

	if req.LocationID <= 0 {
		return filter, fmt.Errorf("%w: locationId must be positive", ErrInvalidInput)
	}

	if req.From != nil && req.To != nil && req.To.Before(*req.From) {
		return filter, fmt.Errorf("%w: 'to' is before 'from'", ErrInvalidInput)
	}

	if req.Status != nil {
		status := domain.BookingStatus(*req.Status)
		if !status.IsTerminal() {
			return filter, fmt.Errorf("%w: status must be completed or cancelled", ErrInvalidInput)
		}
		filter.Status = &status
	}

	return filter, nil
}
