package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-GroomingService/pkg/pgerr"
	"github.com/m04kA/SMC-GroomingService/pkg/psqlbuilder"
)

const (
	tableHistory = "history_records"

	constraintOneRecordPerBooking = "history_records_booking_uq"
)

var recordColumns = []string{
	"id",
	"original_booking_id",
	"status",
	"customer_name",
	"contact_number",
	"pet_name",
	"pet_breed",
	"booking_date",
	"location_id",
	"location_name",
	"slot_start_time",
	"sub_slot_label",
	"check_in_time",
	"services",
	"total_price",
	"feedback_rating",
	"feedback_comment",
	"payment_mode",
	"archived_at",
}

// Repository репозиторий архива завершённых и отменённых бронирований
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория архива
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет архивную запись.
// Повторная архивация того же бронирования возвращает ErrAlreadyArchived.
func (r *Repository) Create(ctx context.Context, record *domain.HistoricalRecord) (*domain.HistoricalRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	services, err := json.Marshal(servicesOrEmpty(record.Services))
	if err != nil {
		return nil, fmt.Errorf("%w: Create - marshal services: %w", ErrEncodeServices, err)
	}

	var rating sql.NullInt64
	var comment sql.NullString
	if record.Feedback != nil {
		rating = sql.NullInt64{Int64: int64(record.Feedback.Rating), Valid: true}
		comment = sql.NullString{String: record.Feedback.Comment, Valid: true}
	}

	query, args, err := psqlbuilder.Insert(tableHistory).
		Columns(
			"original_booking_id",
			"status",
			"customer_name",
			"contact_number",
			"pet_name",
			"pet_breed",
			"booking_date",
			"location_id",
			"location_name",
			"slot_start_time",
			"sub_slot_label",
			"check_in_time",
			"services",
			"total_price",
			"feedback_rating",
			"feedback_comment",
			"payment_mode",
		).
		Values(
			record.OriginalBookingID,
			record.Status,
			record.CustomerName,
			record.ContactNumber,
			record.PetName,
			record.PetBreed,
			record.BookingDate,
			record.LocationID,
			record.LocationName,
			record.SlotStartTime,
			record.SubSlotLabel,
			record.CheckInTime,
			string(services),
			record.TotalPrice,
			rating,
			comment,
			record.PaymentMode,
		).
		Suffix("RETURNING id, archived_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&record.ID, &record.ArchivedAt)
	if err != nil {
		if pgerr.IsUniqueViolation(err, constraintOneRecordPerBooking) {
			return nil, ErrAlreadyArchived
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return record, nil
}

// GetByBookingID получает архивную запись бронирования.
// Внутри транзакции строка блокируется, чтобы отзыв и восстановление не гонялись.
func (r *Repository) GetByBookingID(ctx context.Context, bookingID int64) (*domain.HistoricalRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(recordColumns...).
		From(tableHistory).
		Where(squirrel.Eq{"original_booking_id": bookingID})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - build select query: %w", ErrBuildQuery, err)
	}

	record, err := scanRecord(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBookingID - scan record: %w", ErrScanRow, err)
	}

	return record, nil
}

// DeleteByBookingID удаляет архивную запись (при восстановлении бронирования)
func (r *Repository) DeleteByBookingID(ctx context.Context, bookingID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableHistory).
		Where(squirrel.Eq{"original_booking_id": bookingID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteByBookingID - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: DeleteByBookingID - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: DeleteByBookingID - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}

// SetFeedback записывает (или перезаписывает) отзыв в архивную запись
func (r *Repository) SetFeedback(ctx context.Context, bookingID int64, feedback domain.Feedback) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableHistory).
		Set("feedback_rating", feedback.Rating).
		Set("feedback_comment", feedback.Comment).
		Where(squirrel.Eq{"original_booking_id": bookingID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetFeedback - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetFeedback - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetFeedback - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}

// List получает архивные записи точки, новые даты первыми
func (r *Repository) List(ctx context.Context, filter domain.HistoryFilter) ([]*domain.HistoricalRecord, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(recordColumns...).
		From(tableHistory).
		Where(squirrel.Eq{"location_id": filter.LocationID})

	if filter.From != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": *filter.From})
	}
	if filter.To != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": *filter.To})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}

	query, args, err := selectBuilder.
		OrderBy("booking_date DESC", "archived_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	records := make([]*domain.HistoricalRecord, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %w", ErrScanRow, err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	return records, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*domain.HistoricalRecord, error) {
	var record domain.HistoricalRecord
	var services []byte
	var rating sql.NullInt64
	var comment sql.NullString

	err := row.Scan(
		&record.ID,
		&record.OriginalBookingID,
		&record.Status,
		&record.CustomerName,
		&record.ContactNumber,
		&record.PetName,
		&record.PetBreed,
		&record.BookingDate,
		&record.LocationID,
		&record.LocationName,
		&record.SlotStartTime,
		&record.SubSlotLabel,
		&record.CheckInTime,
		&services,
		&record.TotalPrice,
		&rating,
		&comment,
		&record.PaymentMode,
		&record.ArchivedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Services = []domain.ArchivedService{}
	if len(services) > 0 {
		if err := json.Unmarshal(services, &record.Services); err != nil {
			return nil, err
		}
	}

	if rating.Valid {
		record.Feedback = &domain.Feedback{Rating: int(rating.Int64), Comment: comment.String}
	}

	return &record, nil
}

func servicesOrEmpty(services []domain.ArchivedService) []domain.ArchivedService {
	if services == nil {
		return []domain.ArchivedService{}
	}
	return services
}
