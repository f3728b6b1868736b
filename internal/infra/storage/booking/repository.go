package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-GroomingService/pkg/pgerr"
	"github.com/m04kA/SMC-GroomingService/pkg/psqlbuilder"
)

const (
	tableBookings = "bookings"
	tableServices = "booking_services"

	// constraintActiveSlot частичный уникальный индекс: один неотменённый booking на под-слот и дату
	constraintActiveSlot = "bookings_active_slot_uidx"
)

var bookingColumns = []string{
	"b.id",
	"b.customer_name",
	"b.contact_number",
	"b.pet_name",
	"b.pet_breed",
	"b.booking_date",
	"b.sub_slot_id",
	"b.location_id",
	"b.status",
	"b.check_in_time",
	"b.source",
	"b.notes",
	"b.created_at",
	"b.updated_at",
}

// Repository репозиторий для работы с бронированиями и выбранными услугами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование.
// Если под-слот на дату уже занят, частичный уникальный индекс отклоняет вставку
// и метод возвращает ErrSlotNotAvailable - даже если проверка доступности в usecase проскочила.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableBookings).
		Columns(
			"customer_name",
			"contact_number",
			"pet_name",
			"pet_breed",
			"booking_date",
			"sub_slot_id",
			"location_id",
			"status",
			"source",
			"notes",
		).
		Values(
			booking.CustomerName,
			booking.ContactNumber,
			booking.PetName,
			booking.PetBreed,
			booking.BookingDate,
			booking.SubSlotID,
			booking.LocationID,
			booking.Status,
			booking.Source,
			booking.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if pgerr.IsUniqueViolation(err, constraintActiveSlot) {
			return nil, ErrSlotNotAvailable
		}
		if pgerr.IsForeignKeyViolation(err, "") {
			return nil, ErrSubSlotNotFound
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID.
// Внутри транзакции строка блокируется (FOR UPDATE), чтобы переходы статусов не гонялись.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(tableBookings + " b").
		Where(squirrel.Eq{"b.id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	return booking, nil
}

// GetByFilter получает бронирования с фильтрацией по точке, дате, под-слотам и статусу.
// Сортировка: дата, время начала шаблона, порядковый номер под-слота.
// Осиротевшие бронирования (под-слот удалён) идут последними.
//
// Внутри транзакции бронирования блокируются (FOR UPDATE OF b) - так создание
// бронирования сериализуется с параллельными создателями на тех же под-слотах.
func (r *Repository) GetByFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(tableBookings + " b").
		LeftJoin("sub_slots s ON s.id = b.sub_slot_id").
		LeftJoin("time_templates t ON t.id = s.template_id")

	if filter.LocationID > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.location_id": filter.LocationID})
	}

	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.booking_date": *filter.Date})
	}

	if len(filter.SubSlotIDs) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.sub_slot_id": filter.SubSlotIDs})
	}

	// Фильтрация по статусу
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.status": *filter.Status})
	} else if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"b.status": domain.StatusCancelled})
	}

	selectBuilder = selectBuilder.OrderBy(
		"b.booking_date ASC",
		"t.start_time ASC NULLS LAST",
		"s.ordinal ASC NULLS LAST",
		"b.id ASC",
	)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF b")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFilter - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFilter - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanBookings(rows)
}

// CountNonTerminalBySubSlots считает бронирования в работе (reserved, checked_in, progressing),
// ссылающиеся на переданные под-слоты. Используется перед правкой и удалением шаблона.
func (r *Repository) CountNonTerminalBySubSlots(ctx context.Context, subSlotIDs []int64) (int, error) {
	if len(subSlotIDs) == 0 {
		return 0, nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From(tableBookings).
		Where(squirrel.Eq{"sub_slot_id": subSlotIDs}).
		Where(squirrel.Eq{"status": statusStrings(domain.NonTerminalStatuses)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountNonTerminalBySubSlots - build select query: %w", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountNonTerminalBySubSlots - scan count: %w", ErrScanRow, err)
	}

	return count, nil
}

// UpdateFields обновляет данные клиента и питомца
func (r *Repository) UpdateFields(ctx context.Context, booking *domain.Booking) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableBookings).
		Set("customer_name", booking.CustomerName).
		Set("contact_number", booking.ContactNumber).
		Set("pet_name", booking.PetName).
		Set("pet_breed", booking.PetBreed).
		Set("notes", booking.Notes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": booking.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateFields - build update query: %w", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, query, args, "UpdateFields")
}

// UpdateStatus обновляет статус бронирования.
// Переход из cancelled в занимающий статус (restore) может наткнуться на
// бронирование, занявшее под-слот за это время - тогда ErrSlotNotAvailable.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableBookings).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %w", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, query, args, "UpdateStatus")
}

// SetCheckedIn переводит бронирование в checked_in и фиксирует время прихода
func (r *Repository) SetCheckedIn(ctx context.Context, id int64, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableBookings).
		Set("status", domain.StatusCheckedIn).
		Set("check_in_time", at).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetCheckedIn - build update query: %w", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, query, args, "SetCheckedIn")
}

// ReplaceServices заменяет набор выбранных услуг бронирования целиком
func (r *Repository) ReplaceServices(ctx context.Context, bookingID int64, selections []domain.ServiceSelection) ([]domain.ServiceSelection, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteQuery, deleteArgs, err := psqlbuilder.Delete(tableServices).
		Where(squirrel.Eq{"booking_id": bookingID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ReplaceServices - build delete query: %w", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return nil, fmt.Errorf("%w: ReplaceServices - delete services: %w", ErrExecQuery, err)
	}

	if len(selections) == 0 {
		return []domain.ServiceSelection{}, nil
	}

	insert := psqlbuilder.Insert(tableServices).
		Columns("booking_id", "service_id", "service_name", "price", "input_value", "care_note")
	for _, s := range selections {
		insert = insert.Values(bookingID, s.ServiceID, s.ServiceName, s.Price, s.InputValue, s.CareNote)
	}

	query, args, err := insert.Suffix("RETURNING id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ReplaceServices - build insert query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		if pgerr.IsForeignKeyViolation(err, "") {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("%w: ReplaceServices - execute insert: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]domain.ServiceSelection, len(selections))
	copy(result, selections)

	i := 0
	for rows.Next() {
		if i >= len(result) {
			break
		}
		if err := rows.Scan(&result[i].ID); err != nil {
			return nil, fmt.Errorf("%w: ReplaceServices - scan id: %w", ErrScanRow, err)
		}
		result[i].BookingID = bookingID
		i++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ReplaceServices - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

// ListServices получает выбранные услуги бронирования в порядке добавления
func (r *Repository) ListServices(ctx context.Context, bookingID int64) ([]domain.ServiceSelection, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"booking_id",
		"service_id",
		"service_name",
		"price",
		"input_value",
		"care_note",
	).
		From(tableServices).
		Where(squirrel.Eq{"booking_id": bookingID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	selections := make([]domain.ServiceSelection, 0)
	for rows.Next() {
		var s domain.ServiceSelection
		if err := rows.Scan(
			&s.ID,
			&s.BookingID,
			&s.ServiceID,
			&s.ServiceName,
			&s.Price,
			&s.InputValue,
			&s.CareNote,
		); err != nil {
			return nil, fmt.Errorf("%w: ListServices - scan row: %w", ErrScanRow, err)
		}
		selections = append(selections, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListServices - rows error: %w", ErrScanRow, err)
	}

	return selections, nil
}

func (r *Repository) execAffectingOne(ctx context.Context, executor DBExecutor, query string, args []interface{}, op string) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		if pgerr.IsUniqueViolation(err, constraintActiveSlot) {
			return ErrSlotNotAvailable
		}
		return fmt.Errorf("%w: %s - execute update: %w", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var subSlotID sql.NullInt64
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.CustomerName,
		&booking.ContactNumber,
		&booking.PetName,
		&booking.PetBreed,
		&booking.BookingDate,
		&subSlotID,
		&booking.LocationID,
		&booking.Status,
		&booking.CheckInTime,
		&booking.Source,
		&booking.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.SubSlotID = subSlotID.Int64
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func (r *Repository) scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %w", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}

func statusStrings(statuses []domain.BookingStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}
