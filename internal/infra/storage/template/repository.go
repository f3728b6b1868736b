package template

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-GroomingService/pkg/pgerr"
	"github.com/m04kA/SMC-GroomingService/pkg/psqlbuilder"
)

const (
	tableTemplates = "time_templates"
	tableLocations = "time_template_locations"
	tableSubSlots  = "sub_slots"

	constraintRecurrence = "time_templates_recurrence_chk"
)

var templateColumns = []string{
	"id",
	"start_time",
	"applies_every_day",
	"specific_weekdays",
	"created_at",
	"updated_at",
}

// Repository репозиторий шаблонов времени и их под-слотов.
// Методы, меняющие несколько таблиц (Create, Update, ReplaceSubSlots),
// должны вызываться внутри транзакции из менеджера транзакций.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория шаблонов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает шаблон вместе с привязкой к точкам и под-слотами
func (r *Repository) Create(ctx context.Context, t *domain.TimeTemplate) (*domain.TimeTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableTemplates).
		Columns("start_time", "applies_every_day", "specific_weekdays").
		Values(t.StartTime, t.AppliesEveryDay, weekdaysValue(t)).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&t.ID, &createdAt, &updatedAt)
	if err != nil {
		if pgerr.IsCheckViolation(err, constraintRecurrence) {
			return nil, ErrInvalidRecurrence
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}
	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time

	if err := r.insertLocations(ctx, t.ID, t.LocationIDs); err != nil {
		return nil, err
	}

	slots, err := r.ReplaceSubSlots(ctx, t.ID, t.SubSlots)
	if err != nil {
		return nil, err
	}
	t.SubSlots = slots

	return t, nil
}

// Update полностью заменяет время, повторяемость и набор точек шаблона.
// Под-слоты заменяются отдельно через ReplaceSubSlots.
func (r *Repository) Update(ctx context.Context, t *domain.TimeTemplate) (*domain.TimeTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableTemplates).
		Set("start_time", t.StartTime).
		Set("applies_every_day", t.AppliesEveryDay).
		Set("specific_weekdays", weekdaysValue(t)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": t.ID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		if pgerr.IsCheckViolation(err, constraintRecurrence) {
			return nil, ErrInvalidRecurrence
		}
		return nil, fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}
	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time

	deleteQuery, deleteArgs, err := psqlbuilder.Delete(tableLocations).
		Where(squirrel.Eq{"template_id": t.ID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build delete locations query: %w", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return nil, fmt.Errorf("%w: Update - delete locations: %w", ErrExecQuery, err)
	}

	if err := r.insertLocations(ctx, t.ID, t.LocationIDs); err != nil {
		return nil, err
	}

	return t, nil
}

// ReplaceSubSlots удаляет все под-слоты шаблона и вставляет переданный набор
// с ординалами 1..N. Это замена целиком, а не patch: вызывающий передаёт полный набор.
func (r *Repository) ReplaceSubSlots(ctx context.Context, templateID int64, slots []domain.SubSlot) ([]domain.SubSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteQuery, deleteArgs, err := psqlbuilder.Delete(tableSubSlots).
		Where(squirrel.Eq{"template_id": templateID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ReplaceSubSlots - build delete query: %w", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return nil, fmt.Errorf("%w: ReplaceSubSlots - delete sub-slots: %w", ErrExecQuery, err)
	}

	if len(slots) == 0 {
		return []domain.SubSlot{}, nil
	}

	insert := psqlbuilder.Insert(tableSubSlots).Columns("template_id", "ordinal", "label")
	for i, s := range slots {
		insert = insert.Values(templateID, i+1, s.Label)
	}

	query, args, err := insert.Suffix("RETURNING id, ordinal, label").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ReplaceSubSlots - build insert query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ReplaceSubSlots - execute insert: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]domain.SubSlot, 0, len(slots))
	for rows.Next() {
		s := domain.SubSlot{TemplateID: templateID}
		var label sql.NullString
		if err := rows.Scan(&s.ID, &s.Ordinal, &label); err != nil {
			return nil, fmt.Errorf("%w: ReplaceSubSlots - scan row: %w", ErrScanRow, err)
		}
		if label.Valid {
			s.Label = &label.String
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ReplaceSubSlots - rows error: %w", ErrScanRow, err)
	}

	sortSubSlots(result)
	return result, nil
}

// GetByID получает шаблон по ID вместе с точками и под-слотами
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.TimeTemplate, error) {
	templates, err := r.list(ctx, psqlbuilder.Select(templateColumns...).
		From(tableTemplates).
		Where(squirrel.Eq{"id": id}), "GetByID")
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, ErrTemplateNotFound
	}
	return templates[0], nil
}

// List получает шаблоны, опционально только предлагаемые на точке.
// Результат отсортирован по времени начала.
func (r *Repository) List(ctx context.Context, locationID *int64) ([]*domain.TimeTemplate, error) {
	selectBuilder := psqlbuilder.Select(templateColumns...).
		From(tableTemplates).
		OrderBy("start_time ASC", "id ASC")

	if locationID != nil {
		selectBuilder = selectBuilder.Where(
			squirrel.Expr("id IN (SELECT template_id FROM "+tableLocations+" WHERE location_id = ?)", *locationID),
		)
	}

	return r.list(ctx, selectBuilder, "List")
}

// GetBySubSlotID получает шаблон, которому принадлежит под-слот
func (r *Repository) GetBySubSlotID(ctx context.Context, subSlotID int64) (*domain.TimeTemplate, error) {
	templates, err := r.list(ctx, psqlbuilder.Select(templateColumns...).
		From(tableTemplates).
		Where(squirrel.Expr("id = (SELECT template_id FROM "+tableSubSlots+" WHERE id = ?)", subSlotID)), "GetBySubSlotID")
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, ErrSubSlotNotFound
	}
	return templates[0], nil
}

// Delete удаляет шаблон; под-слоты и привязки удаляются каскадно
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableTemplates).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %w", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrTemplateNotFound
	}

	return nil
}

// Helper methods

func (r *Repository) list(ctx context.Context, selectBuilder squirrel.SelectBuilder, op string) ([]*domain.TimeTemplate, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %w", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	templates := make([]*domain.TimeTemplate, 0)
	byID := make(map[int64]*domain.TimeTemplate)

	for rows.Next() {
		var t domain.TimeTemplate
		var weekdays pq.StringArray
		var createdAt, updatedAt sql.NullTime

		if err := rows.Scan(&t.ID, &t.StartTime, &t.AppliesEveryDay, &weekdays, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("%w: %s - scan template: %w", ErrScanRow, op, err)
		}
		t.SpecificWeekdays = []string(weekdays)
		t.CreatedAt = createdAt.Time
		t.UpdatedAt = updatedAt.Time
		t.LocationIDs = []int64{}
		t.SubSlots = []domain.SubSlot{}

		templates = append(templates, &t)
		byID[t.ID] = &t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	if len(templates) == 0 {
		return templates, nil
	}

	ids := make([]int64, 0, len(templates))
	for _, t := range templates {
		ids = append(ids, t.ID)
	}

	if err := r.loadLocations(ctx, ids, byID); err != nil {
		return nil, err
	}
	if err := r.loadSubSlots(ctx, ids, byID); err != nil {
		return nil, err
	}

	return templates, nil
}

func (r *Repository) loadLocations(ctx context.Context, ids []int64, byID map[int64]*domain.TimeTemplate) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("template_id", "location_id").
		From(tableLocations).
		Where(squirrel.Eq{"template_id": ids}).
		OrderBy("template_id ASC", "location_id ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadLocations - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadLocations - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var templateID, locationID int64
		if err := rows.Scan(&templateID, &locationID); err != nil {
			return fmt.Errorf("%w: loadLocations - scan row: %w", ErrScanRow, err)
		}
		if t, ok := byID[templateID]; ok {
			t.LocationIDs = append(t.LocationIDs, locationID)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadLocations - rows error: %w", ErrScanRow, err)
	}
	return nil
}

func (r *Repository) loadSubSlots(ctx context.Context, ids []int64, byID map[int64]*domain.TimeTemplate) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "template_id", "ordinal", "label").
		From(tableSubSlots).
		Where(squirrel.Eq{"template_id": ids}).
		OrderBy("template_id ASC", "ordinal ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadSubSlots - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadSubSlots - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var s domain.SubSlot
		var label sql.NullString
		if err := rows.Scan(&s.ID, &s.TemplateID, &s.Ordinal, &label); err != nil {
			return fmt.Errorf("%w: loadSubSlots - scan row: %w", ErrScanRow, err)
		}
		if label.Valid {
			s.Label = &label.String
		}
		if t, ok := byID[s.TemplateID]; ok {
			t.SubSlots = append(t.SubSlots, s)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadSubSlots - rows error: %w", ErrScanRow, err)
	}
	return nil
}

func (r *Repository) insertLocations(ctx context.Context, templateID int64, locationIDs []int64) error {
	if len(locationIDs) == 0 {
		return nil
	}
	executor := dbmetrics.GetExecutor(ctx, r.db)

	insert := psqlbuilder.Insert(tableLocations).Columns("template_id", "location_id")
	for _, id := range locationIDs {
		insert = insert.Values(templateID, id)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertLocations - build insert query: %w", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		if pgerr.IsForeignKeyViolation(err, "") {
			return ErrLocationNotFound
		}
		return fmt.Errorf("%w: insertLocations - execute insert: %w", ErrExecQuery, err)
	}
	return nil
}

// weekdaysValue возвращает значение для колонки specific_weekdays (NULL для "каждый день")
func weekdaysValue(t *domain.TimeTemplate) interface{} {
	if t.AppliesEveryDay || len(t.SpecificWeekdays) == 0 {
		return nil
	}
	return pq.Array(t.SpecificWeekdays)
}

func sortSubSlots(slots []domain.SubSlot) {
	sort.Slice(slots, func(i, j int) bool { return slots[i].Ordinal < slots[j].Ordinal })
}
