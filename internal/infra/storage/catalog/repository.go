package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
	"github.com/m04kA/SMC-GroomingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-GroomingService/pkg/psqlbuilder"
)

// Repository справочники: точки сети и каталог услуг.
// Только чтение - наполняются внешней админкой.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория справочников
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetLocation получает точку по ID
func (r *Repository) GetLocation(ctx context.Context, id int64) (*domain.Location, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name").
		From("locations").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetLocation - build select query: %w", ErrBuildQuery, err)
	}

	var location domain.Location
	err = executor.QueryRowContext(ctx, query, args...).Scan(&location.ID, &location.Name)
	if err == sql.ErrNoRows {
		return nil, ErrLocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetLocation - scan location: %w", ErrScanRow, err)
	}

	return &location, nil
}

// GetServicesByIDs получает услуги каталога по списку ID.
// Отсутствующие ID просто не попадают в результат - проверку делает сервис.
func (r *Repository) GetServicesByIDs(ctx context.Context, ids []int64) (map[int64]domain.CatalogService, error) {
	result := make(map[int64]domain.CatalogService, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "price", "active").
		From("catalog_services").
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetServicesByIDs - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetServicesByIDs - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var s domain.CatalogService
		if err := rows.Scan(&s.ID, &s.Name, &s.Price, &s.Active); err != nil {
			return nil, fmt.Errorf("%w: GetServicesByIDs - scan row: %w", ErrScanRow, err)
		}
		result[s.ID] = s
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetServicesByIDs - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}
