package resource

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/courtbook/booking-engine/internal/domain"
	"github.com/courtbook/booking-engine/pkg/dbmetrics"
	"github.com/courtbook/booking-engine/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

var resourceColumns = []string{
	"r.id",
	"r.site_id",
	"s.organisation_id",
	"r.name",
	"r.slug",
	"r.is_active",
	"r.surface",
	"r.is_indoor",
	"r.has_floodlights",
	"r.sort_order",
	"r.created_at",
	"r.updated_at",
}

// Repository репозиторий кортов и площадок (только чтение для ядра:
// CRUD организаций и площадок живет у внешнего коллаборатора)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория кортов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает активный корт по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(resourceColumns...).
		From("resources r").
		Join("sites s ON s.id = r.site_id").
		Where(squirrel.Eq{
			"r.id":        id,
			"r.is_active": true,
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := r.scanResource(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan resource: %v", ErrScanRow, err)
	}

	return res, nil
}

// GetActiveByOrg получает все активные корты организации
// Стабильный порядок (sort_order, id) важен: его использует детерминированное
// разворачивание wildcard-предпочтений
func (r *Repository) GetActiveByOrg(ctx context.Context, orgID int64) ([]*domain.Resource, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(resourceColumns...).
		From("resources r").
		Join("sites s ON s.id = r.site_id").
		Where(squirrel.Eq{
			"s.organisation_id": orgID,
			"r.is_active":       true,
			"s.is_active":       true,
		}).
		OrderBy("r.sort_order ASC, r.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByOrg - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByOrg - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	resources := make([]*domain.Resource, 0)
	for rows.Next() {
		var res domain.Resource
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&res.ID,
			&res.SiteID,
			&res.OrganisationID,
			&res.Name,
			&res.Slug,
			&res.IsActive,
			&res.Surface,
			&res.IsIndoor,
			&res.HasFloodlights,
			&res.SortOrder,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetActiveByOrg - scan row: %v", ErrScanRow, err)
		}

		res.CreatedAt = createdAt.Time
		res.UpdatedAt = updatedAt.Time
		resources = append(resources, &res)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetActiveByOrg - rows error: %v", ErrScanRow, err)
	}

	return resources, nil
}

// GetSiteByID получает площадку по ID (координаты нужны для расчета заката)
func (r *Repository) GetSiteByID(ctx context.Context, id int64) (*domain.Site, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"organisation_id",
		"name",
		"slug",
		"is_active",
		"latitude",
		"longitude",
		"created_at",
		"updated_at",
	).
		From("sites").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetSiteByID - build select query: %v", ErrBuildQuery, err)
	}

	var site domain.Site
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&site.ID,
		&site.OrganisationID,
		&site.Name,
		&site.Slug,
		&site.IsActive,
		&site.Latitude,
		&site.Longitude,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrSiteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetSiteByID - scan site: %v", ErrScanRow, err)
	}

	site.CreatedAt = createdAt.Time
	site.UpdatedAt = updatedAt.Time

	return &site, nil
}

// scanResource сканирует одну строку в корт
func (r *Repository) scanResource(row *sql.Row) (*domain.Resource, error) {
	var res domain.Resource
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&res.ID,
		&res.SiteID,
		&res.OrganisationID,
		&res.Name,
		&res.Slug,
		&res.IsActive,
		&res.Surface,
		&res.IsIndoor,
		&res.HasFloodlights,
		&res.SortOrder,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	res.CreatedAt = createdAt.Time
	res.UpdatedAt = updatedAt.Time

	return &res, nil
}
