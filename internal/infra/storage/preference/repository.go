package preference

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/courtbook/booking-engine/internal/domain"
	"github.com/courtbook/booking-engine/pkg/dbmetrics"
	"github.com/courtbook/booking-engine/pkg/psqlbuilder"
)

var preferenceColumns = []string{
	"id",
	"user_id",
	"organisation_id",
	"priority",
	"site_id",
	"resource_id",
	"day_of_week",
	"start_time",
	"duration_minutes",
	"created_at",
	"updated_at",
}

// Repository репозиторий списков предпочтений для окна аллокации
// Список принадлежит участнику и заменяется целиком (last write wins до дедлайна)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория предпочтений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// ReplaceForUser целиком заменяет список предпочтений участника
// Частичное редактирование не поддерживается - delete + insert в одной транзакции
func (r *Repository) ReplaceForUser(ctx context.Context, userID, orgID int64, entries []*domain.PreferenceEntry) error {
	if !dbmetrics.IsInTransaction(ctx) {
		return fmt.Errorf("%w: ReplaceForUser must run in a transaction", ErrTransaction)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("preferences").
		Where(squirrel.Eq{
			"user_id":         userID,
			"organisation_id": orgID,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceForUser - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceForUser - execute delete: %v", ErrExecQuery, err)
	}

	// Приоритеты перенумеровываются по порядку следования записей
	for i, entry := range entries {
		query, args, err := psqlbuilder.Insert("preferences").
			Columns(
				"user_id",
				"organisation_id",
				"priority",
				"site_id",
				"resource_id",
				"day_of_week",
				"start_time",
				"duration_minutes",
			).
			Values(
				userID,
				orgID,
				i+1,
				entry.SiteID,
				entry.ResourceID,
				entry.DayOfWeek,
				entry.StartTime,
				entry.DurationMinutes,
			).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: ReplaceForUser - build insert query: %v", ErrBuildQuery, err)
		}

		if err := executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID); err != nil {
			return fmt.Errorf("%w: ReplaceForUser - execute insert: %v", ErrExecQuery, err)
		}

		entry.UserID = userID
		entry.OrganisationID = orgID
		entry.Priority = i + 1
	}

	return nil
}

// GetByUser получает список предпочтений участника по возрастанию приоритета
func (r *Repository) GetByUser(ctx context.Context, userID, orgID int64) ([]*domain.PreferenceEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(preferenceColumns...).
		From("preferences").
		Where(squirrel.Eq{
			"user_id":         userID,
			"organisation_id": orgID,
		}).
		OrderBy("priority ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUser - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanEntries(rows)
}

// GetAllByOrg получает предпочтения всех участников организации
// Используется при снятии снапшота окна: порядок (user_id, priority) стабилен
func (r *Repository) GetAllByOrg(ctx context.Context, orgID int64) ([]*domain.PreferenceEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(preferenceColumns...).
		From("preferences").
		Where(squirrel.Eq{"organisation_id": orgID}).
		OrderBy("user_id ASC, priority ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetAllByOrg - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAllByOrg - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return r.scanEntries(rows)
}

// DeleteForUser удаляет список предпочтений участника
func (r *Repository) DeleteForUser(ctx context.Context, userID, orgID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("preferences").
		Where(squirrel.Eq{
			"user_id":         userID,
			"organisation_id": orgID,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: DeleteForUser - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: DeleteForUser - execute delete: %v", ErrExecQuery, err)
	}

	return nil
}

// scanEntries сканирует результаты запроса в слайс предпочтений
func (r *Repository) scanEntries(rows *sql.Rows) ([]*domain.PreferenceEntry, error) {
	entries := make([]*domain.PreferenceEntry, 0)

	for rows.Next() {
		var entry domain.PreferenceEntry
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.OrganisationID,
			&entry.Priority,
			&entry.SiteID,
			&entry.ResourceID,
			&entry.DayOfWeek,
			&entry.StartTime,
			&entry.DurationMinutes,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanEntries - scan row: %v", ErrScanRow, err)
		}

		entry.CreatedAt = createdAt.Time
		entry.UpdatedAt = updatedAt.Time

		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanEntries - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}
