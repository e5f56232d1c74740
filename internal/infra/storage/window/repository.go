package window

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/courtbook/booking-engine/internal/domain"
	"github.com/courtbook/booking-engine/pkg/dbmetrics"
	"github.com/courtbook/booking-engine/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor
type TxExecutor = dbmetrics.TxExecutor

var windowColumns = []string{
	"id",
	"organisation_id",
	"open_at",
	"close_at",
	"target_date",
	"state",
	"attempts",
	"created_at",
	"updated_at",
}

// Repository репозиторий окон аллокации и их результатов
// Переходы состояния выполняются через compare-and-set (WHERE state = from),
// поэтому продублированный планировщик не может запустить аллокацию дважды
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория окон
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое окно в состоянии scheduled
func (r *Repository) Create(ctx context.Context, w *domain.ContentionWindow) (*domain.ContentionWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("contention_windows").
		Columns(
			"organisation_id",
			"open_at",
			"close_at",
			"target_date",
			"state",
		).
		Values(
			w.OrganisationID,
			w.OpenAt,
			w.CloseAt,
			w.TargetDate,
			domain.WindowScheduled,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&w.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	w.State = domain.WindowScheduled
	w.CreatedAt = createdAt.Time
	w.UpdatedAt = updatedAt.Time

	return w, nil
}

// GetByID получает окно по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.ContentionWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(windowColumns...).
		From("contention_windows").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanWindow(executor.QueryRowContext(ctx, query, args...))
}

// GetLatest получает последнее созданное окно организации
func (r *Repository) GetLatest(ctx context.Context, orgID int64) (*domain.ContentionWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(windowColumns...).
		From("contention_windows").
		Where(squirrel.Eq{"organisation_id": orgID}).
		OrderBy("open_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetLatest - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanWindow(executor.QueryRowContext(ctx, query, args...))
}

// GetActive получает текущее нетерминальное окно организации
// (scheduled, open, closed, allocating или failed)
func (r *Repository) GetActive(ctx context.Context, orgID int64) (*domain.ContentionWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(windowColumns...).
		From("contention_windows").
		Where(squirrel.Eq{"organisation_id": orgID}).
		Where(squirrel.NotEq{"state": domain.WindowAllocated}).
		OrderBy("open_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetActive - build select query: %v", ErrBuildQuery, err)
	}

	return r.scanWindow(executor.QueryRowContext(ctx, query, args...))
}

// TransitionState атомарно переводит окно из состояния from в to
// Возвращает ErrStateConflict, если окно уже не в состоянии from
func (r *Repository) TransitionState(ctx context.Context, id int64, from, to domain.WindowState) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("contention_windows").
		Set("state", to).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":    id,
			"state": from,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: TransitionState - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: TransitionState - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: TransitionState - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrStateConflict
	}

	return nil
}

// IncrementAttempts увеличивает счетчик попыток солвера
func (r *Repository) IncrementAttempts(ctx context.Context, id int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("contention_windows").
		Set("attempts", squirrel.Expr("attempts + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING attempts").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: IncrementAttempts - build update query: %v", ErrBuildQuery, err)
	}

	var attempts int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&attempts); err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrWindowNotFound
		}
		return 0, fmt.Errorf("%w: IncrementAttempts - scan attempts: %v", ErrScanRow, err)
	}

	return attempts, nil
}

// SaveSnapshot сохраняет неизменяемый снапшот входных данных окна (JSONB)
// Должен быть записан до перехода closed -> allocating
func (r *Repository) SaveSnapshot(ctx context.Context, id int64, snapshot *domain.WindowSnapshot) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("%w: SaveSnapshot - marshal snapshot: %v", ErrExecQuery, err)
	}

	query, args, err := psqlbuilder.Update("contention_windows").
		Set("snapshot", payload).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SaveSnapshot - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SaveSnapshot - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SaveSnapshot - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrWindowNotFound
	}

	return nil
}

// GetSnapshot читает сохраненный снапшот окна
func (r *Repository) GetSnapshot(ctx context.Context, id int64) (*domain.WindowSnapshot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("snapshot").
		From("contention_windows").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetSnapshot - build select query: %v", ErrBuildQuery, err)
	}

	var payload []byte
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&payload); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrWindowNotFound
		}
		return nil, fmt.Errorf("%w: GetSnapshot - scan snapshot: %v", ErrScanRow, err)
	}

	if len(payload) == 0 {
		return nil, ErrSnapshotNotFound
	}

	var snapshot domain.WindowSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: GetSnapshot - unmarshal snapshot: %v", ErrScanRow, err)
	}

	return &snapshot, nil
}

// SaveAllocations сохраняет результаты аллокации окна
// Вызывается внутри транзакции коммита вместе с CreateBatch бронирований
func (r *Repository) SaveAllocations(ctx context.Context, allocations []*domain.Allocation) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	for _, a := range allocations {
		query, args, err := psqlbuilder.Insert("allocations").
			Columns(
				"window_id",
				"user_id",
				"preference_rank",
				"resource_id",
				"booking_date",
				"start_time",
				"duration_minutes",
				"weight",
				"reservation_id",
			).
			Values(
				a.WindowID,
				a.UserID,
				a.PreferenceRank,
				a.ResourceID,
				a.BookingDate,
				a.StartTime,
				a.DurationMin,
				a.Weight,
				a.ReservationID,
			).
			Suffix("RETURNING id, created_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: SaveAllocations - build insert query: %v", ErrBuildQuery, err)
		}

		var createdAt sql.NullTime
		if err := executor.QueryRowContext(ctx, query, args...).Scan(&a.ID, &createdAt); err != nil {
			return fmt.Errorf("%w: SaveAllocations - execute insert: %v", ErrExecQuery, err)
		}
		a.CreatedAt = createdAt.Time
	}

	return nil
}

// GetAllocationsByWindow получает результаты аллокации окна
func (r *Repository) GetAllocationsByWindow(ctx context.Context, windowID int64) ([]*domain.Allocation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"window_id",
		"user_id",
		"preference_rank",
		"resource_id",
		"booking_date",
		"start_time",
		"duration_minutes",
		"weight",
		"reservation_id",
		"created_at",
	).
		From("allocations").
		Where(squirrel.Eq{"window_id": windowID}).
		OrderBy("user_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetAllocationsByWindow - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAllocationsByWindow - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	allocations := make([]*domain.Allocation, 0)
	for rows.Next() {
		var a domain.Allocation
		var createdAt sql.NullTime

		err := rows.Scan(
			&a.ID,
			&a.WindowID,
			&a.UserID,
			&a.PreferenceRank,
			&a.ResourceID,
			&a.BookingDate,
			&a.StartTime,
			&a.DurationMin,
			&a.Weight,
			&a.ReservationID,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetAllocationsByWindow - scan row: %v", ErrScanRow, err)
		}

		a.CreatedAt = createdAt.Time
		allocations = append(allocations, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAllocationsByWindow - rows error: %v", ErrScanRow, err)
	}

	return allocations, nil
}

// GetRecentAllocations получает результаты последних завершенных окон организации,
// сгруппированные по окнам, от самого свежего к старому
// Используется для вычисления серий неудач (fairness boost)
func (r *Repository) GetRecentAllocations(ctx context.Context, orgID int64, windowCount int) ([][]*domain.Allocation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	// Последние windowCount завершенных окон
	query, args, err := psqlbuilder.Select("id").
		From("contention_windows").
		Where(squirrel.Eq{
			"organisation_id": orgID,
			"state":           domain.WindowAllocated,
		}).
		OrderBy("open_at DESC").
		Limit(uint64(windowCount)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetRecentAllocations - build window query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetRecentAllocations - execute window query: %v", ErrExecQuery, err)
	}

	windowIDs := make([]int64, 0, windowCount)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("%w: GetRecentAllocations - scan window id: %v", ErrScanRow, err)
		}
		windowIDs = append(windowIDs, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetRecentAllocations - rows error: %v", ErrScanRow, err)
	}

	result := make([][]*domain.Allocation, 0, len(windowIDs))
	for _, id := range windowIDs {
		allocations, err := r.GetAllocationsByWindow(ctx, id)
		if err != nil {
			return nil, err
		}
		result = append(result, allocations)
	}

	return result, nil
}

// scanWindow сканирует одну строку в окно
func (r *Repository) scanWindow(row *sql.Row) (*domain.ContentionWindow, error) {
	var w domain.ContentionWindow
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&w.ID,
		&w.OrganisationID,
		&w.OpenAt,
		&w.CloseAt,
		&w.TargetDate,
		&w.State,
		&w.Attempts,
		&createdAt,
		&updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrWindowNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scanWindow - scan window: %v", ErrScanRow, err)
	}

	w.CreatedAt = createdAt.Time
	w.UpdatedAt = updatedAt.Time

	return &w, nil
}
